// Package translate talks to a LibreTranslate compatible endpoint.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
)

const DefaultURL = "https://libretranslate.com/translate"

var ErrUnsupportedLanguage = errors.New("unsupported language")

// Translator turns canonical (English) text into target.
type Translator interface {
	Translate(ctx context.Context, text string, target i18n.Language) (string, error)
}

type LibreTranslate struct {
	client *resty.Client
	url    string
	apiKey string
}

type Option func(*LibreTranslate)

func WithAPIKey(k string) Option { return func(l *LibreTranslate) { l.apiKey = k } }

func WithTimeout(d time.Duration) Option {
	return func(l *LibreTranslate) {
		if d > 0 {
			l.client.SetTimeout(d)
		}
	}
}

func NewLibreTranslate(url string, opts ...Option) *LibreTranslate {
	if url == "" {
		url = DefaultURL
	}
	l := &LibreTranslate{
		client: resty.New().
			SetTimeout(15*time.Second).
			SetHeader("Content-Type", "application/json"),
		url: url,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

func (l *LibreTranslate) Translate(ctx context.Context, text string, target i18n.Language) (string, error) {
	if !target.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, target)
	}
	if target == i18n.Canonical || strings.TrimSpace(text) == "" {
		return text, nil
	}

	var out response
	resp, err := l.client.R().
		SetContext(ctx).
		SetBody(request{Q: text, Source: string(i18n.Canonical), Target: string(target), Format: "text", APIKey: l.apiKey}).
		SetResult(&out).
		SetError(&out).
		Post(l.url)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if resp.IsError() {
		msg := out.Error
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("translate: upstream %d: %s", resp.StatusCode(), msg)
	}
	if out.TranslatedText == "" {
		return "", errors.New("translate: empty translation")
	}
	return out.TranslatedText, nil
}

// Package playerclient talks to the public player API.
package playerclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/scoring"
)

type Client struct {
	rc *resty.Client
}

func New(baseURL string) *Client {
	return &Client{rc: resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")}
}

type apiError struct {
	Error string `json:"error"`
}

func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		return quiz.ErrQuizNotFound
	case http.StatusUnprocessableEntity:
		return quiz.ErrNoQuestions
	}
	msg := resp.Status()
	if e, ok := resp.Error().(*apiError); ok && e.Error != "" {
		msg = e.Error
	}
	return fmt.Errorf("%s: %s", op, msg)
}

// Play fetches quiz id resolved into lang.
func (c *Client) Play(ctx context.Context, id int64, lang i18n.Language) (quiz.Content, error) {
	var out quiz.Content
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("lang", string(lang)).
		SetResult(&out).
		SetError(&apiError{}).
		Get("/api/play/" + strconv.FormatInt(id, 10))
	return out, check(resp, err, "play quiz")
}

// Score asks the server to grade answers. The terminal player scores locally;
// this is for clients that do not hold the answer key.
func (c *Client) Score(ctx context.Context, id int64, answers scoring.Answers) (scoring.Result, error) {
	var out scoring.Result
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(map[string]scoring.Answers{"answers": answers}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/api/play/" + strconv.FormatInt(id, 10) + "/score")
	return out, check(resp, err, "score quiz")
}

func (c *Client) UI(ctx context.Context, lang i18n.Language) (i18n.UIStrings, error) {
	var out struct {
		Strings i18n.UIStrings `json:"strings"`
	}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiError{}).
		Get("/api/ui/" + url.PathEscape(string(lang)))
	return out.Strings, check(resp, err, "ui strings")
}

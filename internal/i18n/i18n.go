// Package i18n resolves translatable quiz text. Every translatable field has a
// canonical (English) value stored on the record and zero or more
// per-language variants stored next to it.
package i18n

import (
	"errors"
	"strings"
)

type Language string

const (
	English Language = "en"
	French  Language = "fr"
	German  Language = "de"
)

// Canonical is the language the canonical field values are authored in.
const Canonical = English

var ErrUnknownLanguage = errors.New("unknown language")

// Supported lists the languages the player and the authoring tool know about,
// canonical first.
func Supported() []Language { return []Language{English, French, German} }

// Translated lists the non-canonical languages.
func Translated() []Language { return []Language{French, German} }

func (l Language) Valid() bool {
	switch l {
	case English, French, German:
		return true
	}
	return false
}

// ParseLanguage normalises "DE", " de-AT " and friends. An empty string
// resolves to the canonical language.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Canonical, nil
	}
	if i := strings.IndexAny(s, "-_"); i > 0 {
		s = s[:i]
	}
	l := Language(s)
	if !l.Valid() {
		return "", ErrUnknownLanguage
	}
	return l, nil
}

// OrCanonical is ParseLanguage without the error: unknown codes fall back.
func OrCanonical(s string) Language {
	l, err := ParseLanguage(s)
	if err != nil {
		return Canonical
	}
	return l
}

type Field string

const (
	FieldTitle        Field = "title"
	FieldDescription  Field = "description"
	FieldIntroText    Field = "intro_text"
	FieldSummaryText  Field = "summary_text"
	FieldTipsText     Field = "tips_text"
	FieldQuestionText Field = "question_text"
	FieldExplanation  Field = "explanation"
	FieldTierName     Field = "tier_name"
	FieldMessage      Field = "message"
)

var (
	QuizFields     = []Field{FieldTitle, FieldDescription, FieldIntroText, FieldSummaryText, FieldTipsText}
	QuestionFields = []Field{FieldQuestionText, FieldExplanation}
	TierFields     = []Field{FieldTierName, FieldMessage}
)

// SuffixedKey is the flat key a variant travels under in legacy payloads,
// e.g. "title_de".
func SuffixedKey(f Field, l Language) string { return string(f) + "_" + string(l) }

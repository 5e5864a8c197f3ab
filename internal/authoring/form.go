// Package authoring holds the editor-side model of a quiz: one LanguageData
// record per language, saved as a single transactional batch and optionally
// pre-filled by machine translation.
package authoring

import (
	"errors"
	"fmt"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
)

var ErrLastQuestion = errors.New("a quiz needs at least one question")

type QuestionData struct {
	ID            int64       `json:"id,omitempty"`
	ImageURL      string      `json:"image_url"`
	QuestionText  string      `json:"question_text"`
	CorrectAnswer quiz.Answer `json:"correct_answer"`
	Explanation   string      `json:"explanation"`
}

type TierData struct {
	ID            int64  `json:"id,omitempty"`
	TierName      string `json:"tier_name"`
	MinPercentage int    `json:"min_percentage"`
	MaxPercentage int    `json:"max_percentage"`
	Message       string `json:"message"`
}

// LanguageData is everything an editor types for one language. For the
// translated languages only the text fields are saved; image, answer and
// percentage bands always come from the canonical language.
type LanguageData struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	IntroText   string         `json:"intro_text"`
	SummaryText string         `json:"summary_text"`
	TipsText    string         `json:"tips_text"`
	Questions   []QuestionData `json:"questions"`
	ResultTiers []TierData     `json:"result_tiers"`
}

func (d LanguageData) clone() LanguageData {
	out := d
	out.Questions = append([]QuestionData(nil), d.Questions...)
	out.ResultTiers = append([]TierData(nil), d.ResultTiers...)
	return out
}

// Form is the editor state of one quiz. Language is the language of the quiz
// row itself; a language version keeps its own, and empty keeps whatever is
// stored.
type Form struct {
	Status       quiz.Status                     `json:"status"`
	TemplateType quiz.TemplateType               `json:"template_type"`
	Language     i18n.Language                   `json:"language,omitempty"`
	Languages    map[i18n.Language]*LanguageData `json:"languages"`
}

func DefaultQuestions() []QuestionData {
	return []QuestionData{
		{CorrectAnswer: quiz.AnswerScam},
		{CorrectAnswer: quiz.AnswerScam},
		{CorrectAnswer: quiz.AnswerScam},
	}
}

func DefaultTiers() []TierData {
	return []TierData{
		{TierName: "Novice", MinPercentage: 0, MaxPercentage: 33},
		{TierName: "Competent", MinPercentage: 34, MaxPercentage: 66},
		{TierName: "Expert", MinPercentage: 67, MaxPercentage: 100},
	}
}

// NewForm is the blank form a new quiz starts from.
func NewForm() *Form {
	f := &Form{
		Status:       quiz.StatusDraft,
		TemplateType: quiz.TemplateScamDetector,
		Languages:    map[i18n.Language]*LanguageData{},
	}
	f.Languages[i18n.Canonical] = &LanguageData{Questions: DefaultQuestions(), ResultTiers: DefaultTiers()}
	for _, l := range i18n.Translated() {
		f.Languages[l] = &LanguageData{}
	}
	return f
}

// FormFromContent loads a stored quiz for editing.
func FormFromContent(c quiz.Content) *Form {
	f := &Form{
		Status:       c.Status,
		TemplateType: c.TemplateType,
		Language:     c.Language,
		Languages:    map[i18n.Language]*LanguageData{},
	}
	for _, l := range i18n.Supported() {
		get := func(canonical string, v i18n.Variants, field i18n.Field) string {
			if l == i18n.Canonical {
				return canonical
			}
			return v.Get(l, field)
		}
		d := &LanguageData{
			Title:       get(c.Title, c.Translations, i18n.FieldTitle),
			Description: get(c.Description, c.Translations, i18n.FieldDescription),
			IntroText:   get(c.IntroText, c.Translations, i18n.FieldIntroText),
			SummaryText: get(c.SummaryText, c.Translations, i18n.FieldSummaryText),
			TipsText:    get(c.TipsText, c.Translations, i18n.FieldTipsText),
			Questions:   make([]QuestionData, 0, len(c.Questions)),
			ResultTiers: make([]TierData, 0, len(c.ResultTiers)),
		}
		for _, q := range c.Questions {
			d.Questions = append(d.Questions, QuestionData{
				ID:            q.ID,
				ImageURL:      q.ImageURL,
				QuestionText:  get(q.QuestionText, q.Translations, i18n.FieldQuestionText),
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   get(q.Explanation, q.Translations, i18n.FieldExplanation),
			})
		}
		for _, t := range c.ResultTiers {
			d.ResultTiers = append(d.ResultTiers, TierData{
				ID:            t.ID,
				TierName:      get(t.TierName, t.Translations, i18n.FieldTierName),
				MinPercentage: t.MinPercentage,
				MaxPercentage: t.MaxPercentage,
				Message:       get(t.Message, t.Translations, i18n.FieldMessage),
			})
		}
		f.Languages[l] = d
	}
	return f
}

// Get returns a copy of the data for l; unknown languages yield the zero value.
func (f *Form) Get(l i18n.Language) LanguageData {
	if d, ok := f.Languages[l]; ok && d != nil {
		return d.clone()
	}
	return LanguageData{}
}

func (f *Form) Set(l i18n.Language, d LanguageData) error {
	if !l.Valid() {
		return fmt.Errorf("%w: %q", i18n.ErrUnknownLanguage, l)
	}
	if f.Languages == nil {
		f.Languages = map[i18n.Language]*LanguageData{}
	}
	c := d.clone()
	f.Languages[l] = &c
	return nil
}

func (f *Form) canonical() *LanguageData {
	if f.Languages == nil {
		f.Languages = map[i18n.Language]*LanguageData{}
	}
	d, ok := f.Languages[i18n.Canonical]
	if !ok || d == nil {
		d = &LanguageData{}
		f.Languages[i18n.Canonical] = d
	}
	return d
}

// AddQuestion appends an empty question to the canonical language.
func (f *Form) AddQuestion() {
	d := f.canonical()
	d.Questions = append(d.Questions, QuestionData{CorrectAnswer: quiz.AnswerScam})
}

// RemoveQuestion drops question i from every language. The last remaining
// question cannot be removed.
func (f *Form) RemoveQuestion(i int) error {
	d := f.canonical()
	if i < 0 || i >= len(d.Questions) {
		return fmt.Errorf("question %d out of range", i)
	}
	if len(d.Questions) <= 1 {
		return ErrLastQuestion
	}
	for _, ld := range f.Languages {
		if ld != nil && i < len(ld.Questions) {
			ld.Questions = append(ld.Questions[:i:i], ld.Questions[i+1:]...)
		}
	}
	return nil
}

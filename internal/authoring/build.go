package authoring

import (
	"errors"
	"fmt"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
)

// Draft is a Form flattened into store inputs: canonical values from the
// canonical language, variants from the others matched by position.
type Draft struct {
	Quiz        quiz.QuizInput
	Questions   []quiz.QuestionInput
	ResultTiers []quiz.ResultTierInput
}

func (f *Form) Draft(quizID int64) Draft {
	en := f.canonical()
	d := Draft{
		Quiz: quiz.QuizInput{
			Title:        en.Title,
			Description:  en.Description,
			IntroText:    en.IntroText,
			SummaryText:  en.SummaryText,
			TipsText:     en.TipsText,
			TemplateType: f.TemplateType,
			Status:       f.Status,
			Language:     f.Language,
			Translations: i18n.Variants{},
		},
	}
	for _, l := range i18n.Translated() {
		ld := f.Languages[l]
		if ld == nil {
			continue
		}
		d.Quiz.Translations.Set(l, i18n.FieldTitle, ld.Title)
		d.Quiz.Translations.Set(l, i18n.FieldDescription, ld.Description)
		d.Quiz.Translations.Set(l, i18n.FieldIntroText, ld.IntroText)
		d.Quiz.Translations.Set(l, i18n.FieldSummaryText, ld.SummaryText)
		d.Quiz.Translations.Set(l, i18n.FieldTipsText, ld.TipsText)
	}

	for i, q := range en.Questions {
		in := quiz.QuestionInput{
			QuizID:        quizID,
			OrderIndex:    i,
			ImageURL:      q.ImageURL,
			QuestionText:  q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Translations:  i18n.Variants{},
		}
		for _, l := range i18n.Translated() {
			if ld := f.Languages[l]; ld != nil && i < len(ld.Questions) {
				in.Translations.Set(l, i18n.FieldQuestionText, ld.Questions[i].QuestionText)
				in.Translations.Set(l, i18n.FieldExplanation, ld.Questions[i].Explanation)
			}
		}
		d.Questions = append(d.Questions, in)
	}

	for i, t := range en.ResultTiers {
		in := quiz.ResultTierInput{
			QuizID:        quizID,
			TierName:      t.TierName,
			MinPercentage: t.MinPercentage,
			MaxPercentage: t.MaxPercentage,
			Message:       t.Message,
			OrderIndex:    i,
			Translations:  i18n.Variants{},
		}
		for _, l := range i18n.Translated() {
			if ld := f.Languages[l]; ld != nil && i < len(ld.ResultTiers) {
				in.Translations.Set(l, i18n.FieldTierName, ld.ResultTiers[i].TierName)
				in.Translations.Set(l, i18n.FieldMessage, ld.ResultTiers[i].Message)
			}
		}
		d.ResultTiers = append(d.ResultTiers, in)
	}
	return d
}

// Validate checks every input of the draft and reports all problems at once.
func (d Draft) Validate() error {
	var errs []error
	q := d.Quiz
	q.Normalize()
	if err := q.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("quiz: %w", err))
	}
	if q.Status == quiz.StatusPublished && len(d.Questions) == 0 {
		errs = append(errs, fmt.Errorf("quiz: %w: a published quiz needs at least one question", quiz.ErrInvalid))
	}
	for i, in := range d.Questions {
		if err := in.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("question %d: %w", i+1, err))
		}
	}
	for i, in := range d.ResultTiers {
		if err := in.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("result tier %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

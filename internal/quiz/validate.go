package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type QuizInput struct {
	Title        string        `json:"title" validate:"required,max=300"`
	Description  string        `json:"description" validate:"max=5000"`
	IntroText    string        `json:"intro_text" validate:"max=5000"`
	SummaryText  string        `json:"summary_text" validate:"max=5000"`
	TipsText     string        `json:"tips_text" validate:"max=5000"`
	TemplateType TemplateType  `json:"template_type" validate:"omitempty,oneof=scam-detector custom"`
	Status       Status        `json:"status" validate:"omitempty,oneof=draft published"`
	Language     i18n.Language `json:"language" validate:"omitempty,oneof=en fr de"`
	ParentQuizID *int64        `json:"parent_quiz_id" validate:"omitempty,gt=0"`
	Translations i18n.Variants `json:"translations"`
}

type QuestionInput struct {
	QuizID        int64         `json:"quiz_id" validate:"gt=0"`
	OrderIndex    int           `json:"order_index" validate:"gte=0"`
	ImageURL      string        `json:"image_url" validate:"max=2048"`
	QuestionText  string        `json:"question_text" validate:"required"`
	CorrectAnswer Answer        `json:"correct_answer" validate:"required,oneof=scam not-scam"`
	Explanation   string        `json:"explanation"`
	Translations  i18n.Variants `json:"translations"`
}

type ResultTierInput struct {
	QuizID        int64         `json:"quiz_id" validate:"gt=0"`
	TierName      string        `json:"tier_name" validate:"required,max=200"`
	MinPercentage int           `json:"min_percentage" validate:"gte=0,lte=100"`
	MaxPercentage int           `json:"max_percentage" validate:"gte=0,lte=100,gtefield=MinPercentage"`
	Message       string        `json:"message"`
	OrderIndex    int           `json:"order_index" validate:"gte=0"`
	Translations  i18n.Variants `json:"translations"`
}

// Normalize fills defaults the database would otherwise pick.
func (in *QuizInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	if in.TemplateType == "" {
		in.TemplateType = TemplateScamDetector
	}
	if in.Status == "" {
		in.Status = StatusDraft
	}
	if in.Language == "" {
		in.Language = i18n.Canonical
	}
	if in.Translations == nil {
		in.Translations = i18n.Variants{}
	}
}

func (in QuizInput) Validate() error {
	if err := check(in); err != nil {
		return err
	}
	return checkVariants(in.Translations, i18n.QuizFields)
}

func (in QuestionInput) Validate() error {
	if err := check(in); err != nil {
		return err
	}
	return checkVariants(in.Translations, i18n.QuestionFields)
}

func (in ResultTierInput) Validate() error {
	if err := check(in); err != nil {
		return err
	}
	return checkVariants(in.Translations, i18n.TierFields)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func checkVariants(v i18n.Variants, allowed []i18n.Field) error {
	for l, fields := range v {
		if !l.Valid() || l == i18n.Canonical {
			return fmt.Errorf("%w: translations: unsupported language %q", ErrInvalid, l)
		}
		for f := range fields {
			if !containsField(allowed, f) {
				return fmt.Errorf("%w: translations: field %q is not translatable here", ErrInvalid, f)
			}
		}
	}
	return nil
}

func containsField(fs []i18n.Field, f i18n.Field) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}

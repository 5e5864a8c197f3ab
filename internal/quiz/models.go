package quiz

import "github.com/quiz-tool/quiz-tool/internal/i18n"

type Answer string

const (
	AnswerScam    Answer = "scam"
	AnswerNotScam Answer = "not-scam"
)

func (a Answer) Valid() bool { return a == AnswerScam || a == AnswerNotScam }

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

type TemplateType string

const (
	TemplateScamDetector TemplateType = "scam-detector"
	TemplateCustom       TemplateType = "custom"
)

type Quiz struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	IntroText    string        `json:"intro_text,omitempty"`
	SummaryText  string        `json:"summary_text,omitempty"`
	TipsText     string        `json:"tips_text,omitempty"`
	TemplateType TemplateType  `json:"template_type"`
	Status       Status        `json:"status"`
	Language     i18n.Language `json:"language"`
	ParentQuizID *int64        `json:"parent_quiz_id,omitempty"`
	Translations i18n.Variants `json:"translations,omitempty"`
	CreatedAt    int64         `json:"created_at"`
	UpdatedAt    int64         `json:"updated_at"`
}

type Question struct {
	ID            int64         `json:"id"`
	QuizID        int64         `json:"quiz_id"`
	OrderIndex    int           `json:"order_index"`
	ImageURL      string        `json:"image_url,omitempty"`
	QuestionText  string        `json:"question_text"`
	CorrectAnswer Answer        `json:"correct_answer"`
	Explanation   string        `json:"explanation,omitempty"`
	Translations  i18n.Variants `json:"translations,omitempty"`
}

// ResultTier maps the inclusive percentage band [MinPercentage, MaxPercentage]
// to a feedback message.
type ResultTier struct {
	ID            int64         `json:"id"`
	QuizID        int64         `json:"quiz_id"`
	TierName      string        `json:"tier_name"`
	MinPercentage int           `json:"min_percentage"`
	MaxPercentage int           `json:"max_percentage"`
	Message       string        `json:"message"`
	OrderIndex    int           `json:"order_index"`
	Translations  i18n.Variants `json:"translations,omitempty"`
}

func (t ResultTier) Contains(pct int) bool {
	return pct >= t.MinPercentage && pct <= t.MaxPercentage
}

// Content is a quiz with its questions and tiers, both in order-index order.
type Content struct {
	Quiz
	Questions   []Question   `json:"questions"`
	ResultTiers []ResultTier `json:"result_tiers"`
}

type QuizSummary struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Status       Status        `json:"status"`
	Language     i18n.Language `json:"language"`
	TemplateType TemplateType  `json:"template_type"`
	UpdatedAt    int64         `json:"updated_at"`
}

type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}

package quiz

import (
	"context"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
)

// Writer is the set of mutations that can run inside one transaction.
type Writer interface {
	CreateQuiz(ctx context.Context, in QuizInput) (Quiz, error)
	UpdateQuiz(ctx context.Context, id int64, in QuizInput) (Quiz, error)
	CreateQuestion(ctx context.Context, in QuestionInput) (Question, error)
	DeleteQuestions(ctx context.Context, quizID int64) (int64, error)
	CreateResultTier(ctx context.Context, in ResultTierInput) (ResultTier, error)
	DeleteResultTiers(ctx context.Context, quizID int64) (int64, error)
	RecordEvent(ctx context.Context, typ string, quizID int64, data any) error
}

type Store interface {
	Writer

	ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error)
	ListLanguageVersions(ctx context.Context, parentID int64) ([]QuizSummary, error)
	GetQuiz(ctx context.Context, id int64) (Content, error)
	DeleteQuiz(ctx context.Context, id int64) error

	// GetPlayable returns a published quiz resolved into lang. A published
	// counterpart authored in lang wins over per-field variants of id.
	GetPlayable(ctx context.Context, id int64, lang i18n.Language) (Content, error)

	// InTx runs fn against a Writer bound to one transaction; any error
	// rolls back every write fn made.
	InTx(ctx context.Context, fn func(Writer) error) error

	ImageURLs(ctx context.Context) ([]string, error)
}

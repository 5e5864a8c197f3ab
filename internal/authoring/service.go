package authoring

import (
	"context"
	"fmt"
	"log"

	"github.com/quiz-tool/quiz-tool/internal/quiz"
	syncx "github.com/quiz-tool/quiz-tool/internal/sync"
	"github.com/quiz-tool/quiz-tool/internal/translate"
)

// Task is one write of a save batch.
type Task struct {
	Name string
	Run  func(ctx context.Context, w quiz.Writer) error
}

// BatchError reports the task that stopped a batch. Every write made before
// it was rolled back.
type BatchError struct {
	Task  string
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("save aborted at %s (step %d): %v", e.Task, e.Index+1, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

type Service struct {
	store       quiz.Store
	translator  translate.Translator
	concurrency int
}

type Option func(*Service)

// WithConcurrency bounds the number of translation calls in flight.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func NewService(store quiz.Store, tr translate.Translator, opts ...Option) *Service {
	s := &Service{store: store, translator: tr, concurrency: 4}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Plan lists the writes that replace quiz quizID with the draft, in order:
// quiz fields, clear questions, clear tiers, then every question and tier.
func Plan(quizID int64, d Draft) []Task {
	tasks := []Task{
		{Name: "update quiz", Run: func(ctx context.Context, w quiz.Writer) error {
			_, err := w.UpdateQuiz(ctx, quizID, d.Quiz)
			return err
		}},
		{Name: "delete questions", Run: func(ctx context.Context, w quiz.Writer) error {
			_, err := w.DeleteQuestions(ctx, quizID)
			return err
		}},
		{Name: "delete result tiers", Run: func(ctx context.Context, w quiz.Writer) error {
			_, err := w.DeleteResultTiers(ctx, quizID)
			return err
		}},
	}
	return append(tasks, contentTasks(d)...)
}

func contentTasks(d Draft) []Task {
	var tasks []Task
	for i, in := range d.Questions {
		in := in
		tasks = append(tasks, Task{Name: fmt.Sprintf("create question %d", i+1), Run: func(ctx context.Context, w quiz.Writer) error {
			_, err := w.CreateQuestion(ctx, in)
			return err
		}})
	}
	for i, in := range d.ResultTiers {
		in := in
		tasks = append(tasks, Task{Name: fmt.Sprintf("create result tier %d", i+1), Run: func(ctx context.Context, w quiz.Writer) error {
			_, err := w.CreateResultTier(ctx, in)
			return err
		}})
	}
	return tasks
}

// Run executes tasks in order inside one transaction.
func Run(ctx context.Context, store quiz.Store, tasks []Task, after func(quiz.Writer) error) error {
	return store.InTx(ctx, func(w quiz.Writer) error {
		for i, t := range tasks {
			if err := t.Run(ctx, w); err != nil {
				return &BatchError{Task: t.Name, Index: i, Err: err}
			}
		}
		if after != nil {
			return after(w)
		}
		return nil
	})
}

// Save replaces the stored content of quizID with the form. Either every
// write lands or none does.
func (s *Service) Save(ctx context.Context, quizID int64, f *Form) (quiz.Content, error) {
	d := f.Draft(quizID)
	if err := d.Validate(); err != nil {
		return quiz.Content{}, err
	}
	tasks := Plan(quizID, d)
	err := Run(ctx, s.store, tasks, func(w quiz.Writer) error {
		return w.RecordEvent(ctx, syncx.TypeQuizContentReplaced, quizID, map[string]int{
			"questions":    len(d.Questions),
			"result_tiers": len(d.ResultTiers),
		})
	})
	if err != nil {
		log.Printf("authoring: save quiz %d: %v", quizID, err)
		return quiz.Content{}, err
	}
	return s.store.GetQuiz(ctx, quizID)
}

// Create stores a new quiz from the form in one transaction.
func (s *Service) Create(ctx context.Context, f *Form) (quiz.Content, error) {
	var id int64
	err := s.store.InTx(ctx, func(w quiz.Writer) error {
		d := f.Draft(0)
		qz, err := w.CreateQuiz(ctx, d.Quiz)
		if err != nil {
			return &BatchError{Task: "create quiz", Index: 0, Err: err}
		}
		id = qz.ID
		d = f.Draft(id)
		if err := d.Validate(); err != nil {
			return err
		}
		for i, t := range contentTasks(d) {
			if err := t.Run(ctx, w); err != nil {
				return &BatchError{Task: t.Name, Index: i + 1, Err: err}
			}
		}
		return w.RecordEvent(ctx, syncx.TypeQuizContentReplaced, id, map[string]int{
			"questions":    len(d.Questions),
			"result_tiers": len(d.ResultTiers),
		})
	})
	if err != nil {
		return quiz.Content{}, err
	}
	return s.store.GetQuiz(ctx, id)
}

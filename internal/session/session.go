// Package session runs one player's pass through a quiz:
//
//	intro --Start--> question(awaiting) --Answer--> question(answered)
//	question(answered) --Continue--> question(awaiting) | result
//	any --Restart--> intro
//
// A Session is owned by a single player and is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"

	"github.com/quiz-tool/quiz-tool/internal/quiz"
	"github.com/quiz-tool/quiz-tool/internal/scoring"
)

type State string

const (
	StateIntro    State = "intro"
	StateQuestion State = "question"
	StateResult   State = "result"
)

type Phase string

const (
	PhaseAwaiting Phase = "awaiting"
	PhaseAnswered Phase = "answered"
)

var ErrInvalidTransition = errors.New("session: invalid transition")

type Session struct {
	content quiz.Content
	state   State
	phase   Phase
	cursor  int
	answers scoring.Answers
	result  *scoring.Result
}

// New prepares a session in the intro state. Quizzes without questions
// cannot be played.
func New(c quiz.Content) (*Session, error) {
	if len(c.Questions) == 0 {
		return nil, quiz.ErrNoQuestions
	}
	return &Session{content: c, state: StateIntro, answers: scoring.Answers{}}, nil
}

func (s *Session) Quiz() quiz.Content { return s.content }
func (s *Session) State() State { return s.state }
func (s *Session) Cursor() int { return s.cursor }

// Phase is only meaningful in StateQuestion.
func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Start() error {
	if s.state != StateIntro {
		return s.invalid("start")
	}
	s.reset()
	s.state = StateQuestion
	s.phase = PhaseAwaiting
	return nil
}

// Answer records a for the current question, replacing any earlier answer,
// and reveals the explanation.
func (s *Session) Answer(a quiz.Answer) error {
	if s.state != StateQuestion {
		return s.invalid("answer")
	}
	s.answers[s.content.Questions[s.cursor].ID] = a
	s.phase = PhaseAnswered
	return nil
}

// Continue moves past an answered question. After the last question the
// result is computed once and the session enters StateResult.
func (s *Session) Continue() error {
	if s.state != StateQuestion || s.phase != PhaseAnswered {
		return s.invalid("continue")
	}
	if s.cursor < len(s.content.Questions)-1 {
		s.cursor++
		s.phase = PhaseAwaiting
		return nil
	}
	res, err := scoring.Score(s.content.Questions, s.content.ResultTiers, s.answers)
	if err != nil {
		return err
	}
	s.result = &res
	s.state = StateResult
	s.phase = ""
	return nil
}

// Restart returns to the intro screen from any state with no answers kept.
func (s *Session) Restart() {
	s.reset()
	s.state = StateIntro
	s.phase = ""
}

func (s *Session) reset() {
	s.cursor = 0
	s.answers = scoring.Answers{}
	s.result = nil
}

// Current returns the question under the cursor while a question is shown.
func (s *Session) Current() (quiz.Question, bool) {
	if s.state != StateQuestion {
		return quiz.Question{}, false
	}
	return s.content.Questions[s.cursor], true
}

// CurrentCorrect reports whether the answer given to the current question
// was right. ok is false until the question has been answered.
func (s *Session) CurrentCorrect() (correct, ok bool) {
	q, shown := s.Current()
	if !shown || s.phase != PhaseAnswered {
		return false, false
	}
	return scoring.IsCorrect(q, s.answers), true
}

func (s *Session) Answers() scoring.Answers {
	out := make(scoring.Answers, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Result is available once the session reached StateResult.
func (s *Session) Result() (scoring.Result, bool) {
	if s.state != StateResult || s.result == nil {
		return scoring.Result{}, false
	}
	return *s.result, true
}

type Progress struct {
	Position int `json:"position"` // 1-based
	Total    int `json:"total"`
	Percent  int `json:"percent"`
}

func (s *Session) Progress() Progress {
	total := len(s.content.Questions)
	p := Progress{Total: total}
	switch s.state {
	case StateQuestion:
		p.Position = s.cursor + 1
	case StateResult:
		p.Position = total
	}
	p.Percent = scoring.Percentage(p.Position, total)
	return p
}

func (s *Session) invalid(action string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, action, s.state)
}

// Package scoring turns a finished set of answers into a percentage and the
// result tier that percentage falls into. Everything here is pure and can be
// recomputed from (questions, answers) at any time.
package scoring

import (
	"errors"

	"github.com/quiz-tool/quiz-tool/internal/quiz"
)

var ErrNoQuestions = errors.New("scoring: quiz has no questions")

type Result struct {
	CorrectCount int              `json:"correct_count"`
	Total        int              `json:"total"`
	Percentage   int              `json:"percentage"`
	Tier         *quiz.ResultTier `json:"tier,omitempty"`
}

// Answers maps question id to the answer the player gave.
type Answers map[int64]quiz.Answer

// IsCorrect reports whether the recorded answer for q matches exactly.
// A missing answer is incorrect.
func IsCorrect(q quiz.Question, answers Answers) bool {
	a, ok := answers[q.ID]
	return ok && a == q.CorrectAnswer
}

// Score counts correct answers over questions and resolves the tier.
func Score(questions []quiz.Question, tiers []quiz.ResultTier, answers Answers) (Result, error) {
	if len(questions) == 0 {
		return Result{}, ErrNoQuestions
	}
	correct := 0
	for _, q := range questions {
		if IsCorrect(q, answers) {
			correct++
		}
	}
	pct := Percentage(correct, len(questions))
	return Result{
		CorrectCount: correct,
		Total:        len(questions),
		Percentage:   pct,
		Tier:         ResolveTier(tiers, pct),
	}, nil
}

// Percentage is round-half-up of correct/total*100 in integer arithmetic.
// total must be positive.
func Percentage(correct, total int) int {
	return (200*correct + total) / (2 * total)
}

// ResolveTier returns the first tier, in the given order, whose inclusive
// range contains pct, or nil when the tiers leave pct uncovered.
func ResolveTier(tiers []quiz.ResultTier, pct int) *quiz.ResultTier {
	for i := range tiers {
		if tiers[i].Contains(pct) {
			t := tiers[i]
			return &t
		}
	}
	return nil
}

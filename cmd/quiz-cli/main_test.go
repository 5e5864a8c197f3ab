package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
)

func sampleQuiz() quiz.Content {
	return quiz.Content{
		Quiz: quiz.Quiz{ID: 1, Title: "Spot the scam", TipsText: "Never share codes."},
		Questions: []quiz.Question{
			{ID: 10, QuestionText: "Parcel fee SMS", CorrectAnswer: quiz.AnswerScam, Explanation: "Couriers do not text for fees."},
			{ID: 11, QuestionText: "Bank login alert", CorrectAnswer: quiz.AnswerNotScam},
			{ID: 12, QuestionText: "Lottery win", CorrectAnswer: quiz.AnswerScam},
		},
		ResultTiers: []quiz.ResultTier{
			{TierName: "Novice", MinPercentage: 0, MaxPercentage: 33},
			{TierName: "Competent", MinPercentage: 34, MaxPercentage: 66, Message: "Getting there."},
			{TierName: "Expert", MinPercentage: 67, MaxPercentage: 100},
		},
	}
}

func TestRunScoresAndShowsTier(t *testing.T) {
	// start, then per question: answer + continue, then decline restart
	in := strings.Join([]string{"", "s", "", "x", "s", "", "n", "", "n"}, "\n") + "\n"
	var out bytes.Buffer

	require.NoError(t, run(strings.NewReader(in), &out, sampleQuiz(), i18n.UI(i18n.English)))
	got := out.String()
	assert.Contains(t, got, "Question 1 of 3")
	assert.Contains(t, got, "Couriers do not text for fees.")
	assert.Contains(t, got, "You scored 33% (1/3)")
	assert.Contains(t, got, "Novice")
	assert.Contains(t, got, "Never share codes.")
}

func TestRunRestartAndGerman(t *testing.T) {
	in := strings.Join([]string{
		"", "s", "", "n", "", "s", "", "y",
		"", "n", "", "n", "", "n", "", "n",
	}, "\n") + "\n"
	var out bytes.Buffer

	require.NoError(t, run(strings.NewReader(in), &out, sampleQuiz(), i18n.UI(i18n.German)))
	got := out.String()
	assert.Contains(t, got, "100%")
	assert.Contains(t, got, "33%")
	assert.Equal(t, 2, strings.Count(got, i18n.UI(i18n.German).QuizComplete))
}

func TestRunStopsQuietlyOnEOF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(strings.NewReader("\ns\n"), &out, sampleQuiz(), i18n.UI(i18n.English)))
	assert.NotContains(t, out.String(), "Quiz Complete!")
}

func TestRunRejectsEmptyQuiz(t *testing.T) {
	err := run(strings.NewReader(""), &bytes.Buffer{}, quiz.Content{}, i18n.UI(i18n.English))
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)
}

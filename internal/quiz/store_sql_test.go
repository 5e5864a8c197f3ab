package quiz_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiz-tool/quiz-tool/internal/db"
	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
	syncx "github.com/quiz-tool/quiz-tool/internal/sync"
)

func newStore(t *testing.T) *quiz.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "quiz.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return quiz.NewSQLStore(dbh, string(db.DriverSQLite))
}

func seedQuiz(t *testing.T, s *quiz.SQLStore, status quiz.Status) quiz.Quiz {
	t.Helper()
	ctx := context.Background()
	qz, err := s.CreateQuiz(ctx, quiz.QuizInput{
		Title:        "Spot the scam",
		Description:  "Five messages, one question each",
		Status:       status,
		Translations: i18n.Variants{i18n.German: {i18n.FieldTitle: "Erkenne den Betrug"}},
	})
	require.NoError(t, err)

	for i, a := range []quiz.Answer{quiz.AnswerScam, quiz.AnswerNotScam, quiz.AnswerScam} {
		_, err := s.CreateQuestion(ctx, quiz.QuestionInput{
			QuizID:        qz.ID,
			OrderIndex:    2 - i, // inserted out of order
			QuestionText:  "Message " + string(rune('A'+i)),
			CorrectAnswer: a,
			Explanation:   "Because.",
		})
		require.NoError(t, err)
	}
	for i, b := range [][2]int{{67, 100}, {0, 33}, {34, 66}} {
		_, err := s.CreateResultTier(ctx, quiz.ResultTierInput{
			QuizID:        qz.ID,
			TierName:      "tier",
			MinPercentage: b[0],
			MaxPercentage: b[1],
			OrderIndex:    []int{2, 0, 1}[i],
		})
		require.NoError(t, err)
	}
	return qz
}

func TestCreateAndGetQuizOrdersChildren(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)

	c, err := s.GetQuiz(context.Background(), qz.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spot the scam", c.Title)
	assert.Equal(t, quiz.TemplateScamDetector, c.TemplateType)
	assert.Equal(t, i18n.English, c.Language)
	assert.Equal(t, "Erkenne den Betrug", c.Translations.Get(i18n.German, i18n.FieldTitle))

	require.Len(t, c.Questions, 3)
	for i, q := range c.Questions {
		assert.Equal(t, i, q.OrderIndex)
	}
	assert.Equal(t, "Message C", c.Questions[0].QuestionText)
	require.Len(t, c.ResultTiers, 3)
	assert.Equal(t, 0, c.ResultTiers[0].MinPercentage)
	assert.Equal(t, 67, c.ResultTiers[2].MinPercentage)
}

func TestGetQuizNotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.GetQuiz(context.Background(), 404)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
}

func TestCreateQuizValidation(t *testing.T) {
	s := newStore(t)
	_, err := s.CreateQuiz(context.Background(), quiz.QuizInput{Title: "  "})
	assert.ErrorIs(t, err, quiz.ErrInvalid)

	_, err = s.CreateQuiz(context.Background(), quiz.QuizInput{Title: "x", Status: "archived"})
	assert.ErrorIs(t, err, quiz.ErrInvalid)
}

func TestCreateQuestionValidation(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)
	ctx := context.Background()

	_, err := s.CreateQuestion(ctx, quiz.QuestionInput{QuizID: qz.ID, QuestionText: "?", CorrectAnswer: "maybe"})
	assert.ErrorIs(t, err, quiz.ErrInvalid)

	_, err = s.CreateQuestion(ctx, quiz.QuestionInput{QuizID: qz.ID, OrderIndex: 0, QuestionText: "dup", CorrectAnswer: quiz.AnswerScam})
	assert.ErrorIs(t, err, quiz.ErrInvalid, "order index already taken")

	_, err = s.CreateQuestion(ctx, quiz.QuestionInput{QuizID: 999, QuestionText: "?", CorrectAnswer: quiz.AnswerScam})
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
}

func TestCreateResultTierRejectsInvertedRange(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)
	_, err := s.CreateResultTier(context.Background(), quiz.ResultTierInput{
		QuizID: qz.ID, TierName: "bad", MinPercentage: 70, MaxPercentage: 20,
	})
	assert.ErrorIs(t, err, quiz.ErrInvalid)
}

func TestUpdateQuiz(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)
	ctx := context.Background()

	up, err := s.UpdateQuiz(ctx, qz.ID, quiz.QuizInput{
		Title:       "Spot the scam, v2",
		Status:      quiz.StatusPublished,
		SummaryText: "Well done",
		TipsText:    "Never share codes",
	})
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusPublished, up.Status)
	assert.Equal(t, "Never share codes", up.TipsText)
	assert.Empty(t, up.Translations)

	_, err = s.UpdateQuiz(ctx, 999, quiz.QuizInput{Title: "x"})
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
}

func TestUpdateQuizKeepsLanguageWhenOmitted(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	parent := seedQuiz(t, s, quiz.StatusPublished)

	de, err := s.CreateQuiz(ctx, quiz.QuizInput{
		Title: "Erkenne den Betrug", Language: i18n.German, ParentQuizID: &parent.ID, Status: quiz.StatusPublished,
	})
	require.NoError(t, err)
	_, err = s.CreateQuestion(ctx, quiz.QuestionInput{QuizID: de.ID, QuestionText: "Nachricht?", CorrectAnswer: quiz.AnswerScam})
	require.NoError(t, err)

	up, err := s.UpdateQuiz(ctx, de.ID, quiz.QuizInput{Title: "Erkenne den Betrug!", Status: quiz.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, i18n.German, up.Language)

	got, err := s.GetPlayable(ctx, parent.ID, i18n.German)
	require.NoError(t, err)
	assert.Equal(t, de.ID, got.ID)
	assert.Equal(t, "Erkenne den Betrug!", got.Title)

	up, err = s.UpdateQuiz(ctx, de.ID, quiz.QuizInput{Title: "Spot the scam", Language: i18n.English})
	require.NoError(t, err)
	assert.Equal(t, i18n.English, up.Language, "an explicit language still wins")
}

func TestDeleteChildrenAndQuiz(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)
	ctx := context.Background()

	n, err := s.DeleteQuestions(ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	n, err = s.DeleteResultTiers(ctx, qz.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	c, err := s.GetQuiz(ctx, qz.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Questions)
	assert.Empty(t, c.ResultTiers)

	require.NoError(t, s.DeleteQuiz(ctx, qz.ID))
	assert.ErrorIs(t, s.DeleteQuiz(ctx, qz.ID), quiz.ErrQuizNotFound)
}

func TestDeleteQuizRemovesLanguageVersions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	parent := seedQuiz(t, s, quiz.StatusPublished)
	child, err := s.CreateQuiz(ctx, quiz.QuizInput{Title: "Arnaque ?", Language: i18n.French, ParentQuizID: &parent.ID})
	require.NoError(t, err)

	versions, err := s.ListLanguageVersions(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, child.ID, versions[0].ID)

	require.NoError(t, s.DeleteQuiz(ctx, parent.ID))
	_, err = s.GetQuiz(ctx, child.ID)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
}

func TestListQuizzesParentsOnly(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	draft := seedQuiz(t, s, quiz.StatusDraft)
	pub := seedQuiz(t, s, quiz.StatusPublished)
	_, err := s.CreateQuiz(ctx, quiz.QuizInput{Title: "Betrug?", Language: i18n.German, ParentQuizID: &pub.ID})
	require.NoError(t, err)

	all, err := s.ListQuizzes(ctx, quiz.ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	ids := []int64{all[0].ID, all[1].ID}
	assert.ElementsMatch(t, []int64{draft.ID, pub.ID}, ids)

	published, err := s.ListQuizzes(ctx, quiz.ListOpts{Status: quiz.StatusPublished})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, pub.ID, published[0].ID)
}

func TestGetPlayable(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	pub := seedQuiz(t, s, quiz.StatusPublished)
	draft := seedQuiz(t, s, quiz.StatusDraft)

	_, err := s.GetPlayable(ctx, draft.ID, i18n.English)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
	_, err = s.GetPlayable(ctx, 12345, i18n.English)
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)

	de, err := s.GetPlayable(ctx, pub.ID, i18n.German)
	require.NoError(t, err)
	assert.Equal(t, "Erkenne den Betrug", de.Title)
	assert.Equal(t, "Five messages, one question each", de.Description)
	assert.Equal(t, i18n.German, de.Language)
	assert.Nil(t, de.Translations)
	assert.Len(t, de.Questions, 3)

	fr, err := s.GetPlayable(ctx, pub.ID, i18n.French)
	require.NoError(t, err)
	assert.Equal(t, "Spot the scam", fr.Title)
}

func TestGetPlayablePrefersPublishedCounterpart(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	pub := seedQuiz(t, s, quiz.StatusPublished)

	fr, err := s.CreateQuiz(ctx, quiz.QuizInput{
		Title: "Repérez l'arnaque", Language: i18n.French, ParentQuizID: &pub.ID, Status: quiz.StatusDraft,
	})
	require.NoError(t, err)
	_, err = s.CreateQuestion(ctx, quiz.QuestionInput{QuizID: fr.ID, QuestionText: "Message ?", CorrectAnswer: quiz.AnswerScam})
	require.NoError(t, err)

	got, err := s.GetPlayable(ctx, pub.ID, i18n.French)
	require.NoError(t, err)
	assert.Equal(t, pub.ID, got.ID, "draft counterpart is ignored")

	_, err = s.UpdateQuiz(ctx, fr.ID, quiz.QuizInput{Title: "Repérez l'arnaque", Language: i18n.French, Status: quiz.StatusPublished})
	require.NoError(t, err)
	got, err = s.GetPlayable(ctx, pub.ID, i18n.French)
	require.NoError(t, err)
	assert.Equal(t, fr.ID, got.ID)
	assert.Len(t, got.Questions, 1)
}

func TestGetPlayableEmptyQuiz(t *testing.T) {
	s := newStore(t)
	qz, err := s.CreateQuiz(context.Background(), quiz.QuizInput{Title: "empty", Status: quiz.StatusPublished})
	require.NoError(t, err)
	_, err = s.GetPlayable(context.Background(), qz.ID, i18n.English)
	assert.ErrorIs(t, err, quiz.ErrNoQuestions)
}

func TestInTxRollsBack(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)
	ctx := context.Background()

	err := s.InTx(ctx, func(w quiz.Writer) error {
		if _, err := w.DeleteQuestions(ctx, qz.ID); err != nil {
			return err
		}
		_, err := w.CreateQuestion(ctx, quiz.QuestionInput{QuizID: qz.ID, QuestionText: "", CorrectAnswer: quiz.AnswerScam})
		return err
	})
	require.ErrorIs(t, err, quiz.ErrInvalid)

	c, err := s.GetQuiz(ctx, qz.ID)
	require.NoError(t, err)
	assert.Len(t, c.Questions, 3)
}

func TestMutationsAreLogged(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)
	ctx := syncx.WithActor(context.Background(), "admin")
	_, err := s.DeleteQuestions(ctx, qz.ID)
	require.NoError(t, err)

	events, err := s.Events().List(ctx, "1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, syncx.TypeQuestionsDeleted, events[0].Type)
	assert.Equal(t, "admin", events[0].Actor)
	assert.Equal(t, syncx.TypeQuizCreated, events[len(events)-1].Type)
}

func TestImageURLs(t *testing.T) {
	s := newStore(t)
	qz := seedQuiz(t, s, quiz.StatusDraft)
	_, err := s.CreateQuestion(context.Background(), quiz.QuestionInput{
		QuizID: qz.ID, OrderIndex: 5, QuestionText: "look", CorrectAnswer: quiz.AnswerScam, ImageURL: "/uploads/images/a.png",
	})
	require.NoError(t, err)
	urls, err := s.ImageURLs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/images/a.png"}, urls)
}

package authoring

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiz-tool/quiz-tool/internal/db"
	"github.com/quiz-tool/quiz-tool/internal/i18n"
	"github.com/quiz-tool/quiz-tool/internal/quiz"
)

// fakeTranslator prefixes text with the language and fails on anything
// containing "FAIL".
type fakeTranslator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTranslator) Translate(_ context.Context, text string, target i18n.Language) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if strings.Contains(text, "FAIL") {
		return "", errors.New("upstream 503")
	}
	return "[" + string(target) + "] " + text, nil
}

// failingStore wraps a real store and makes the n-th CreateQuestion inside a
// transaction fail.
type failingStore struct {
	quiz.Store
	failAt int
}

type failingWriter struct {
	quiz.Writer
	failAt int
	seen   *int
}

func (s *failingStore) InTx(ctx context.Context, fn func(quiz.Writer) error) error {
	seen := 0
	return s.Store.InTx(ctx, func(w quiz.Writer) error {
		return fn(&failingWriter{Writer: w, failAt: s.failAt, seen: &seen})
	})
}

func (w *failingWriter) CreateQuestion(ctx context.Context, in quiz.QuestionInput) (quiz.Question, error) {
	*w.seen++
	if *w.seen == w.failAt {
		return quiz.Question{}, errors.New("disk full")
	}
	return w.Writer.CreateQuestion(ctx, in)
}

func newStore(t *testing.T) *quiz.SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "authoring.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return quiz.NewSQLStore(dbh, string(db.DriverSQLite))
}

func filledForm() *Form {
	f := NewForm()
	en := f.Get(i18n.English)
	en.Title = "Spot the scam"
	en.IntroText = "Three messages. Scam or not?"
	for i := range en.Questions {
		en.Questions[i].QuestionText = "Message " + string(rune('1'+i))
		en.Questions[i].Explanation = "Look at the sender."
	}
	en.Questions[1].CorrectAnswer = quiz.AnswerNotScam
	en.ResultTiers[2].Message = "Nothing gets past you"
	_ = f.Set(i18n.English, en)
	return f
}

func TestNewFormDefaults(t *testing.T) {
	f := NewForm()
	en := f.Get(i18n.English)
	require.Len(t, en.Questions, 3)
	for _, q := range en.Questions {
		assert.Equal(t, quiz.AnswerScam, q.CorrectAnswer)
	}
	require.Len(t, en.ResultTiers, 3)
	assert.Equal(t, TierData{TierName: "Novice", MinPercentage: 0, MaxPercentage: 33}, en.ResultTiers[0])
	assert.Equal(t, TierData{TierName: "Expert", MinPercentage: 67, MaxPercentage: 100}, en.ResultTiers[2])
	assert.Empty(t, f.Get(i18n.French).Title)
	assert.Equal(t, quiz.StatusDraft, f.Status)
}

func TestGetReturnsCopy(t *testing.T) {
	f := NewForm()
	en := f.Get(i18n.English)
	en.Questions[0].QuestionText = "changed"
	assert.Empty(t, f.Get(i18n.English).Questions[0].QuestionText)
}

func TestSetRejectsUnknownLanguage(t *testing.T) {
	assert.ErrorIs(t, NewForm().Set("es", LanguageData{}), i18n.ErrUnknownLanguage)
}

func TestRemoveQuestion(t *testing.T) {
	f := filledForm()
	fr := f.Get(i18n.English)
	_ = f.Set(i18n.French, fr)

	require.NoError(t, f.RemoveQuestion(0))
	assert.Len(t, f.Get(i18n.English).Questions, 2)
	assert.Len(t, f.Get(i18n.French).Questions, 2)
	assert.Equal(t, "Message 2", f.Get(i18n.English).Questions[0].QuestionText)

	require.NoError(t, f.RemoveQuestion(0))
	assert.ErrorIs(t, f.RemoveQuestion(0), ErrLastQuestion)
	assert.Error(t, f.RemoveQuestion(5))

	f.AddQuestion()
	assert.Len(t, f.Get(i18n.English).Questions, 2)
}

func TestDraftTakesVariantsFromTranslatedLanguages(t *testing.T) {
	f := filledForm()
	de := f.Get(i18n.English)
	de.Title = "Erkenne den Betrug"
	de.Description = ""
	de.Questions[0].Explanation = "Achte auf den Absender."
	de.Questions[0].QuestionText = ""
	de.Questions[0].CorrectAnswer = quiz.AnswerNotScam // structural fields are ignored
	de.ResultTiers = nil
	require.NoError(t, f.Set(i18n.German, de))

	d := f.Draft(9)
	assert.Equal(t, "Spot the scam", d.Quiz.Title)
	assert.Equal(t, "Erkenne den Betrug", d.Quiz.Translations.Get(i18n.German, i18n.FieldTitle))
	assert.Empty(t, d.Quiz.Translations.Get(i18n.German, i18n.FieldDescription))
	assert.Empty(t, d.Quiz.Translations.Get(i18n.French, i18n.FieldTitle))

	require.Len(t, d.Questions, 3)
	assert.Equal(t, int64(9), d.Questions[0].QuizID)
	assert.Equal(t, quiz.AnswerScam, d.Questions[0].CorrectAnswer)
	assert.Equal(t, "Achte auf den Absender.", d.Questions[0].Translations.Get(i18n.German, i18n.FieldExplanation))
	assert.Empty(t, d.Questions[0].Translations.Get(i18n.German, i18n.FieldQuestionText))
	assert.Equal(t, 2, d.Questions[2].OrderIndex)

	require.Len(t, d.ResultTiers, 3)
	assert.Empty(t, d.ResultTiers[0].Translations)
}

func TestDraftValidateReportsEveryProblem(t *testing.T) {
	f := NewForm()
	f.Status = quiz.StatusPublished
	err := f.Draft(1).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, quiz.ErrInvalid)
	msg := err.Error()
	assert.Contains(t, msg, "quiz:")
	assert.Contains(t, msg, "question 1:")
	assert.Contains(t, msg, "question 3:")
}

func TestDraftValidatePublishedNeedsQuestions(t *testing.T) {
	f := filledForm()
	f.Status = quiz.StatusPublished
	en := f.Get(i18n.English)
	en.Questions = nil
	require.NoError(t, f.Set(i18n.English, en))
	err := f.Draft(1).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one question")
}

func TestCreateAndSaveRoundTrip(t *testing.T) {
	store := newStore(t)
	svc := NewService(store, &fakeTranslator{})
	ctx := context.Background()

	c, err := svc.Create(ctx, filledForm())
	require.NoError(t, err)
	require.Len(t, c.Questions, 3)
	require.Len(t, c.ResultTiers, 3)
	assert.Equal(t, quiz.AnswerNotScam, c.Questions[1].CorrectAnswer)

	f := FormFromContent(c)
	fr := f.Get(i18n.French)
	fr.Title = "Repérez l'arnaque"
	require.NoError(t, f.Set(i18n.French, fr))
	f.AddQuestion()
	en := f.Get(i18n.English)
	en.Questions[3].QuestionText = "Message 4"
	require.NoError(t, f.Set(i18n.English, en))
	f.Status = quiz.StatusPublished

	saved, err := svc.Save(ctx, c.ID, f)
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusPublished, saved.Status)
	assert.Len(t, saved.Questions, 4)
	assert.Equal(t, "Repérez l'arnaque", saved.Translations.Get(i18n.French, i18n.FieldTitle))

	played, err := store.GetPlayable(ctx, c.ID, i18n.French)
	require.NoError(t, err)
	assert.Equal(t, "Repérez l'arnaque", played.Title)
	assert.Equal(t, "Message 4", played.Questions[3].QuestionText)
}

func TestSaveKeepsLanguageVersionAttached(t *testing.T) {
	store := newStore(t)
	svc := NewService(store, &fakeTranslator{})
	ctx := context.Background()

	pf := filledForm()
	pf.Status = quiz.StatusPublished
	parent, err := svc.Create(ctx, pf)
	require.NoError(t, err)
	assert.Equal(t, i18n.English, parent.Language)

	de, err := store.CreateQuiz(ctx, quiz.QuizInput{
		Title: "Erkenne den Betrug", Language: i18n.German, ParentQuizID: &parent.ID, Status: quiz.StatusPublished,
	})
	require.NoError(t, err)
	_, err = store.CreateQuestion(ctx, quiz.QuestionInput{QuizID: de.ID, QuestionText: "Nachricht 1", CorrectAnswer: quiz.AnswerScam})
	require.NoError(t, err)

	c, err := store.GetQuiz(ctx, de.ID)
	require.NoError(t, err)
	f := FormFromContent(c)
	assert.Equal(t, i18n.German, f.Language)
	base := f.Get(i18n.English)
	base.IntroText = "Drei Nachrichten."
	require.NoError(t, f.Set(i18n.English, base))

	saved, err := svc.Save(ctx, de.ID, f)
	require.NoError(t, err)
	assert.Equal(t, i18n.German, saved.Language)

	played, err := store.GetPlayable(ctx, parent.ID, i18n.German)
	require.NoError(t, err)
	assert.Equal(t, de.ID, played.ID)
	assert.Equal(t, "Drei Nachrichten.", played.IntroText)
}

func TestSaveRollsBackOnPartialFailure(t *testing.T) {
	base := newStore(t)
	ctx := context.Background()
	c, err := NewService(base, &fakeTranslator{}).Create(ctx, filledForm())
	require.NoError(t, err)

	svc := NewService(&failingStore{Store: base, failAt: 2}, &fakeTranslator{})
	f := FormFromContent(c)
	en := f.Get(i18n.English)
	en.Title = "Renamed"
	require.NoError(t, f.Set(i18n.English, en))

	_, err = svc.Save(ctx, c.ID, f)
	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "create question 2", be.Task)
	assert.Equal(t, 4, be.Index)

	after, err := base.GetQuiz(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spot the scam", after.Title)
	assert.Len(t, after.Questions, 3)
	assert.Len(t, after.ResultTiers, 3)
}

func TestSaveUnknownQuiz(t *testing.T) {
	svc := NewService(newStore(t), &fakeTranslator{})
	_, err := svc.Save(context.Background(), 77, filledForm())
	assert.ErrorIs(t, err, quiz.ErrQuizNotFound)
}

func TestAutofillFallsBackPerField(t *testing.T) {
	tr := &fakeTranslator{}
	svc := NewService(nil, tr, WithConcurrency(2))
	f := filledForm()
	en := f.Get(i18n.English)
	en.Questions[1].Explanation = "FAIL here"
	require.NoError(t, f.Set(i18n.English, en))

	report, err := svc.Autofill(context.Background(), f, i18n.German)
	require.NoError(t, err)

	de := f.Get(i18n.German)
	assert.Equal(t, "[de] Spot the scam", de.Title)
	assert.Equal(t, "[de] Message 2", de.Questions[1].QuestionText)
	assert.Equal(t, "FAIL here", de.Questions[1].Explanation)
	assert.Equal(t, "[de] Expert", de.ResultTiers[2].TierName)
	assert.Equal(t, 67, de.ResultTiers[2].MinPercentage)
	assert.Empty(t, de.Description, "blank source is not sent")

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "questions[1].explanation", report.Failures[0].Path)
	assert.Equal(t, tr.calls-1, report.Translated)

	// canonical data is untouched
	assert.Equal(t, "Spot the scam", f.Get(i18n.English).Title)
}

func TestAutofillRejectsCanonicalTarget(t *testing.T) {
	svc := NewService(nil, &fakeTranslator{})
	_, err := svc.Autofill(context.Background(), NewForm(), i18n.English)
	assert.ErrorIs(t, err, i18n.ErrUnknownLanguage)
}

func TestAutofillCancelled(t *testing.T) {
	svc := NewService(nil, &fakeTranslator{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := filledForm()
	_, err := svc.Autofill(ctx, f, i18n.French)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.Get(i18n.French).Title)
}

package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quiz-tool/quiz-tool/internal/i18n"
	syncx "github.com/quiz-tool/quiz-tool/internal/sync"
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLStore struct {
	db     *sql.DB
	q      dbtx // db, or the open tx
	inTx   bool
	driver string // "sqlite" or "postgres"
	events *syncx.EventRepo
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{
		db:     db,
		q:      db,
		driver: driver,
		events: syncx.NewEventRepo(db, ""),
		now:    time.Now,
	}
}

// Events exposes the authoring log the store writes to.
func (s *SQLStore) Events() *syncx.EventRepo { return s.events }

func (s *SQLStore) InTx(ctx context.Context, fn func(Writer) error) error {
	return s.atomic(ctx, func(ts *SQLStore) error { return fn(ts) })
}

func (s *SQLStore) atomic(ctx context.Context, fn func(*SQLStore) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	ts := &SQLStore{db: s.db, q: tx, inTx: true, driver: s.driver, events: s.events.WithTx(tx), now: s.now}
	if err := fn(ts); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) RecordEvent(ctx context.Context, typ string, quizID int64, data any) error {
	return s.events.Record(ctx, typ, strconv.FormatInt(quizID, 10), data)
}

// ---- quizzes ----

const quizCols = `id,title,description,intro_text,summary_text,tips_text,template_type,status,language,parent_quiz_id,translations_json,created_at,updated_at`

func (s *SQLStore) CreateQuiz(ctx context.Context, in QuizInput) (Quiz, error) {
	const op = "create quiz"
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Quiz{}, err
	}
	tj, err := marshalVariants(in.Translations)
	if err != nil {
		return Quiz{}, fmt.Errorf("%s: %w", op, err)
	}

	var q Quiz
	err = s.atomic(ctx, func(ts *SQLStore) error {
		if in.ParentQuizID != nil {
			if err := ts.ensureQuiz(ctx, *in.ParentQuizID); err != nil {
				return err
			}
		}
		now := ts.now().Unix()
		var id int64
		if err := ts.q.QueryRowContext(ctx,
			`INSERT INTO quizzes (title,description,intro_text,summary_text,tips_text,template_type,status,language,parent_quiz_id,translations_json,created_at,updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id`,
			in.Title, in.Description, in.IntroText, in.SummaryText, in.TipsText,
			string(in.TemplateType), string(in.Status), string(in.Language),
			nullInt64(in.ParentQuizID), tj, now, now,
		).Scan(&id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		q = quizFromInput(id, in, now, now)
		return ts.RecordEvent(ctx, syncx.TypeQuizCreated, id, q)
	})
	return q, err
}

// UpdateQuiz replaces the quiz fields. An empty Language keeps the stored
// one, so language versions stay attached to their parent.
func (s *SQLStore) UpdateQuiz(ctx context.Context, id int64, in QuizInput) (Quiz, error) {
	const op = "update quiz"
	keepLanguage := in.Language == ""
	in.Normalize()
	if err := in.Validate(); err != nil {
		return Quiz{}, err
	}
	tj, err := marshalVariants(in.Translations)
	if err != nil {
		return Quiz{}, fmt.Errorf("%s: %w", op, err)
	}

	var q Quiz
	err = s.atomic(ctx, func(ts *SQLStore) error {
		if keepLanguage {
			cur, err := ts.getQuizRow(ctx, id)
			if err != nil {
				return err
			}
			in.Language = cur.Language
		}
		res, err := ts.q.ExecContext(ctx,
			`UPDATE quizzes SET title=$1, description=$2, intro_text=$3, summary_text=$4, tips_text=$5,
			        template_type=$6, status=$7, language=$8, translations_json=$9, updated_at=$10
			  WHERE id=$11`,
			in.Title, in.Description, in.IntroText, in.SummaryText, in.TipsText,
			string(in.TemplateType), string(in.Status), string(in.Language), tj, ts.now().Unix(), id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrQuizNotFound
		}
		if q, err = ts.getQuizRow(ctx, id); err != nil {
			return err
		}
		return ts.RecordEvent(ctx, syncx.TypeQuizUpdated, id, q)
	})
	return q, err
}

// DeleteQuiz removes the quiz, its language counterparts and all of their
// questions and tiers.
func (s *SQLStore) DeleteQuiz(ctx context.Context, id int64) error {
	const op = "delete quiz"
	return s.atomic(ctx, func(ts *SQLStore) error {
		for _, stmt := range []string{
			`DELETE FROM questions WHERE quiz_id=$1 OR quiz_id IN (SELECT id FROM quizzes WHERE parent_quiz_id=$1)`,
			`DELETE FROM result_tiers WHERE quiz_id=$1 OR quiz_id IN (SELECT id FROM quizzes WHERE parent_quiz_id=$1)`,
			`DELETE FROM quizzes WHERE parent_quiz_id=$1`,
		} {
			if _, err := ts.q.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
		res, err := ts.q.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrQuizNotFound
		}
		return ts.RecordEvent(ctx, syncx.TypeQuizDeleted, id, map[string]int64{"id": id})
	})
}

func (s *SQLStore) GetQuiz(ctx context.Context, id int64) (Content, error) {
	q, err := s.getQuizRow(ctx, id)
	if err != nil {
		return Content{}, err
	}
	return s.loadContent(ctx, q)
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{"parent_quiz_id IS NULL"}
	args := []any{}
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT id,title,status,language,template_type,updated_at
		FROM quizzes WHERE %s ORDER BY updated_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), len(args)-1, len(args))

	return s.querySummaries(ctx, query, args...)
}

func (s *SQLStore) ListLanguageVersions(ctx context.Context, parentID int64) ([]QuizSummary, error) {
	return s.querySummaries(ctx,
		`SELECT id,title,status,language,template_type,updated_at
		   FROM quizzes WHERE parent_quiz_id=$1 ORDER BY language, id`, parentID)
}

func (s *SQLStore) querySummaries(ctx context.Context, query string, args ...any) ([]QuizSummary, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []QuizSummary{}
	for rows.Next() {
		var qs QuizSummary
		var status, lang, tmpl string
		if err := rows.Scan(&qs.ID, &qs.Title, &status, &lang, &tmpl, &qs.UpdatedAt); err != nil {
			return nil, err
		}
		qs.Status, qs.Language, qs.TemplateType = Status(status), i18n.Language(lang), TemplateType(tmpl)
		out = append(out, qs)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetPlayable(ctx context.Context, id int64, lang i18n.Language) (Content, error) {
	target := id
	if lang != i18n.Canonical {
		var cid int64
		err := s.q.QueryRowContext(ctx,
			`SELECT id FROM quizzes WHERE parent_quiz_id=$1 AND language=$2 AND status=$3 ORDER BY id LIMIT 1`,
			id, string(lang), string(StatusPublished)).Scan(&cid)
		switch {
		case err == nil:
			target = cid
		case !errors.Is(err, sql.ErrNoRows):
			return Content{}, err
		}
	}

	q, err := s.getQuizRow(ctx, target)
	if err != nil {
		return Content{}, err
	}
	if q.Status != StatusPublished {
		return Content{}, ErrQuizNotFound
	}
	c, err := s.loadContent(ctx, q)
	if err != nil {
		return Content{}, err
	}
	if len(c.Questions) == 0 {
		return Content{}, ErrNoQuestions
	}
	return Localize(c, lang), nil
}

func (s *SQLStore) ImageURLs(ctx context.Context) ([]string, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT DISTINCT image_url FROM questions WHERE image_url <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ---- questions ----

func (s *SQLStore) CreateQuestion(ctx context.Context, in QuestionInput) (Question, error) {
	const op = "create question"
	if in.Translations == nil {
		in.Translations = i18n.Variants{}
	}
	if err := in.Validate(); err != nil {
		return Question{}, err
	}
	tj, err := marshalVariants(in.Translations)
	if err != nil {
		return Question{}, fmt.Errorf("%s: %w", op, err)
	}

	var q Question
	err = s.atomic(ctx, func(ts *SQLStore) error {
		if err := ts.ensureQuiz(ctx, in.QuizID); err != nil {
			return err
		}
		var id int64
		if err := ts.q.QueryRowContext(ctx,
			`INSERT INTO questions (quiz_id,order_index,image_url,question_text,correct_answer,explanation,translations_json)
			 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			in.QuizID, in.OrderIndex, in.ImageURL, in.QuestionText, string(in.CorrectAnswer), in.Explanation, tj,
		).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: order_index %d already used in quiz %d", ErrInvalid, in.OrderIndex, in.QuizID)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		q = Question{
			ID: id, QuizID: in.QuizID, OrderIndex: in.OrderIndex, ImageURL: in.ImageURL,
			QuestionText: in.QuestionText, CorrectAnswer: in.CorrectAnswer,
			Explanation: in.Explanation, Translations: in.Translations,
		}
		if err := ts.touch(ctx, in.QuizID); err != nil {
			return err
		}
		return ts.RecordEvent(ctx, syncx.TypeQuestionCreated, in.QuizID, q)
	})
	return q, err
}

func (s *SQLStore) DeleteQuestions(ctx context.Context, quizID int64) (int64, error) {
	var n int64
	err := s.atomic(ctx, func(ts *SQLStore) error {
		res, err := ts.q.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id=$1`, quizID)
		if err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		n, _ = res.RowsAffected()
		if err := ts.touch(ctx, quizID); err != nil {
			return err
		}
		return ts.RecordEvent(ctx, syncx.TypeQuestionsDeleted, quizID, map[string]int64{"deleted": n})
	})
	return n, err
}

// ---- result tiers ----

func (s *SQLStore) CreateResultTier(ctx context.Context, in ResultTierInput) (ResultTier, error) {
	const op = "create result tier"
	if in.Translations == nil {
		in.Translations = i18n.Variants{}
	}
	if err := in.Validate(); err != nil {
		return ResultTier{}, err
	}
	tj, err := marshalVariants(in.Translations)
	if err != nil {
		return ResultTier{}, fmt.Errorf("%s: %w", op, err)
	}

	var t ResultTier
	err = s.atomic(ctx, func(ts *SQLStore) error {
		if err := ts.ensureQuiz(ctx, in.QuizID); err != nil {
			return err
		}
		var id int64
		if err := ts.q.QueryRowContext(ctx,
			`INSERT INTO result_tiers (quiz_id,tier_name,min_percentage,max_percentage,message,order_index,translations_json)
			 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			in.QuizID, in.TierName, in.MinPercentage, in.MaxPercentage, in.Message, in.OrderIndex, tj,
		).Scan(&id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		t = ResultTier{
			ID: id, QuizID: in.QuizID, TierName: in.TierName,
			MinPercentage: in.MinPercentage, MaxPercentage: in.MaxPercentage,
			Message: in.Message, OrderIndex: in.OrderIndex, Translations: in.Translations,
		}
		if err := ts.touch(ctx, in.QuizID); err != nil {
			return err
		}
		return ts.RecordEvent(ctx, syncx.TypeResultTierCreated, in.QuizID, t)
	})
	return t, err
}

func (s *SQLStore) DeleteResultTiers(ctx context.Context, quizID int64) (int64, error) {
	var n int64
	err := s.atomic(ctx, func(ts *SQLStore) error {
		res, err := ts.q.ExecContext(ctx, `DELETE FROM result_tiers WHERE quiz_id=$1`, quizID)
		if err != nil {
			return fmt.Errorf("delete result tiers: %w", err)
		}
		n, _ = res.RowsAffected()
		if err := ts.touch(ctx, quizID); err != nil {
			return err
		}
		return ts.RecordEvent(ctx, syncx.TypeResultTiersDeleted, quizID, map[string]int64{"deleted": n})
	})
	return n, err
}

// ---- helpers ----

func (s *SQLStore) getQuizRow(ctx context.Context, id int64) (Quiz, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+quizCols+` FROM quizzes WHERE id=$1`, id)
	q, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) loadContent(ctx context.Context, q Quiz) (Content, error) {
	c := Content{Quiz: q, Questions: []Question{}, ResultTiers: []ResultTier{}}

	rows, err := s.q.QueryContext(ctx,
		`SELECT id,quiz_id,order_index,image_url,question_text,correct_answer,explanation,translations_json
		   FROM questions WHERE quiz_id=$1 ORDER BY order_index, id`, q.ID)
	if err != nil {
		return Content{}, err
	}
	for rows.Next() {
		var qu Question
		var ans, tj string
		if err := rows.Scan(&qu.ID, &qu.QuizID, &qu.OrderIndex, &qu.ImageURL, &qu.QuestionText, &ans, &qu.Explanation, &tj); err != nil {
			rows.Close()
			return Content{}, err
		}
		qu.CorrectAnswer = Answer(ans)
		if qu.Translations, err = unmarshalVariants(tj); err != nil {
			rows.Close()
			return Content{}, err
		}
		c.Questions = append(c.Questions, qu)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Content{}, err
	}

	rows, err = s.q.QueryContext(ctx,
		`SELECT id,quiz_id,tier_name,min_percentage,max_percentage,message,order_index,translations_json
		   FROM result_tiers WHERE quiz_id=$1 ORDER BY order_index, id`, q.ID)
	if err != nil {
		return Content{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var t ResultTier
		var tj string
		if err := rows.Scan(&t.ID, &t.QuizID, &t.TierName, &t.MinPercentage, &t.MaxPercentage, &t.Message, &t.OrderIndex, &tj); err != nil {
			return Content{}, err
		}
		if t.Translations, err = unmarshalVariants(tj); err != nil {
			return Content{}, err
		}
		c.ResultTiers = append(c.ResultTiers, t)
	}
	return c, rows.Err()
}

func (s *SQLStore) ensureQuiz(ctx context.Context, id int64) error {
	var one int
	if err := s.q.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuizNotFound
		}
		return err
	}
	return nil
}

func (s *SQLStore) touch(ctx context.Context, quizID int64) error {
	_, err := s.q.ExecContext(ctx, `UPDATE quizzes SET updated_at=$1 WHERE id=$2`, s.now().Unix(), quizID)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuiz(r scanner) (Quiz, error) {
	var q Quiz
	var tmpl, status, lang, tj string
	var parent sql.NullInt64
	if err := r.Scan(&q.ID, &q.Title, &q.Description, &q.IntroText, &q.SummaryText, &q.TipsText,
		&tmpl, &status, &lang, &parent, &tj, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return Quiz{}, err
	}
	q.TemplateType, q.Status, q.Language = TemplateType(tmpl), Status(status), i18n.Language(lang)
	if parent.Valid {
		p := parent.Int64
		q.ParentQuizID = &p
	}
	var err error
	q.Translations, err = unmarshalVariants(tj)
	return q, err
}

func quizFromInput(id int64, in QuizInput, created, updated int64) Quiz {
	return Quiz{
		ID: id, Title: in.Title, Description: in.Description, IntroText: in.IntroText,
		SummaryText: in.SummaryText, TipsText: in.TipsText, TemplateType: in.TemplateType,
		Status: in.Status, Language: in.Language, ParentQuizID: in.ParentQuizID,
		Translations: in.Translations, CreatedAt: created, UpdatedAt: updated,
	}
}

func marshalVariants(v i18n.Variants) (string, error) {
	if len(v) == 0 {
		return "{}", nil
	}
	buf, err := json.Marshal(v)
	return string(buf), err
}

func unmarshalVariants(s string) (i18n.Variants, error) {
	v := i18n.Variants{}
	if s == "" || s == "{}" {
		return v, nil
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return v, nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}

// Package syncx keeps the append-only authoring log: every change made to a
// quiz through the admin API leaves one event row keyed by quiz id.
package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeQuizCreated         = "QuizCreated"
	TypeQuizUpdated         = "QuizUpdated"
	TypeQuizDeleted         = "QuizDeleted"
	TypeQuizContentReplaced = "QuizContentReplaced"
	TypeQuestionCreated     = "QuestionCreated"
	TypeQuestionsDeleted    = "QuestionsDeleted"
	TypeResultTierCreated   = "ResultTierCreated"
	TypeResultTiersDeleted  = "ResultTiersDeleted"
)

type Event struct {
	Seq       int64           `json:"seq"`
	SiteID    string          `json:"site_id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Actor     string          `json:"actor,omitempty"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type EventRepo struct {
	db     DBTX
	siteID string
}

func NewEventRepo(db DBTX, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID}
}

// WithTx returns a repo that writes through tx.
func (r *EventRepo) WithTx(tx DBTX) *EventRepo { return &EventRepo{db: tx, siteID: r.siteID} }

// Record marshals data and appends it under key. The actor is taken from ctx.
func (r *EventRepo) Record(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("event %s: %w", typ, err)
	}
	return r.Append(ctx, Event{Type: typ, Key: key, Actor: ActorFromContext(ctx), Data: buf})
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	site := e.SiteID
	if site == "" {
		site = r.siteID
	}
	data := string(e.Data)
	if data == "" {
		data = "{}"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, actor, data, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		site, e.Type, e.Key, e.Actor, data, time.Now().Unix())
	return err
}

// List returns the newest events for key first.
func (r *EventRepo) List(ctx context.Context, key string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, actor, data, created_at
		   FROM event_log WHERE key=$1 ORDER BY seq DESC LIMIT $2`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		var data string
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.Actor, &data, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		out = append(out, e)
	}
	return out, rows.Err()
}

type ctxKey struct{}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

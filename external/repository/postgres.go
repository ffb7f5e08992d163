package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/repository"
)

type PostgresJournal struct {
	pool *pgxpool.Pool
}

func NewPostgresJournal(pool *pgxpool.Pool) repository.CallJournal {
	return &PostgresJournal{pool: pool}
}

func (r *PostgresJournal) RecordCallStarted(ctx context.Context, input repository.StartCallInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bridged_calls (session_ref, call_id, is_video, started_at, status)
		 VALUES ($1, $2, $3, $4, 'connected')
		 ON CONFLICT (session_ref) DO NOTHING`,
		input.SessionRef, input.CallID, input.IsVideo, input.StartedAt)
	return err
}

// RecordCallEnded also covers calls that failed before a start was recorded.
func (r *PostgresJournal) RecordCallEnded(ctx context.Context, input repository.EndCallInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bridged_calls (session_ref, call_id, is_video, started_at, ended_at, status, error_message)
		 VALUES ($1, $2, $3, $4, $4, $5, $6)
		 ON CONFLICT (session_ref) DO UPDATE
		 SET ended_at = EXCLUDED.ended_at,
		     status = EXCLUDED.status,
		     error_message = EXCLUDED.error_message,
		     call_id = COALESCE(bridged_calls.call_id, EXCLUDED.call_id)`,
		input.SessionRef, input.CallID, input.IsVideo, input.EndedAt, string(input.Status), input.ErrorMessage)
	return err
}

// NoopJournal is bound when no database is configured.
type NoopJournal struct{}

func (NoopJournal) RecordCallStarted(context.Context, repository.StartCallInput) error { return nil }
func (NoopJournal) RecordCallEnded(context.Context, repository.EndCallInput) error     { return nil }

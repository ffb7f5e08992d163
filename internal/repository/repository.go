package repository

import (
	"context"
	"time"
)

type StartCallInput struct {
	SessionRef string
	CallID     *int64
	IsVideo    bool
	StartedAt  time.Time
}

type EndCallInput struct {
	SessionRef   string
	CallID       *int64
	IsVideo      bool
	Status       CallStatus
	ErrorMessage *string
	EndedAt      time.Time
}

// CallJournal records the lifecycle of bridged calls. Chat content is never stored.
type CallJournal interface {
	RecordCallStarted(ctx context.Context, input StartCallInput) error
	RecordCallEnded(ctx context.Context, input EndCallInput) error
}

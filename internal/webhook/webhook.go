package webhook

import (
	"context"
	"time"
)

type CallEndedPayload struct {
	Event           string    `json:"event"`
	SessionRef      string    `json:"session_ref"`
	CallID          *int64    `json:"call_id"`
	IsVideo         bool      `json:"is_video"`
	Reason          string    `json:"reason"`
	ErrorMessage    *string   `json:"error_message"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int64     `json:"duration_seconds"`
}

type Sender interface {
	SendCallEnded(ctx context.Context, payload CallEndedPayload) error
}

package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/repository"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/webhook"
)

const (
	lifecycleTimeout = 10 * time.Second
	callEndedEvent   = "call.ended"
)

func newSessionRef() string {
	return uuid.NewString()
}

// recordCallStarted journals a connected session in the background.
func (b *Bridge) recordCallStarted(sess *activeSession) {
	input := repository.StartCallInput{
		SessionRef: sess.ref,
		CallID:     sess.call.CallID(),
		IsVideo:    sess.call.IsVideo(),
		StartedAt:  *sess.connectedAt,
	}
	b.background.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), lifecycleTimeout)
		defer cancel()
		if err := b.journal.RecordCallStarted(ctx, input); err != nil {
			slog.Error("failed to journal call start", "error", err, "session_ref", input.SessionRef)
		}
	})
}

// recordCallEnded journals the terminal state and sends the call-ended
// webhook in the background.
func (b *Bridge) recordCallEnded(sess *activeSession, call engine.Call, status repository.CallStatus, message *string) {
	endedAt := b.now()
	startedAt := sess.createdAt
	if sess.connectedAt != nil {
		startedAt = *sess.connectedAt
	}
	var callID *int64
	isVideo := false
	if call != nil {
		callID = call.CallID()
		isVideo = call.IsVideo()
	}
	input := repository.EndCallInput{
		SessionRef:   sess.ref,
		CallID:       callID,
		IsVideo:      isVideo,
		Status:       status,
		ErrorMessage: message,
		EndedAt:      endedAt,
	}
	payload := webhook.CallEndedPayload{
		Event:           callEndedEvent,
		SessionRef:      sess.ref,
		CallID:          callID,
		IsVideo:         isVideo,
		Reason:          string(status),
		ErrorMessage:    message,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		DurationSeconds: int64(endedAt.Sub(startedAt).Seconds()),
	}
	b.background.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), lifecycleTimeout)
		defer cancel()
		if err := b.journal.RecordCallEnded(ctx, input); err != nil {
			slog.Error("failed to journal call end", "error", err, "session_ref", input.SessionRef)
		}
		if err := b.webhook.SendCallEnded(ctx, payload); err != nil {
			slog.Error("failed to send call ended webhook", "error", err, "session_ref", payload.SessionRef)
		}
	})
}

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/webhook"
)

const (
	deliveryTimeout = 10 * time.Second
	maxErrorBody    = 512
	eventHeader     = "X-Bridge-Event"
)

// HTTPSender posts call lifecycle notifications as JSON. An empty endpoint
// disables delivery.
type HTTPSender struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSender(endpoint string) webhook.Sender {
	return &HTTPSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: deliveryTimeout},
	}
}

func (s *HTTPSender) SendCallEnded(ctx context.Context, payload webhook.CallEndedPayload) error {
	if s.endpoint == "" {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode call ended payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(eventHeader, payload.Event)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver %s webhook: %w", payload.Event, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	slog.Debug("webhook delivered", "event", payload.Event, "session_ref", payload.SessionRef)
	return nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	enginepkg "github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

type eventFrame struct {
	Type        string          `json:"type"`
	Call        *callDTO        `json:"call"`
	Participant *participantDTO `json:"participant"`
	Message     *chatMessageDTO `json:"message"`
	Error       string          `json:"error"`
}

var eventKinds = map[string]enginepkg.EventKind{
	"callConnected":       enginepkg.EventCallConnected,
	"callDisconnected":    enginepkg.EventCallDisconnected,
	"callFailedToConnect": enginepkg.EventCallFailedToConnect,
	"chatConnected":       enginepkg.EventChatConnected,
	"chatDisconnected":    enginepkg.EventChatDisconnected,
	"chatMessageReceived": enginepkg.EventChatMessageReceived,
	"participantAdded":    enginepkg.EventParticipantAdded,
	"participantUpdated":  enginepkg.EventParticipantUpdated,
	"participantRemoved":  enginepkg.EventParticipantRemoved,
	"error":               enginepkg.EventStreamError,
}

func (c *Client) streamURL() string {
	u := *c.baseURL.JoinPath("/api/v1/events")
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	return u.String()
}

func (c *Client) openStream(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token)

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	conn, resp, err := c.dialer.DialContext(dialCtx, c.streamURL(), header)
	if err != nil {
		if resp != nil {
			defer func() {
				_ = resp.Body.Close()
			}()
			return fmt.Errorf("open event stream: %w", apiError(resp))
		}
		return fmt.Errorf("open event stream: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return errors.New("open event stream: client disposed")
	}
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var frame eventFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if c.isClosed() {
				return
			}
			slog.Warn("engine event stream failed", "error", err)
			c.dispatch(enginepkg.Event{Kind: enginepkg.EventStreamError, Err: fmt.Errorf("event stream: %w", err)})
			return
		}
		ev, ok := c.toEvent(frame)
		if !ok {
			slog.Debug("dropping unknown engine event", "type", frame.Type)
			continue
		}
		c.dispatch(ev)
	}
}

// toEvent applies frame to the tracked call state and builds the event the
// handlers see.
func (c *Client) toEvent(frame eventFrame) (enginepkg.Event, bool) {
	kind, ok := eventKinds[frame.Type]
	if !ok {
		return enginepkg.Event{}, false
	}
	ev := enginepkg.Event{Kind: kind}
	if frame.Error != "" {
		ev.Err = errors.New(frame.Error)
	}
	terminal := kind == enginepkg.EventCallDisconnected || kind == enginepkg.EventCallFailedToConnect
	switch {
	case frame.Call != nil && terminal:
		ev.Call = c.trackEnded(*frame.Call)
	case frame.Call != nil:
		ev.Call = c.track(*frame.Call, nil)
	}
	if frame.Participant != nil {
		ev.Participant = frame.Participant.toEngine()
		if tc := c.currentTracked(); tc != nil {
			switch kind {
			case enginepkg.EventParticipantAdded, enginepkg.EventParticipantUpdated:
				tc.base.upsertParticipant(*frame.Participant)
			case enginepkg.EventParticipantRemoved:
				tc.base.removeParticipant(frame.Participant.Identity)
			}
			if ev.Call == nil {
				ev.Call = tc.handle
			}
		}
	}
	if frame.Message != nil {
		ev.Message = frame.Message.toEngine()
	}
	return ev, true
}

func (c *Client) dispatch(ev enginepkg.Event) {
	c.mu.Lock()
	handlers := make([]func(enginepkg.Event), 0, len(c.handlers))
	for _, h := range c.handlers {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

package host

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/bridge"
)

var (
	errBackpressure     = errors.New("send queue full")
	errConnectionClosed = errors.New("connection closed")
)

// wsConn is the part of *websocket.Conn a connection uses.
type wsConn interface {
	ReadJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type request struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params map[string]any  `json:"params"`
}

type response struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result"`
}

type errorResponse struct {
	ID    json.RawMessage `json:"id"`
	Error *bridge.Error   `json:"error"`
}

type eventMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type connection struct {
	id     string
	ws     wsConn
	server *Server

	// sendTimeout bounds how long a frame waits for room in send before the
	// host is considered stalled.
	sendTimeout time.Duration
	send        chan []byte
	done     chan struct{}
	once     sync.Once
	commands sync.WaitGroup
}

func newConnection(id string, ws wsConn, s *Server) *connection {
	return &connection{
		id:          id,
		ws:          ws,
		server:      s,
		sendTimeout: sendTimeout,
		send:        make(chan []byte, sendQueueSize),
		done:        make(chan struct{}),
	}
}

// serve runs the connection until the host goes away. Commands still running
// at that point complete against the bridge; only their replies are lost.
func (c *connection) serve() {
	ctx := context.Background()
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop()
	}()

	c.readLoop(ctx)

	c.commands.Wait()
	c.close()
	<-writerDone
}

func (c *connection) readLoop(ctx context.Context) {
	for {
		var req request
		if err := c.ws.ReadJSON(&req); err != nil {
			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				slog.Warn("malformed host frame", "connection_id", c.id, "error", err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				slog.Error("unexpected websocket close", "connection_id", c.id, "error", err)
			}
			return
		}
		c.commands.Add(1)
		go func() {
			defer c.commands.Done()
			c.handle(ctx, req)
		}()
	}
}

func (c *connection) handle(ctx context.Context, req request) {
	method, ok := c.server.methods[req.Method]
	if !ok {
		c.replyError(req.ID, &bridge.Error{Kind: bridge.KindValidationFailure, Message: "unknown method " + req.Method})
		return
	}
	params := req.Params
	if params == nil {
		params = map[string]any{}
	}
	result, err := method(ctx, c, params)
	if err != nil {
		ne := bridge.Normalize(err, bridge.KindUnknown)
		slog.Debug("command failed", "connection_id", c.id, "method", req.Method, "kind", ne.Kind, "error", ne.Message)
		c.replyError(req.ID, ne)
		return
	}
	c.enqueue(response{ID: req.ID, Result: result})
}

func (c *connection) replyError(id json.RawMessage, e *bridge.Error) {
	c.enqueue(errorResponse{ID: id, Error: e})
}

// sendEvent is the bridge listener. It blocks the bridge for at most
// sendTimeout, after which the connection is dropped.
func (c *connection) sendEvent(ev bridge.Event) {
	if err := c.enqueue(eventMessage{Event: ev.Name, Data: ev.Payload}); err != nil {
		slog.Warn("event dropped", "connection_id", c.id, "event", ev.Name, "error", err)
	}
}

func (c *connection) enqueue(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode host frame", "connection_id", c.id, "error", err)
		return err
	}
	select {
	case <-c.done:
		return errConnectionClosed
	default:
	}
	select {
	case c.send <- b:
		return nil
	default:
	}

	timer := time.NewTimer(c.sendTimeout)
	defer timer.Stop()
	select {
	case c.send <- b:
		return nil
	case <-c.done:
		return errConnectionClosed
	case <-timer.C:
		slog.Warn("host is not draining frames, closing connection", "connection_id", c.id, "queued", len(c.send))
		c.close()
		return errBackpressure
	}
}

func (c *connection) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				slog.Warn("websocket write failed", "connection_id", c.id, "error", err)
				c.close()
				return
			}
		}
	}
}

// close stops the connection and gives up its bridge listener.
func (c *connection) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
		c.server.unobserve(c)
	})
}

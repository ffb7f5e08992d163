package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	enginepkg "github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

type fakeEngine struct {
	t      *testing.T
	server *httptest.Server
	frames chan eventFrame
	done   chan struct{}

	mu       sync.Mutex
	requests []string
	auth     []string
	placed   int
}

func newFakeEngine(t *testing.T) *fakeEngine {
	t.Helper()
	fe := &fakeEngine{
		t:      t,
		frames: make(chan eventFrame, 16),
		done:   make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/session", func(w http.ResponseWriter, r *http.Request) {
		fe.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/v1/calls", func(w http.ResponseWriter, r *http.Request) {
		fe.record(r)
		var req callRequestDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode call request: %v", err)
		}
		fe.mu.Lock()
		fe.placed++
		ref := fmt.Sprintf("call-%d", fe.placed)
		fe.mu.Unlock()
		writeJSON(w, callDTO{
			Ref:              ref,
			CurrentUserID:    7,
			IsVideo:          req.IsVideo,
			AccessToken:      "media-token",
			Identity:         "me",
			CanAddThirdParty: true,
		})
	})
	mux.HandleFunc("POST /api/v1/calls/{ref}/hangup", func(w http.ResponseWriter, r *http.Request) {
		fe.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/v1/calls/{ref}/mute", func(w http.ResponseWriter, r *http.Request) {
		fe.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/v1/profile", func(w http.ResponseWriter, r *http.Request) {
		fe.record(r)
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, errorBodyDTO{Message: "token expired"})
	})
	mux.HandleFunc("GET /api/v1/dictionaries", func(w http.ResponseWriter, r *http.Request) {
		fe.record(r)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("GET /api/v1/languages/voice", func(w http.ResponseWriter, r *http.Request) {
		fe.record(r)
		order := 2
		writeJSON(w, []languageDTO{{ID: 1, Code: "en", Name: "English", Enabled: true, OPIPolicyOrder: &order}})
	})
	mux.HandleFunc("GET /api/v1/events", fe.serveEvents)
	fe.server = httptest.NewServer(mux)
	t.Cleanup(func() {
		close(fe.done)
		fe.server.Close()
	})
	return fe
}

func (fe *fakeEngine) record(r *http.Request) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.requests = append(fe.requests, r.Method+" "+r.URL.Path)
	fe.auth = append(fe.auth, r.Header.Get("Authorization"))
}

func (fe *fakeEngine) serveEvents(w http.ResponseWriter, r *http.Request) {
	fe.record(r)
	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fe.t.Errorf("upgrade failed: %v", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	for {
		select {
		case f := <-fe.frames:
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		case <-gone:
			return
		case <-fe.done:
			return
		}
	}
}

func (fe *fakeEngine) requested(entry string) bool {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	for _, r := range fe.requests {
		if r == entry {
			return true
		}
	}
	return false
}

func (fe *fakeEngine) template() string {
	return strings.Replace(fe.server.URL, "127.0.0.1", "{region}", 1)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fe *fakeEngine) *Client {
	t.Helper()
	f := NewFactory(fe.template(), []string{"127.0.0.1"}, 5*time.Second)
	c, err := f.NewClient("secret", "127.0.0.1")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Dispose()
	})
	return c.(*Client)
}

func subscribe(t *testing.T, c *Client) <-chan enginepkg.Event {
	t.Helper()
	events := make(chan enginepkg.Event, 16)
	unsubscribe := c.Subscribe(func(ev enginepkg.Event) {
		events <- ev
	})
	t.Cleanup(unsubscribe)
	return events
}

func nextEvent(t *testing.T, events <-chan enginepkg.Event) enginepkg.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for engine event")
		return enginepkg.Event{}
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory("https://{region}.engine.test", []string{"us", "eu"}, time.Second)

	if got := f.Regions(); len(got) != 2 || got[0] != "us" || got[1] != "eu" {
		t.Fatalf("unexpected regions: %v", got)
	}
	if f.Version() != ClientVersion {
		t.Fatalf("unexpected version: %s", f.Version())
	}
	if _, err := f.NewClient("token", "ap"); err == nil {
		t.Fatal("expected error for unknown region")
	}
	if _, err := f.NewClient("", "us"); err == nil {
		t.Fatal("expected error for empty token")
	}
	c, err := f.NewClient("token", "eu")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if got := c.(*Client).baseURL.Host; got != "eu.engine.test" {
		t.Fatalf("expected region in host, got %s", got)
	}
	if got := c.(*Client).streamURL(); got != "wss://eu.engine.test/api/v1/events" {
		t.Fatalf("unexpected stream url: %s", got)
	}
}

func TestClient_InitializeAndCallEvents(t *testing.T) {
	fe := newFakeEngine(t)
	c := newTestClient(t, fe)
	events := subscribe(t, c)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	call, err := c.MakeVoiceCall(context.Background(), enginepkg.CallRequest{LanguageFromID: 1, LanguageToID: 2, ServiceTypeID: 3})
	if err != nil {
		t.Fatalf("MakeVoiceCall failed: %v", err)
	}
	if call.CallID() != nil || call.AccessToken() != "media-token" {
		t.Fatalf("unexpected call state: id=%v token=%s", call.CallID(), call.AccessToken())
	}
	if c.currentCall() != call {
		t.Fatal("expected current call to be the placed call")
	}

	callID := int64(42)
	fe.frames <- eventFrame{Type: "callConnected", Call: &callDTO{Ref: "call-1", CallID: &callID, IsInProgress: true, Identity: "me"}}
	ev := nextEvent(t, events)
	if ev.Kind != enginepkg.EventCallConnected || ev.Call != call {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if got := call.CallID(); got == nil || *got != 42 || !call.IsInProgress() {
		t.Fatalf("expected call state refreshed from event, got id=%v", got)
	}

	fe.frames <- eventFrame{Type: "participantAdded", Participant: &participantDTO{Identity: "int-1", ParticipantType: "interpreter", State: "connecting"}}
	ev = nextEvent(t, events)
	if ev.Kind != enginepkg.EventParticipantAdded || ev.Participant == nil || ev.Participant.Type != enginepkg.ParticipantTypeInterpreter {
		t.Fatalf("unexpected participant event: %+v", ev)
	}
	if ev.Call != call || len(call.Participants()) != 1 {
		t.Fatalf("expected participant tracked on call, got %d", len(call.Participants()))
	}

	fe.frames <- eventFrame{Type: "participantRemoved", Participant: &participantDTO{Identity: "int-1"}}
	nextEvent(t, events)
	if len(call.Participants()) != 0 {
		t.Fatalf("expected participant removed, got %v", call.Participants())
	}

	if err := call.SetMuted(context.Background(), true); err != nil {
		t.Fatalf("SetMuted failed: %v", err)
	}
	if !call.IsMuted() {
		t.Fatal("expected call muted")
	}

	fe.frames <- eventFrame{Type: "callDisconnected", Call: &callDTO{Ref: "call-1"}, Error: "remote hung up"}
	ev = nextEvent(t, events)
	if ev.Kind != enginepkg.EventCallDisconnected || ev.Call != call || ev.Err == nil || ev.Err.Error() != "remote hung up" {
		t.Fatalf("unexpected disconnect event: %+v", ev)
	}
	if c.currentCall() != nil {
		t.Fatal("expected no current call after disconnect")
	}

	fe.mu.Lock()
	defer fe.mu.Unlock()
	for _, a := range fe.auth {
		if a != "Bearer secret" {
			t.Fatalf("unexpected authorization header: %q", a)
		}
	}
}

func TestClient_UnknownFrameIsSkipped(t *testing.T) {
	fe := newFakeEngine(t)
	c := newTestClient(t, fe)
	events := subscribe(t, c)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	fe.frames <- eventFrame{Type: "somethingNew"}
	fe.frames <- eventFrame{Type: "chatMessageReceived", Message: &chatMessageDTO{Text: "hi"}}
	ev := nextEvent(t, events)
	if ev.Kind != enginepkg.EventChatMessageReceived || ev.Message == nil || ev.Message.Text != "hi" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestClient_VideoCallRenderers(t *testing.T) {
	fe := newFakeEngine(t)
	c := newTestClient(t, fe)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	call, err := c.MakeVideoCall(context.Background(), enginepkg.CallRequest{LanguageFromID: 1, LanguageToID: 2, ServiceTypeID: 3}, "local-view")
	if err != nil {
		t.Fatalf("MakeVideoCall failed: %v", err)
	}
	if !call.IsVideo() {
		t.Fatal("expected video call")
	}
	if err := call.AddRenderer("int-1", "remote-view"); err != nil {
		t.Fatalf("AddRenderer failed: %v", err)
	}
	vc := call.(*remoteVideoCall)
	if vc.localRenderer() != "local-view" {
		t.Fatalf("unexpected local renderer: %v", vc.localRenderer())
	}
	if r, ok := vc.renderer("int-1"); !ok || r != "remote-view" {
		t.Fatalf("unexpected remote renderer: %v", r)
	}
}

func TestClient_APIErrors(t *testing.T) {
	fe := newFakeEngine(t)
	c := newTestClient(t, fe)

	_, err := c.Profile(context.Background())
	var apiErr *enginepkg.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "token expired" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}

	_, err = c.CallDictionaries(context.Background())
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Message != "Service Unavailable" {
		t.Fatalf("expected status text fallback, got %+v", apiErr)
	}

	langs, err := c.VoiceLanguages(context.Background())
	if err != nil {
		t.Fatalf("VoiceLanguages failed: %v", err)
	}
	if len(langs) != 1 || langs[0].Code != "en" || langs[0].OPIPolicyOrder == nil || *langs[0].OPIPolicyOrder != 2 {
		t.Fatalf("unexpected languages: %+v", langs)
	}
}

func TestClient_NoActiveCall(t *testing.T) {
	fe := newFakeEngine(t)
	c := newTestClient(t, fe)

	if err := c.HangUp(context.Background()); !errors.Is(err, enginepkg.ErrNoActiveCall) {
		t.Fatalf("expected ErrNoActiveCall, got %v", err)
	}
	if _, err := c.SendChatMessage(context.Background(), "hi"); !errors.Is(err, enginepkg.ErrNoActiveCall) {
		t.Fatalf("expected ErrNoActiveCall, got %v", err)
	}
}

func TestClient_DisposeIsIdempotent(t *testing.T) {
	fe := newFakeEngine(t)
	c := newTestClient(t, fe)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := c.Dispose(); err != nil {
		t.Fatalf("Dispose failed: %v", err)
	}
	if err := c.Dispose(); err != nil {
		t.Fatalf("second Dispose failed: %v", err)
	}
}

func TestClient_LateTerminalFrameKeepsCurrentCall(t *testing.T) {
	fe := newFakeEngine(t)
	c := newTestClient(t, fe)
	events := subscribe(t, c)
	ctx := context.Background()
	if err := c.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	first, err := c.MakeVoiceCall(ctx, enginepkg.CallRequest{LanguageFromID: 1, LanguageToID: 2, ServiceTypeID: 3})
	if err != nil {
		t.Fatalf("first MakeVoiceCall failed: %v", err)
	}
	fe.frames <- eventFrame{Type: "callDisconnected", Call: &callDTO{Ref: "call-1"}}
	if ev := nextEvent(t, events); ev.Call != first {
		t.Fatalf("expected disconnect for the first call, got %+v", ev)
	}

	second, err := c.MakeVoiceCall(ctx, enginepkg.CallRequest{LanguageFromID: 1, LanguageToID: 2, ServiceTypeID: 3})
	if err != nil {
		t.Fatalf("second MakeVoiceCall failed: %v", err)
	}
	if second == first {
		t.Fatal("expected a new handle for the second call")
	}

	fe.frames <- eventFrame{Type: "callDisconnected", Call: &callDTO{Ref: "call-1"}}
	ev := nextEvent(t, events)
	if ev.Kind != enginepkg.EventCallDisconnected || ev.Call != first {
		t.Fatalf("late frame must resolve to the first handle, got %+v", ev)
	}
	fe.frames <- eventFrame{Type: "callFailedToConnect", Call: &callDTO{Ref: "call-0"}, Error: "stale"}
	if ev := nextEvent(t, events); ev.Call == nil || ev.Call == second {
		t.Fatalf("unknown ref must not resolve to the current call, got %+v", ev)
	}
	if c.currentCall() != second {
		t.Fatal("late terminal frames must not replace the current call")
	}

	if err := c.HangUp(ctx); err != nil {
		t.Fatalf("HangUp failed: %v", err)
	}
	if !fe.requested("POST /api/v1/calls/call-2/hangup") {
		t.Fatal("expected hang up to target the second call")
	}
}

func (c *Client) currentCall() enginepkg.Call {
	tc := c.currentTracked()
	if tc == nil {
		return nil
	}
	return tc.handle
}

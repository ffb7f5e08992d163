package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/audio"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/repository"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/webhook"
)

type mockFactory struct {
	clients   []*mockClient
	newErr    error
	newClient func() *mockClient
}

func (f *mockFactory) NewClient(authToken, region string) (engine.Client, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	c := &mockClient{}
	if f.newClient != nil {
		c = f.newClient()
	}
	c.authToken = authToken
	c.region = region
	f.clients = append(f.clients, c)
	return c, nil
}

func (f *mockFactory) Regions() []string { return []string{"us", "eu"} }
func (f *mockFactory) Version() string   { return "1.2.3" }

func (f *mockFactory) last() *mockClient {
	return f.clients[len(f.clients)-1]
}

type mockClient struct {
	authToken string
	region    string

	mu            sync.Mutex
	handler       func(engine.Event)
	unsubscribed  int
	disposed      int
	initErr       error
	disposeErr    error
	placeErr      error
	hangUpErr     error
	profileErr    error
	nextCall      engine.Call
	placeGate     chan struct{}
	hangUpGate    chan struct{}
	hangUpStarted chan struct{}
	hangUps       int
	localRenderer engine.Renderer
	chatSent      []string
}

func (c *mockClient) Initialize(context.Context) error { return c.initErr }

func (c *mockClient) Subscribe(handler func(engine.Event)) func() {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.handler = nil
		c.unsubscribed++
		c.mu.Unlock()
	}
}

func (c *mockClient) fire(ev engine.Event) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

func (c *mockClient) MakeVoiceCall(ctx context.Context, _ engine.CallRequest) (engine.Call, error) {
	if c.placeGate != nil {
		<-c.placeGate
	}
	if c.placeErr != nil {
		return nil, c.placeErr
	}
	return c.nextCall, nil
}

func (c *mockClient) MakeVideoCall(ctx context.Context, _ engine.CallRequest, local engine.Renderer) (engine.VideoCall, error) {
	c.localRenderer = local
	if c.placeErr != nil {
		return nil, c.placeErr
	}
	return c.nextCall.(engine.VideoCall), nil
}

func (c *mockClient) HangUp(context.Context) error {
	c.mu.Lock()
	c.hangUps++
	c.mu.Unlock()
	if c.hangUpStarted != nil {
		close(c.hangUpStarted)
	}
	if c.hangUpGate != nil {
		<-c.hangUpGate
	}
	return c.hangUpErr
}

func (c *mockClient) SendChatMessage(_ context.Context, text string) (*engine.ChatMessage, error) {
	c.chatSent = append(c.chatSent, text)
	return &engine.ChatMessage{User: engine.ChatUser{ID: 1}, Text: text, SentTime: time.UnixMilli(5_000)}, nil
}

func (c *mockClient) CallDictionaries(context.Context) (*engine.CallDictionaries, error) {
	return &engine.CallDictionaries{Genders: []engine.Gender{{ID: 1, Name: "Female"}}}, nil
}

func (c *mockClient) Profile(context.Context) (*engine.Profile, error) {
	if c.profileErr != nil {
		return nil, c.profileErr
	}
	return &engine.Profile{AccountName: "acme", Email: "a@example.com"}, nil
}

func (c *mockClient) VoiceLanguages(context.Context) ([]engine.Language, error) {
	return []engine.Language{{ID: 1, Code: "en"}}, nil
}

func (c *mockClient) VideoLanguages(context.Context) ([]engine.Language, error) {
	return []engine.Language{{ID: 2, Code: "es"}}, nil
}

func (c *mockClient) CallDetails(_ context.Context, callID int64) (*engine.CallDetails, error) {
	return &engine.CallDetails{CallID: callID, TimeRequested: time.UnixMilli(1_000)}, nil
}

func (c *mockClient) Dispose() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed++
	return c.disposeErr
}

type mockCall struct {
	mu           sync.Mutex
	callID       *int64
	participants []engine.Participant
	muted        bool
	muteErr      error
	muteCalls    int
	muteStarted  chan struct{}
	muteGate     chan struct{}
	dialed       []string
	hungUp       []string
}

func (c *mockCall) CallID() *int64                        { return c.callID }
func (c *mockCall) CurrentUserID() int64                  { return 10 }
func (c *mockCall) IsVideo() bool                         { return false }
func (c *mockCall) IsInProgress() bool                    { return true }
func (c *mockCall) AccessToken() string                   { return "access-token" }
func (c *mockCall) Identity() string                      { return "local" }
func (c *mockCall) InterlocutorInfo() *engine.Participant { return nil }
func (c *mockCall) CanAddThirdParty() bool                { return true }

func (c *mockCall) IsMuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *mockCall) muteCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muteCalls
}

func (c *mockCall) Participants() []engine.Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]engine.Participant(nil), c.participants...)
}

func (c *mockCall) addParticipant(p engine.Participant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.participants = append(c.participants, p)
}

func (c *mockCall) SetMuted(_ context.Context, muted bool) error {
	c.mu.Lock()
	c.muteCalls++
	started, gate := c.muteStarted, c.muteGate
	c.muteStarted = nil
	c.mu.Unlock()
	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.muteErr != nil {
		return c.muteErr
	}
	c.muted = muted
	return nil
}

func (c *mockCall) DialThirdParty(_ context.Context, phone string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialed = append(c.dialed, phone)
	return nil
}

func (c *mockCall) HangUpThirdParty(_ context.Context, identity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hungUp = append(c.hungUp, identity)
	return nil
}

func (c *mockCall) MuteThirdParty(context.Context, string, bool) error {
	return &engine.APIError{StatusCode: 409, Message: "participant cannot be muted"}
}

type mockVideoCall struct {
	mockCall
	videoEnabled bool
	attached     map[string]int
}

func (c *mockVideoCall) IsVideo() bool        { return true }
func (c *mockVideoCall) IsVideoEnabled() bool { return c.videoEnabled }
func (c *mockVideoCall) RoomID() *string {
	room := "room-1"
	return &room
}
func (c *mockVideoCall) SetVideoEnabled(_ context.Context, enabled bool) error {
	c.videoEnabled = enabled
	return nil
}
func (c *mockVideoCall) SwitchCamera(context.Context) error {
	return errors.New("camera unavailable")
}
func (c *mockVideoCall) AddRenderer(identity string, _ engine.Renderer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached == nil {
		c.attached = make(map[string]int)
	}
	c.attached[identity]++
	return nil
}

func (c *mockVideoCall) attachCount(identity string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached[identity]
}

type mockDeviceManager struct {
	mu              sync.Mutex
	activateCalls   int
	deactivateCalls int
	stopCalls       int
	selected        []audio.Device
}

func (m *mockDeviceManager) Start([]audio.DeviceKind) error { return nil }
func (m *mockDeviceManager) Activate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activateCalls++
	return nil
}
func (m *mockDeviceManager) Deactivate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deactivateCalls++
	return nil
}
func (m *mockDeviceManager) AvailableDevices() []audio.Device {
	return []audio.Device{{Name: "earpiece", Kind: audio.DeviceEarpiece}, {Name: "speaker", Kind: audio.DeviceSpeakerphone}}
}
func (m *mockDeviceManager) SelectDevice(d audio.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = append(m.selected, d)
	return nil
}
func (m *mockDeviceManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	return nil
}

func (m *mockDeviceManager) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activateCalls, m.deactivateCalls
}

type mockJournal struct {
	mu      sync.Mutex
	started []repository.StartCallInput
	ended   []repository.EndCallInput
}

func (j *mockJournal) RecordCallStarted(_ context.Context, input repository.StartCallInput) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.started = append(j.started, input)
	return nil
}

func (j *mockJournal) RecordCallEnded(_ context.Context, input repository.EndCallInput) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ended = append(j.ended, input)
	return nil
}

type mockWebhookSender struct {
	mu       sync.Mutex
	payloads []webhook.CallEndedPayload
}

func (m *mockWebhookSender) SendCallEnded(_ context.Context, payload webhook.CallEndedPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) listen(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) named(name string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Name)
	}
	return out
}

type fixture struct {
	bridge  *Bridge
	factory *mockFactory
	devices *mockDeviceManager
	journal *mockJournal
	webhook *mockWebhookSender
	events  *eventRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		factory: &mockFactory{},
		devices: &mockDeviceManager{},
		journal: &mockJournal{},
		webhook: &mockWebhookSender{},
		events:  &eventRecorder{},
	}
	f.bridge = NewBridge(f.factory, f.devices, f.journal, f.webhook)
	f.bridge.StartObserving(f.events.listen)
	t.Cleanup(func() {
		f.bridge.Dispose()
		f.bridge.Wait()
	})
	return f
}

func (f *fixture) initialize(t *testing.T, call engine.Call) *mockClient {
	t.Helper()
	f.factory.newClient = func() *mockClient { return &mockClient{nextCall: call} }
	if err := f.bridge.Initialize(context.Background(), InitOptions{AuthToken: "token", Region: "us"}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return f.factory.last()
}

func sampleRequest() engine.CallRequest {
	return engine.CallRequest{LanguageFromID: 1, LanguageToID: 2, ServiceTypeID: 3}
}

func requireKind(t *testing.T, err error, want Kind) *Error {
	t.Helper()
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if be.Kind != want {
		t.Fatalf("expected kind %s, got %s (%s)", want, be.Kind, be.Message)
	}
	return be
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(message)
}

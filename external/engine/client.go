package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/config"
	enginepkg "github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

const ClientVersion = "1.4.0"

type Factory struct {
	endpointTemplate string
	regions          []string
	timeout          time.Duration
	httpClient       *http.Client
	dialer           *websocket.Dialer
}

func NewFactory(endpointTemplate string, regions []string, timeout time.Duration) *Factory {
	return &Factory{
		endpointTemplate: endpointTemplate,
		regions:          slices.Clone(regions),
		timeout:          timeout,
		httpClient:       &http.Client{},
		dialer:           websocket.DefaultDialer,
	}
}

func (f *Factory) NewClient(authToken, region string) (enginepkg.Client, error) {
	if !slices.Contains(f.regions, region) {
		return nil, fmt.Errorf("unknown region %q", region)
	}
	if authToken == "" {
		return nil, fmt.Errorf("auth token is empty")
	}
	base, err := url.Parse(strings.ReplaceAll(f.endpointTemplate, config.RegionPlaceholder, region))
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint for region %q: %w", region, err)
	}
	return &Client{
		baseURL:  base,
		token:    authToken,
		http:     f.httpClient,
		dialer:   f.dialer,
		timeout:  f.timeout,
		handlers: make(map[int]func(enginepkg.Event)),
	}, nil
}

func (f *Factory) Regions() []string {
	return slices.Clone(f.regions)
}

func (f *Factory) Version() string {
	return ClientVersion
}

// Client talks to the calling engine service over HTTP, with a websocket
// carrying the event stream.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	dialer  *websocket.Dialer
	timeout time.Duration

	mu            sync.Mutex
	handlers      map[int]func(enginepkg.Event)
	nextHandlerID int
	conn          *websocket.Conn
	closed        bool
	current       *trackedCall
	// ended keeps recently finished calls so late frames resolve to the
	// handle the caller already holds.
	ended []*trackedCall
}

const maxEndedCalls = 16

type trackedCall struct {
	handle enginepkg.Call
	base   *remoteCall
}

func (c *Client) Initialize(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/v1/session", nil, nil); err != nil {
		return fmt.Errorf("validate session: %w", err)
	}
	return c.openStream(ctx)
}

func (c *Client) Subscribe(handler func(enginepkg.Event)) func() {
	c.mu.Lock()
	id := c.nextHandlerID
	c.nextHandlerID++
	c.handlers[id] = handler
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.handlers, id)
			c.mu.Unlock()
		})
	}
}

func (c *Client) MakeVoiceCall(ctx context.Context, req enginepkg.CallRequest) (enginepkg.Call, error) {
	var dto callDTO
	if err := c.do(ctx, http.MethodPost, "/api/v1/calls", newCallRequestDTO(req, false), &dto); err != nil {
		return nil, fmt.Errorf("make voice call: %w", err)
	}
	return c.track(dto, nil), nil
}

func (c *Client) MakeVideoCall(ctx context.Context, req enginepkg.CallRequest, local enginepkg.Renderer) (enginepkg.VideoCall, error) {
	var dto callDTO
	if err := c.do(ctx, http.MethodPost, "/api/v1/calls", newCallRequestDTO(req, true), &dto); err != nil {
		return nil, fmt.Errorf("make video call: %w", err)
	}
	dto.IsVideo = true
	vc, ok := c.track(dto, local).(enginepkg.VideoCall)
	if !ok {
		return nil, fmt.Errorf("make video call: engine returned voice call %q", dto.Ref)
	}
	return vc, nil
}

func (c *Client) HangUp(ctx context.Context) error {
	tc := c.currentTracked()
	if tc == nil {
		return enginepkg.ErrNoActiveCall
	}
	if err := c.do(ctx, http.MethodPost, tc.base.path("hangup"), nil, nil); err != nil {
		return fmt.Errorf("hang up: %w", err)
	}
	return nil
}

func (c *Client) SendChatMessage(ctx context.Context, text string) (*enginepkg.ChatMessage, error) {
	tc := c.currentTracked()
	if tc == nil {
		return nil, enginepkg.ErrNoActiveCall
	}
	var dto chatMessageDTO
	if err := c.do(ctx, http.MethodPost, tc.base.path("chat"), map[string]string{"text": text}, &dto); err != nil {
		return nil, fmt.Errorf("send chat message: %w", err)
	}
	return dto.toEngine(), nil
}

func (c *Client) CallDictionaries(ctx context.Context) (*enginepkg.CallDictionaries, error) {
	var dto dictionariesDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/dictionaries", nil, &dto); err != nil {
		return nil, fmt.Errorf("get call dictionaries: %w", err)
	}
	return dto.toEngine(), nil
}

func (c *Client) Profile(ctx context.Context) (*enginepkg.Profile, error) {
	var dto profileDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &dto); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return dto.toEngine(), nil
}

func (c *Client) VoiceLanguages(ctx context.Context) ([]enginepkg.Language, error) {
	return c.languages(ctx, "voice")
}

func (c *Client) VideoLanguages(ctx context.Context) ([]enginepkg.Language, error) {
	return c.languages(ctx, "video")
}

func (c *Client) languages(ctx context.Context, kind string) ([]enginepkg.Language, error) {
	var dto []languageDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/languages/"+kind, nil, &dto); err != nil {
		return nil, fmt.Errorf("get %s languages: %w", kind, err)
	}
	return toEngineLanguages(dto), nil
}

func (c *Client) CallDetails(ctx context.Context, callID int64) (*enginepkg.CallDetails, error) {
	var dto callDetailsDTO
	path := "/api/v1/calls/" + strconv.FormatInt(callID, 10) + "/details"
	if err := c.do(ctx, http.MethodGet, path, nil, &dto); err != nil {
		return nil, fmt.Errorf("get call details: %w", err)
	}
	return dto.toEngine(), nil
}

// Dispose closes the event stream. It does not wait for the read loop, so
// it is safe to call from an event handler.
func (c *Client) Dispose() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.current = nil
	clear(c.handlers)
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return conn.Close()
}

// track returns the live handle for dto. A call already known by ref keeps
// its handle, so events and REST results resolve to the same value.
func (c *Client) track(dto callDTO, local enginepkg.Renderer) enginepkg.Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.base.ref == dto.Ref {
		c.current.base.update(dto)
		if vc, ok := c.current.handle.(*remoteVideoCall); ok && local != nil {
			vc.setLocal(local)
		}
		return c.current.handle
	}
	if tc := c.endedLocked(dto.Ref); tc != nil {
		tc.base.update(dto)
		return tc.handle
	}
	c.current = newTrackedCall(c, dto, local)
	return c.current.handle
}

// trackEnded resolves the call a terminal frame refers to. The current call
// is only released when the frame is about it.
func (c *Client) trackEnded(dto callDTO) enginepkg.Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	tc := c.endedLocked(dto.Ref)
	switch {
	case c.current != nil && c.current.base.ref == dto.Ref:
		tc = c.current
		c.current = nil
	case tc != nil:
		tc.base.update(dto)
		return tc.handle
	default:
		tc = newTrackedCall(c, dto, nil)
	}
	tc.base.update(dto)
	if len(c.ended) == maxEndedCalls {
		c.ended = c.ended[1:]
	}
	c.ended = append(c.ended, tc)
	return tc.handle
}

func (c *Client) endedLocked(ref string) *trackedCall {
	for _, tc := range c.ended {
		if tc.base.ref == ref {
			return tc
		}
	}
	return nil
}

func newTrackedCall(c *Client, dto callDTO, local enginepkg.Renderer) *trackedCall {
	if dto.IsVideo {
		vc := newRemoteVideoCall(c, dto, local)
		return &trackedCall{handle: vc, base: vc.remoteCall}
	}
	call := newRemoteCall(c, dto)
	return &trackedCall{handle: call, base: call}
}

func (c *Client) currentTracked() *trackedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var body errorBodyDTO
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}
	return &enginepkg.APIError{StatusCode: resp.StatusCode, Message: body.Message}
}

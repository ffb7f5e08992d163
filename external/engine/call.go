package engine

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	enginepkg "github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

// remoteCall is the live handle for one call. Its state is refreshed from
// REST responses and event frames.
type remoteCall struct {
	client *Client
	ref    string

	mu    sync.RWMutex
	state callDTO
}

func newRemoteCall(c *Client, dto callDTO) *remoteCall {
	return &remoteCall{client: c, ref: dto.Ref, state: dto}
}

func (c *remoteCall) update(dto callDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = dto
}

func (c *remoteCall) upsertParticipant(p participantDTO) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.state.Participants {
		if c.state.Participants[i].Identity == p.Identity {
			c.state.Participants[i] = p
			return
		}
	}
	c.state.Participants = append(c.state.Participants, p)
}

func (c *remoteCall) removeParticipant(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.state.Participants[:0]
	for _, p := range c.state.Participants {
		if p.Identity != identity {
			kept = append(kept, p)
		}
	}
	c.state.Participants = kept
}

func (c *remoteCall) CallID() *int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.CallID
}

func (c *remoteCall) CurrentUserID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.CurrentUserID
}

func (c *remoteCall) IsVideo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsVideo
}

func (c *remoteCall) IsInProgress() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsInProgress
}

func (c *remoteCall) IsMuted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsMuted
}

func (c *remoteCall) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.AccessToken
}

func (c *remoteCall) Identity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Identity
}

func (c *remoteCall) InterlocutorInfo() *enginepkg.Participant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Interlocutor.toEngine()
}

func (c *remoteCall) Participants() []enginepkg.Participant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]enginepkg.Participant, 0, len(c.state.Participants))
	for i := range c.state.Participants {
		out = append(out, *c.state.Participants[i].toEngine())
	}
	return out
}

func (c *remoteCall) CanAddThirdParty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.CanAddThirdParty
}

func (c *remoteCall) SetMuted(ctx context.Context, muted bool) error {
	if err := c.client.do(ctx, http.MethodPost, c.path("mute"), map[string]bool{"muted": muted}, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.IsMuted = muted
	c.mu.Unlock()
	return nil
}

func (c *remoteCall) DialThirdParty(ctx context.Context, phone string) error {
	return c.client.do(ctx, http.MethodPost, c.path("third-party"), map[string]string{"phone": phone}, nil)
}

func (c *remoteCall) HangUpThirdParty(ctx context.Context, identity string) error {
	return c.client.do(ctx, http.MethodDelete, c.path("third-party", identity), nil, nil)
}

func (c *remoteCall) MuteThirdParty(ctx context.Context, identity string, mute bool) error {
	return c.client.do(ctx, http.MethodPost, c.path("third-party", identity, "mute"), map[string]bool{"mute": mute}, nil)
}

func (c *remoteCall) path(segments ...string) string {
	p := "/api/v1/calls/" + url.PathEscape(c.ref)
	for _, s := range segments {
		p += "/" + url.PathEscape(s)
	}
	return p
}

type remoteVideoCall struct {
	*remoteCall

	renderersMu sync.Mutex
	local       enginepkg.Renderer
	remote      map[string]enginepkg.Renderer
}

func newRemoteVideoCall(c *Client, dto callDTO, local enginepkg.Renderer) *remoteVideoCall {
	return &remoteVideoCall{
		remoteCall: newRemoteCall(c, dto),
		local:      local,
		remote:     make(map[string]enginepkg.Renderer),
	}
}

func (c *remoteVideoCall) IsVideoEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.IsVideoEnabled
}

func (c *remoteVideoCall) RoomID() *string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.RoomID
}

func (c *remoteVideoCall) SetVideoEnabled(ctx context.Context, enabled bool) error {
	if err := c.client.do(ctx, http.MethodPost, c.path("video"), map[string]bool{"enabled": enabled}, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.IsVideoEnabled = enabled
	c.mu.Unlock()
	return nil
}

func (c *remoteVideoCall) SwitchCamera(ctx context.Context) error {
	return c.client.do(ctx, http.MethodPost, c.path("camera", "flip"), nil, nil)
}

func (c *remoteVideoCall) AddRenderer(identity string, r enginepkg.Renderer) error {
	c.renderersMu.Lock()
	defer c.renderersMu.Unlock()
	c.remote[identity] = r
	return nil
}

func (c *remoteVideoCall) setLocal(r enginepkg.Renderer) {
	c.renderersMu.Lock()
	defer c.renderersMu.Unlock()
	c.local = r
}

func (c *remoteVideoCall) localRenderer() enginepkg.Renderer {
	c.renderersMu.Lock()
	defer c.renderersMu.Unlock()
	return c.local
}

func (c *remoteVideoCall) renderer(identity string) (enginepkg.Renderer, bool) {
	c.renderersMu.Lock()
	defer c.renderersMu.Unlock()
	r, ok := c.remote[identity]
	return r, ok
}

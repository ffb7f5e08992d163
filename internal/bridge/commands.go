package bridge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/projection"
)

func (b *Bridge) PlaceVoiceCall(ctx context.Context, req engine.CallRequest) (*projection.Call, error) {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	client, gen, err := b.prepareCall()
	if err != nil {
		return nil, err
	}
	defer b.endPlacement()
	call, err := client.MakeVoiceCall(ctx, req)
	if err != nil {
		return nil, Normalize(err, KindAPICallFailure)
	}
	return b.adoptCall(gen, call)
}

// PlaceVideoCall places a video call rendering the local camera into local,
// or into the renderer registered with AttachLocalRenderer when local is nil.
func (b *Bridge) PlaceVideoCall(ctx context.Context, req engine.CallRequest, local engine.Renderer) (*projection.Call, error) {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	client, gen, err := b.prepareCall()
	if err != nil {
		return nil, err
	}
	defer b.endPlacement()
	if local == nil {
		b.mu.Lock()
		local = b.renderers.local
		b.mu.Unlock()
	}
	call, err := client.MakeVideoCall(ctx, req, local)
	if err != nil {
		return nil, Normalize(err, KindAPICallFailure)
	}
	snap, err := b.adoptCall(gen, call)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	var pending []rendererBinding
	if b.session != nil && b.session.call == engine.Call(call) {
		pending = b.renderers.pendingFor(participantIdentities(call)...)
	}
	b.mu.Unlock()
	applyRenderers(call, pending)
	return snap, nil
}

// prepareCall checks placement preconditions and starts audio routing ahead
// of the engine call.
func (b *Bridge) prepareCall() (engine.Client, uint64, error) {
	b.mu.Lock()
	client, sess, gen := b.client, b.session, b.generation
	if client == nil {
		b.mu.Unlock()
		return nil, 0, errNotInitialized
	}
	if sess != nil {
		b.mu.Unlock()
		return nil, 0, errCallInProgress
	}
	b.placing = true
	b.pendingEnded = false
	b.mu.Unlock()

	if err := b.audio.Start(); err != nil {
		slog.Warn("failed to start audio routing", "error", err)
	}
	return client, gen, nil
}

func (b *Bridge) endPlacement() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.placing = false
	b.pendingEnded = false
}

func (b *Bridge) adoptCall(gen uint64, call engine.Call) (*projection.Call, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.generation != gen {
		slog.Info("discarding placed call, bridge was disposed")
		return nil, errDisposed
	}
	switch {
	case b.session != nil && b.session.call == call:
		// already adopted from the connect event
	case b.isRetiredLocked(call) || b.pendingEnded:
		// ended before placement resolved
	default:
		b.newSessionLocked(call)
	}
	return projection.ProjectCall(call), nil
}

// HangUp ends the active call. Without one it succeeds and does nothing.
func (b *Bridge) HangUp(ctx context.Context) error {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	client, sess, gen := b.snapshot()
	if client == nil || sess == nil {
		return nil
	}
	if err := client.HangUp(ctx); err != nil {
		return Normalize(err, KindAPICallFailure)
	}

	b.eventMu.Lock()
	defer b.eventMu.Unlock()
	b.finishCall(gen, sess.call, false, nil)
	return nil
}

func (b *Bridge) MuteCall(ctx context.Context, muted bool) {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	_, sess, gen := b.snapshot()
	if sess == nil {
		return
	}
	if err := sess.call.SetMuted(ctx, muted); err != nil && b.stillActive(gen, sess) {
		b.emitError(err)
	}
}

func (b *Bridge) EnableVideo(ctx context.Context, enabled bool) {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	vc, sess, gen := b.activeVideoCall()
	if vc == nil {
		return
	}
	if err := vc.SetVideoEnabled(ctx, enabled); err != nil && b.stillActive(gen, sess) {
		b.emitError(err)
	}
}

func (b *Bridge) FlipCamera(ctx context.Context) {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	vc, sess, gen := b.activeVideoCall()
	if vc == nil {
		return
	}
	if err := vc.SwitchCamera(ctx); err != nil && b.stillActive(gen, sess) {
		b.emitError(err)
	}
}

func (b *Bridge) activeVideoCall() (engine.VideoCall, *activeSession, uint64) {
	_, sess, gen := b.snapshot()
	if sess == nil {
		return nil, nil, gen
	}
	vc, ok := sess.call.(engine.VideoCall)
	if !ok {
		return nil, nil, gen
	}
	return vc, sess, gen
}

func (b *Bridge) DialThirdParty(ctx context.Context, phone string) error {
	return b.thirdPartyOp(ctx, "phone", phone, func(c engine.Call) error {
		return c.DialThirdParty(ctx, phone)
	})
}

func (b *Bridge) HangUpThirdParty(ctx context.Context, identity string) error {
	return b.thirdPartyOp(ctx, "identity", identity, func(c engine.Call) error {
		return c.HangUpThirdParty(ctx, identity)
	})
}

func (b *Bridge) MuteThirdParty(ctx context.Context, identity string, mute bool) error {
	return b.thirdPartyOp(ctx, "identity", identity, func(c engine.Call) error {
		return c.MuteThirdParty(ctx, identity, mute)
	})
}

// thirdPartyOp runs op against the active call. Without a call it succeeds
// for any input.
func (b *Bridge) thirdPartyOp(ctx context.Context, argName, arg string, op func(engine.Call) error) error {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	_, sess, gen := b.snapshot()
	if sess == nil {
		return nil
	}
	if strings.TrimSpace(arg) == "" {
		return newError(KindValidationFailure, argName+" is required")
	}
	if err := op(sess.call); err != nil {
		if !b.isCurrent(gen) {
			return nil
		}
		return Normalize(err, KindAPICallFailure)
	}
	return nil
}

func (b *Bridge) SendChatMessage(ctx context.Context, text string) (*projection.ChatMessage, error) {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	client, sess, gen := b.snapshot()
	if client == nil || sess == nil {
		return nil, errNoActiveCall
	}
	if strings.TrimSpace(text) == "" {
		return nil, newError(KindValidationFailure, "text is required")
	}
	msg, err := client.SendChatMessage(ctx, text)
	if !b.isCurrent(gen) {
		return nil, errDisposed
	}
	if err != nil {
		return nil, Normalize(err, KindAPICallFailure)
	}
	return projection.ProjectChatMessage(msg), nil
}

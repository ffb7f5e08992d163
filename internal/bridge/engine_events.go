package bridge

import (
	"log/slog"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/projection"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/repository"
)

func (b *Bridge) handleEngineEvent(gen uint64, ev engine.Event) {
	b.eventMu.Lock()
	defer b.eventMu.Unlock()

	if !b.isCurrent(gen) {
		slog.Debug("dropping event from released client", "kind", ev.Kind)
		return
	}
	switch ev.Kind {
	case engine.EventCallConnected:
		b.onCallConnected(gen, ev.Call)
	case engine.EventCallDisconnected:
		b.finishCall(gen, ev.Call, false, ev.Err)
	case engine.EventCallFailedToConnect:
		b.finishCall(gen, ev.Call, true, ev.Err)
	case engine.EventChatConnected:
		b.emit(EventChatConnected, nil)
	case engine.EventChatDisconnected:
		b.emit(EventChatDisconnected, nil)
	case engine.EventChatMessageReceived:
		b.emit(EventChatMessageReceived, projection.ProjectChatMessage(ev.Message))
	case engine.EventParticipantAdded:
		b.applyParticipantRenderer(ev.Call, ev.Participant)
		b.emit(EventCallParticipantConnected, projection.ProjectParticipant(ev.Participant))
	case engine.EventParticipantUpdated:
		b.applyParticipantRenderer(ev.Call, ev.Participant)
		b.emit(EventCallParticipantUpdated, projection.ProjectParticipant(ev.Participant))
	case engine.EventParticipantRemoved:
		b.emit(EventCallParticipantDisconnected, projection.ProjectParticipant(ev.Participant))
	case engine.EventStreamError:
		b.emitError(ev.Err)
	default:
		slog.Warn("unknown engine event", "kind", ev.Kind)
	}
}

func (b *Bridge) onCallConnected(gen uint64, call engine.Call) {
	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		return
	}
	if call == nil && b.session != nil {
		call = b.session.call
	}
	if call == nil || b.isRetiredLocked(call) {
		b.mu.Unlock()
		slog.Warn("ignoring connect event without a live call")
		return
	}
	sess := b.session
	if sess != nil && sess.call != call {
		b.mu.Unlock()
		slog.Warn("ignoring connect event for a call other than the active one", "session_ref", sess.ref)
		return
	}
	if sess == nil {
		sess = b.newSessionLocked(call)
	}
	if sess.connectedAt != nil {
		b.mu.Unlock()
		return
	}
	now := b.now()
	sess.connectedAt = &now
	snap := projection.ProjectCall(call)
	vc, _ := call.(engine.VideoCall)
	var pending []rendererBinding
	if vc != nil {
		pending = b.renderers.pendingFor(participantIdentities(call)...)
	}
	started := *sess
	b.mu.Unlock()

	if err := b.audio.Activate(); err != nil {
		slog.Warn("failed to activate audio route", "error", err)
	}
	applyRenderers(vc, pending)
	b.recordCallStarted(&started)
	slog.Info("call connected", "session_ref", started.ref)
	b.emit(EventCallDidConnect, snap)
}

// finishCall performs the terminal transition for call, or for the active
// session when call is nil. Only the active session, or a placement still in
// flight, can end; exactly one terminal event is emitted per call. Callers
// hold eventMu.
func (b *Bridge) finishCall(gen uint64, call engine.Call, failed bool, cause error) {
	b.mu.Lock()
	if b.generation != gen {
		b.mu.Unlock()
		return
	}
	target := call
	if target == nil && b.session != nil {
		target = b.session.call
	}
	if target != nil && b.isRetiredLocked(target) {
		b.mu.Unlock()
		return
	}
	sess := b.session
	switch {
	case sess != nil && sess.call != target:
		b.mu.Unlock()
		slog.Warn("ignoring terminal event for a call other than the active one", "session_ref", sess.ref)
		return
	case sess == nil && (!b.placing || b.pendingEnded):
		b.mu.Unlock()
		slog.Debug("ignoring terminal event without a session")
		return
	case sess == nil:
		// the pending placement ended before it resolved
		b.pendingEnded = true
	default:
		b.session = nil
		b.renderers.resetApplied()
	}
	b.retireLocked(target)
	b.mu.Unlock()

	if err := b.audio.Deactivate(); err != nil {
		slog.Warn("failed to deactivate audio route", "error", err)
	}

	var message *string
	if cause != nil {
		m := Normalize(cause, KindUnknown).Message
		message = &m
	}
	name, status := EventCallDidDisconnect, repository.CallStatusDisconnected
	if failed {
		name, status = EventCallDidFailToConnect, repository.CallStatusFailed
	}
	if sess == nil && target != nil {
		sess = &activeSession{ref: newSessionRef(), call: target, createdAt: b.now()}
	}
	if sess != nil {
		b.recordCallEnded(sess, target, status, message)
		slog.Info("call ended", "session_ref", sess.ref, "status", string(status))
	}
	b.emit(name, message)
}

func (b *Bridge) applyParticipantRenderer(call engine.Call, p *engine.Participant) {
	if p == nil {
		return
	}
	b.mu.Lock()
	if b.session == nil || (call != nil && b.session.call != call) {
		b.mu.Unlock()
		return
	}
	vc, ok := b.session.call.(engine.VideoCall)
	if !ok {
		b.mu.Unlock()
		return
	}
	pending := b.renderers.pendingFor(p.Identity)
	b.mu.Unlock()
	applyRenderers(vc, pending)
}

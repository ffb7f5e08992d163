package bridge

import (
	"log/slog"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

// rendererRegistry holds renderer bindings independently of any session.
// Guarded by Bridge.mu.
type rendererRegistry struct {
	local   engine.Renderer
	remote  map[string]engine.Renderer
	applied map[string]bool
}

func newRendererRegistry() rendererRegistry {
	return rendererRegistry{
		remote:  make(map[string]engine.Renderer),
		applied: make(map[string]bool),
	}
}

type rendererBinding struct {
	identity string
	renderer engine.Renderer
}

// pendingFor returns the unapplied bindings for the given participants and
// marks them applied.
func (r *rendererRegistry) pendingFor(identities ...string) []rendererBinding {
	var out []rendererBinding
	for _, id := range identities {
		h, ok := r.remote[id]
		if !ok || r.applied[id] {
			continue
		}
		r.applied[id] = true
		out = append(out, rendererBinding{identity: id, renderer: h})
	}
	return out
}

func (r *rendererRegistry) bindRemote(identity string, h engine.Renderer) {
	r.remote[identity] = h
	delete(r.applied, identity)
}

func (r *rendererRegistry) resetApplied() {
	clear(r.applied)
}

func (r *rendererRegistry) release() {
	r.local = nil
	clear(r.remote)
	clear(r.applied)
}

func (b *Bridge) AttachLocalRenderer(h engine.Renderer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderers.local = h
}

// AttachRemoteRenderer binds h to the participant with the given identity.
// The binding is applied as soon as that participant is part of the active
// video call, now or later.
func (b *Bridge) AttachRemoteRenderer(h engine.Renderer, identity string) {
	b.mu.Lock()
	b.renderers.bindRemote(identity, h)
	var (
		vc      engine.VideoCall
		pending []rendererBinding
	)
	if b.session != nil {
		if v, ok := b.session.call.(engine.VideoCall); ok && hasParticipant(v, identity) {
			vc = v
			pending = b.renderers.pendingFor(identity)
		}
	}
	b.mu.Unlock()
	applyRenderers(vc, pending)
}

func hasParticipant(c engine.Call, identity string) bool {
	for _, p := range c.Participants() {
		if p.Identity == identity {
			return true
		}
	}
	return false
}

func participantIdentities(c engine.Call) []string {
	ps := c.Participants()
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.Identity)
	}
	return ids
}

func applyRenderers(vc engine.VideoCall, bindings []rendererBinding) {
	if vc == nil {
		return
	}
	for _, rb := range bindings {
		if err := vc.AddRenderer(rb.identity, rb.renderer); err != nil {
			slog.Warn("failed to attach remote renderer", "identity", rb.identity, "error", err)
		}
	}
}

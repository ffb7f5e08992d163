package bridge

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/audio"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/audioroute"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/projection"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/repository"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/webhook"
)

// Bridge owns the engine client and the single active call session.
//
// Lock order is callMu, then eventMu, then mu. mu is never held across a
// blocking engine call.
type Bridge struct {
	factory engine.Factory
	audio   *audioroute.Router
	journal repository.CallJournal
	webhook webhook.Sender
	now     func() time.Time

	// callMu serializes commands on the session mutation path.
	callMu sync.Mutex
	// eventMu keeps emitted call events in engine order.
	eventMu sync.Mutex

	mu           sync.Mutex
	client       engine.Client
	generation   uint64
	session      *activeSession
	// retired holds the most recently ended calls so late terminal events
	// for them are dropped.
	retired []engine.Call
	// placing is set while a placement is in flight; pendingEnded records a
	// terminal event for it that arrived before the placement resolved.
	placing      bool
	pendingEnded bool
	renderers    rendererRegistry
	unsubscribes []func()

	listenerMu sync.Mutex
	listener   Listener

	background sync.WaitGroup
}

type activeSession struct {
	ref         string
	call        engine.Call
	createdAt   time.Time
	connectedAt *time.Time
}

func NewBridge(factory engine.Factory, devices audio.DeviceManager, journal repository.CallJournal, wh webhook.Sender) *Bridge {
	return &Bridge{
		factory:   factory,
		audio:     audioroute.NewRouter(devices),
		journal:   journal,
		webhook:   wh,
		now:       time.Now,
		renderers: newRendererRegistry(),
	}
}

// Initialize creates the engine client and subscribes to its events. A
// previously initialized client is torn down first.
func (b *Bridge) Initialize(ctx context.Context, opts InitOptions) error {
	b.callMu.Lock()
	defer b.callMu.Unlock()

	if err := b.teardown(); err != nil {
		b.emitError(err)
	}

	client, err := b.factory.NewClient(opts.AuthToken, opts.Region)
	if err != nil {
		return Normalize(err, KindInitializationFailure)
	}

	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.client = client
	b.mu.Unlock()

	unsubscribe := client.Subscribe(func(ev engine.Event) {
		b.handleEngineEvent(gen, ev)
	})
	b.mu.Lock()
	b.unsubscribes = append(b.unsubscribes, unsubscribe)
	b.mu.Unlock()

	if err := client.Initialize(ctx); err != nil {
		if terr := b.teardown(); terr != nil {
			slog.Warn("teardown after failed initialize", "error", terr)
		}
		return Normalize(err, KindInitializationFailure)
	}
	slog.Info("bridge initialized", "region", opts.Region)
	return nil
}

// Dispose releases the engine client and everything attached to it. It is
// idempotent; teardown failures are reported as an error event.
func (b *Bridge) Dispose() {
	if err := b.teardown(); err != nil {
		b.emitError(err)
	}
}

func (b *Bridge) teardown() error {
	b.mu.Lock()
	client := b.client
	if client == nil {
		b.mu.Unlock()
		return nil
	}
	unsubscribes := b.unsubscribes
	sess := b.session
	b.client = nil
	b.unsubscribes = nil
	b.session = nil
	b.retired = nil
	b.pendingEnded = false
	b.generation++
	b.renderers.release()
	b.mu.Unlock()

	for _, unsubscribe := range unsubscribes {
		unsubscribe()
	}
	var errs []error
	if err := b.audio.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := client.Dispose(); err != nil {
		errs = append(errs, err)
	}
	if sess != nil {
		msg := "bridge disposed"
		b.recordCallEnded(sess, sess.call, repository.CallStatusDisconnected, &msg)
	}
	slog.Info("bridge disposed")
	return errors.Join(errs...)
}

// Wait blocks until background lifecycle work has finished.
func (b *Bridge) Wait() {
	b.background.Wait()
}

func (b *Bridge) CurrentCall() *projection.Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return nil
	}
	return projection.ProjectCall(b.session.call)
}

func (b *Bridge) Regions() []string {
	return b.factory.Regions()
}

func (b *Bridge) Version() string {
	return b.factory.Version()
}

func (b *Bridge) ToggleAudioRoute(toSpeaker bool) {
	if err := b.audio.Toggle(toSpeaker); err != nil {
		b.emitError(err)
	}
}

func (b *Bridge) newSessionLocked(call engine.Call) *activeSession {
	b.session = &activeSession{
		ref:       newSessionRef(),
		call:      call,
		createdAt: b.now(),
	}
	b.renderers.resetApplied()
	slog.Info("call session created", "session_ref", b.session.ref, "is_video", call.IsVideo())
	return b.session
}

// maxRetiredCalls bounds the retired call history.
const maxRetiredCalls = 16

func (b *Bridge) retireLocked(call engine.Call) {
	if call == nil || b.isRetiredLocked(call) {
		return
	}
	if len(b.retired) == maxRetiredCalls {
		b.retired = append(b.retired[:0], b.retired[1:]...)
	}
	b.retired = append(b.retired, call)
}

func (b *Bridge) isRetiredLocked(call engine.Call) bool {
	for _, c := range b.retired {
		if c == call {
			return true
		}
	}
	return false
}

// stillActive reports whether sess is the active session of generation gen.
func (b *Bridge) stillActive(gen uint64, sess *activeSession) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation == gen && b.session == sess
}

func (b *Bridge) snapshot() (engine.Client, *activeSession, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client, b.session, b.generation
}

func (b *Bridge) isCurrent(gen uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation == gen
}

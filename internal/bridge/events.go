package bridge

import "log/slog"

const (
	EventCallDidConnect              = "callDidConnect"
	EventCallDidDisconnect           = "callDidDisconnect"
	EventCallDidFailToConnect        = "callDidFailToConnect"
	EventChatConnected               = "chatConnected"
	EventChatDisconnected            = "chatDisconnected"
	EventChatMessageReceived         = "chatMessageReceived"
	EventCallParticipantConnected    = "callParticipantConnected"
	EventCallParticipantUpdated      = "callParticipantUpdated"
	EventCallParticipantDisconnected = "callParticipantDisconnected"
	EventError                       = "error"
)

// EventNames lists every event the bridge can emit.
var EventNames = []string{
	EventCallDidConnect,
	EventCallDidDisconnect,
	EventCallDidFailToConnect,
	EventChatConnected,
	EventChatDisconnected,
	EventChatMessageReceived,
	EventCallParticipantConnected,
	EventCallParticipantUpdated,
	EventCallParticipantDisconnected,
	EventError,
}

type Event struct {
	Name    string
	Payload any
}

type Listener func(Event)

func (b *Bridge) StartObserving(l Listener) {
	b.listenerMu.Lock()
	defer b.listenerMu.Unlock()
	b.listener = l
}

func (b *Bridge) StopObserving() {
	b.listenerMu.Lock()
	defer b.listenerMu.Unlock()
	b.listener = nil
}

func (b *Bridge) emit(name string, payload any) {
	b.listenerMu.Lock()
	l := b.listener
	b.listenerMu.Unlock()
	if l == nil {
		slog.Debug("event dropped, no listener", "event", name)
		return
	}
	l(Event{Name: name, Payload: payload})
}

func (b *Bridge) emitError(err error) {
	if err == nil {
		return
	}
	ne := Normalize(err, KindUnknown)
	slog.Error("bridge error", "kind", ne.Kind, "error", ne.Message)
	b.emit(EventError, ne.Message)
}

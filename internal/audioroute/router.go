package audioroute

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/audio"
)

// PreferredOrder ranks output devices, highest first.
var PreferredOrder = []audio.DeviceKind{
	audio.DeviceBluetoothHeadset,
	audio.DeviceWiredHeadset,
	audio.DeviceSpeakerphone,
	audio.DeviceEarpiece,
}

// Router applies the audio routing policy on top of a DeviceManager.
// All methods are safe for concurrent use and idempotent.
type Router struct {
	devices audio.DeviceManager

	mu      sync.Mutex
	started bool
	active  bool
}

func NewRouter(devices audio.DeviceManager) *Router {
	return &Router{devices: devices}
}

func (r *Router) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	if err := r.devices.Start(PreferredOrder); err != nil {
		return fmt.Errorf("start audio devices: %w", err)
	}
	r.started = true
	if best, ok := pickPreferred(r.devices.AvailableDevices()); ok {
		if err := r.devices.SelectDevice(best); err != nil {
			slog.Warn("failed to select preferred audio device", "device", best.Name, "error", err)
		}
	}
	return nil
}

func (r *Router) Activate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started || r.active {
		return nil
	}
	if err := r.devices.Activate(); err != nil {
		return fmt.Errorf("activate audio route: %w", err)
	}
	r.active = true
	return nil
}

func (r *Router) Deactivate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deactivateLocked()
}

func (r *Router) deactivateLocked() error {
	if !r.active {
		return nil
	}
	r.active = false
	if err := r.devices.Deactivate(); err != nil {
		return fmt.Errorf("deactivate audio route: %w", err)
	}
	return nil
}

// Toggle selects the first speakerphone (toSpeaker) or earpiece. It does
// nothing when no such device is available.
func (r *Router) Toggle(toSpeaker bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil
	}
	want := audio.DeviceEarpiece
	if toSpeaker {
		want = audio.DeviceSpeakerphone
	}
	for _, d := range r.devices.AvailableDevices() {
		if d.Kind == want {
			if err := r.devices.SelectDevice(d); err != nil {
				return fmt.Errorf("select %s: %w", want, err)
			}
			return nil
		}
	}
	slog.Debug("audio toggle ignored, device unavailable", "wanted", want.String())
	return nil
}

func (r *Router) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil
	}
	deactivateErr := r.deactivateLocked()
	r.started = false
	if err := r.devices.Stop(); err != nil {
		return fmt.Errorf("stop audio devices: %w", err)
	}
	return deactivateErr
}

func (r *Router) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

func (r *Router) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func pickPreferred(devices []audio.Device) (audio.Device, bool) {
	for _, kind := range PreferredOrder {
		for _, d := range devices {
			if d.Kind == kind {
				return d, true
			}
		}
	}
	return audio.Device{}, false
}

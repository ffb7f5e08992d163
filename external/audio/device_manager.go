package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/audio"
)

var ErrNotStarted = errors.New("audio device manager is not started")

// ConfiguredDeviceManager serves a fixed device list, for hosts without a
// platform audio switch.
type ConfiguredDeviceManager struct {
	devices []audio.Device

	mu        sync.Mutex
	started   bool
	active    bool
	preferred []audio.DeviceKind
	selected  *audio.Device
}

func NewConfiguredDeviceManager(kinds []string) (*ConfiguredDeviceManager, error) {
	devices := make([]audio.Device, 0, len(kinds))
	for _, name := range kinds {
		kind, err := audio.ParseDeviceKind(name)
		if err != nil {
			return nil, err
		}
		devices = append(devices, audio.Device{Name: name, Kind: kind})
	}
	return &ConfiguredDeviceManager{devices: devices}, nil
}

func (m *ConfiguredDeviceManager) Start(preferred []audio.DeviceKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = true
	m.preferred = slices.Clone(preferred)
	slog.Info("audio devices started", "available", len(m.devices))
	return nil
}

func (m *ConfiguredDeviceManager) Activate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return ErrNotStarted
	}
	m.active = true
	slog.Info("audio route activated", "device", m.selectedNameLocked())
	return nil
}

func (m *ConfiguredDeviceManager) Deactivate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
	slog.Info("audio route deactivated")
	return nil
}

func (m *ConfiguredDeviceManager) AvailableDevices() []audio.Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return nil
	}
	return slices.Clone(m.devices)
}

func (m *ConfiguredDeviceManager) SelectDevice(d audio.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return ErrNotStarted
	}
	if !slices.Contains(m.devices, d) {
		return fmt.Errorf("audio device %q is not available", d.Name)
	}
	m.selected = &d
	slog.Info("audio device selected", "device", d.Name, "kind", d.Kind.String())
	return nil
}

func (m *ConfiguredDeviceManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = false
	m.active = false
	m.selected = nil
	slog.Info("audio devices stopped")
	return nil
}

func (m *ConfiguredDeviceManager) Selected() (audio.Device, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return audio.Device{}, false
	}
	return *m.selected, true
}

func (m *ConfiguredDeviceManager) selectedNameLocked() string {
	if m.selected == nil {
		return ""
	}
	return m.selected.Name
}

package audio

import "fmt"

type DeviceKind int

const (
	DeviceBluetoothHeadset DeviceKind = iota + 1
	DeviceWiredHeadset
	DeviceSpeakerphone
	DeviceEarpiece
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceBluetoothHeadset:
		return "bluetooth"
	case DeviceWiredHeadset:
		return "wired_headset"
	case DeviceSpeakerphone:
		return "speakerphone"
	case DeviceEarpiece:
		return "earpiece"
	default:
		return "unknown"
	}
}

func ParseDeviceKind(s string) (DeviceKind, error) {
	for _, k := range []DeviceKind{DeviceBluetoothHeadset, DeviceWiredHeadset, DeviceSpeakerphone, DeviceEarpiece} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown audio device kind %q", s)
}

type Device struct {
	Name string
	Kind DeviceKind
}

// DeviceManager is the platform audio switch.
type DeviceManager interface {
	Start(preferred []DeviceKind) error
	Activate() error
	Deactivate() error
	AvailableDevices() []Device
	SelectDevice(d Device) error
	Stop() error
}

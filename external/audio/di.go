package audio

import (
	"github.com/samber/do/v2"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/audio"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/config"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.DeviceManager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewConfiguredDeviceManager(cfg.AudioDevices)
	})
}

package bridge

import (
	"github.com/samber/do/v2"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/audio"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/repository"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/webhook"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Bridge, error) {
		factory := do.MustInvoke[engine.Factory](i)
		devices := do.MustInvoke[audio.DeviceManager](i)
		journal := do.MustInvoke[repository.CallJournal](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewBridge(factory, devices, journal, wh), nil
	})
}

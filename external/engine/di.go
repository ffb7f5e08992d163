package engine

import (
	"github.com/samber/do/v2"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/config"
	enginepkg "github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (enginepkg.Factory, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewFactory(cfg.EngineEndpointTemplate, cfg.EngineRegions, cfg.EngineRequestTimeout), nil
	})
}

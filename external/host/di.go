package host

import (
	"github.com/samber/do/v2"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/bridge"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		return NewServer(do.MustInvoke[*bridge.Bridge](i)), nil
	})
}

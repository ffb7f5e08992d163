package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/skaczor/react-native-boostlingo-sdk/internal/config"
)

type envConfig struct {
	Env                    string        `env:"ENV" envDefault:"production"`
	HTTPAddr               string        `env:"HTTP_ADDR" envDefault:":8080"`
	EngineEndpointTemplate string        `env:"ENGINE_ENDPOINT_TEMPLATE,required"`
	EngineRegions          []string      `env:"ENGINE_REGIONS" envDefault:"us,eu" envSeparator:","`
	EngineRequestTimeout   time.Duration `env:"ENGINE_REQUEST_TIMEOUT" envDefault:"15s"`
	AudioDevices           []string      `env:"AUDIO_DEVICES" envDefault:"earpiece,speakerphone" envSeparator:","`
	DatabaseURL            string        `env:"DATABASE_URL"`
	CallWebhookURL         string        `env:"CALL_WEBHOOK_URL"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                    raw.Env,
		HTTPAddr:               raw.HTTPAddr,
		EngineEndpointTemplate: raw.EngineEndpointTemplate,
		EngineRegions:          raw.EngineRegions,
		EngineRequestTimeout:   raw.EngineRequestTimeout,
		AudioDevices:           raw.AudioDevices,
		DatabaseURL:            raw.DatabaseURL,
		CallWebhookURL:         raw.CallWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const RegionPlaceholder = "{region}"

type Config struct {
	Env                    string
	HTTPAddr               string
	EngineEndpointTemplate string
	EngineRegions          []string
	EngineRequestTimeout   time.Duration
	AudioDevices           []string
	DatabaseURL            string
	CallWebhookURL         string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if !strings.Contains(c.EngineEndpointTemplate, RegionPlaceholder) {
		return fmt.Errorf("ENGINE_ENDPOINT_TEMPLATE must contain %s", RegionPlaceholder)
	}
	if _, err := url.Parse(strings.ReplaceAll(c.EngineEndpointTemplate, RegionPlaceholder, "region")); err != nil {
		return fmt.Errorf("ENGINE_ENDPOINT_TEMPLATE is invalid: %w", err)
	}
	if len(c.EngineRegions) == 0 {
		return fmt.Errorf("ENGINE_REGIONS must list at least one region")
	}
	if c.EngineRequestTimeout <= 0 {
		return fmt.Errorf("ENGINE_REQUEST_TIMEOUT must be positive, got %s", c.EngineRequestTimeout)
	}
	if len(c.AudioDevices) == 0 {
		return fmt.Errorf("AUDIO_DEVICES must list at least one device")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_ADDR", value: c.HTTPAddr},
		{name: "ENGINE_ENDPOINT_TEMPLATE", value: c.EngineEndpointTemplate},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

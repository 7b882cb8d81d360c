package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable the commands read.
const EnvPrefix = "ICONMIGRATE_"

// ParseEnv loads configuration from environment variables named prefix plus
// each field's env tag.
func ParseEnv(prefix string, target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse %s* env: %w", prefix, err)
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g.
// LOCOMOTION_MOVEMENT_GAIT_WALKING_TARGET_VELOCITY=4.5.
const EnvPrefix = "LOCOMOTION_"

func applyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Julián Bravo

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment. Field mapping follows
// the `env` and `envPrefix` tags declared on [StructuredConfig] and its
// nested sections.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("read environment config: %w", err)
	}

	return nil
}

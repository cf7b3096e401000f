// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Julián Bravo

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Currently a no-op placeholder; the structured config is validated through
// the agent view built on top of it.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *AgentConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Remote.BaseURL == "" || cfg.Remote.RequestTimeout == 0 {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Workers.DrainInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Scope.IsZero() && cfg.AccessToken == "" {
		return ErrInvalidScopeConfigs
	}

	return nil
}

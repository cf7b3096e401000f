// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Julián Bravo

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for vencsync.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the remote access token
	// and the application version.
	App App `envPrefix:"APP_"`

	// Remote holds the endpoint and timeout settings for the hosted
	// relational backend the engine syncs against.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds configuration for the local persistence backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Workers holds configuration for background jobs (outbox drain).
	Workers Workers `envPrefix:"WORKERS_"`

	// Scope selects the tenant+branch partition the agent operates on.
	// Either field may be left empty when the token carries the claims.
	Scope ScopeConfig `envPrefix:"SCOPE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// AccessToken is the bearer token handed to the remote store adapter.
	// Tenant resolution and token issuance happen outside the engine; the
	// token arrives here ready to use.
	// Env: APP_ACCESS_TOKEN
	AccessToken string `env:"ACCESS_TOKEN"`

	// Version is the semantic version string of the running agent.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Remote holds network and timeout settings for the outbound transport layer.
type Remote struct {
	// BaseURL is the HTTP endpoint of the remote store
	// (e.g. "http://localhost:8080").
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the maximum duration allowed for a single remote
	// call before it is treated as a retryable failure (e.g. "15s").
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// FeedRetryInterval is the pause before re-establishing a dropped
	// change-feed subscription.
	// Env: REMOTE_FEED_RETRY_INTERVAL
	FeedRetryInterval time.Duration `env:"FEED_RETRY_INTERVAL"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local database.
type DB struct {
	// DSN is the SQLite file path used to persist the local cache and the
	// outbox queue (e.g. "./vencsync.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// DrainInterval defines how often the outbox drain job runs while the
	// engine believes it is online (e.g. "30s").
	// Env: WORKERS_DRAIN_INTERVAL
	DrainInterval time.Duration `env:"DRAIN_INTERVAL"`
}

// ScopeConfig selects the tenant+branch partition the agent operates on.
type ScopeConfig struct {
	// Tenant is the tenant identifier.
	// Env: SCOPE_TENANT
	Tenant string `env:"TENANT"`

	// Branch is the branch (store location) identifier within the tenant.
	// Env: SCOPE_BRANCH
	Branch string `env:"BRANCH"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Sources are layered in priority order, highest first, and
// a field keeps the first non-zero value it receives:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

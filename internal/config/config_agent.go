package config

import (
	"fmt"
	"time"

	"github.com/jdbravo/vencsync/models"
)

// AgentRemote holds network settings used by the agent transport layer.
type AgentRemote struct {
	// BaseURL is the HTTP endpoint of the remote store.
	BaseURL string
	// RequestTimeout is the default timeout for outbound remote calls.
	RequestTimeout time.Duration
	// FeedRetryInterval is the pause before re-establishing a dropped
	// change-feed subscription.
	FeedRetryInterval time.Duration
}

// AgentDB contains local database settings for the agent.
type AgentDB struct {
	// DSN is the SQLite file path used by the agent.
	DSN string
}

// AgentStorage groups agent storage backend settings.
type AgentStorage struct {
	// DB holds local database settings.
	DB AgentDB
}

// AgentWorkers contains agent background worker settings.
type AgentWorkers struct {
	// DrainInterval defines how often the outbox drain job runs.
	DrainInterval time.Duration
}

// AgentConfig is the top-level agent configuration assembled from
// [StructuredConfig].
type AgentConfig struct {
	// AccessToken is the bearer token for the remote store.
	AccessToken string
	// Remote contains transport addresses and timeouts.
	Remote AgentRemote
	// Storage contains local storage settings.
	Storage AgentStorage
	// Workers contains background job settings.
	Workers AgentWorkers
	// Scope is the tenant+branch partition the agent syncs.
	Scope models.Scope
}

// GetAgentConfig builds and validates an agent-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the sync agent runtime, and validates the resulting
// [AgentConfig].
func GetAgentConfig() (*AgentConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	agentCfg := &AgentConfig{
		AccessToken: cfg.App.AccessToken,
		Remote: AgentRemote{
			BaseURL:           cfg.Remote.BaseURL,
			RequestTimeout:    cfg.Remote.RequestTimeout,
			FeedRetryInterval: cfg.Remote.FeedRetryInterval,
		},
		Storage: AgentStorage{
			DB: AgentDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
		Workers: AgentWorkers{DrainInterval: cfg.Workers.DrainInterval},
		Scope: models.Scope{
			Tenant: cfg.Scope.Tenant,
			Branch: cfg.Scope.Branch,
		},
	}

	return agentCfg, agentCfg.validate()
}

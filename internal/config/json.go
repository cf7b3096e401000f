package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		AccessToken string `json:"access_token"`
		Version     string `json:"version"`
	} `json:"app,omitempty"`

	Remote struct {
		BaseURL           string   `json:"base_url"`
		RequestTimeout    Duration `json:"request_timeout"`
		FeedRetryInterval Duration `json:"feed_retry_interval"`
	} `json:"remote,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		DrainInterval Duration `json:"drain_interval"`
	} `json:"workers,omitempty"`

	Scope struct {
		Tenant string `json:"tenant"`
		Branch string `json:"branch"`
	} `json:"scope,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AccessToken: jsonCfg.App.AccessToken,
			Version:     jsonCfg.App.Version,
		},
		Remote: Remote{
			BaseURL:           jsonCfg.Remote.BaseURL,
			RequestTimeout:    time.Duration(jsonCfg.Remote.RequestTimeout),
			FeedRetryInterval: time.Duration(jsonCfg.Remote.FeedRetryInterval),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Workers: Workers{
			DrainInterval: time.Duration(jsonCfg.Workers.DrainInterval),
		},
		Scope: ScopeConfig{
			Tenant: jsonCfg.Scope.Tenant,
			Branch: jsonCfg.Scope.Branch,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

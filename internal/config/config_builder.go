// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Julián Bravo

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder collects configuration layers in priority order and merges
// them into one validated StructuredConfig. Broken sources are recorded
// instead of aborting the chain, so every source error surfaces at once.
type configBuilder struct {
	layers []*StructuredConfig
	errs   []error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

func (b *configBuilder) add(layer *StructuredConfig) *configBuilder {
	b.layers = append(b.layers, layer)
	return b
}

// withEnv adds the layer read from environment variables.
func (b *configBuilder) withEnv() *configBuilder {
	layer := new(StructuredConfig)
	if err := parseEnv(layer); err != nil {
		b.errs = append(b.errs, err)
		return b
	}

	return b.add(layer)
}

// withFlags adds the layer read from command-line flags.
func (b *configBuilder) withFlags() *configBuilder {
	return b.add(ParseFlags())
}

// withJSON adds the layer read from a JSON file when an earlier layer named
// one; without a path it is a no-op.
func (b *configBuilder) withJSON() *configBuilder {
	var path string
	for _, layer := range b.layers {
		if layer.JSONFilePath != "" {
			path = layer.JSONFilePath
		}
	}
	if path == "" {
		return b
	}

	layer, err := parseJSON(path)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}

	return b.add(layer)
}

// build merges the collected layers in order (mergo keeps a field once an
// earlier layer set it) and validates the result.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, fmt.Errorf("collect config sources: %w", err)
	}

	merged := new(StructuredConfig)
	for _, layer := range b.layers {
		if err := mergo.Merge(merged, layer); err != nil {
			return nil, fmt.Errorf("merge config layers: %w", err)
		}
	}

	return merged, merged.validate()
}

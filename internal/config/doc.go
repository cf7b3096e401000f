// Package config loads and merges the vencsync configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// Sources are merged with mergo in priority order (earlier sources win for
// non-zero fields): environment, flags, JSON file. The merged
// [StructuredConfig] is then projected into the runtime-specific
// [AgentConfig] view, which is what the rest of the application consumes.
package config

// Package config loads the borsellino client configuration from environment
// variables, command-line flags, and an optional JSON file, merging the
// sources with mergo (earlier sources win for non-zero fields) and exposing
// a validated client view via GetClientConfig.
package config

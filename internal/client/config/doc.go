// Package config loads runtime configuration for the storypoint CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-timeout int request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be a string like
// "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "https://api.storypoint.dev",
//	  "request_timeout": "10s"
//	}
package config

// Package config loads runtime configuration for the vaultctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file given with --config; .yaml/.yml files are read
//     as YAML, anything else as JSON.
//  3. Command-line flags, applied by the CLI after Load returns.
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "keystore": "/home/me/.vaultkeeper/keystore.json",
//	  "signature_ttl": "1m",
//	  "call_timeout": "10s",
//	  "format": "text"
//	}
package config

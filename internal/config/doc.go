// Package config loads runtime configuration for the lockbox command.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, selected with --config.
//  3. Environment: LOCKBOX_STORE_PATH, LOCKBOX_LOG_LEVEL, LOCKBOX_LOG_FORMAT.
//  4. Command-line flags, applied by the caller after Load.
//
// # JSON schema
//
//	{
//	  "store_path": "/home/me/.lockbox/store.yaml",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Key derivation cost is not configurable: files written with one cost could
// not be opened with another.
package config

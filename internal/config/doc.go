// Package config provides configuration management for splitaudio.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Default configuration values
//   - SPLITAUDIO_* environment overrides, with optional .env files
//   - Conversion to PathConfig, TrackConfig and TagConfig for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Tracks are written next to the source as "{tracknum}. {title}.<ext>"
//	// Tracks are processed one at a time
//	// Tagging enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/splitaudio.toml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	if err := settings.ApplyEnv(); err != nil {
//	    // A SPLITAUDIO_* variable could not be parsed
//	}
//
// Precedence, lowest first: defaults, config file, environment, command
// line flags (applied by the caller).
package config

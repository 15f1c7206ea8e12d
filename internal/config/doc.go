// Package config loads, normalizes, and validates voltctl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VOLTCTL_BACKEND and
// VOLTCTL_LOG_LEVEL environment overrides. Profiles are validated against
// the same offset bounds the set command enforces, so a profile that loads
// is a profile that can be applied.
package config

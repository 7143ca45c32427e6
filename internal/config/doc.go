// Package config loads, normalizes, and validates magicbox configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MAGICBOX_TV_IP and MAGICBOX_CONFIG. The Config type centralizes every knob
// the daemon needs, from external binary names to settle delays and reader
// connection strings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

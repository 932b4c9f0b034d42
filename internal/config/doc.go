// Package config loads, normalizes, and validates handyman configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FFPROBE_PATH. The Config type centralizes every knob the relocation engine
// and CLI need: where run locks and logs live, how ffprobe is invoked, and which
// extensions each relocation rule considers.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extension lists, and clear validation errors.
package config

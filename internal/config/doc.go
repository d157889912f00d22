// Package config loads, normalizes, and validates pagefinder configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GOOGLE_API_KEY and GOOGLE_CSE_ID. The Config type centralizes every knob the
// search cascade, result store, and CLI need so backend priority, pacing
// windows, and catalog details are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical backend names, and clear validation errors.
package config

// Package config loads, normalizes, and validates cddarip configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CDDARIP_DEVICE. The Config type centralizes every knob the extraction
// pipeline and CLI need: output and state directories, drive read behaviour,
// filename templates, encoder selection, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

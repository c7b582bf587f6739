// Package config loads and validates pkgstash configuration.
//
// Configuration is a TOML file resolved from ~/.config/pkgstash/config.toml
// or a project-local pkgstash.toml. Loaded values are normalized (home
// expansion, absolute paths, lowercased extensions) before validation, so
// the rest of the program never re-checks them.
package config

// Package config loads and validates the application configuration.
//
// Settings come from three layers in rising precedence: built-in
// defaults, an optional YAML config file, and POSTMAN_* environment
// variables. Validation is split from loading so commands that never
// touch the remote API can run without an API key.
package config

//go:generate gomarkdoc --output README.md .

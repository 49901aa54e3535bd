// Package config loads the application configuration from YAML, merges in
// environment overrides and applies defaults, so the rest of the code only
// ever sees a fully populated Config.
package config

// Package config loads and validates application settings from .env files,
// an optional config.yaml and AICMS_* environment variables.
package config

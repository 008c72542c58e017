// Package config loads, normalizes, and validates the tool's own TOML
// configuration: log output, the notification-config search override, and
// delivery switches. The notification groups themselves are read separately
// by the notifyconf package.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and resolves the notification config for a repository through
// the documented search order.
package config

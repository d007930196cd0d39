// Package config centralizes application configuration and filesystem
// paths. Configuration merges environment variables (GRIDPULSE_ prefix)
// over an optional gridpulse.yml next to the executable; paths are
// always resolved relative to the executable directory.
package config

// Package config defines the application's configuration structures and
// loading logic. Configuration comes from environment variables (prefixed
// with COFFEESHOP_) and an optional config.yaml, with the environment taking
// precedence, and is validated before use.
package config

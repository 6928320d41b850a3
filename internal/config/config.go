package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Backend BackendConfig `mapstructure:"backend" validate:"required"`
	App     AppConfig     `mapstructure:"app"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// BackendConfig describes the hosted backend this service delegates to.
// The publishable key identifies the project and is required on every
// request; it is not a secret. No service-role key is configured anywhere;
// row access always runs under the caller's own token so the backend's
// row-level security stays in force.
type BackendConfig struct {
	URL            string `mapstructure:"url"             validate:"required,url"`
	PublishableKey string `mapstructure:"publishable_key" validate:"required"`
}

// AppConfig contains settings describing the application as seen from
// outside: the public base URL (used to build the password-reset redirect
// target) and the environment name.
type AppConfig struct {
	BaseURL     string `mapstructure:"base_url"    validate:"required,url"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development production"`
}

// IsDevelopment reports whether the app runs in the development environment.
// Development builds serve an offline-cache policy with registration
// disabled so a stale service worker never masks local changes.
func (c AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

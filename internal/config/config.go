package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Env      string `mapstructure:"env"       validate:"required,oneof=development production"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication settings. The JWT secret is
// process-wide and required at startup; its absence is a fatal configuration
// error, never a per-request one.
type AuthConfig struct {
	JWTSecret                string `mapstructure:"jwt_secret"                 validate:"required,min=32"`
	TokenLifetimeMinutes     int    `mapstructure:"token_lifetime_minutes"     validate:"required,gt=0"`
	RefreshTokenLifetimeDays int    `mapstructure:"refresh_token_lifetime_days" validate:"required,gt=0"`
}

// IsProduction reports whether the server runs with production settings.
// Cookie security attributes key off this.
func (c ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

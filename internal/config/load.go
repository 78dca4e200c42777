package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take precedence
// over file values. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.env", "development")
	v.SetDefault("auth.token_lifetime_minutes", 15)
	v.SetDefault("auth.refresh_token_lifetime_days", 30)

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables: TASKBOARD_SERVER_PORT, TASKBOARD_AUTH_JWT_SECRET, ...
	v.SetEnvPrefix("TASKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind the critical variables; AutomaticEnv alone does not
	// surface keys that never appear in defaults or the config file.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "TASKBOARD_SERVER_PORT"},
		{"server.log_level", "TASKBOARD_SERVER_LOG_LEVEL"},
		{"server.env", "TASKBOARD_SERVER_ENV"},
		{"database.url", "TASKBOARD_DATABASE_URL"},
		{"auth.jwt_secret", "TASKBOARD_AUTH_JWT_SECRET"},
		{"auth.token_lifetime_minutes", "TASKBOARD_AUTH_TOKEN_LIFETIME_MINUTES"},
		{"auth.refresh_token_lifetime_days", "TASKBOARD_AUTH_REFRESH_TOKEN_LIFETIME_DAYS"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

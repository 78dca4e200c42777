// Package config defines the application configuration structure and loads
// it from environment variables and an optional config file via viper.
package config

/**
 * @description
 * This file handles the configuration management for the PayPlanner backend.
 * It uses the 'viper' library to load configuration from environment variables,
 * providing a centralized and consistent way to manage application settings.
 */
package config

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort       string `mapstructure:"SERVER_PORT"`
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	RedisURL         string `mapstructure:"REDIS_URL"`
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	WebAppURL        string `mapstructure:"WEB_APP_URL"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTRefreshSecret string `mapstructure:"JWT_REFRESH_SECRET"`
	EncryptionKey    string `mapstructure:"ENCRYPTION_KEY"`
	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
	SecureCookies    bool   `mapstructure:"SECURE_COOKIES"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("WEB_APP_URL", "https://payplanner.app")
	viper.SetDefault("SECURE_COOKIES", true)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("TELEGRAM_BOT_TOKEN")
	_ = viper.BindEnv("WEB_APP_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("JWT_REFRESH_SECRET")
	_ = viper.BindEnv("ENCRYPTION_KEY")
	_ = viper.BindEnv("ALLOWED_ORIGINS")
	_ = viper.BindEnv("SECURE_COOKIES")

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if config.DatabaseURL == "" {
		return config, fmt.Errorf("DATABASE_URL is required")
	}
	if config.TelegramBotToken == "" {
		return config, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if config.JWTSecret == "" {
		return config, fmt.Errorf("JWT_SECRET is required")
	}
	// The refresh secret falls back to the primary JWT secret when unset.
	if config.JWTRefreshSecret == "" {
		config.JWTRefreshSecret = config.JWTSecret
	}
	if _, decodeErr := config.EncryptionKeyBytes(); decodeErr != nil {
		return config, decodeErr
	}

	return
}

// EncryptionKeyBytes decodes the hex-encoded notes encryption key.
func (c Config) EncryptionKeyBytes() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 64 hex characters (32 bytes), got %d bytes", len(key))
	}
	return key, nil
}

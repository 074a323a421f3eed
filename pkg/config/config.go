// Package config reads application configuration from environment
// variables, with .env files loaded when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	WhatsApp WhatsAppConfig
	Gemini   GeminiConfig
	Bot      BotConfig
	Secrets  SecretsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type WhatsAppConfig struct {
	// VerifyToken is echoed back during the webhook verification handshake.
	VerifyToken string
	// AccessToken authenticates outbound Cloud API calls.
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	// RatePerSecond / RateBurst bound per-sender message processing.
	RatePerSecond float64
	RateBurst     int
}

type GeminiConfig struct {
	// APIKey is the service-level fallback key, used until a user has
	// registered their own.
	APIKey string
	Model  string
}

type BotConfig struct {
	// HomeCurrency is the ISO-4217 code assumed when a message names none.
	HomeCurrency string
}

type SecretsConfig struct {
	// Key is the hex-encoded 32-byte secretbox key for credentials at rest.
	Key string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be fully populated already.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "thuk"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		WhatsApp: WhatsAppConfig{
			VerifyToken:   getEnv("WHATSAPP_VERIFY_TOKEN", ""),
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			BaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v21.0"),
			RatePerSecond: getEnvAsFloat("WHATSAPP_RATE_PER_SECOND", 1),
			RateBurst:     getEnvAsInt("WHATSAPP_RATE_BURST", 5),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Bot: BotConfig{
			HomeCurrency: getEnv("BOT_HOME_CURRENCY", "INR"),
		},
		Secrets: SecretsConfig{
			Key: getEnv("SECRETS_KEY", ""),
		},
	}

	if cfg.WhatsApp.VerifyToken == "" {
		return nil, fmt.Errorf("WHATSAPP_VERIFY_TOKEN is required")
	}
	if cfg.Secrets.Key == "" {
		return nil, fmt.Errorf("SECRETS_KEY is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

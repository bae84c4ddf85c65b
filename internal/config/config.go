package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Mail      MailConfig
	Lifecycle LifecycleConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	PublicURL string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

type RedisConfig struct {
	Addr     string
	Password string
	Username string
	DB       int
}

// SMTPConfig describes one mail provider endpoint
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type MailConfig struct {
	From      string
	Primary   SMTPConfig
	Secondary SMTPConfig
	// OpsAddress receives the daily pending-approvals digest
	OpsAddress string
	// DigestSchedule is the cron expression for the digest task
	DigestSchedule string
}

type LifecycleConfig struct {
	// StrictReapproval makes re-approving an active account a conflict
	// instead of a silent no-op
	StrictReapproval bool
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton config instance
func GetConfig() *Config {
	once.Do(func() {
		config = &Config{}
		config.JWT.Secret = os.Getenv("JWT_SECRET")
		config.Server.PublicURL = os.Getenv("PUBLIC_URL")
	})
	return config
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:      getEnv("SERVER_HOST", "localhost"),
			Port:      getEnvAsInt("SERVER_PORT", 8080),
			PublicURL: getEnv("PUBLIC_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Name:     getEnv("POSTGRES_DB", "memberd"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		Redis: RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", getEnv("REDIS_HOST", "localhost"), getEnvAsInt("REDIS_PORT", 6379)),
			Password: getEnv("REDIS_PASSWORD", ""),
			Username: getEnv("REDIS_USERNAME", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Mail: MailConfig{
			From: getEnv("MAIL_FROM", "no-reply@localhost"),
			Primary: SMTPConfig{
				Host:     getEnv("SMTP_PRIMARY_HOST", "localhost"),
				Port:     getEnvAsInt("SMTP_PRIMARY_PORT", 587),
				Username: getEnv("SMTP_PRIMARY_USERNAME", ""),
				Password: getEnv("SMTP_PRIMARY_PASSWORD", ""),
			},
			Secondary: SMTPConfig{
				Host:     getEnv("SMTP_SECONDARY_HOST", ""),
				Port:     getEnvAsInt("SMTP_SECONDARY_PORT", 587),
				Username: getEnv("SMTP_SECONDARY_USERNAME", ""),
				Password: getEnv("SMTP_SECONDARY_PASSWORD", ""),
			},
			OpsAddress:     getEnv("MAIL_OPS_ADDRESS", ""),
			DigestSchedule: getEnv("MAIL_DIGEST_SCHEDULE", "0 8 * * *"),
		},
		Lifecycle: LifecycleConfig{
			StrictReapproval: getEnvAsBool("LIFECYCLE_STRICT_REAPPROVAL", false),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

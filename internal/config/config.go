package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/acmesa/branchsync/pkg/database"
)

// Config holds the full configuration of one branch node
type Config struct {
	NodeName    string
	HTTPPort    string
	Environment string

	// Replication
	Peers            []string
	ReplicationToken string
	ReplicationRetry time.Duration

	// Auth
	JWTSecret     string
	JWTExpires    time.Duration
	AdminUser     string
	AdminPassword string

	Database database.Config
}

// Load reads the node configuration from environment variables
func Load() *Config {
	nodeName := getEnv("NODE_NAME", "node-a")

	retrySeconds, err := strconv.Atoi(getEnv("REPLICATION_RETRY_SECONDS", "10"))
	if err != nil || retrySeconds <= 0 {
		retrySeconds = 10
	}

	expiresMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRES_MINUTES", "60"))
	if err != nil || expiresMinutes <= 0 {
		expiresMinutes = 60
	}

	return &Config{
		NodeName:    nodeName,
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "production"),

		Peers:            splitCSV(os.Getenv("PEERS")),
		ReplicationToken: getEnv("REPLICATION_TOKEN", "replica-secret"),
		ReplicationRetry: time.Duration(retrySeconds) * time.Second,

		JWTSecret:     getEnv("JWT_SECRET", "acme-jwt-secret"),
		JWTExpires:    time.Duration(expiresMinutes) * time.Minute,
		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		Database: database.Config{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Dir:      getEnv("DATABASE_DIR", "data"),
			NodeName: nodeName,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", nodeName),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}
}

// IsDevelopment reports whether the node runs with development conveniences
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	peers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			peers = append(peers, trimmed)
		}
	}
	return peers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Package config centralises configuration parsing for the signup service.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures runtime configuration values for the signup service.
type Config struct {
	HTTPAddress     string
	MetricsAddress  string        // Consumer-only metrics listener.
	StaticDir       string        // Directory served under /static/.
	PostgresURL     string        // Empty selects the in-memory registry.
	KafkaBrokers    []string      // Empty disables roster event publishing.
	RosterTopic     string
	ConsumerGroupID string
	CommitInterval  time.Duration // Kafka reader commit interval.
	JWTSecret       string        // Empty disables bearer auth.
	JWTIssuer       string
}

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	cfg := Config{
		HTTPAddress:     getEnv("HTTP_ADDRESS", ":8080"),
		MetricsAddress:  getEnv("METRICS_ADDRESS", ":9090"),
		StaticDir:       getEnv("STATIC_DIR", "web/static"),
		PostgresURL:     getEnv("POSTGRES_URL", ""),
		RosterTopic:     getEnv("ROSTER_TOPIC", "roster_events"),
		ConsumerGroupID: getEnv("CONSUMER_GROUP_ID", "signup-roster-audit"),
		CommitInterval:  getDurationEnv("COMMIT_INTERVAL", time.Second),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "mergington.identity"),
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the report validation pipeline service
type Config struct {
	// Server configuration
	Port string

	// Ledger configuration
	LedgerPath string

	// Validation thresholds
	CategoryConfidenceThreshold float64
	LocationThresholdMeters     float64
	ImageHashThreshold          int
	MaxImageBytes               int64

	// Image labeler service (optional external capability)
	LabelerURL     string
	LabelerTimeout time.Duration

	// Statistical profanity service (optional external capability)
	ProfanityURL     string
	ProfanityTimeout time.Duration

	// RabbitMQ configuration (optional decision publishing)
	AMQPURL            string
	AMQPExchange       string
	DecisionRoutingKey string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	config := &Config{
		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Ledger defaults
		LedgerPath: getEnv("LEDGER_PATH", "data/ledger.jsonl"),

		// Validation defaults
		CategoryConfidenceThreshold: getFloat64Env("CATEGORY_CONFIDENCE_THRESHOLD", 0.1),
		LocationThresholdMeters:     getFloat64Env("LOCATION_THRESHOLD_METERS", 10.0),
		ImageHashThreshold:          getIntEnv("IMAGE_HASH_THRESHOLD", 0),
		MaxImageBytes:               int64(getIntEnv("MAX_IMAGE_BYTES", 10*1024*1024)),

		// Image labeler defaults (empty URL disables the capability)
		LabelerURL:     getEnv("LABELER_URL", ""),
		LabelerTimeout: getDurationEnv("LABELER_TIMEOUT", 60*time.Second),

		// Profanity service defaults (empty URL disables the capability)
		ProfanityURL:     getEnv("PROFANITY_URL", ""),
		ProfanityTimeout: getDurationEnv("PROFANITY_TIMEOUT", 10*time.Second),

		// RabbitMQ defaults (empty URL disables publishing)
		AMQPURL:            getEnv("AMQP_URL", ""),
		AMQPExchange:       getEnv("AMQP_EXCHANGE", "civicreport"),
		DecisionRoutingKey: getEnv("DECISION_ROUTING_KEY", "report.decision"),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloat64Env gets a float environment variable or returns a default value
func getFloat64Env(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Package helpers provides common utility functions used across the project.
package helpers

import (
	"os"
	"strconv"
	"time"
)

// GetStringFromEnv returns the environment variable value or default if not set or empty.
//
// Input: environment variable key and default value
// Output: string value from environment or default
// Behavior: Returns default if env var is empty or not set
//
// Example:
//
//	host := helpers.GetStringFromEnv("QDRANT_HOST", "localhost")
//	model := helpers.GetStringFromEnv("EMBEDDING_MODEL", "BAAI/bge-large-zh-v1.5")
func GetStringFromEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntFromEnv returns the environment variable value as int or default if not set or invalid.
//
// Input: environment variable key and default int value
// Output: int value from environment or default
// Behavior: Returns default if env var is empty, not set, or not a valid integer
//
// Example:
//
//	chunkSize := helpers.GetIntFromEnv("CHUNK_SIZE", 1000)
//	topK := helpers.GetIntFromEnv("TOP_K", 5)
func GetIntFromEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetInt64FromEnv returns the environment variable value as int64 or default if not set or invalid.
//
// Example:
//
//	maxSize := helpers.GetInt64FromEnv("MAX_DOCUMENT_SIZE", 10_000_000)
func GetInt64FromEnv(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetFloatFromEnv returns the environment variable value as float64 or default if not set or invalid.
//
// Example:
//
//	threshold := helpers.GetFloatFromEnv("SIMILARITY_THRESHOLD", 0.7)
func GetFloatFromEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetBoolFromEnv returns the environment variable value as bool or default if not set or invalid.
//
// Input: environment variable key and default bool value
// Output: bool value from environment or default
// Behavior: Returns default if env var is empty, not set, or not a valid boolean
//
// Example:
//
//	streaming := helpers.GetBoolFromEnv("LLM_STREAMING", false)
func GetBoolFromEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetDurationFromEnv returns the environment variable value as duration or default if not set or invalid.
//
// Input: environment variable key and default duration value
// Output: time.Duration value from environment or default
// Behavior: Returns default if env var is empty, not set, or not a valid duration string
//
// Example:
//
//	timeout := helpers.GetDurationFromEnv("LLM_TIMEOUT", 60*time.Second)
func GetDurationFromEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

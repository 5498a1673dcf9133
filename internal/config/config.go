// Package config provides configuration for the travel gateway.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the gateway configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database. Empty selects the in-memory session store.
	DatabaseURL string

	// Reasoning engine settings
	ReasoningURL    string
	ReasoningAPIKey string
	ReasoningModel  string

	// Timeouts
	ReasoningTimeout time.Duration
	HandlerTimeout   time.Duration

	// Context synthesis
	HistoryWindow int

	// Artifact link templates; %s is the URL-encoded "label location" query.
	ImageSearchTemplate string
	ThumbnailTemplate   string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		ReasoningURL:        getEnv("REASONING_URL", "http://localhost:4000"),
		ReasoningAPIKey:     getEnv("REASONING_API_KEY", ""),
		ReasoningModel:      getEnv("REASONING_MODEL", "gemini-2.0-flash"),
		ReasoningTimeout:    time.Duration(getEnvInt("REASONING_TIMEOUT_MS", 60000)) * time.Millisecond,
		HandlerTimeout:      time.Duration(getEnvInt("HANDLER_TIMEOUT_MS", 90000)) * time.Millisecond,
		HistoryWindow:       getEnvInt("HISTORY_WINDOW", 10),
		ImageSearchTemplate: getEnv("IMAGE_SEARCH_TEMPLATE", "https://www.tripadvisor.com/Search?q=%s&searchType=attractions"),
		ThumbnailTemplate:   getEnv("THUMBNAIL_TEMPLATE", "https://www.google.com/search?tbm=isch&q=%s&tbs=isz:m"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

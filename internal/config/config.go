// Package config provides configuration for the chat service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the chat service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DBPath string

	// History window threaded into each model call, in turns.
	MaxHistoryTurns int

	// Azure OpenAI settings, consumed by the model-call client.
	AzureOpenAIEndpoint   string
	AzureOpenAIAPIKey     string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string

	// Timeouts
	LLMTimeout time.Duration
}

// Load loads configuration from environment variables. A local .env file is
// read first when present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:              getEnvInt("HTTP_PORT", 8080),
		DBPath:                getEnv("CHAT_DB_PATH", "./data/chat.db"),
		MaxHistoryTurns:       getEnvInt("MAX_HISTORY_TURNS", 10),
		AzureOpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureOpenAIDeployment: getEnv("AZURE_OPENAI_CHAT_DEPLOYMENT_NAME", ""),
		AzureOpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-01"),
		LLMTimeout:            time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
	}
	return cfg
}

// Validate checks that the settings required to reach the model endpoint are
// present. Mock mode needs none of them.
func (c *Config) Validate() error {
	if os.Getenv("CHATD_MODE") == "MOCK" {
		return nil
	}
	var missing []string
	if c.AzureOpenAIEndpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if c.AzureOpenAIAPIKey == "" {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	if c.AzureOpenAIDeployment == "" {
		missing = append(missing, "AZURE_OPENAI_CHAT_DEPLOYMENT_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
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

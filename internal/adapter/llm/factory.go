package llm

import (
	"log"
	"os"

	"github.com/chatline/server/internal/config"
)

const (
	// EnvChatdMode is the environment variable name for mode selection.
	EnvChatdMode = "CHATD_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewFromConfig creates an LLM client based on the CHATD_MODE environment
// variable. If CHATD_MODE=MOCK, returns a MockClient; otherwise returns an
// AzureClient wired to the configured deployment.
func NewFromConfig(cfg *config.Config) Client {
	if os.Getenv(EnvChatdMode) == ModeMock {
		log.Println("CHATD_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewAzureClient(
		cfg.AzureOpenAIEndpoint,
		cfg.AzureOpenAIAPIKey,
		cfg.AzureOpenAIDeployment,
		cfg.AzureOpenAIAPIVersion,
		cfg.LLMTimeout,
	)
}

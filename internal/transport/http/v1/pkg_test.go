package v1

import (
	"context"
	"errors"
	"testing"

	"github.com/chatline/server/internal/adapter/llm"
	"github.com/chatline/server/internal/config"
	"github.com/chatline/server/internal/service"
	"github.com/chatline/server/internal/store"
)

func newTestHandler(t *testing.T, client llm.Client) (*Handler, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if client == nil {
		client = llm.NewMockClient()
	}
	svc := service.New(st, client, &config.Config{MaxHistoryTurns: 10})
	return NewHandler(svc), st
}

// failingLLM always errors, standing in for a down model endpoint.
type failingLLM struct{}

func (failingLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	return nil, errors.New("upstream timeout")
}

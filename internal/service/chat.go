package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatline/server/internal/adapter/llm"
	"github.com/chatline/server/internal/domain"
)

const systemPrompt = "You are a travel weather chat bot named Frederick. " +
	"Help users find the average temperature in a given city and month."

// persistTimeout bounds the detached write that lands a turn after the model
// has answered.
const persistTimeout = 10 * time.Second

// HandleChat answers a question within a session. It resolves the session,
// assembles bounded history, calls the model, and persists the turn only
// after the model returned: a failed model call leaves the session's
// messages untouched.
func (s *Service) HandleChat(ctx context.Context, question, sessionID string) (answer, resolvedSessionID string, err error) {
	if strings.TrimSpace(question) == "" {
		return "", "", fmt.Errorf("%w: question must not be empty", domain.ErrValidation)
	}

	sid, err := s.ResolveOrCreate(ctx, sessionID, question)
	if err != nil {
		return "", "", err
	}

	history, err := s.BuildContext(ctx, sid, s.config.MaxHistoryTurns)
	if err != nil {
		return "", "", err
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: string(domain.RoleSystem), Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{Role: string(domain.RoleUser), Content: question})

	resp, err := s.llm.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{Messages: messages})
	if err != nil {
		return "", "", fmt.Errorf("chat completion: %w: %v", domain.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == "" {
		return "", "", fmt.Errorf("chat completion: %w: empty completion", domain.ErrUpstream)
	}
	answer = resp.Choices[0].Message.Content

	// The model has answered, so the turn must land even if the client has
	// already disconnected. Detach persistence from request cancellation.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.RecordTurn(persistCtx, sid, question, answer); err != nil {
		return "", sid, err
	}

	return answer, sid, nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatline/server/internal/adapter/llm"
	"github.com/chatline/server/internal/config"
	"github.com/chatline/server/internal/domain"
	"github.com/chatline/server/internal/store"
)

// scriptedLLM returns canned answers in order and records the last request.
type scriptedLLM struct {
	answers []string
	calls   int
	lastReq *llm.ChatCompletionRequest
	err     error
}

func (s *scriptedLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	answer := "ok"
	if len(s.answers) > 0 {
		answer = s.answers[s.calls%len(s.answers)]
	}
	s.calls++
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{
			{Message: &llm.ChatMessage{Role: "assistant", Content: answer}, FinishReason: "stop"},
		},
	}, nil
}

func newTestService(t *testing.T, client llm.Client) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	if client == nil {
		client = &scriptedLLM{}
	}
	return New(st, client, &config.Config{MaxHistoryTurns: 10}), st
}

func TestHandleChatRejectsEmptyQuestion(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	_, _, err := svc.HandleChat(ctx, "   ", "")
	require.ErrorIs(t, err, domain.ErrValidation)

	// Validation is rejected at the boundary: no session was created.
	sessions, err := st.ListSessions(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestHandleChatNewSession(t *testing.T) {
	client := &scriptedLLM{answers: []string{"75 degrees"}}
	svc, st := newTestService(t, client)
	ctx := context.Background()

	answer, sid, err := svc.HandleChat(ctx, "Weather in Paris in June?", "")
	require.NoError(t, err)
	assert.Equal(t, "75 degrees", answer)
	require.NotEmpty(t, sid)

	messages, err := st.GetMessages(ctx, sid, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "Weather in Paris in June?", messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)

	// The first question becomes the session title.
	sessions, err := st.ListSessions(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Weather in Paris in June?", sessions[0].Title)
}

func TestHandleChatFollowUp(t *testing.T) {
	client := &scriptedLLM{answers: []string{"first answer", "second answer"}}
	svc, st := newTestService(t, client)
	ctx := context.Background()

	_, sid, err := svc.HandleChat(ctx, "Hello", "")
	require.NoError(t, err)

	answer, sid2, err := svc.HandleChat(ctx, "And then?", sid)
	require.NoError(t, err)
	assert.Equal(t, sid, sid2)
	assert.Equal(t, "second answer", answer)

	messages, err := st.GetMessages(ctx, sid, 10)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	wantRoles := []domain.Role{domain.RoleUser, domain.RoleAssistant, domain.RoleUser, domain.RoleAssistant}
	for i, role := range wantRoles {
		assert.Equal(t, role, messages[i].Role, "message %d", i)
	}

	// The second call carried the first turn as context plus the system prompt.
	require.NotNil(t, client.lastReq)
	require.Len(t, client.lastReq.Messages, 4)
	assert.Equal(t, "system", client.lastReq.Messages[0].Role)
	assert.Equal(t, "Hello", client.lastReq.Messages[1].Content)
	assert.Equal(t, "first answer", client.lastReq.Messages[2].Content)
	assert.Equal(t, "And then?", client.lastReq.Messages[3].Content)
}

func TestHandleChatAcceptsUnknownSuppliedID(t *testing.T) {
	svc, st := newTestService(t, nil)
	ctx := context.Background()

	_, sid, err := svc.HandleChat(ctx, "Hello", "client-chosen-id")
	require.NoError(t, err)
	assert.Equal(t, "client-chosen-id", sid)

	exists, err := st.SessionExists(ctx, "client-chosen-id")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestHandleChatUpstreamFailureAppendsNothing(t *testing.T) {
	client := &scriptedLLM{}
	svc, st := newTestService(t, client)
	ctx := context.Background()

	_, sid, err := svc.HandleChat(ctx, "Hello", "")
	require.NoError(t, err)

	before, err := st.GetMessages(ctx, sid, 100)
	require.NoError(t, err)

	client.err = errors.New("connection refused")
	_, _, err = svc.HandleChat(ctx, "And then?", sid)
	require.ErrorIs(t, err, domain.ErrUpstream)

	after, err := st.GetMessages(ctx, sid, 100)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after), "failed model call must not persist a turn")
}

func TestHandleChatEmptyCompletionIsUpstreamError(t *testing.T) {
	client := &scriptedLLM{answers: []string{""}}
	svc, _ := newTestService(t, client)

	_, _, err := svc.HandleChat(context.Background(), "Hello", "")
	require.ErrorIs(t, err, domain.ErrUpstream)
}

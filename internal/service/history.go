package service

import (
	"context"

	"github.com/chatline/server/internal/adapter/llm"
	"github.com/chatline/server/internal/domain"
)

// BuildContext reconstructs the most recent maxTurns turns of a session in
// chronological order, ready for inclusion in a model prompt. A turn is one
// user message plus its paired assistant reply; a trailing user message
// without a reply counts as a partial turn and is included, since it is
// legitimate input state. Unknown or brand-new sessions yield an empty
// window, never an error, and maxTurns <= 0 degrades to no history.
func (s *Service) BuildContext(ctx context.Context, sessionID string, maxTurns int) ([]llm.ChatMessage, error) {
	if sessionID == "" || maxTurns <= 0 {
		return nil, nil
	}

	messages, err := s.store.GetMessages(ctx, sessionID, maxTurns*2)
	if err != nil {
		return nil, storeErr("load history", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}

	// The window is cut in raw messages, so it can split a turn in half and
	// start with an assistant reply whose question fell outside. Drop that
	// orphan; truncation removes whole turns from the oldest end.
	if messages[0].Role == domain.RoleAssistant {
		messages = messages[1:]
	}

	window := make([]llm.ChatMessage, 0, len(messages))
	for _, m := range messages {
		window = append(window, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return window, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chatline/server/internal/domain"
)

// Session titles are taken from the first question, truncated.
const maxTitleLen = 60

// ResolveOrCreate maps an optional client-supplied session id to a live
// session. An absent id mints a fresh session. A known id is returned
// unchanged. An unknown id is accepted and created as-is, so client retries
// after a lost response keep their session.
func (s *Service) ResolveOrCreate(ctx context.Context, sessionID, firstQuestion string) (string, error) {
	if sessionID != "" {
		exists, err := s.store.SessionExists(ctx, sessionID)
		if err != nil {
			return "", storeErr("resolve session", err)
		}
		if exists {
			return sessionID, nil
		}
	}

	sess, err := s.store.CreateSession(ctx, sessionID, "")
	if err != nil {
		return "", storeErr("create session", err)
	}
	if title := sessionTitle(firstQuestion); title != "" {
		if err := s.store.UpdateSessionTitleIfEmpty(ctx, sess.ID, title); err != nil {
			return "", storeErr("set session title", err)
		}
	}
	return sess.ID, nil
}

// RecordTurn appends the user question and the assistant answer as two
// ordered writes. The writes are a saga, not one transaction: if the answer
// write fails the user message stays recorded and the caller sees a
// persistence error; nothing is reported as success silently.
func (s *Service) RecordTurn(ctx context.Context, sessionID, question, answer string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.store.AppendMessage(ctx, sessionID, domain.RoleUser, question); err != nil {
		return storeErr("record user message", err)
	}
	if _, err := s.store.AppendMessage(ctx, sessionID, domain.RoleAssistant, answer); err != nil {
		return storeErr("record assistant message", err)
	}
	return nil
}

// ListSessions returns session summaries, most recently updated first.
func (s *Service) ListSessions(ctx context.Context, limit, offset int) ([]domain.Session, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}
	sessions, err := s.store.ListSessions(ctx, limit, offset)
	if err != nil {
		return nil, storeErr("list sessions", err)
	}
	return sessions, nil
}

// SessionMessages returns the most recent limit messages of a session in
// chronological order. Unknown sessions are a not-found error here, unlike
// history assembly.
func (s *Service) SessionMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, limit)
	}
	exists, err := s.store.SessionExists(ctx, sessionID)
	if err != nil {
		return nil, storeErr("resolve session", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, sessionID)
	}
	messages, err := s.store.GetMessages(ctx, sessionID, limit)
	if err != nil {
		return nil, storeErr("get messages", err)
	}
	return messages, nil
}

// DeleteSession removes a session and its messages. Deleting a session that
// never existed reports existed=false with no error.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	existed, err := s.store.DeleteSession(ctx, sessionID)
	if err != nil {
		return false, storeErr("delete session", err)
	}
	return existed, nil
}

func sessionTitle(question string) string {
	title := strings.TrimSpace(question)
	if len(title) <= maxTitleLen {
		return title
	}
	// Cut on a rune boundary so the stored title stays valid UTF-8.
	cut := maxTitleLen
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}

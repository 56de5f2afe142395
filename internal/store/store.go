// Package store provides durable persistence for sessions and messages.
package store

import (
	"context"

	"github.com/chatline/server/internal/domain"
)

// Store is the persistence contract for conversation state. Only the store
// mutates persisted state; every other component goes through it.
type Store interface {
	// CreateSession inserts a new session. When sessionID is empty a fresh
	// id is minted server-side. Creating an id that already exists is not an
	// error; the stored session is returned unchanged.
	CreateSession(ctx context.Context, sessionID, title string) (*domain.Session, error)

	// SessionExists reports whether a session row exists.
	SessionExists(ctx context.Context, sessionID string) (bool, error)

	// AppendMessage durably records one message and advances the session's
	// updated_at in a single transaction. The session must already exist;
	// appending to a missing session fails with domain.ErrNotFound.
	AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string) (*domain.Message, error)

	// ListSessions returns sessions ordered by updated_at descending.
	// limit must be positive.
	ListSessions(ctx context.Context, limit, offset int) ([]domain.Session, error)

	// GetMessages returns the most recent limit messages of a session in
	// chronological order. limit must be positive. An unknown session
	// yields an empty result, not an error.
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// DeleteSession removes a session and all its messages atomically and
	// reports whether the session existed. Missing ids are a no-op.
	DeleteSession(ctx context.Context, sessionID string) (bool, error)

	// UpdateSessionTitleIfEmpty sets the title only when none is set yet.
	UpdateSessionTitleIfEmpty(ctx context.Context, sessionID, title string) error

	Close() error
}

// Package service implements the conversation core: session lifecycle,
// history assembly, and chat orchestration.
package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chatline/server/internal/adapter/llm"
	"github.com/chatline/server/internal/config"
	"github.com/chatline/server/internal/domain"
	"github.com/chatline/server/internal/store"
)

// Service orchestrates the store and the model client. The store handle is
// injected at construction and is the only path to persisted state.
type Service struct {
	store  store.Store
	llm    llm.Client
	config *config.Config

	// Per-session serialization of recorded turns so a concurrent append
	// cannot interleave inside another turn's user/assistant pair.
	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

// New creates a new service.
func New(st store.Store, llmClient llm.Client, cfg *config.Config) *Service {
	return &Service{
		store:        st,
		llm:          llmClient,
		config:       cfg,
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the one mutex for a session id. Entries are never
// removed: dropping one while a turn still holds it would let a later turn
// mint a second mutex for the same id and interleave with the first.
func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.sessionLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLocks[sessionID] = lock
	}
	return lock
}

// storeErr classifies a store failure: validation and not-found errors pass
// through, anything else is a persistence failure.
func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrPersistence, err)
}

// Package tokenstore holds the access token used by the profile page.
package tokenstore

import (
	"fmt"
	"sync/atomic"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/models"
)

// Source yields the access token for profile fetches
type Source interface {
	// Token returns the current token and whether one is available
	Token() (models.TokenResult, bool)
}

// MemoryStore is the process-wide token slot filled by code exchanges.
// Every Replace swaps the whole TokenResult; readers never see fields from
// two different exchanges. Concurrent exchanges race and the last Replace
// wins. Nothing expires.
type MemoryStore struct {
	slot atomic.Pointer[models.TokenResult]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() (models.TokenResult, bool) {
	t := s.slot.Load()
	if t == nil {
		return models.TokenResult{}, false
	}
	return *t, true
}

// Replace overwrites the slot with t
func (s *MemoryStore) Replace(t models.TokenResult) {
	s.slot.Store(&t)
}

// StaticSource serves a token fixed in configuration
type StaticSource struct {
	token models.TokenResult
}

func NewStaticSource(accessToken string) *StaticSource {
	return &StaticSource{token: models.TokenResult{AccessToken: accessToken}}
}

func (s *StaticSource) Token() (models.TokenResult, bool) {
	return s.token, s.token.AccessToken != ""
}

// New builds the token source selected by relay.token_storage. The memory
// store is returned separately so the exchange handler can write to it; it is
// nil for static-config storage.
func New(cfg *config.Config) (Source, *MemoryStore, error) {
	switch cfg.Relay.TokenStorage {
	case config.TokenStorageMemory:
		m := NewMemoryStore()
		return m, m, nil
	case config.TokenStorageStatic:
		return NewStaticSource(cfg.Provider.AccessToken), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported token storage %q", cfg.Relay.TokenStorage)
	}
}

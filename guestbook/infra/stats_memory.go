package infra

import (
	"context"
	"maps"
	"sync"

	"guestbook-service/guestbook/domain"
)

// MemoryStatsStore conta postagens por resultado (e opcionalmente por IP).
// Útil para testes e desenvolvimento; não faz expiração.
type MemoryStatsStore struct {
	mu        sync.Mutex
	byOutcome map[domain.Outcome]int64
	byClient  map[string]int64

	trackClients bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackClients(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackClients = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byOutcome: make(map[domain.Outcome]int64),
		byClient:  make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byOutcome[ev.Outcome]++
	if s.trackClients && ev.ClientIP != "" {
		s.byClient[ev.ClientIP]++
	}
	return nil
}

func (s *MemoryStatsStore) Count(o domain.Outcome) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byOutcome[o]
}

func (s *MemoryStatsStore) ByOutcome() map[domain.Outcome]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byOutcome)
}

func (s *MemoryStatsStore) ByClient() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.byClient)
}

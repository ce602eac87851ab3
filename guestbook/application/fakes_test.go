package application

import (
	"context"
	"sync"

	"guestbook-service/guestbook/domain"
)

// memStore guarda as mensagens em memória e serializa Update com um mutex.
type memStore struct {
	mu      sync.Mutex
	msgs    []domain.Message
	saveErr error
	saves   int
}

func (s *memStore) Init(context.Context) error { return nil }

func (s *memStore) Load(context.Context) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.msgs...), nil
}

func (s *memStore) Update(_ context.Context, fn domain.UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(append([]domain.Message(nil), s.msgs...))
	if err != nil {
		return err
	}
	if s.saveErr != nil {
		return domain.StorageError{Op: "write", Err: s.saveErr}
	}
	s.saves++
	s.msgs = next
	return nil
}

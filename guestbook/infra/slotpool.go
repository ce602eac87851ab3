package infra

import (
	"context"

	"guestbook-service/guestbook/domain"
)

type chanPool struct {
	sem chan struct{}
}

// NewSlotPool cria um semáforo com capacidade max.
// Com max=1 vira o ponto único de escrita do store.
func NewSlotPool(max int) domain.SlotPool {
	if max < 1 {
		max = 1
	}
	return &chanPool{sem: make(chan struct{}, max)}
}

func (p *chanPool) Acquire(ctx context.Context) (func(), bool) {
	// ctx já cancelado não deve ganhar vaga mesmo que haja uma livre
	if ctx.Err() != nil {
		return nil, false
	}
	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return nil, false
	}
}

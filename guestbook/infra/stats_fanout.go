package infra

import (
	"context"
	"errors"

	"guestbook-service/guestbook/domain"

	"github.com/samber/lo"
)

type fanOut []domain.StatsStore

// FanOut grava o mesmo evento em todos os stores não-nulos.
// Um store falhando não impede os outros; os erros voltam juntos.
func FanOut(stores ...domain.StatsStore) domain.StatsStore {
	live := lo.Compact(stores)
	if len(live) == 1 {
		return live[0]
	}
	return fanOut(live)
}

func (f fanOut) Record(ctx context.Context, ev domain.StatsEvent) error {
	var errs []error
	for _, s := range f {
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package mock

import (
	"context"

	"github.com/fwojciec/linguacrawl"
)

var _ linguacrawl.StatusStore = (*StatusStore)(nil)

// StatusStore is a mock implementation of linguacrawl.StatusStore.
type StatusStore struct {
	SaveStatusFn func(ctx context.Context, s *linguacrawl.Status) error
	LoadStatusFn func(ctx context.Context) (*linguacrawl.Status, error)
}

func (s *StatusStore) SaveStatus(ctx context.Context, st *linguacrawl.Status) error {
	return s.SaveStatusFn(ctx, st)
}

func (s *StatusStore) LoadStatus(ctx context.Context) (*linguacrawl.Status, error) {
	return s.LoadStatusFn(ctx)
}

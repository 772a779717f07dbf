package store

import (
	"context"

	"github.com/uthkarsh2006/contestbot/internal/domain"
)

// Repo is the durable subscriber set. Add is idempotent on chat_id;
// ListAll returns a snapshot, so subscribers registered after the call
// are simply excluded from any broadcast already in flight.
type Repo interface {
	Add(ctx context.Context, s *domain.Subscriber) (added bool, err error)
	ListAll(ctx context.Context) ([]domain.Subscriber, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

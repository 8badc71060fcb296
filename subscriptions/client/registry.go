package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/omertoast/quotefeed/subscriptions"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// registry holds subscriptions in insertion order so shutdown is
// deterministic. Closed entries stay in place for later inspection.
type registry struct {
	mu   sync.Mutex
	subs []*subscription
}

func (r *registry) add(s *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = append(r.subs, s)
}

func (r *registry) at(i int) (*subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i < 0 || i >= len(r.subs) {
		return nil, fmt.Errorf("%w: index %d", subscriptions.ErrNotFound, i)
	}

	return r.subs[i], nil
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.subs)
}

// snapshot copies the ordered slice so close calls run outside the registry
// lock. Subscriptions appended during a closeAll are the caller's problem.
func (r *registry) snapshot() []*subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*subscription, len(r.subs))
	copy(out, r.subs)

	return out
}

// closeAll closes every entry in insertion order. One failing teardown does
// not stop the rest; every failure is logged and collected.
func (r *registry) closeAll(ctx context.Context, log *zap.Logger) error {
	var errs error

	for i, s := range r.snapshot() {
		err := s.Close(ctx)
		if err != nil {
			log.Error("close failed, continuing",
				zap.Int("index", i),
				zap.String("token", s.Token()),
				zap.String("symbol", s.Symbol()),
				zap.Error(err))

			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

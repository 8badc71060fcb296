package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/omertoast/quotefeed/subscriptions"
	"github.com/omertoast/quotefeed/transport"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ subscriptions.Subscription = &subscription{}

// subscription owns one feed subscription handle bound to one symbol and one
// listener. Its mutable state (handle, step flags, lifecycle, last error) is
// guarded by mu; token, symbol, kind and listener are set at construction
// and never change, so the dispatch path reads them without locking.
type subscription struct {
	token    string
	symbol   string
	kind     transport.EventKind
	feed     transport.Client
	listener subscriptions.Listener
	log      *zap.Logger

	mu       sync.Mutex
	handle   transport.Handle
	attached bool
	watched  bool
	state    subscriptions.State
	lastErr  error
}

func newSubscription(feed transport.Client, symbol string, l subscriptions.Listener, log *zap.Logger) *subscription {
	return &subscription{
		token:    uuid.NewString(),
		symbol:   symbol,
		kind:     transport.KindQuote,
		feed:     feed,
		listener: l,
		log:      log,
	}
}

// open runs the setup protocol: allocate the handle, attach the listener,
// add the symbol. It fails fast: the first failing step records the error
// and aborts, leaving the subscription partially initialized but closable.
func (s *subscription) open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("creating subscription",
		zap.String("token", s.token),
		zap.String("symbol", s.symbol),
		zap.Stringer("kind", s.kind))

	h, err := s.feed.CreateSubscription(ctx, s.kind)
	if err != nil {
		return s.fail("create", err)
	}
	s.handle = h

	s.log.Info("attaching listener",
		zap.String("token", s.token),
		zap.String("handle", string(s.handle)))

	err = s.feed.AttachListener(ctx, s.handle, s.onEvent, s.token)
	if err != nil {
		return s.fail("attach", err)
	}
	s.attached = true

	s.log.Info("adding symbol",
		zap.String("token", s.token),
		zap.String("handle", string(s.handle)),
		zap.String("symbol", s.symbol))

	err = s.feed.AddSymbol(ctx, s.handle, s.symbol)
	if err != nil {
		return s.fail("add", err)
	}
	s.watched = true

	s.state = subscriptions.StateActive

	return nil
}

// onEvent is the dispatch entry point the transport invokes on its delivery
// goroutine. It touches no guarded state and never transitions the
// lifecycle, so it is safe to run concurrently with a close in progress.
func (s *subscription) onEvent(kind transport.EventKind, symbol string, quotes []transport.Quote, token string) {
	if kind != s.kind {
		return
	}

	for _, q := range quotes {
		s.listener(token, symbol, q)
	}
}

func (s *subscription) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeLocked(ctx)
}

// closeLocked is the single teardown body every close path funnels into.
// Steps mirror setup in reverse and each runs only if its attachment still
// exists, so a close after a failed setup (or a failed earlier close)
// performs exactly the steps that remain. The listener is detached before
// the handle is released: after detach no new dispatch starts, and an
// in-flight dispatch never touches the handle.
func (s *subscription) closeLocked(ctx context.Context) error {
	if s.state == subscriptions.StateClosed {
		return nil
	}

	if s.handle == "" {
		s.state = subscriptions.StateClosed
		return nil
	}

	if s.watched {
		s.log.Info("removing symbol",
			zap.String("token", s.token),
			zap.String("handle", string(s.handle)),
			zap.String("symbol", s.symbol))

		err := s.feed.RemoveSymbol(ctx, s.handle, s.symbol)
		if err != nil {
			return s.fail("remove", err)
		}
		s.watched = false
	}

	if s.attached {
		s.log.Info("detaching listener",
			zap.String("token", s.token),
			zap.String("handle", string(s.handle)))

		err := s.feed.DetachListener(ctx, s.handle)
		if err != nil {
			return s.fail("detach", err)
		}
		s.attached = false
	}

	s.log.Info("closing subscription",
		zap.String("token", s.token),
		zap.String("handle", string(s.handle)))

	err := s.feed.CloseSubscription(ctx, s.handle)
	if err != nil {
		return s.fail("close", err)
	}

	s.handle = ""
	s.state = subscriptions.StateClosed

	return nil
}

// fail records the failing step on the subscription and returns the wrapped
// error. Callers must hold mu.
func (s *subscription) fail(step string, err error) error {
	s.lastErr = fmt.Errorf("%w: %s %s: %s", subscriptions.ErrTransport, step, s.symbol, err)

	s.log.Error("subscription step failed",
		zap.String("token", s.token),
		zap.String("handle", string(s.handle)),
		zap.String("symbol", s.symbol),
		zap.String("step", step),
		zap.Error(err))

	return s.lastErr
}

func (s *subscription) Token() string {
	return s.token
}

func (s *subscription) Symbol() string {
	return s.symbol
}

func (s *subscription) State() subscriptions.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

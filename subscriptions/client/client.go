package client

import (
	"context"
	"fmt"

	"github.com/omertoast/quotefeed/subscriptions"
	"github.com/omertoast/quotefeed/transport"

	"go.uber.org/zap"
)

var _ subscriptions.Client = &client{}

type (
	client struct {
		feed transport.Client
		log  *zap.Logger
		reg  registry
	}

	Backends interface {
		Feed() transport.Client
	}
)

func New(b Backends, log *zap.Logger) subscriptions.Client {
	return &client{
		feed: b.Feed(),
		log:  log,
	}
}

func (c *client) Subscribe(ctx context.Context, symbol string, l subscriptions.Listener) (subscriptions.Subscription, error) {
	if c.feed == nil {
		return nil, fmt.Errorf("%w: nil feed connection", subscriptions.ErrInvalidArgument)
	}
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", subscriptions.ErrInvalidArgument)
	}
	if l == nil {
		return nil, fmt.Errorf("%w: nil listener", subscriptions.ErrInvalidArgument)
	}

	s := newSubscription(c.feed, symbol, l, c.log)

	err := s.open(ctx)
	if err != nil {
		// Release whatever setup managed to build before it failed. The
		// original failure is the one worth returning.
		closeErr := s.Close(ctx)
		if closeErr != nil {
			c.log.Warn("releasing partially built subscription failed",
				zap.String("token", s.Token()),
				zap.String("symbol", symbol),
				zap.Error(closeErr))
		}

		return nil, err
	}

	c.reg.add(s)

	return s, nil
}

func (c *client) Len() int {
	return c.reg.len()
}

func (c *client) At(i int) (subscriptions.Subscription, error) {
	s, err := c.reg.at(i)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (c *client) CloseAt(ctx context.Context, i int) error {
	s, err := c.reg.at(i)
	if err != nil {
		return err
	}

	return s.Close(ctx)
}

func (c *client) CloseAll(ctx context.Context) error {
	return c.reg.closeAll(ctx, c.log)
}

package client

import (
	"context"

	"github.com/omertoast/quotefeed/reporter"
	"github.com/omertoast/quotefeed/transport"

	"go.uber.org/zap"
)

var _ reporter.Client = &client{}

type (
	client struct {
		feed transport.Client
		log  *zap.Logger
	}

	Backends interface {
		Feed() transport.Client
	}
)

func New(b Backends, log *zap.Logger) reporter.Client {
	return &client{
		feed: b.Feed(),
		log:  log,
	}
}

func (c *client) Last(ctx context.Context) reporter.Report {
	code, description, err := c.feed.LastError(ctx)
	if err != nil {
		c.log.Warn("error subsystem unavailable", zap.Error(err))

		return reporter.Report{Outcome: reporter.OutcomeUnavailable}
	}

	if code == 0 {
		c.log.Info("no error information is stored")

		return reporter.Report{Outcome: reporter.OutcomeNoError}
	}

	c.log.Info("last transport error",
		zap.Int("code", code),
		zap.String("description", description))

	return reporter.Report{
		Outcome:     reporter.OutcomeStored,
		Code:        code,
		Description: description,
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/omertoast/quotefeed/environment"
	env_client "github.com/omertoast/quotefeed/environment/client"
	"github.com/omertoast/quotefeed/reporter"
	reporter_client "github.com/omertoast/quotefeed/reporter/client"
	"github.com/omertoast/quotefeed/subscriptions"
	subs_client "github.com/omertoast/quotefeed/subscriptions/client"
	"github.com/omertoast/quotefeed/transport"
	transport_client "github.com/omertoast/quotefeed/transport/client"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	b := &backends{}
	b.environment = env_client.New()

	feedClient, err := transport_client.New(b, logger)
	if err != nil {
		logger.Fatal("failed to create feed client", zap.Error(err))
	}
	b.feed = feedClient
	b.subscriptions = subs_client.New(b, logger)
	b.reporter = reporter_client.New(b, logger)

	err = run(context.Background(), b, logger)
	if err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

// run subscribes to the configured symbol a few times over, closes one
// subscription mid-flight, then tears everything down on interrupt. The
// feed connection is released on every exit path.
func run(ctx context.Context, b *backends, logger *zap.Logger) error {
	defer func() {
		err := b.feed.Close(ctx)
		if err != nil {
			logger.Error("failed to close feed connection", zap.Error(err))
			b.reporter.Last(ctx)
		}
	}()
	defer func() {
		err := b.subscriptions.CloseAll(ctx)
		if err != nil {
			logger.Error("failed to close all subscriptions", zap.Error(err))
			b.reporter.Last(ctx)
		}
	}()

	symbol := b.environment.GetDefault(ctx, "FEED_SYMBOL", "ETH/USD")

	printQuote := func(token, symbol string, q transport.Quote) {
		logger.Info("quote",
			zap.String("token", token),
			zap.String("symbol", symbol),
			zap.Stringer("quote", q))
	}

	for i := 0; i < 5; i++ {
		_, err := b.subscriptions.Subscribe(ctx, symbol, printQuote)
		if err != nil {
			b.reporter.Last(ctx)
			return err
		}

		time.Sleep(3 * time.Second)
	}

	err := b.subscriptions.CloseAt(ctx, 2)
	if err != nil {
		b.reporter.Last(ctx)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	sig := <-sigs
	logger.Info("terminating", zap.Stringer("signal", sig))

	return nil
}

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "production" {
		return zap.Must(zap.NewProduction())
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zap.Must(config.Build())
}

type backends struct {
	environment   environment.Client
	feed          transport.Client
	subscriptions subscriptions.Client
	reporter      reporter.Client
}

func (b backends) Environment() environment.Client {
	return b.environment
}

func (b backends) Feed() transport.Client {
	return b.feed
}

func (b backends) Subscriptions() subscriptions.Client {
	return b.subscriptions
}

func (b backends) Reporter() reporter.Client {
	return b.reporter
}

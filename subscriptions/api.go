package subscriptions

import "context"

type (
	// Subscription is one live (symbol, event-kind, listener) binding on the
	// feed connection.
	Subscription interface {
		// Token is the runtime identity assigned at creation. Deliveries
		// carry it back so events can be correlated to their subscription.
		Token() string

		Symbol() string

		State() State

		// Err reports the last failure recorded by a setup or teardown
		// step, or nil.
		Err() error

		// Close runs the teardown protocol. It is idempotent and safe to
		// call concurrently from any number of goroutines: the teardown
		// body executes at most once, later callers observe a no-op.
		Close(ctx context.Context) error
	}

	Client interface {
		// Subscribe creates a subscription for symbol, routes its quote
		// events to l, and registers it for shutdown in insertion order.
		Subscribe(ctx context.Context, symbol string, l Listener) (Subscription, error)

		// Len reports how many subscriptions have been registered,
		// including already-closed ones.
		Len() int

		// At returns the subscription at position i for inspection.
		At(i int) (Subscription, error)

		// CloseAt closes the subscription at position i without touching
		// its siblings.
		CloseAt(ctx context.Context, i int) error

		// CloseAll closes every registered subscription in insertion
		// order. A failing teardown does not stop the rest; all failures
		// are collected into the returned error.
		CloseAll(ctx context.Context) error
	}
)

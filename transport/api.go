package transport

import "context"

// Handle identifies one subscription resource held open on the feed
// connection. It is opaque to callers; the zero value means "no handle".
type Handle string

// Listener receives decoded quote events for one handle. The transport
// invokes it on its own delivery goroutine, so it must not block and must
// tolerate running concurrently with a teardown of the same handle.
type Listener func(kind EventKind, symbol string, quotes []Quote, token string)

type Client interface {
	// CreateSubscription allocates a subscription handle for the given
	// event kind. The handle delivers nothing until a listener is attached
	// and a symbol is added.
	CreateSubscription(ctx context.Context, kind EventKind) (Handle, error)

	// AttachListener registers l as the delivery target for h. The token is
	// passed back verbatim on every delivery so the owner can correlate
	// events to the subscription that registered them.
	AttachListener(ctx context.Context, h Handle, l Listener, token string) error

	// AddSymbol adds symbol to the watch set of h.
	AddSymbol(ctx context.Context, h Handle, symbol string) error

	// RemoveSymbol removes symbol from the watch set of h.
	RemoveSymbol(ctx context.Context, h Handle, symbol string) error

	// DetachListener unregisters the listener of h. After it returns no new
	// deliveries for h start, but a delivery already in flight may still be
	// running.
	DetachListener(ctx context.Context, h Handle) error

	// CloseSubscription releases h. The handle is invalid afterwards.
	CloseSubscription(ctx context.Context, h Handle) error

	// LastError reports the most recently recorded transport error. A zero
	// code with a nil error means no error is stored. A non-nil error means
	// the error subsystem itself is unavailable and nothing can be said
	// about prior failures.
	LastError(ctx context.Context) (code int, description string, err error)

	// Close releases the feed connection. Only the connection owner may
	// call it; subscriptions built on the connection must be closed first.
	Close(ctx context.Context) error
}

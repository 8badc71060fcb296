package subscriptions

import "github.com/omertoast/quotefeed/transport"

type (
	// Listener receives one decoded quote per invocation, together with the
	// token of the subscription that registered it. It runs on the feed's
	// delivery goroutine and must return quickly.
	Listener func(token, symbol string, quote transport.Quote)

	// State is the lifecycle of a subscription. Closed is terminal.
	State int
)

const (
	StateUninitialized State = iota
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateActive:
		return "Active"
	case StateClosed:
		return "Closed"
	}

	return "Unknown"
}

package transport

import (
	"fmt"
	"time"
)

type (
	// EventKind selects which decoded event records a subscription handle
	// delivers.
	EventKind int

	// OrderScope tells whether a quote aggregates the whole market or a
	// single venue/order.
	OrderScope int

	// OrderSide is the side of the market a record belongs to.
	OrderSide int

	// Quote is one decoded quote record as delivered by the feed. The core
	// never mutates it, it only routes it to the registered listener.
	Quote struct {
		BidTime         int64      `json:"bidTime"`
		BidExchangeCode string     `json:"bidExchangeCode"`
		BidPrice        float64    `json:"bidPrice"`
		BidSize         float64    `json:"bidSize"`
		AskTime         int64      `json:"askTime"`
		AskExchangeCode string     `json:"askExchangeCode"`
		AskPrice        float64    `json:"askPrice"`
		AskSize         float64    `json:"askSize"`
		Scope           OrderScope `json:"scope"`
	}
)

const (
	KindUnknown EventKind = iota
	KindQuote
)

const (
	ScopeComposite OrderScope = iota
	ScopeRegional
	ScopeAggregate
	ScopeOrder
)

const (
	SideUndefined OrderSide = iota
	SideBuy
	SideSell
)

func (k EventKind) String() string {
	switch k {
	case KindQuote:
		return "Quote"
	}

	return "Unknown"
}

func (s OrderScope) String() string {
	switch s {
	case ScopeComposite:
		return "Composite"
	case ScopeRegional:
		return "Regional"
	case ScopeAggregate:
		return "Aggregate"
	case ScopeOrder:
		return "Order"
	}

	return "Unknown"
}

func (s OrderSide) String() string {
	switch s {
	case SideUndefined:
		return "Undefined"
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	}

	return "Unknown"
}

// FormatMillis renders a millisecond unix timestamp in local time with
// millisecond precision, e.g. "2024-05-01 14:03:07.250".
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05.000")
}

func (q Quote) String() string {
	return fmt.Sprintf(
		"Quote{bidTime=%s bidExchangeCode=%s bidPrice=%g bidSize=%g askTime=%s askExchangeCode=%s askPrice=%g askSize=%g scope=%s}",
		FormatMillis(q.BidTime), q.BidExchangeCode, q.BidPrice, q.BidSize,
		FormatMillis(q.AskTime), q.AskExchangeCode, q.AskPrice, q.AskSize,
		q.Scope,
	)
}

package transport

import "errors"

var (
	ErrInternal      = errors.New("transport: internal error")
	ErrClosed        = errors.New("transport: connection closed")
	ErrUnknownHandle = errors.New("transport: unknown handle")
	ErrUnavailable   = errors.New("transport: error subsystem unavailable")
)

package subscriptions

import "errors"

var (
	ErrInternal        = errors.New("subscriptions: internal error")
	ErrInvalidArgument = errors.New("subscriptions: invalid argument")
	ErrTransport       = errors.New("subscriptions: transport failure")
	ErrNotFound        = errors.New("subscriptions: not found")
)

package domain

import "errors"

// ErrMissingAddress is returned when a connect request carries no server address.
var ErrMissingAddress = errors.New("missing server address")

// ErrMissingToken is returned when a token is required but none was supplied.
var ErrMissingToken = errors.New("missing session token")

// ErrUnknownCommand is returned when the consumer has no handler for a command kind.
var ErrUnknownCommand = errors.New("unknown command")

// ErrNotLoopback is returned when the listener is configured for a non-loopback host.
var ErrNotLoopback = errors.New("listen host is not a loopback address")

// ErrAlreadyStarted is returned by Start on a bridge that is already running.
var ErrAlreadyStarted = errors.New("bridge already started")

// ErrStopped is returned by Start on a bridge that has been stopped.
// A Bridge is single-use; build a new one to listen again.
var ErrStopped = errors.New("bridge stopped")

// ErrInvalidConfig is returned when configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

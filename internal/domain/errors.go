package domain

import "errors"

var (
	// ErrConnectionLost is returned when a store connection dropped mid-operation
	ErrConnectionLost = errors.New("connection lost")

	// ErrHandleClosed is returned when an operation targets a released handle
	ErrHandleClosed = errors.New("connection handle closed")

	// ErrUnknownSourceKind is returned when a source kind cannot be parsed
	ErrUnknownSourceKind = errors.New("unknown source kind")

	// ErrInvalidCheckpoint is returned when a stored checkpoint cannot be interpreted for its source
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)

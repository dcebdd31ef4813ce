package domain

import "errors"

var (
	// ErrMalformedRow marks a single source row that could not be parsed.
	// The row is dropped and the load continues.
	ErrMalformedRow = errors.New("malformed row")

	// ErrSourceUnreadable marks a dataset that could not be opened or read at all.
	// It is fatal at startup.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrInvalidInput marks a client request that is missing or has bad parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal marks an unexpected failure while serving a request.
	ErrInternal = errors.New("internal failure")
)

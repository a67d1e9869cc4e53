package repository

import "errors"

var (
	// ErrNotFound means no church carries the requested identity.
	ErrNotFound = errors.New("church not found")

	// ErrNetworkUnavailable covers transport failures and non-2xx answers
	// from the remote endpoint. Reads recover from it; writes return it.
	ErrNetworkUnavailable = errors.New("remote endpoint unavailable")

	// ErrMalformedInput rejects a document or entity that cannot be stored.
	ErrMalformedInput = errors.New("malformed input")
)

// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/transport layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrIDMismatch indicates the id in the request path differs from the id in the body.
	ErrIDMismatch = errors.New("id mismatch")

	// ErrInvalidArgument indicates a malformed request value (bad id, bad date).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnimplemented indicates the backend does not support the operation.
	ErrUnimplemented = errors.New("not implemented")
)

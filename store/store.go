// Package store holds the persistence layer: small interfaces consumed by
// the controllers and middleware, backed by MongoDB collections. The
// interfaces exist so handlers can be exercised without a running database.
package store

import "errors"

var (
	// ErrNotFound: no document matches the given id.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidID: the id is not a valid ObjectID hex string. Handlers
	// collapse this into their not-found response.
	ErrInvalidID = errors.New("store: invalid id")
	// ErrDuplicateEmail: unique index violation on users.email.
	ErrDuplicateEmail = errors.New("store: email already registered")
)

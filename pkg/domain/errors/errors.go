package errors

import "errors"

// ErrMissing means that a requested entity is not in the store.
var ErrMissing = errors.New("missing")

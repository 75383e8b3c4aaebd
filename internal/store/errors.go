package store

import "errors"

// ErrNotFound is returned by the remote store and the local cache when no
// entry exists for the requested key.
var ErrNotFound = errors.New("not found")

package swrcache

import (
	"errors"
	"fmt"
)

// ErrAborted is carried by a response node that was cut short by Abort.
// Such a node is always terminal.
var ErrAborted = errors.New("swrcache: aborted")

// RefreshError wraps a failure returned by the Issuer. It is delivered as the
// Err of the network stage and is never retried.
type RefreshError struct {
	Key string
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("swrcache: refresh %q: %v", e.Key, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// StoreError reports a failing Store call. Read failures reject the future
// returned by Request.Run instead of becoming an error node.
type StoreError struct {
	Op  string // "get", "set", "remove" or "keys"
	Key string // storage (prefixed) key
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("swrcache: store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsAborted reports whether err is, or wraps, ErrAborted.
func IsAborted(err error) bool { return errors.Is(err, ErrAborted) }

package store

import "fmt"

// PersistenceError wraps a failed read or write of the backing key-value store.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Cause lets pkg/errors.Cause walk through the wrapper.
func (e *PersistenceError) Cause() error { return e.Err }

// CorruptStateError reports stored data that could not be turned into a note collection.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt state in %q: %v", e.Key, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

func (e *CorruptStateError) Cause() error { return e.Err }

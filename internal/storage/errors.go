package storage

import "fmt"

// StoreUnavailableError indicates a connection or transaction failure.
// It is fatal for the invocation but never corrupts committed buckets:
// each upsert call is a single transaction.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable (%s): %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

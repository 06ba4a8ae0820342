// internal/errors/errors.go
package appErrors

import "fmt"

// ValidationError marks a malformed or incomplete inbound event. Surfaced
// to the caller as a client error, never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: %s", e.Reason)
}

func NewValidation(reason string) error {
	return &ValidationError{Reason: reason}
}

// DuplicateCustomerError means the customer already has an interaction row.
// Not a failure: ingestion treats it as a successful no-op.
type DuplicateCustomerError struct {
	CustomerID string
}

func (e *DuplicateCustomerError) Error() string {
	return fmt.Sprintf("customer %s already has an interaction", e.CustomerID)
}

func NewDuplicateCustomer(customerID string) error {
	return &DuplicateCustomerError{CustomerID: customerID}
}

// StorageError wraps a persistence-layer failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ForwardingError wraps a failed survey-platform call. The row stays
// pending and is re-selected by the next sweep.
type ForwardingError struct {
	Email      string
	StatusCode int
	Err        error
}

func (e *ForwardingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("forwarding to retently failed for %s: %v", e.Email, e.Err)
	}
	return fmt.Sprintf("forwarding to retently failed for %s: status %d", e.Email, e.StatusCode)
}

func (e *ForwardingError) Unwrap() error { return e.Err }

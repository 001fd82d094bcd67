package storage

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned by Get and Update for an unknown id.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable marks a failure of the backing store.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrInUse is returned when deleting a customer that jobs still reference.
	ErrInUse = errors.New("customer is referenced by jobs")
	// ErrUnknownCustomer is returned when a job names a customer that does not exist.
	ErrUnknownCustomer = errors.New("unknown customer")
)

// StoreError wraps a driver error. It matches ErrUnavailable with errors.Is.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + ErrUnavailable.Error() + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrUnavailable
}

func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, op)
	}
	return &StoreError{Op: op, Err: err}
}

func notFound(kind, id string) error {
	return errors.Wrapf(ErrNotFound, "%s %s", kind, id)
}

package cli

import (
	"errors"
	"fmt"
)

// usageError means the command line was wrong; exit code 2.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErr(err error) error { return &usageError{err: err} }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// failedError means the operation itself failed; exit code 1.
type failedError struct{ err error }

func (e *failedError) Error() string { return e.err.Error() }
func (e *failedError) Unwrap() error { return e.err }

func failed(err error) error {
	if err == nil {
		return nil
	}
	var fe *failedError
	if errors.As(err, &fe) {
		return err
	}
	return &failedError{err: err}
}

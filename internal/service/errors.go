package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired means the call carried no caller identity.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrForbidden means the caller's role does not allow the operation.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrAdminRequired is the admin-only variant of ErrForbidden.
	ErrAdminRequired = fmt.Errorf("admin access required: %w", ErrForbidden)

	// ErrSupplierNotFound means no adapter is registered under the
	// requested supplier name.
	ErrSupplierNotFound = errors.New("supplier not found")

	// ErrValidation means the request carried missing or invalid fields.
	ErrValidation = errors.New("validation failed")
)

// BatchCommitError wraps a store-level failure to apply a staged batch. When
// the commit itself fails the whole pipeline call fails, as opposed to
// per-item errors which are reported in the result payload.
type BatchCommitError struct {
	Err error
}

func (e *BatchCommitError) Error() string {
	return fmt.Sprintf("batch commit failed: %v", e.Err)
}

func (e *BatchCommitError) Unwrap() error {
	return e.Err
}

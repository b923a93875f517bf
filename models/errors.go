package models

import "fmt"

// CustomError is a plain message error used for fixed, user-facing failures.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrNoPermission  = &CustomError{"You do not have permission"}
	ErrDialogClosed  = &CustomError{"No add or edit dialog is open"}
	ErrUnknownKind   = &CustomError{"Unknown entity kind"}
	ErrTableNotFree  = &CustomError{"Table is not available"}
	ErrInvalidLogin  = &CustomError{"Invalid credentials"}
	ErrInvalidToken  = &CustomError{"Invalid or expired token"}
	ErrTokenRevoked  = &CustomError{"Token has been revoked"}
	ErrMissingToken  = &CustomError{"Authorization token missing"}
	ErrEmptyCustomer = &CustomError{"Customer ID is required"}
)

// DuplicateKeyError is returned when a record with the same key already exists.
type DuplicateKeyError struct {
	Kind string
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Kind, e.Key)
}

// NotFoundError is returned when no record has the requested key.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// ValidationError reports a bad or missing field value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseError reports a value that could not be coerced to the field's type.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StorageUnavailableError wraps a persistence failure. The current action is aborted.
type StorageUnavailableError struct {
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

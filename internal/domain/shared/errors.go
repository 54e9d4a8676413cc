package shared

import "errors"

// Error codes used across the settlement domain
const (
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodePartialData  = "PARTIAL_DATA"
	CodeInvalidState = "INVALID_STATE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, shared.ErrNotFound) matches any not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a NOT_FOUND error with a custom message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewConflictError creates a CONFLICT error with a custom message
func NewConflictError(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// NewValidationError creates a VALIDATION_ERROR with a custom message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrConflict     = NewDomainError(CodeConflict, "Resource already exists")
	ErrValidation   = NewDomainError(CodeValidation, "Invalid input provided")
	ErrPartialData  = NewDomainError(CodePartialData, "Record data is incomplete or unparsable")
	ErrInvalidState = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// PartialDataError marks a single record whose payment breakdown could not be
// parsed. It is isolated per record and never aborts an aggregation.
type PartialDataError struct {
	RecordKind string
	RecordID   string
	Err        error
}

// NewPartialDataError wraps the parse failure of one record
func NewPartialDataError(kind, id string, err error) *PartialDataError {
	return &PartialDataError{RecordKind: kind, RecordID: id, Err: err}
}

func (e *PartialDataError) Error() string {
	return "unparsable breakdown on " + e.RecordKind + " " + e.RecordID + ": " + e.Err.Error()
}

// Unwrap returns the underlying parse error
func (e *PartialDataError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, shared.ErrPartialData) match
func (e *PartialDataError) Is(target error) bool {
	return target == ErrPartialData
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a CONFLICT domain error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

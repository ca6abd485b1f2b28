// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrServiceUnavailable aborts a campaign before any contact is processed.
var ErrServiceUnavailable = errors.New("llm service is not available")

// ErrContactNotFound is returned by single-contact lookups
type ErrContactNotFound struct {
    ContactID int
}

func (e *ErrContactNotFound) Error() string {
    return fmt.Sprintf("contact with ID %d not found", e.ContactID)
}

func NewContactNotFound(id int) error {
    return &ErrContactNotFound{ContactID: id}
}

// ValidationError rejects a request before anything is stored or sent.
type ValidationError struct {
    Field  string
    Reason string
}

func (e *ValidationError) Error() string {
    if e.Field == "" {
        return e.Reason
    }
    return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
    return &ValidationError{Field: field, Reason: reason}
}

// UniqueViolationError means another contact already holds Field=Value.
type UniqueViolationError struct {
    Field string
    Value string
}

func (e *UniqueViolationError) Error() string {
    if e.Field == "" {
        return "contact with this email or phone might already exist"
    }
    return fmt.Sprintf("contact with %s '%s' already exists", e.Field, e.Value)
}

func NewUniqueViolation(field, value string) error {
    return &UniqueViolationError{Field: field, Value: value}
}

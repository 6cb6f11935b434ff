// internal/models/errors.go
package models

import (
	"errors"
	"fmt"
)

// Error codes for store operations.
const (
	CodeNotFound = iota + 1
	CodeUnauthorized
	CodeFeatureDisabled
	CodeValidation
	CodePersistence
)

// StoreError is a business error with a stable code. Persistence errors
// (CodePersistence) never escape a facade operation; they are logged by
// the gateway and degraded to defaults.
type StoreError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewNotFound(resource, id string) *StoreError {
	return &StoreError{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

func NewUnauthorized(message string) *StoreError {
	return &StoreError{Code: CodeUnauthorized, Message: message}
}

func NewFeatureDisabled(feature string) *StoreError {
	return &StoreError{Code: CodeFeatureDisabled, Message: fmt.Sprintf("%s is currently disabled", feature)}
}

func NewValidation(message string, err error) *StoreError {
	return &StoreError{Code: CodeValidation, Message: message, Err: err}
}

func NewPersistence(key string, err error) *StoreError {
	return &StoreError{Code: CodePersistence, Message: "storage fault on " + key, Err: err}
}

func hasCode(err error, code int) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Code == code
}

func IsNotFound(err error) bool        { return hasCode(err, CodeNotFound) }
func IsUnauthorized(err error) bool    { return hasCode(err, CodeUnauthorized) }
func IsFeatureDisabled(err error) bool { return hasCode(err, CodeFeatureDisabled) }
func IsValidation(err error) bool      { return hasCode(err, CodeValidation) }
func IsPersistence(err error) bool     { return hasCode(err, CodePersistence) }

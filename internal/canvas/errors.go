// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package canvas

import (
	"errors"
	"fmt"
)

// ErrorType classifies canvas failures
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeRemote     ErrorType = "REMOTE_STORE"
)

// ValidationError is raised for bad user input before any store call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrorTypeValidation, e.Field, e.Message)
}

// NewValidationError creates a validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError is raised when a referenced entity is missing from the graph
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q not found", ErrorTypeNotFound, e.Kind, e.ID)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// RemoteStoreError wraps a network failure or a rejected write
type RemoteStoreError struct {
	Op      string
	Message string
	Cause   error
}

func (e *RemoteStoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", ErrorTypeRemote, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", ErrorTypeRemote, e.Op, e.Message)
}

// Unwrap returns the underlying error
func (e *RemoteStoreError) Unwrap() error {
	return e.Cause
}

// NewRemoteStoreError creates a remote store error. A nil cause yields a
// store-side rejection with only a message.
func NewRemoteStoreError(op, message string, cause error) *RemoteStoreError {
	return &RemoteStoreError{Op: op, Message: message, Cause: cause}
}

// UserMessage is the text shown to the user in a notification
func UserMessage(err error) string {
	var remote *RemoteStoreError
	if errors.As(err, &remote) {
		return fmt.Sprintf("Error %s: %s", remote.Op, remote.Message)
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return fmt.Sprintf("Invalid %s: %s", validation.Field, validation.Message)
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("%s not found", notFound.Kind)
	}
	return err.Error()
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsRemote reports whether err is a RemoteStoreError
func IsRemote(err error) bool {
	var target *RemoteStoreError
	return errors.As(err, &target)
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record or group is not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when a key, name, or value shape is malformed
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrWriteFailed is returned when a batch write fails in whole or in part
	ErrWriteFailed = errors.New("write failed")

	// ErrStoreUnavailable is returned when the underlying store cannot be reached
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnsupportedResultShape is returned when an include-bearing method does
	// not produce a field→value mapping, so its output cannot be filtered
	ErrUnsupportedResultShape = errors.New("unsupported result shape")

	// ErrNotSupported is returned when a backend does not implement an operation
	ErrNotSupported = errors.New("operation not supported")
)

// NotFoundError represents an error when a record or group is not found
type NotFoundError struct {
	Kind string // "record" or "group"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidArgumentError represents a malformed key, name, or value shape
type InvalidArgumentError struct {
	Field   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// WriteFailedError represents a failed batch write. Keys lists the keys whose
// outcome is undetermined.
type WriteFailedError struct {
	Group string
	Keys  []string
	Cause error
}

func (e *WriteFailedError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("write to group %q failed for keys [%s]: %v",
			e.Group, strings.Join(e.Keys, ", "), e.Cause)
	}
	return fmt.Sprintf("write to group %q failed: %v", e.Group, e.Cause)
}

func (e *WriteFailedError) Is(target error) bool {
	return target == ErrWriteFailed
}

func (e *WriteFailedError) Unwrap() error {
	return e.Cause
}

// StoreUnavailableError wraps a connectivity or backend failure
type StoreUnavailableError struct {
	Op    string
	Cause error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Cause)
}

func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Cause
}

// UnsupportedResultShapeError reports a method whose result is not a mapping
type UnsupportedResultShapeError struct {
	Method string
	Got    string
}

func (e *UnsupportedResultShapeError) Error() string {
	return fmt.Sprintf("method %q returned %s, expected a field mapping", e.Method, e.Got)
}

func (e *UnsupportedResultShapeError) Is(target error) bool {
	return target == ErrUnsupportedResultShape
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(field, message string) error {
	return &InvalidArgumentError{Field: field, Message: message}
}

// NewWriteFailedError creates a new WriteFailedError
func NewWriteFailedError(group string, keys []string, cause error) error {
	return &WriteFailedError{Group: group, Keys: keys, Cause: cause}
}

// NewStoreUnavailableError creates a new StoreUnavailableError
func NewStoreUnavailableError(op string, cause error) error {
	return &StoreUnavailableError{Op: op, Cause: cause}
}

// NewUnsupportedResultShapeError creates a new UnsupportedResultShapeError
func NewUnsupportedResultShapeError(method, got string) error {
	return &UnsupportedResultShapeError{Method: method, Got: got}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsWriteFailed checks if an error is a write failure
func IsWriteFailed(err error) bool {
	return errors.Is(err, ErrWriteFailed)
}

// IsStoreUnavailable checks if an error is a store availability failure
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsUnsupportedResultShape checks if an error is a result shape violation
func IsUnsupportedResultShape(err error) bool {
	return errors.Is(err, ErrUnsupportedResultShape)
}

// IsNotSupported checks if an error reports an unimplemented backend operation
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

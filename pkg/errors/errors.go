// Package errors provides custom error types for the rostermap system.
// These errors let callers separate per-record problems, which are isolated
// and reported as diagnostics, from feed-level failures that abort a league run.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the rostermap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedInput indicates that a feed record lacks a required identity field
	ErrMalformedInput = errors.New("malformed input")

	// ErrFeedUnavailable indicates that a feed is absent or unreadable
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrAmbiguousMatch indicates that several candidates tied for one record
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// MalformedInputError reports a single feed record that cannot take part in
// reconciliation. The record is dropped; the rest of the feed is kept.
type MalformedInputError struct {
	Feed   string // "stats", "directory", "enrichment"
	Index  int    // position of the record in its feed
	Field  string // missing or invalid field, if known
	Reason string
	Err    error
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s record #%d: %s: %s", e.Feed, e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s record #%d: %s", e.Feed, e.Index, e.Reason)
}

// Unwrap implements errors.Unwrap
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NewMalformedInputError creates a new MalformedInputError
func NewMalformedInputError(feed string, index int, field, reason string) *MalformedInputError {
	return &MalformedInputError{
		Feed:   feed,
		Index:  index,
		Field:  field,
		Reason: reason,
	}
}

// FeedError is a feed-level failure. It is fatal for the league run that
// hit it and for nothing else.
type FeedError struct {
	League string
	Feed   string
	Path   string
	Err    error
}

// Error implements the error interface
func (e *FeedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s feed for league %s unavailable (%s): %v", e.Feed, e.League, e.Path, e.Err)
	}
	return fmt.Sprintf("%s feed for league %s unavailable: %v", e.Feed, e.League, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FeedError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FeedError) Is(target error) bool {
	return target == ErrFeedUnavailable
}

// NewFeedError creates a new FeedError
func NewFeedError(league, feed, path string, err error) *FeedError {
	return &FeedError{
		League: league,
		Feed:   feed,
		Path:   path,
		Err:    err,
	}
}

// LeagueError attaches a league code to an error raised while running that league
type LeagueError struct {
	League string
	Err    error
}

// Error implements the error interface
func (e *LeagueError) Error() string {
	return fmt.Sprintf("league %s: %v", e.League, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *LeagueError) Unwrap() error {
	return e.Err
}

// NewLeagueError creates a new LeagueError
func NewLeagueError(league string, err error) *LeagueError {
	return &LeagueError{League: league, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "rename", "remove", "glob"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMalformedInput checks if an error reports a malformed feed record
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsFeedUnavailable checks if an error is a feed-level failure
func IsFeedUnavailable(err error) bool {
	return errors.Is(err, ErrFeedUnavailable)
}

// IsCanceled checks if an error is a cancellation error, including a
// canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapFeed wraps an error as a FeedError
func WrapFeed(league, feed, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewFeedError(league, feed, path, err)
}

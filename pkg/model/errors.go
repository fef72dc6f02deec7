package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrReferenceLoad is returned when the seller or customer reference
	// collections cannot be loaded. Record mapping must not be attempted after it.
	ErrReferenceLoad = errors.New("reference collections unavailable")
	// ErrRecordLoad is returned when the records endpoint fails or answers with a non-success status
	ErrRecordLoad = errors.New("records unavailable")
	// ErrInvalidQuery is returned when a query is malformed
	ErrInvalidQuery = errors.New("invalid query")
	// ErrCanceled is returned when the operation is canceled by the caller
	ErrCanceled = errors.New("operation canceled")
)

// ReferenceLoadError reports which reference collection failed to load.
type ReferenceLoadError struct {
	Collection string
	Err        error
}

func (e *ReferenceLoadError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("%s: %v", ErrReferenceLoad, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrReferenceLoad, e.Collection, e.Err)
}

func (e *ReferenceLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrReferenceLoad) match.
func (e *ReferenceLoadError) Is(target error) bool { return target == ErrReferenceLoad }

// RecordLoadError reports a failed records request. StatusCode is zero when
// the request never produced a response.
type RecordLoadError struct {
	StatusCode int
	Err        error
}

func (e *RecordLoadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", ErrRecordLoad, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrRecordLoad, e.Err)
}

func (e *RecordLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrRecordLoad) match.
func (e *RecordLoadError) Is(target error) bool { return target == ErrRecordLoad }

// WrapError converts context.Canceled and context.DeadlineExceeded to ErrCanceled.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsCanceled(err) {
		return ErrCanceled
	}
	return err
}

// IsCanceled returns true if the error is due to context cancellation or deadline exceeded.
// It checks both direct context errors and wrapped errors (e.g., from net/http).
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrCanceled) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "context deadline exceeded")
}

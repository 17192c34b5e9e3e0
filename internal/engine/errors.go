// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// Common engine errors
var (
	ErrStrategyNotImplemented = errors.New("strategy not implemented")
	ErrNoExecutor             = errors.New("no executor configured for strategy")
	ErrInvalidURL             = errors.New("invalid URL")
)

// ErrorCode represents a specific failure condition of a fetch executor
type ErrorCode string

// Lightweight executor failures
const (
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeTransport  ErrorCode = "transport"
	ErrCodeHTTPStatus ErrorCode = "http_status"
)

// Rendering executor failures
const (
	ErrCodeNavigationTimeout ErrorCode = "navigation_timeout"
	ErrCodeNavigation        ErrorCode = "navigation"
	ErrCodeWaitTimeout       ErrorCode = "wait_timeout"
	ErrCodeEngineUnavailable ErrorCode = "engine_unavailable"
)

// FetchError is returned by the lightweight executor
type FetchError struct {
	Code       ErrorCode
	URL        string
	StatusCode int
	Message    string
	Underlying error
}

// NewFetchError creates a new FetchError
func NewFetchError(code ErrorCode, url, message string, err error) *FetchError {
	return &FetchError{
		Code:       code,
		URL:        url,
		Message:    message,
		Underlying: err,
	}
}

// NewHTTPStatusError creates a FetchError for a non-2xx response
func NewHTTPStatusError(url string, status int) *FetchError {
	return &FetchError{
		Code:       ErrCodeHTTPStatus,
		URL:        url,
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP %d %s", status, http.StatusText(status)),
	}
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("fetch %s: %s: %s: %v", e.URL, e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Underlying
}

// Is matches another FetchError by code
func (e *FetchError) Is(target error) bool {
	if t, ok := target.(*FetchError); ok {
		return e.Code == t.Code
	}
	return false
}

// GetStatusCode exposes the response status for retry decisions
func (e *FetchError) GetStatusCode() int {
	return e.StatusCode
}

// Timeout reports whether the fetch ran out of time
func (e *FetchError) Timeout() bool {
	return e.Code == ErrCodeTimeout
}

// Temporary reports whether a repeat attempt could succeed
func (e *FetchError) Temporary() bool {
	return e.Code == ErrCodeTransport
}

// RenderError is returned by the rendering executor
type RenderError struct {
	Code       ErrorCode
	URL        string
	Selector   string
	Message    string
	Underlying error
}

// NewRenderError creates a new RenderError
func NewRenderError(code ErrorCode, url, message string, err error) *RenderError {
	return &RenderError{
		Code:       code,
		URL:        url,
		Message:    message,
		Underlying: err,
	}
}

// WithSelector records the selector that was being waited on
func (e *RenderError) WithSelector(sel string) *RenderError {
	e.Selector = sel
	return e
}

// Error implements the error interface
func (e *RenderError) Error() string {
	msg := e.Message
	if e.Selector != "" {
		msg = fmt.Sprintf("%s (selector %q)", msg, e.Selector)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("render %s: %s: %s: %v", e.URL, e.Code, msg, e.Underlying)
	}
	return fmt.Sprintf("render %s: %s: %s", e.URL, e.Code, msg)
}

// Unwrap returns the underlying error
func (e *RenderError) Unwrap() error {
	return e.Underlying
}

// Is matches another RenderError by code
func (e *RenderError) Is(target error) bool {
	if t, ok := target.(*RenderError); ok {
		return e.Code == t.Code
	}
	return false
}

// Timeout reports whether the render ran out of time
func (e *RenderError) Timeout() bool {
	return e.Code == ErrCodeNavigationTimeout || e.Code == ErrCodeWaitTimeout
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes surfaced to presenters.
const (
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeMalformedInput = "MALFORMED_INPUT"
	CodeFetchFailed    = "FETCH_FAILED"
	CodeFetchTimeout   = "FETCH_TIMEOUT"
	CodeTypeCoercion   = "TYPE_COERCION_ERROR"
)

var (
	// ErrEmptyInput is returned when the raw input is blank.
	ErrEmptyInput = errors.New("please enter data")

	// ErrMalformedInput indicates at least one input line could not be parsed.
	ErrMalformedInput = errors.New("malformed input")

	// ErrFetchFailed indicates the dataset service call failed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrFetchTimeout indicates the dataset service call did not finish in time.
	ErrFetchTimeout = errors.New("fetch timed out")

	// ErrRateLimited indicates the dataset service rejected the call with 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrTypeCoercion indicates a fetched count could not be read as a number.
	ErrTypeCoercion = errors.New("type coercion failed")
)

// Coder is implemented by errors that carry a presenter-facing code.
type Coder interface {
	Code() string
}

// Code returns the code of the first Coder in err's chain, or "" if none.
func Code(err error) string {
	if errors.Is(err, ErrEmptyInput) {
		return CodeEmptyInput
	}
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// MalformedInputError lists every input line the parser had to skip.
type MalformedInputError struct {
	Lines []MalformedLine
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	if len(e.Lines) == 0 {
		return "malformed input"
	}
	first := e.Lines[0]
	msg := fmt.Sprintf("malformed input on line %d (%q): %s", first.Line, first.Text, first.Reason)
	if n := len(e.Lines) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

// Code implements Coder
func (e *MalformedInputError) Code() string { return CodeMalformedInput }

// Is implements errors.Is support
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// FetchError wraps a failed call to the dataset service.
type FetchError struct {
	Identifier string // identifier being fetched when the call failed
	StatusCode int    // HTTP status, 0 when no response was received
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	var b strings.Builder
	if e.Timeout() {
		b.WriteString("fetch timed out")
	} else {
		b.WriteString("fetch failed")
	}
	if e.Identifier != "" {
		fmt.Fprintf(&b, " for identifier %s", e.Identifier)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying failure was a deadline or client timeout.
func (e *FetchError) Timeout() bool {
	if e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// Code implements Coder
func (e *FetchError) Code() string {
	if e.Timeout() {
		return CodeFetchTimeout
	}
	return CodeFetchFailed
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetchTimeout:
		return e.Timeout()
	case ErrFetchFailed:
		return !e.Timeout()
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// CoercionError reports a fetched count that could not be read as a number.
type CoercionError struct {
	Identifier string
	Value      any
	Err        error
}

// Error implements the error interface
func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot read count %#v for identifier %s as a number", e.Value, e.Identifier)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Code implements Coder
func (e *CoercionError) Code() string { return CodeTypeCoercion }

// Is implements errors.Is support
func (e *CoercionError) Is(target error) bool {
	return target == ErrTypeCoercion
}

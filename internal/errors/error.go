package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryStorage Category = "storage"
	CategoryRequest Category = "request"
	CategorySession Category = "session"
	CategoryCLI     Category = "cli"
)

// DropError is a structured error with a code, an explanation and a hint.
type DropError struct {
	// Code is a unique error identifier (e.g., "E120").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *DropError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *DropError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *DropError) WithDetail(d string) *DropError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *DropError) WithSuggestion(s string) *DropError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *DropError) Wrap(err error) *DropError {
	e.Wrapped = err
	return e
}

// New creates a DropError from a registered error code.
func New(code string) *DropError {
	template, ok := registry[code]
	if !ok {
		return &DropError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &DropError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new DropError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *DropError {
	return &DropError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a DropError.
func FromError(err error, code string) *DropError {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DropError); ok {
		return de
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is a DropError carrying code.
func HasCode(err error, code string) bool {
	de, ok := err.(*DropError)
	return ok && de.Code == code
}

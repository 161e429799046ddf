// Package domainerrors provides coded errors for the verification workflow.
//
// Services and domain models return these so transport layers can map outcomes
// to HTTP statuses without string matching. Infrastructure facts (row missing,
// duplicate key) live in pkg/platform/sentinel; stores return sentinels and
// services translate them into coded errors at the boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the category of a workflow error.
type Code string

const (
	// Workflow taxonomy.
	CodeUnknownDocumentType  Code = "unknown_document_type"
	CodeInvalidTransition    Code = "invalid_transition"
	CodeValidationFailed     Code = "validation_failed"
	CodeRequiredFieldMissing Code = "required_field_missing"
	CodeInvalidFormat        Code = "invalid_format"
	CodeInvalidDate          Code = "invalid_date"
	CodeExpiredDocument      Code = "expired_document"
	CodeInvalidValue         Code = "invalid_value"

	// Transport and infrastructure.
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// Error carries a code, a human-actionable message, an optional wrapped cause,
// and, for validation failures, a field→reason map.
type Error struct {
	code   Code
	msg    string
	cause  error
	fields map[string]string
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error category.
func (e *Error) Code() Code { return e.code }

// Message returns the user-facing message without the code prefix.
func (e *Error) Message() string { return e.msg }

// Fields returns the field→reason map for validation failures, nil otherwise.
func (e *Error) Fields() map[string]string { return e.fields }

// New creates a coded error.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, cause: err}
}

// NewValidation creates a CodeValidationFailed error carrying per-field reasons.
func NewValidation(fields map[string]string) *Error {
	return &Error{
		code:   CodeValidationFailed,
		msg:    "one or more fields failed validation",
		fields: fields,
	}
}

// HasCode reports whether err (or anything it wraps) is a coded error with the
// given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.code == code
	}
	return false
}

// CodeOf returns the code of err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeInternal
}

// ToHTTPStatus maps a coded error onto an HTTP status. Unknown errors are 500.
func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidationFailed, CodeRequiredFieldMissing, CodeInvalidFormat,
		CodeInvalidDate, CodeExpiredDocument, CodeInvalidValue:
		return http.StatusUnprocessableEntity
	case CodeUnknownDocumentType, CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeInvalidTransition, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

package booking

import (
	"errors"
	"fmt"
)

// Stable error codes surfaced at the request boundary.
const (
	CodeConflict      = "conflict"
	CodeNotFound      = "not_found"
	CodeAlreadyExists = "already_exists"
	CodeUnauthorized  = "unauthorized"
	CodeBadRequest    = "bad_request"
	CodeInvalidState  = "invalid_state"
	CodeUpstream      = "upstream_failure"
	CodeInternal      = "internal"
)

// ServiceError carries a stable code alongside the message so handlers
// can map failures to HTTP statuses without string matching.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewConflict(msg string) error {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func NewNotFound(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func NewAlreadyExists(msg string) error {
	return &ServiceError{Code: CodeAlreadyExists, Message: msg}
}

func NewUnauthorized(msg string) error {
	return &ServiceError{Code: CodeUnauthorized, Message: msg}
}

func NewBadRequest(msg string) error {
	return &ServiceError{Code: CodeBadRequest, Message: msg}
}

func NewInvalidState(msg string) error {
	return &ServiceError{Code: CodeInvalidState, Message: msg}
}

func NewUpstreamFailure(msg string) error {
	return &ServiceError{Code: CodeUpstream, Message: msg}
}

// CodeOf extracts the stable code from an error, defaulting to internal.
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

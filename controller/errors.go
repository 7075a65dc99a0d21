// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package controller

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes callers branch on. Wrapped
// errors carry the operation detail; match with errors.Is.
var (
	// ErrAuthenticationFailed indicates the controller rejected the
	// supplied credentials (HTTP 401/403 from the token endpoint).
	// Prompting for new credentials may help; retrying will not.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrEndpointUnreachable indicates a transport-level failure: DNS,
	// dial, TLS, or timeout. The request never produced a controller
	// response. Retrying after a backoff may help.
	ErrEndpointUnreachable = errors.New("endpoint unreachable")

	// ErrIncompatibleAPI indicates the describe document could not be
	// parsed, or describes an API generation this client does not
	// support.
	ErrIncompatibleAPI = errors.New("incompatible API description")

	// ErrUnknownMethod indicates a dotted method path that the
	// session's API description does not name. The session remains
	// usable for other calls.
	ErrUnknownMethod = errors.New("unknown method")
)

// ServerError is a structured error response from the controller: the
// request reached the controller and executed, but reported failure.
// Callers use errors.As to extract the status and remote message:
//
//	var serverErr *controller.ServerError
//	if errors.As(err, &serverErr) {
//	    if serverErr.StatusCode == http.StatusConflict { ... }
//	}
//
// A ServerError is scoped to the call that produced it — it never
// invalidates the Session.
type ServerError struct {
	// Code is the controller's machine-readable error code
	// (e.g., "not_found", "conflict"). Empty when the controller
	// returned a non-JSON error body.
	Code string `json:"code"`

	// Message is the human-readable error description from the
	// controller.
	Message string `json:"message"`

	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *ServerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("controller: server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("controller: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsServerError checks whether err is a *ServerError with the given
// error code.
func IsServerError(err error, code string) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Code == code
	}
	return false
}

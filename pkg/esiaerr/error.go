/*
Copyright IDResolve Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package esiaerr defines the error taxonomy shared by all ESIA client flows.
// Every failure a flow can surface is either an *Error carrying one of the
// codes below, or one of the standalone typed errors (HTTPStatusError,
// RedirectError) that callers need to read fields from.
package esiaerr

import (
	"errors"
	"fmt"
)

// Code classifies a client failure.
type Code string

const (
	// CodeConfiguration - certificate/key unreadable or settings invalid; surfaced at construction.
	CodeConfiguration Code = "configuration"
	// CodeSigning - cryptographic backend failure while producing a request signature.
	CodeSigning Code = "signing"
	// CodeTransport - network-level failure reaching the provider.
	CodeTransport Code = "transport"
	// CodeHTTPStatus - non-2xx response without a redirect signal.
	CodeHTTPStatus Code = "http-status"
	// CodeMalformedResponse - non-JSON content type, JSON parse failure or a response missing required fields.
	CodeMalformedResponse Code = "malformed-response"
	// CodeMalformedToken - token segment fails to decode or parse.
	CodeMalformedToken Code = "malformed-token"
	// CodeInvalidClaims - claims decoded but the required subject-identifier path is missing.
	CodeInvalidClaims Code = "invalid-claims"
	// CodeSessionState - verification result requested before a session identifier is established.
	CodeSessionState Code = "session-state"
	// CodeUnexpectedResponse - redirect signal received where a JSON body was expected, or vice versa.
	CodeUnexpectedResponse Code = "unexpected-response"
)

// ErrSessionNotFound is returned by session stores on a miss or an expired entry.
var ErrSessionNotFound = errors.New("session not found")

// Error is a classified client failure.
type Error struct {
	Code Code
	Err  error
}

// New creates a classified error wrapping err.
func New(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// Newf creates a classified error from a format string.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var e *Error

	return errors.As(err, &e) && e.Code == code
}

// HTTPStatusError is returned for a non-2xx provider response. The body is
// kept verbatim for diagnostics.
type HTTPStatusError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// RedirectError is the redirect signal: a response carrying a Location header
// together with a 200 or 302 status. Flows that expect a redirect (starting a
// verification session) catch it with errors.As; everywhere else it
// propagates as a failure.
type RedirectError struct {
	Location string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s", e.Location)
}

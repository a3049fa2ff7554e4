// Package apierror provides the typed error taxonomy shared by every layer of
// the bot. Backend rejections, transport failures, and local validation all
// surface as a single *Error value so that handlers can pick the right reply
// by Kind/Code instead of string-matching on prose.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for dispatch purposes.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidState
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Machine codes. The first block mirrors what the CashPilot backend returns;
// the second block is synthesized locally before any request is made.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidState = "INVALID_STATE"
	CodeConnection   = "CONNECTION_ERROR"
	CodeUnknown      = "UNKNOWN_ERROR"

	CodeNoBusiness    = "BUSINESS_NOT_CONFIGURED"
	CodeNoOpenSession = "NO_OPEN_SESSION"
	CodeUsage         = "USAGE_ERROR"
)

// Error is the canonical error value. Status is the HTTP status that produced
// it, or 0 when the backend was never reached (transport failure or local
// validation).
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Kind derives the dispatch class, preferring the machine code over the HTTP
// status so that backends answering 400 with code INVALID_STATE still land in
// the right bucket.
func (e *Error) Kind() Kind {
	switch e.Code {
	case CodeValidation, CodeNoBusiness, CodeNoOpenSession, CodeUsage:
		return KindValidation
	case CodeConflict:
		return KindConflict
	case CodeNotFound:
		return KindNotFound
	case CodeInvalidState:
		return KindInvalidState
	case CodeConnection:
		return KindConnection
	}
	switch e.Status {
	case 0:
		return KindConnection
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	}
	return KindUnknown
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// NewValidation builds a local validation error. Never reaches the network.
func NewValidation(code, message string) *Error {
	return &Error{Status: 0, Code: code, Message: message}
}

// NewConnection wraps a transport-level failure (connection refused, timeout,
// DNS). Status 0 distinguishes "unreachable" from "rejected".
func NewConnection(err error) *Error {
	return &Error{Status: 0, Code: CodeConnection, Message: "Connection failed: " + err.Error()}
}

// errorEnvelope is the backend's error body shape: {message|detail, code}.
type errorEnvelope struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Code    string `json:"code"`
}

// FromResponse normalizes a >= 400 response into an Error. Message preference:
// message field, then detail, then the raw body. Missing codes fall back to
// UNKNOWN_ERROR. Non-JSON bodies are carried verbatim.
func FromResponse(status int, body []byte) *Error {
	e := &Error{Status: status, Code: CodeUnknown}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Code != "" {
			e.Code = env.Code
		}
		switch {
		case env.Message != "":
			e.Message = env.Message
		case env.Detail != "":
			e.Message = env.Detail
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// As extracts a typed *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind()
	}
	return KindUnknown
}

// Package apperr defines the error taxonomy shared by the analysis pipeline
// and the HTTP layer. Every failure the pipeline reports carries a Kind so the
// API can pick a status code and a stable machine-readable code.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindLocalUnexpected Kind = iota
	KindMalformedRequest
	KindInvalidVideoReference
	KindCaptionUnavailable
	KindUpstreamAuthOrQuota
	KindUpstreamNotFound
	KindUpstreamGeneric
	KindEmptyTranscript
)

// Code returns the code reported to API callers.
func (k Kind) Code() string {
	switch k {
	case KindMalformedRequest:
		return "MALFORMED_REQUEST"
	case KindInvalidVideoReference:
		return "INVALID_VIDEO_REFERENCE"
	case KindCaptionUnavailable:
		return "CAPTION_UNAVAILABLE"
	case KindUpstreamAuthOrQuota:
		return "UPSTREAM_AUTH_OR_QUOTA"
	case KindUpstreamNotFound:
		return "UPSTREAM_NOT_FOUND"
	case KindUpstreamGeneric:
		return "UPSTREAM_FAILURE"
	case KindEmptyTranscript:
		return "EMPTY_TRANSCRIPT"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus maps a kind to a response status. Only malformed input is a
// client error; upstream failures stay in the server class even when the
// root cause is a rejected credential.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindMalformedRequest, KindInvalidVideoReference:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	return k.Code()
}

// Error is a classified failure. Message is the text forwarded to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Code()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain. Errors outside
// the taxonomy are treated as unexpected local failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindLocalUnexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

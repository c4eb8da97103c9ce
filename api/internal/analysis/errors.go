package analysis

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
)

// Kind categorizes a failed analysis.
type Kind string

const (
	KindUnavailable  Kind = "service_unavailable"
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindProvider     Kind = "provider_error"
	KindInternal     Kind = "internal_error"
)

// Bad request reasons.
const (
	ReasonMissingCredential = "missing_credential"
	ReasonUnsupportedType   = "unsupported_type"
	ReasonEmptyFile         = "empty_file"
	ReasonFileTooLarge      = "file_too_large"
	ReasonMissingFile       = "missing_file"
	ReasonMalformedForm     = "malformed_form"
)

// ErrInvalidCredential is returned by providers when the API key was rejected.
var ErrInvalidCredential = errors.New("invalid credential")

// Error is a terminal outcome of one request. Detail is safe to show to the client.
type Error struct {
	Kind   Kind
	Reason string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Detail == "" {
		return e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the outcome to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func ErrUnavailable() *Error {
	return &Error{
		Kind:   KindUnavailable,
		Detail: "Gemini AI is not available. Please check server configuration.",
	}
}

func ErrMissingCredential() *Error {
	return &Error{
		Kind:   KindBadRequest,
		Reason: ReasonMissingCredential,
		Detail: "API key is required. Get one at https://aistudio.google.com/apikey",
	}
}

func ErrUnsupportedType(mt string) *Error {
	return &Error{
		Kind:   KindBadRequest,
		Reason: ReasonUnsupportedType,
		Detail: "Unsupported file type: " + mt,
	}
}

func ErrEmptyFile() *Error {
	return &Error{Kind: KindBadRequest, Reason: ReasonEmptyFile, Detail: "Empty file uploaded"}
}

func ErrFileTooLarge(limit int64) *Error {
	return &Error{
		Kind:   KindBadRequest,
		Reason: ReasonFileTooLarge,
		Detail: fmt.Sprintf("File too large. Maximum size is %s.", HumanSize(limit)),
	}
}

// ErrBadForm covers upload shapes that never reach the guard pipeline (no file part, broken multipart).
func ErrBadForm(reason, detail string, err error) *Error {
	return &Error{Kind: KindBadRequest, Reason: reason, Detail: detail, Err: err}
}

func ErrUnauthorized(detail string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Detail: detail, Err: err}
}

func ErrProvider(err error) *Error {
	return &Error{Kind: KindProvider, Detail: "Provider error: " + errText(err), Err: err}
}

func ErrInternal(err error) *Error {
	return &Error{Kind: KindInternal, Detail: "Analysis failed: " + errText(err), Err: err}
}

// AsError converts any error into an outcome; unknown errors become KindInternal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return ErrInternal(err)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// HumanSize renders a byte limit the way it is shown to users (4718592 -> "4.5MB").
func HumanSize(n int64) string {
	const (
		kib = 1024
		mib = 1024 * kib
	)
	switch {
	case n >= mib:
		return strconv.FormatFloat(math.Round(float64(n)/mib*10)/10, 'f', -1, 64) + "MB"
	case n >= kib:
		return strconv.FormatFloat(math.Round(float64(n)/kib*10)/10, 'f', -1, 64) + "KB"
	default:
		return strconv.FormatInt(n, 10) + " bytes"
	}
}

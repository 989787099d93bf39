package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidRequest
	KindUnauthorized
	KindUnsupportedFormat
	KindUnreadableDocument
	KindMalformedModelOutput
	KindStorageWriteFailed
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidRequest:
		return "invalid_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindUnreadableDocument:
		return "unreadable_document"
	case KindMalformedModelOutput:
		return "malformed_model_output"
	case KindStorageWriteFailed:
		return "storage_write_failed"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func NotFound(op, format string, args ...any) *Error {
	return New(KindNotFound, op, fmt.Sprintf(format, args...), nil)
}

func InvalidRequest(op, format string, args ...any) *Error {
	return New(KindInvalidRequest, op, fmt.Sprintf(format, args...), nil)
}

func Unauthorized(op, msg string) *Error {
	return New(KindUnauthorized, op, msg, nil)
}

func UnsupportedFormat(op, declared string) *Error {
	return New(KindUnsupportedFormat, op, fmt.Sprintf("unsupported document format %q", declared), nil)
}

func UnreadableDocument(op string, err error) *Error {
	return New(KindUnreadableDocument, op, "document could not be read", err)
}

func MalformedModelOutput(op string, err error) *Error {
	return New(KindMalformedModelOutput, op, "model reply is not a valid lesson payload", err)
}

func StorageWriteFailed(op string, err error) *Error {
	return New(KindStorageWriteFailed, op, "generated content could not be persisted", err)
}

func Upstream(op string, err error) *Error {
	return New(KindUpstream, op, "upstream call failed", err)
}

// KindOf returns the kind of the outermost *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the response status code. A deadline anywhere
// in the chain is a gateway timeout whatever kind wraps it.
func HTTPStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

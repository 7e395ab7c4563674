package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindInternal     Kind = "SERVER_ERROR"
)

var statusByKind = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindInternal:     http.StatusInternalServerError,
}

// Status returns the HTTP status for a kind; unknown kinds map to 500.
func Status(k Kind) int {
	if s, ok := statusByKind[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a classified error carrying a client-safe message and an optional cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{kind: kind, message: message, cause: err}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func Internal(err error) *Error { return Wrap(KindInternal, err, "internal server error") }

func (e *Error) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func (e *Error) Message() string { return e.message }

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error { return e.cause }

// As extracts a classified error from the chain. Driver errors with a known
// meaning are classified on the way; anything else is nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Wrap(KindNotFound, err, "not found")
	}
	if mongo.IsDuplicateKeyError(err) {
		return Wrap(KindConflict, err, "duplicate record")
	}
	return nil
}

// KindOf reports the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Respond writes err as a JSON error body and aborts the gin context.
// Server errors are logged with their cause and answered with a generic message.
func Respond(c *gin.Context, err error) {
	e := As(err)
	if e == nil {
		e = Internal(err)
	}
	if e.kind == KindInternal {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": KindInternal})
		return
	}
	c.AbortWithStatusJSON(Status(e.kind), gin.H{"error": e.message, "code": e.kind})
}

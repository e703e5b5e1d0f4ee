package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindOutOfStock
	KindInvalidTransition
	KindConcurrentUpdate
	KindRateLimited
)

var kindStatus = map[Kind]int{
	KindInternal:          http.StatusInternalServerError,
	KindValidation:        http.StatusBadRequest,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusBadRequest,
	KindUnauthenticated:   http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindOutOfStock:        http.StatusBadRequest,
	KindInvalidTransition: http.StatusConflict,
	KindConcurrentUpdate:  http.StatusConflict,
	KindRateLimited:       http.StatusTooManyRequests,
}

// Error represents an application error
type Error struct {
	Kind    Kind              `json:"-"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    kindStatus[kind],
		Message: message,
		Err:     err,
	}
}

func Validation(message string, fields map[string]string) *Error {
	e := New(KindValidation, message, nil)
	e.Fields = fields
	return e
}

// NotFound builds a 404 naming the missing entity, e.g. NotFound("product").
func NotFound(entity string) *Error {
	return New(KindNotFound, capitalize(entity)+" not found", nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, message, nil)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func OutOfStock(message string) *Error {
	return New(KindOutOfStock, message, nil)
}

func InvalidTransition(message string) *Error {
	return New(KindInvalidTransition, message, nil)
}

func ConcurrentUpdate(message string, err error) *Error {
	return New(KindConcurrentUpdate, message, err)
}

// Internal wraps a storage or infrastructure failure. The cause is kept for
// logging and never rendered to the client.
func Internal(err error) *Error {
	return New(KindInternal, "Internal server error", err)
}

// From converts any error into an *Error. Binding errors from gin become
// validation errors with per-field details.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return Validation("Validation error", FieldErrors(verrs))
	}
	return Internal(err)
}

// Binding converts a request decoding failure into a validation error.
func Binding(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return Validation("Validation error", FieldErrors(verrs))
	}
	e := Validation("Invalid request body", nil)
	e.Err = err
	return e
}

// FieldErrors maps each failing field to the rule it violated.
func FieldErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[toSnake(fe.Field())] = rule
	}
	return fields
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

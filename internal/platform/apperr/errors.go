package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeWrongArgument    Code = "WRONG_ARGUMENT"
	CodeAccessDenied     Code = "ACCESS_DENIED"
	CodeConditionsNotMet Code = "CONDITIONS_NOT_MET"
	CodeDataConflict     Code = "DATA_CONFLICT"
	CodeInternal         Code = "INTERNAL"
)

// Error is the business error carried from service to handler.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NotFound(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func WrongArgument(format string, args ...any) error {
	return &Error{Code: CodeWrongArgument, Message: fmt.Sprintf(format, args...)}
}

func AccessDenied(format string, args ...any) error {
	return &Error{Code: CodeAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func ConditionsNotMet(format string, args ...any) error {
	return &Error{Code: CodeConditionsNotMet, Message: fmt.Sprintf(format, args...)}
}

func DataConflict(format string, args ...any) error {
	return &Error{Code: CodeDataConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...any) error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// HTTPStatus maps the error to the status the boundary returns.
// Unclassified errors are treated as internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeWrongArgument:
		return http.StatusBadRequest
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeConditionsNotMet:
		return http.StatusUnprocessableEntity
	case CodeDataConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

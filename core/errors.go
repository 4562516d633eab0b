package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// NotFoundError reports a missing resource. Its message is returned to clients as is.
type NotFoundError struct {
	Message string
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Message: msg}
}

func (err NotFoundError) Error() string { return err.Message }

// BadRequestError reports a request that cannot be served as sent (duplicates, bad references...).
// Its message is returned to clients as is.
type BadRequestError struct {
	Message string
}

func NewBadRequestError(msg string) error {
	return &BadRequestError{Message: msg}
}

func (err BadRequestError) Error() string { return err.Message }

// InternalError reports a server-side failure whose message may be returned to clients as is.
type InternalError struct {
	Message string
}

func NewInternalError(msg string) error {
	return &InternalError{Message: msg}
}

func (err InternalError) Error() string { return err.Message }

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

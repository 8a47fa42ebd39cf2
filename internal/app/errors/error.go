package errors

import (
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

// ErrorCode is the machine-readable kind carried alongside the HTTP status.
// Handlers map codes straight into the response body; messages stay
// human-readable and never echo raw store errors.
type ErrorCode string

const (
	CodeInvalidInput     ErrorCode = "INVALID_INPUT"
	CodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	CodeAlreadyUpgraded  ErrorCode = "ALREADY_UPGRADED"
	CodeInvalidCode      ErrorCode = "INVALID_CODE"
	CodeAlreadyUsed      ErrorCode = "ALREADY_USED"
	CodeTransientFailure ErrorCode = "TRANSIENT_FAILURE"
)

type AppError struct {
	StatusCode int
	Code       ErrorCode
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// WithCode attaches a machine-readable code to the error.
func (e *AppError) WithCode(code ErrorCode) *AppError {
	e.Code = code
	return e
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, message)
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusInternalServerError, message)
}

func NewServiceUnavailableError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusServiceUnavailable, message).WithCode(CodeTransientFailure)
}

// Package apierror is the JSON error body returned by both HTTP front ends.
package apierror

import (
	"fmt"
	"net/http"
)

type ApiError struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

var (
	ErrBadRequest    = func(message string) *ApiError { return New(http.StatusBadRequest, message) }
	ErrNotFound      = func(message string) *ApiError { return New(http.StatusNotFound, message) }
	ErrTooLarge      = func(message string) *ApiError { return New(http.StatusRequestEntityTooLarge, message) }
	ErrUnprocessable = func(message string) *ApiError {
		return New(http.StatusUnprocessableEntity, message)
	}
	ErrMethodNotAllowed = func(message string) *ApiError { return New(http.StatusMethodNotAllowed, message) }
	ErrInternalServer   = func() *ApiError {
		return New(http.StatusInternalServerError, "internal server error")
	}
)

func New(code int, message string) *ApiError {
	return &ApiError{
		Code:    code,
		Message: message,
	}
}

func (e *ApiError) WithRequestID(requestID string) *ApiError {
	e.RequestID = requestID
	return e
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *ApiError) StatusCode() int {
	return e.Code
}

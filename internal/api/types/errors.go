package types

import (
	"errors"

	appErr "github.com/showcase-studio/engine/pkg/errors"
)

func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var e *appErr.AppError
	if errors.As(err, &e) {
		return &APIError{Code: string(e.Code), Message: e.Message}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: err.Error()}
}

// NewError builds an error body from a code and message.
func NewError(code appErr.Code, message string) *APIError {
	return &APIError{Code: string(code), Message: message}
}

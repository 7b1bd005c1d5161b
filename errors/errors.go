package errors

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
)

type ErrorType string

const (
	ErrNotFound         ErrorType = "ENTRY_NOT_FOUND_ERROR"
	ErrValidation       ErrorType = "VALIDATION_ERROR"
	ErrEntryExists      ErrorType = "ENTRY_EXISTS_ERROR"
	ErrAuthorization    ErrorType = "AUTHORIZATION_ERROR"
	ErrAuthentication   ErrorType = "AUTHENTICATION_ERROR"
	ErrInvalidToken     ErrorType = "INVALID_TOKEN_ERROR"
	ErrPermission       ErrorType = "PERMISSION_ERROR"
	ErrFailedDependency ErrorType = "FAILED_DEPENDENCY"
	ErrFatal            ErrorType = "FATAL_ERROR"

	// Stage workflow taxonomy. Every stage endpoint emits one of these as the
	// machine-readable `type` field so clients never classify on message text.
	ErrIneligible     ErrorType = "INELIGIBLE_ERROR"
	ErrMissingContext ErrorType = "MISSING_CONTEXT_ERROR"
	ErrNoPinSet       ErrorType = "NO_PIN_SET_ERROR"
	ErrIncorrectCode  ErrorType = "INCORRECT_CODE_ERROR"
	ErrTransport      ErrorType = "TRANSPORT_ERROR"
)

type AppError struct {
	Code     int       `json:"-"`
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Internal string    `json:"internal,omitempty"`
}

func (a AppError) Error() string {
	return fmt.Sprintf("%s: %s", a.Type, a.Message)
}

func (a AppError) Serialize(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(a.Code)
	if err := json.NewEncoder(w).Encode(a); err != nil {
		panic(a)
	}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func HandleDataDBError(err error) AppError {
	if Is(err, sql.ErrNoRows) {
		return NewNotFoundError("resource not found")
	}
	return NewFatalError(err)
}

func HandleTxDBError(err error) AppError {
	return NewFatalError(err)
}

func HandleBindError(err error) AppError {
	if errors.As(err, &AppError{}) {
		return AsAppError(err)
	}

	if v, ok := err.(validator.ValidationErrors); ok {
		var message string
		switch v[0].ActualTag() {
		case "required":
			message = fmt.Sprintf("%s is requried", v[0].Field())
		case "required_with":
			message = fmt.Sprintf("%s is requried when %s is provided", v[0].Field(), v[0].Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of values: (%s), value received: %s", v[0].Field(), v[0].Param(), v[0].Value())
		case "gt":
			message = fmt.Sprintf("%s must be greater than (%s), value received: %s", v[0].Field(), v[0].Param(), v[0].Value())
		case "len":
			message = fmt.Sprintf("%s must have length (%s)", v[0].Field(), v[0].Param())
		case "numeric":
			message = fmt.Sprintf("%s must be numeric", v[0].Field())
		default:
			message = fmt.Sprintf("Validation failed on field { %s }, Condition: %s", v[0].Field(), v[0].ActualTag())
			if v[0].Param() != "" {
				message += fmt.Sprintf("{ %s }", v[0].Param())
			}
			if v[0].Value() != "" && v[0].Value() != nil {
				message += fmt.Sprintf(", Value Recieved: %v", v[0].Value())
			}
		}

		return AppError{
			Code:     http.StatusBadRequest,
			Type:     ErrValidation,
			Message:  message,
			Internal: err.Error(),
		}
	}
	if Is(err, io.EOF) {
		return NewValidationError("No request body")
	}

	vErr := NewValidationError("invalid request received")
	vErr.Internal = err.Error()

	return vErr
}

func NewValidationError(msg string) AppError {
	return AppError{
		Code:    http.StatusBadRequest,
		Type:    ErrValidation,
		Message: msg,
	}
}

func NewNotFoundError(msg string) AppError {
	return AppError{
		Code:    http.StatusNotFound,
		Type:    ErrNotFound,
		Message: msg,
	}
}

func NewPermissionError(msg string) AppError {
	return AppError{
		Code:    http.StatusForbidden,
		Type:    ErrPermission,
		Message: msg,
	}
}

func NewAuthenticationError(msg string) AppError {
	return AppError{
		Code:    http.StatusUnauthorized,
		Type:    ErrAuthentication,
		Message: msg,
	}
}

func NewInvalidTokenError() AppError {
	return AppError{
		Code:    http.StatusUnauthorized,
		Type:    ErrInvalidToken,
		Message: "Invalid token",
	}
}

// NewIneligibleError reports an unmet withdrawal precondition (balance below
// the minimum or inactive countdown). No withdrawal state exists afterwards.
func NewIneligibleError(msg string) AppError {
	return AppError{
		Code:    http.StatusPreconditionFailed,
		Type:    ErrIneligible,
		Message: msg,
	}
}

// NewMissingContextError reports a stage operation attempted without the
// withdrawal context that stage requires.
func NewMissingContextError(msg string) AppError {
	return AppError{
		Code:    http.StatusBadRequest,
		Type:    ErrMissingContext,
		Message: msg,
	}
}

// NewNoPinSetError reports that no confirmation code has been issued for the
// (withdrawal, stage) pair yet.
func NewNoPinSetError(stage string) AppError {
	return AppError{
		Code:    http.StatusConflict,
		Type:    ErrNoPinSet,
		Message: fmt.Sprintf("No pin set for stage %s yet", stage),
	}
}

// NewIncorrectCodeError reports a wrong confirmation code. The withdrawal
// stage is left untouched.
func NewIncorrectCodeError(stage string) AppError {
	return AppError{
		Code:    http.StatusUnprocessableEntity,
		Type:    ErrIncorrectCode,
		Message: fmt.Sprintf("Incorrect pin for stage %s", stage),
	}
}

// NewTransportError wraps a network-level failure on the client side. The
// server never emits this type.
func NewTransportError(err error) AppError {
	return AppError{
		Code:     http.StatusServiceUnavailable,
		Type:     ErrTransport,
		Message:  "Network error, please try again",
		Internal: err.Error(),
	}
}

func NewFatalError(err error) AppError {
	debug.PrintStack()
	return AppError{
		Code:     http.StatusInternalServerError,
		Type:     ErrFatal,
		Message:  "Oops! something happened on our end.",
		Internal: err.Error(),
	}
}

func NewUnknownError(err any) AppError {
	return NewFatalError(fmt.Errorf("%v", err))
}

func NewFailedDependencyError(msg string) AppError {
	return AppError{
		Code:    http.StatusFailedDependency,
		Type:    ErrFailedDependency,
		Message: msg,
	}
}

func AsAppError(err error) AppError {
	apperr := new(AppError)
	if errors.As(err, apperr) {
		return *apperr
	}
	return NewFatalError(err)
}

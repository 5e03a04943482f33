package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRoleMismatch = errors.New("role mismatch")
	ErrNotFound     = errors.New("not found")
	ErrPermission   = errors.New("permission denied")
	ErrAssetStore   = errors.New("asset store failure")
	ErrRepository   = errors.New("repository failure")
	ErrInternal     = errors.New("internal server error")
)

// GenericFailureMessage is shown for failures whose details must stay server side.
const GenericFailureMessage = "Something went wrong, please try again later."

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.BaseError, e.Err}
	}
	return []error{e.BaseError}
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

// NewInvalidInput reports a missing or malformed field. The message stays
// generic so callers cannot enumerate required fields.
func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Something is missing", details, err)
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s already exists with this %s.", resource, field)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

// NewUnauthorized is used for both unknown accounts and wrong passwords so
// the response never reveals whether an email is registered.
func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Incorrect email or password.", details, err)
}

func NewRoleMismatch(details string) *AppError {
	return NewAppError(ErrRoleMismatch, "Account doesn't exist with current role.", details, nil)
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found.", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

func NewAssetStore(details string, err error) *AppError {
	return NewAppError(ErrAssetStore, "File upload failed.", details, err)
}

func NewRepository(details string, err error) *AppError {
	return NewAppError(ErrRepository, GenericFailureMessage, details, err)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, GenericFailureMessage, details, err)
}

// IsBusiness reports whether err is a rule violation the caller can fix,
// as opposed to a collaborator or programming failure.
func IsBusiness(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrRoleMismatch) ||
		errors.Is(err, ErrNotFound)
}

// ToHTTPStatus keeps every business failure on 400 and maps ErrPermission
// to 401. Everything else, asset store and database failures included,
// answers 500 with the generic message instead of 400.
func ToHTTPStatus(err error) int {
	if IsBusiness(err) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPermission) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"success": false,
		"message": e.Message,
	}
}

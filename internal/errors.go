package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeMissingReason    ErrorCode = "MISSING_REASON"
	ErrCodeDuplicateName    ErrorCode = "DUPLICATE_NAME"
	ErrCodeDuplicateSlug    ErrorCode = "DUPLICATE_SLUG"

	ErrCodeUnauthenticated     ErrorCode = "UNAUTHENTICATED"
	ErrCodeInsufficientRole    ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeCrossPlatformAccess ErrorCode = "CROSS_PLATFORM_ACCESS"
	ErrCodeCrossOrgAccess      ErrorCode = "CROSS_ORG_ACCESS"
	ErrCodeSelfModification    ErrorCode = "SELF_MODIFICATION_FORBIDDEN"

	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodePlatformNotFound     ErrorCode = "PLATFORM_NOT_FOUND"
	ErrCodeOrganizationNotFound ErrorCode = "ORGANIZATION_NOT_FOUND"
	ErrCodeInvitationNotFound   ErrorCode = "INVITATION_NOT_FOUND"
	ErrCodeOrgTypeNotFound      ErrorCode = "ORG_TYPE_NOT_FOUND"

	ErrCodeDuplicateInvite     ErrorCode = "DUPLICATE_INVITE"
	ErrCodeAlreadyProcessed    ErrorCode = "ALREADY_PROCESSED"
	ErrCodeOrgTypeInUse        ErrorCode = "ORG_TYPE_IN_USE"
	ErrCodeInvalidOrgStatus    ErrorCode = "INVALID_ORGANIZATION_STATUS"
	ErrCodeInvalidInviteStatus ErrorCode = "INVALID_INVITATION_STATUS"
	ErrCodeMissingMembership   ErrorCode = "MISSING_MEMBERSHIP"
	ErrCodeEmailRegistered     ErrorCode = "EMAIL_ALREADY_REGISTERED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserDisabled       ErrorCode = "USER_DISABLED"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrUnauthenticated  = NewUnauthorizedError("Authentication required", ErrCodeUnauthenticated)
	ErrInsufficientRole = NewForbiddenError("Insufficient role for this operation", ErrCodeInsufficientRole)
	ErrCrossPlatform    = NewForbiddenError("Operation targets another platform", ErrCodeCrossPlatformAccess)
	ErrCrossOrg         = NewForbiddenError("Operation targets another organization", ErrCodeCrossOrgAccess)
	ErrSelfModification = NewForbiddenError("Actors cannot change their own role or disable their own account", ErrCodeSelfModification)

	ErrUserNotFound         = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrPlatformNotFound     = NewNotFoundError("Platform not found", ErrCodePlatformNotFound)
	ErrOrganizationNotFound = NewNotFoundError("Organization not found", ErrCodeOrganizationNotFound)
	ErrInvitationNotFound   = NewNotFoundError("Invitation not found", ErrCodeInvitationNotFound)
	ErrOrgTypeNotFound      = NewNotFoundError("Organization type not found", ErrCodeOrgTypeNotFound)

	ErrDuplicateInvite  = NewConflictError("A pending invitation already exists for this email and organization", ErrCodeDuplicateInvite)
	ErrAlreadyProcessed = NewConflictError("Record has already been processed", ErrCodeAlreadyProcessed)
	ErrOrgTypeInUse     = NewConflictError("Organization type is still in use and cannot be deleted", ErrCodeOrgTypeInUse)
	ErrEmailRegistered  = NewConflictError("Email is already registered", ErrCodeEmailRegistered)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserDisabled       = NewForbiddenError("User account is disabled", ErrCodeUserDisabled)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeAuthorizationDenied    = "AUTHORIZATION_DENIED"
	CodeValidation             = "VALIDATION_ERROR"
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyResolved        = "ALREADY_RESOLVED"
	CodeItemAlreadyClaimed     = "ITEM_ALREADY_CLAIMED"
	CodeItemAlreadyResolved    = "ITEM_ALREADY_RESOLVED"
	CodeInternal               = "INTERNAL_ERROR"

	// Validation sub-codes; all map to 400.
	CodeSelfClaim             = "SELF_CLAIM"
	CodeItemDeleted           = "ITEM_DELETED"
	CodeDuplicatePendingClaim = "DUPLICATE_PENDING_CLAIM"
	CodeSelfModification      = "SELF_MODIFICATION"
	CodeInvalidAction         = "INVALID_ACTION"
	CodeInvalidRole           = "INVALID_ROLE"
	CodeNotSpamFlagged        = "NOT_SPAM_FLAGGED"
	CodeAlreadyFlagged        = "ALREADY_FLAGGED"
	CodeAlreadyDeleted        = "ALREADY_DELETED"
	CodeUserAlreadySuspended  = "USER_ALREADY_SUSPENDED"
	CodeUserAlreadyActive     = "USER_ALREADY_ACTIVE"
	CodeRoleAlreadyAssigned   = "ROLE_ALREADY_ASSIGNED"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError reports a request that breaks a business rule.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewCodedValidationError is a validation error carrying a more specific code.
func NewCodedValidationError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewAuthenticationError reports a missing or invalid identity.
func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Code:    CodeAuthenticationRequired,
		Message: message,
	}
}

// NewForbiddenError reports an authenticated actor lacking the capability.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeAuthorizationDenied,
		Message: message,
	}
}

func NewAlreadyResolvedError() *AppError {
	return &AppError{
		Code:    CodeAlreadyResolved,
		Message: "Claim has already been resolved",
	}
}

func NewItemAlreadyClaimedError() *AppError {
	return &AppError{
		Code:    CodeItemAlreadyClaimed,
		Message: "Item has already been claimed by another user",
	}
}

func NewItemAlreadyResolvedError() *AppError {
	return &AppError{
		Code:    CodeItemAlreadyResolved,
		Message: "Item has already been resolved",
	}
}

// NewInternalError wraps an unexpected store or runtime failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusCode maps an error onto the HTTP status it should be reported with.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeAuthenticationRequired:
		return fiber.StatusUnauthorized
	case CodeAuthorizationDenied:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

// RespondWithError creates a standardized error response.
// Internal errors never expose the wrapped cause to the client.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: "Internal server error",
			Code:  CodeInternal,
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError writes err using the status derived from its code.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusCode(err), err)
}

package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrWeakPassword     = errors.New("password must be at least 8 characters and contain a letter and a digit")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Email verification errors
var (
	ErrEmailNotVerified     = errors.New("email not verified")
	ErrEmailAlreadyVerified = errors.New("email already verified")
	ErrInvalidOTP           = errors.New("invalid verification code")
	ErrOTPExpired           = errors.New("verification code expired")
)

// Board errors
var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyExists       = errors.New("user already owns a company")
	ErrJobNotFound         = errors.New("job not found")
	ErrJobNotOpen          = errors.New("job is not accepting applications")
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrApplicationHired    = errors.New("hired applications cannot be withdrawn")
)

// Messaging errors
var (
	ErrChatNotFound       = errors.New("chat not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrNotChatParticipant = errors.New("not a participant of this chat")
	ErrNotChatAdmin       = errors.New("only chat admins can update the chat")
	ErrEmptyMessage       = errors.New("message must have content or a file")
)

// Community errors
var (
	ErrCommunityNotFound  = errors.New("community not found")
	ErrCommunityExists    = errors.New("community with this name already exists")
	ErrAlreadyMember      = errors.New("already a member of this community")
	ErrNotMember          = errors.New("not a member of this community")
	ErrCreatorCannotLeave = errors.New("community creator cannot leave")
	ErrPrivateCommunity   = errors.New("community is private")
)

// Upload errors
var (
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// kinds maps every domain sentinel to the generic sentinel that decides its HTTP status.
var kinds = map[error]error{
	ErrUserNotFound:        ErrResourceNotFound,
	ErrCompanyNotFound:     ErrResourceNotFound,
	ErrJobNotFound:         ErrResourceNotFound,
	ErrApplicationNotFound: ErrResourceNotFound,
	ErrChatNotFound:        ErrResourceNotFound,
	ErrMessageNotFound:     ErrResourceNotFound,
	ErrCommunityNotFound:   ErrResourceNotFound,
	ErrNotMember:           ErrResourceNotFound,
	ErrTokenNotFound:       ErrUnauthorized,
	ErrTokenExpired:        ErrUnauthorized,
	ErrTokenInvalid:        ErrUnauthorized,
	ErrInvalidCredentials:  ErrUnauthorized,

	ErrEmailAlreadyExists:   ErrConflict,
	ErrEmailAlreadyVerified: ErrConflict,
	ErrCompanyExists:        ErrConflict,
	ErrAlreadyApplied:       ErrConflict,
	ErrCommunityExists:      ErrConflict,
	ErrAlreadyMember:        ErrConflict,

	ErrEmailNotVerified:   ErrPermissionDenied,
	ErrAccountDisabled:    ErrPermissionDenied,
	ErrNotChatParticipant: ErrPermissionDenied,
	ErrNotChatAdmin:       ErrPermissionDenied,
	ErrPrivateCommunity:   ErrPermissionDenied,

	ErrWeakPassword:       ErrBadRequest,
	ErrInvalidOTP:         ErrBadRequest,
	ErrOTPExpired:         ErrBadRequest,
	ErrJobNotOpen:         ErrBadRequest,
	ErrApplicationHired:   ErrBadRequest,
	ErrEmptyMessage:       ErrBadRequest,
	ErrCreatorCannotLeave: ErrBadRequest,
	ErrFileTooLarge:       ErrBadRequest,
	ErrUnsupportedFormat:  ErrBadRequest,
	ErrValidationFailed:   ErrBadRequest,
}

// KindOf returns the generic sentinel (not found, conflict, forbidden, bad request,
// unauthorized) that err belongs to, or nil when err is unclassified.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrResourceNotFound, ErrConflict, ErrPermissionDenied, ErrBadRequest, ErrUnauthorized} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	for sentinel, kind := range kinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return nil
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewUnauthorizedError creates a new custom error for failed authentication
func NewUnauthorizedError(message string) error {
	return &CustomError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

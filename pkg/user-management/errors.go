package usermanagement

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError for transport mapping.
type ErrorKind int

const (
	KindNotAuthorized ErrorKind = iota
	KindConflict
	KindNotFound
	KindValidation
	KindIntegrationFailure
	KindServerConfiguration
)

// stable error codes returned to clients
const (
	CODE_USERNAME_PASSWORD_NOT_EXIST = "USERNAME_PASSWORD_NOT_EXIST"
	CODE_ACCOUNT_EXPIRED             = "ACCOUNT_EXPIRED_RESET_PASSWORD"
	CODE_ACCOUNT_DISABLED            = "ACCOUNT_DISABLED_RESET_PASSWORD"
	CODE_ACCOUNT_LOCKED              = "ACCOUNT_LOCKED_RESET_PASSWORD"
	CODE_UNAUTHORIZED_ACCESS         = "UNAUTHORIZED_ACCESS"
	CODE_PRIVACY_POLICY_NOT_ACCEPTED = "PRIVACY_POLICY_NOT_ACCEPTED"

	CODE_OTP_INVALID      = "OTP_INVALID"
	CODE_OTP_EXPIRED      = "OTP_EXPIRED"
	CODE_OTP_ALREADY_USED = "OTP_ALREADY_USED"

	CODE_SAP_ACCOUNT_ALREADY_LINKED      = "SAP_ACCOUNT_ALREADY_LINKED"
	CODE_SAP_ACCOUNT_NOT_FOUND           = "SAP_ACCOUNT_NOT_FOUND"
	CODE_SAP_ACCOUNT_INACTIVE            = "SAP_ACCOUNT_INACTIVE"
	CODE_SAP_ACCOUNT_INCOMPLETE          = "SAP_ACCOUNT_INFORMATION_INCOMPLETE"
	CODE_SAP_ACCOUNT_TYPE_INVALID        = "SAP_ACCOUNT_TYPE_INVALID"
	CODE_SAP_ACCOUNT_LAST_REMAINING      = "SAP_ACCOUNT_LAST_REMAINING"
	CODE_SAP_DIRECTORY_UNAVAILABLE       = "SAP_DIRECTORY_UNAVAILABLE"
	CODE_ACCOUNT_LINK_SESSION_NOT_STAGED = "ACCOUNT_LINK_SESSION_NOT_STAGED"

	CODE_USER_WITH_USERNAME_NOT_FOUND = "USER_WITH_USERNAME_NOT_FOUND"

	CODE_RESET_TOKEN_INVALID        = "RESET_TOKEN_INVALID"
	CODE_RESET_TOKEN_EXPIRED        = "RESET_TOKEN_EXPIRED"
	CODE_PASSWORD_POLICY_VIOLATION  = "PASSWORD_POLICY_VIOLATION"
	CODE_PASSWORD_CONTAINS_USERNAME = "PASSWORD_CONTAINS_USERNAME"
	CODE_PASSWORD_RECENTLY_USED     = "PASSWORD_RECENTLY_USED"

	CODE_INVALID_REQUEST      = "INVALID_REQUEST"
	CODE_SERVER_CONFIGURATION = "SERVER_CONFIGURATION"
)

// AppError is the structured error surfaced to callers: a kind for transport
// mapping plus a stable code and a human readable message.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is makes sentinel comparisons work on kind+code so callers can use
// errors.Is with a template error.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func newNotAuthorized(code string, message string) *AppError {
	return &AppError{Kind: KindNotAuthorized, Code: code, Message: message}
}

func newConflict(code string, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func newNotFound(code string, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

func newValidation(code string, message string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: message}
}

func newIntegrationFailure(code string, message string, err error) *AppError {
	return &AppError{Kind: KindIntegrationFailure, Code: code, Message: message, Err: err}
}

func newServerConfiguration(message string, err error) *AppError {
	return &AppError{Kind: KindServerConfiguration, Code: CODE_SERVER_CONFIGURATION, Message: message, Err: err}
}

// ErrorKindOf returns the kind of an AppError, or ServerConfiguration for
// unclassified errors.
func ErrorKindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindServerConfiguration
}

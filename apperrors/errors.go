package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with an HTTP status attached.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// New creates a new AppError.
func New(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Sentinel errors for the authentication flow. ErrSecondFactorRequired is
// not a failure: it signals that the caller must re-submit the same
// credentials together with a TOTP code, and must be distinguished from
// ErrInvalidCredentials.
var (
	ErrInvalidCredentials   = New(http.StatusUnauthorized, "Email o contraseña incorrectos", nil)
	ErrSecondFactorRequired = New(http.StatusPreconditionRequired, "2fa_required", nil)
	ErrInvalidSecondFactor  = New(http.StatusUnauthorized, "Código 2FA incorrecto", nil)
	ErrUnauthorized         = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden            = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound             = New(http.StatusNotFound, "Not found", nil)
	ErrEmptyCart            = New(http.StatusBadRequest, "El carrito está vacío", nil)
)

// FieldError is a single field-level validation message from the upstream.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"msg"`
}

// ValidationError carries one or more field-level messages, e.g. duplicate
// email or weak password on registration. User-correctable.
type ValidationError struct {
	Fields []FieldError `json:"detail"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msg := e.Fields[0].Message
	for _, f := range e.Fields[1:] {
		msg += ". " + f.Message
	}
	return msg
}

// NewValidationError builds a ValidationError from plain messages.
func NewValidationError(messages ...string) *ValidationError {
	ve := &ValidationError{}
	for _, m := range messages {
		ve.Fields = append(ve.Fields, FieldError{Message: m})
	}
	return ve
}

// UpstreamError is any unexpected response from the external API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status=%d body=%s", e.Status, e.Body)
}

// IsSecondFactorRequired reports whether err is the 2FA next-step signal.
func IsSecondFactorRequired(err error) bool {
	return errors.Is(err, ErrSecondFactorRequired)
}

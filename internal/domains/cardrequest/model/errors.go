package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeNotFound          = "CRD001"
	ErrCodeInvalidTransition = "CRD002"
	ErrCodeForbidden         = "CRD003"
	ErrCodeInvalidState      = "CRD004"
	ErrCodeVersionMismatch   = "CRD005"
	ErrCodeInvalidRequest    = "CRD006"
	ErrCodeNotEditable       = "CRD007"
	ErrCodeInvalidImage      = "CRD008"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	// ErrNotFound covers both a truly absent row and an access-denied row;
	// callers cannot distinguish the two, so existence never leaks.
	ErrNotFound = errors.New("card request not found")

	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrForbidden         = errors.New("actor not allowed to perform this mutation")
	ErrInvalidState      = errors.New("card request status does not allow this operation")
	ErrVersionMismatch   = errors.New("version mismatch - concurrent modification detected")
	ErrNotEditable       = errors.New("card request is no longer editable")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type CardError struct {
	Code    string
	Message string
	Err     error
}

func (e *CardError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CardError) Unwrap() error {
	return e.Err
}

// NewCardError creates a new CardError
func NewCardError(code, message string, err error) *CardError {
	return &CardError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

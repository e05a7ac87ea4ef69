package errors

import (
	"errors"
	"fmt"
)

// Exit codes for stampwall
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitConfigError   = 2
	ExitFetchFailed   = 3
	ExitVerifierError = 4
	ExitOutputError   = 5
)

// StampwallError is the base error type for stampwall
type StampwallError struct {
	Code    int
	Message string
	Cause   error
}

func (e *StampwallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StampwallError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *StampwallError) ExitCode() int {
	return e.Code
}

// New creates a new StampwallError
func New(code int, message string) *StampwallError {
	return &StampwallError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a StampwallError
func Wrap(code int, message string, cause error) *StampwallError {
	return &StampwallError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *StampwallError {
	return Wrap(ExitConfigError, message, cause)
}

// FetchFailed returns an error for a source that could not be fetched or verified
func FetchFailed(url string, cause error) *StampwallError {
	return Wrap(ExitFetchFailed, fmt.Sprintf("fetch %s failed", url), cause)
}

// VerifierError returns an error for a verifier that cannot be set up
func VerifierError(message string, cause error) *StampwallError {
	return Wrap(ExitVerifierError, message, cause)
}

// OutputError returns an error for rule output failures
func OutputError(op string, cause error) *StampwallError {
	return Wrap(ExitOutputError, fmt.Sprintf("output %s failed", op), cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *StampwallError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var swErr *StampwallError
	if errors.As(err, &swErr) {
		return swErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

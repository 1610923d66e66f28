package crossing

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the controller
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// Controller has not been started
	ErrCodeNotStarted
	// Controller is already running
	ErrCodeAlreadyStarted
	// Controller configuration is invalid
	ErrCodeInvalidConfiguration
	// No transition leaves the current phase
	ErrCodeNoTransition
	// Clock, lamp or display failed
	ErrCodeIO
)

// ControllerError represents misuse of the controller lifecycle
type ControllerError struct {
	Code      ErrorCode
	Operation string
	Message   string
}

func (e *ControllerError) Error() string {
	return fmt.Sprintf("controller error during %s: %s", e.Operation, e.Message)
}

// NewNotStartedError creates a new controller not started error
func NewNotStartedError(operation string) *ControllerError {
	return &ControllerError{
		Code:      ErrCodeNotStarted,
		Operation: operation,
		Message:   "controller is not started",
	}
}

// NewControllerError creates a new controller error
func NewControllerError(code ErrorCode, operation string, message string) *ControllerError {
	return &ControllerError{
		Code:      code,
		Operation: operation,
		Message:   message,
	}
}

// ConfigurationError represents an invalid cycle or timing setup
type ConfigurationError struct {
	Component string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Component, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component string, err error) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Err:       err,
	}
}

// TransitionError reports a phase with no usable outgoing transition
type TransitionError struct {
	From   Phase
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition error [from %s]: %s", e.From, e.Reason)
}

// NewNoTransitionError creates a new no transition found error
func NewNoTransitionError(from Phase) *TransitionError {
	return &TransitionError{
		From:   from,
		Reason: fmt.Sprintf("no transition leaves phase '%s'", from),
	}
}

// IOError wraps a failure of the clock, the lamps or the display
type IOError struct {
	Op    string
	Phase Phase
	Err   error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s failed in phase '%s': %v", e.Op, e.Phase, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new boundary I/O error
func NewIOError(op string, phase Phase, err error) *IOError {
	return &IOError{
		Op:    op,
		Phase: phase,
		Err:   err,
	}
}

// IsControllerError checks if an error is a ControllerError
func IsControllerError(err error) bool {
	var e *ControllerError
	return errors.As(err, &e)
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// IsTransitionError checks if an error is a TransitionError
func IsTransitionError(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}

// IsIOError checks if an error is an IOError
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var (
		ctrlErr  *ControllerError
		cfgErr   *ConfigurationError
		transErr *TransitionError
		ioErr    *IOError
	)
	switch {
	case errors.As(err, &ctrlErr):
		return ctrlErr.Code
	case errors.As(err, &cfgErr):
		return ErrCodeInvalidConfiguration
	case errors.As(err, &transErr):
		return ErrCodeNoTransition
	case errors.As(err, &ioErr):
		return ErrCodeIO
	default:
		return ErrCodeNone
	}
}

package crossing

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrors_ErrorCode(t *testing.T) {
	testCases := []ErrorCode{
		ErrCodeNone,
		ErrCodeNotStarted,
		ErrCodeAlreadyStarted,
		ErrCodeInvalidConfiguration,
		ErrCodeNoTransition,
		ErrCodeIO,
	}

	for i, code := range testCases {
		if int(code) != i {
			t.Errorf("Expected error code %d to have value %d", i, int(code))
		}
	}
}

func TestControllerError_Creation(t *testing.T) {
	err := NewNotStartedError("Step")

	if err.Code != ErrCodeNotStarted {
		t.Errorf("Expected error code %v, got %v", ErrCodeNotStarted, err.Code)
	}
	if err.Operation != "Step" {
		t.Errorf("Expected operation 'Step', got '%s'", err.Operation)
	}
	if !strings.Contains(err.Error(), "Step") {
		t.Error("Expected error string to contain the operation")
	}

	custom := NewControllerError(ErrCodeAlreadyStarted, "Start", "twice")
	if custom.Code != ErrCodeAlreadyStarted || custom.Message != "twice" {
		t.Errorf("Expected custom fields to be kept, got %+v", custom)
	}
}

func TestConfigurationError_Unwrap(t *testing.T) {
	cause := errors.New("yellow must be positive")
	err := NewConfigurationError("Timing", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected configuration error to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "Timing") {
		t.Errorf("Expected component in message, got %q", err.Error())
	}
}

func TestIOError_Unwrap(t *testing.T) {
	err := NewIOError("display", EWYellow, ErrTestIO)

	if !errors.Is(err, ErrTestIO) {
		t.Error("Expected I/O error to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "EW_YELLOW") {
		t.Errorf("Expected phase in message, got %q", err.Error())
	}
}

func TestErrors_Classification(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		code  ErrorCode
		check func(error) bool
	}{
		{"controller", NewNotStartedError("Stop"), ErrCodeNotStarted, IsControllerError},
		{"configuration", NewConfigurationError("Cycle", ErrTestIO), ErrCodeInvalidConfiguration, IsConfigurationError},
		{"transition", NewNoTransitionError(PedGreen), ErrCodeNoTransition, IsTransitionError},
		{"io", NewIOError("clock tick", NSGreen, ErrTestIO), ErrCodeIO, IsIOError},
		{"wrapped io", fmt.Errorf("run: %w", NewIOError("display", NSGreen, ErrTestIO)), ErrCodeIO, IsIOError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.check(tc.err) {
				t.Errorf("Expected %v to be classified as %s", tc.err, tc.name)
			}
			if got := GetErrorCode(tc.err); got != tc.code {
				t.Errorf("Expected code %d, got %d", tc.code, got)
			}
		})
	}

	if GetErrorCode(errors.New("plain")) != ErrCodeNone {
		t.Error("Expected unknown errors to have no code")
	}
	if IsIOError(NewNotStartedError("Step")) {
		t.Error("Expected controller error not to be an I/O error")
	}
}

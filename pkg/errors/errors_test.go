package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/matzehuels/bootorder/pkg/dag"
	"github.com/matzehuels/bootorder/pkg/schedule"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to fetch")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidComponent, "test"),
			expected: ErrCodeInvalidComponent,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFromGraphError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"invalid id", fmt.Errorf("%w: %q", dag.ErrInvalidComponentID, ""), ErrCodeInvalidComponent},
		{"duplicate", fmt.Errorf("%w: %q", dag.ErrDuplicateComponent, "db"), ErrCodeDuplicateComponent},
		{"unknown", fmt.Errorf("%w: requirement %q", dag.ErrUnknownComponent, "db"), ErrCodeUnknownComponent},
		{"duration", dag.ErrInvalidDuration, ErrCodeInvalidDuration},
		{"cyclic", fmt.Errorf("layers: %w", dag.ErrCyclicGraph), ErrCodeCyclicGraph},
		{"unresolvable", dag.ErrUnresolvableCycle, ErrCodeUnresolvableCycle},
		{"order mismatch wins", fmt.Errorf("%w: %w: %q", schedule.ErrOrderMismatch, dag.ErrUnknownComponent, "x"), ErrCodeInternal},
		{"already coded", New(ErrCodeInvalidManifest, "bad"), ErrCodeInvalidManifest},
		{"plain", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromGraphError(tt.err)
			if code := GetCode(got); code != tt.want {
				t.Errorf("GetCode(FromGraphError()) = %v, want %v", code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("FromGraphError() lost the original error")
			}
		})
	}

	if FromGraphError(nil) != nil {
		t.Error("FromGraphError(nil) != nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidManifest, "x"), http.StatusBadRequest},
		{New(ErrCodeUnknownComponent, "x"), http.StatusBadRequest},
		{New(ErrCodeTooLarge, "x"), http.StatusRequestEntityTooLarge},
		{New(ErrCodeCyclicGraph, "x"), http.StatusConflict},
		{New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{New(ErrCodeUnresolvableCycle, "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

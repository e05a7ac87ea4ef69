package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestStampwallError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *StampwallError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestStampwallError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("boom")

	tests := []struct {
		name     string
		err      *StampwallError
		wantCode int
		wantMsg  string
	}{
		{"config", ConfigError("failed to parse config", cause), ExitConfigError, "failed to parse config"},
		{"fetch", FetchFailed("https://example.com/relays.md", cause), ExitFetchFailed, "fetch https://example.com/relays.md failed"},
		{"verifier", VerifierError("invalid verifier command", cause), ExitVerifierError, "invalid verifier command"},
		{"output", OutputError("write", cause), ExitOutputError, "output write failed"},
		{"validation", ValidationError("bad flag"), ExitGeneralError, "bad flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "StampwallError",
			err:      ConfigError("bad", nil),
			wantCode: ExitConfigError,
		},
		{
			name:     "wrapped StampwallError",
			err:      fmt.Errorf("outer: %w", FetchFailed("u", nil)),
			wantCode: ExitFetchFailed,
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("some error"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "nil error",
			err:      nil,
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.wantCode {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	root := fmt.Errorf("root cause")
	middle := Wrap(ExitConfigError, "config error", root)
	outer := fmt.Errorf("operation failed: %w", middle)

	if !errors.Is(outer, root) {
		t.Error("errors.Is should find root cause")
	}

	var swErr *StampwallError
	if !As(outer, &swErr) {
		t.Fatal("As should find StampwallError")
	}
	if swErr.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", swErr.Code, ExitConfigError)
	}

	if !Is(outer, root) {
		t.Error("Is should find root cause")
	}
}

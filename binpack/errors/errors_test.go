package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestBinpackError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *BinpackError
		wantStr string
	}{
		{
			name: "basic error",
			err: &BinpackError{
				Code:    "TEST_ERROR",
				Message: "test message",
			},
			wantStr: "[TEST_ERROR] test message",
		},
		{
			name: "error with cause",
			err: &BinpackError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Cause:   stderrors.New("underlying error"),
			},
			wantStr: "[TEST_ERROR] test message: underlying error",
		},
		{
			name: "error with details",
			err: &BinpackError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Details: map[string]interface{}{"key": "value"},
			},
			wantStr: "details",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if !strings.Contains(got, tt.wantStr) {
				t.Errorf("Error() = %q, want to contain %q", got, tt.wantStr)
			}
		})
	}
}

func TestBinpackError_WithCause(t *testing.T) {
	cause := stderrors.New("root cause")
	err := ErrUnexpectedEOF.WithCause(cause)

	if err.Cause != cause {
		t.Errorf("WithCause() cause = %v, want %v", err.Cause, cause)
	}

	if !stderrors.Is(err, cause) {
		t.Error("WithCause() should allow errors.Is to work")
	}
}

func TestBinpackError_WithDetail(t *testing.T) {
	err := ErrTruncatedInput.WithDetail("field", "stem")

	if err.Details["field"] != "stem" {
		t.Errorf("WithDetail() field = %v, want stem", err.Details["field"])
	}
	if len(ErrTruncatedInput.Details) != 0 {
		t.Error("WithDetail() must not mutate the sentinel")
	}
}

func TestBinpackError_WithMessage(t *testing.T) {
	err := ErrCorruptChunk.WithMessage("custom message")

	if err.Message != "custom message" {
		t.Errorf("WithMessage() message = %q, want 'custom message'", err.Message)
	}
}

func TestBinpackError_IsMatchesCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel", ErrCorruptChunk, ErrCorruptChunk, true},
		{"with detail", NewCorruptChunkError(8, "bad magic"), ErrCorruptChunk, true},
		{"wrapped", fmt.Errorf("reading: %w", NewTruncatedInputError("stem", 3)), ErrTruncatedInput, true},
		{"different code", NewUnexpectedEOFError(0, 8, 3), ErrCorruptChunk, false},
		{"standard error", stderrors.New("test"), ErrIllegalMove, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewIllegalMoveError(t *testing.T) {
	err := NewIllegalMoveError("e2e4", "empty origin square")

	var binpackErr *BinpackError
	if !stderrors.As(err, &binpackErr) {
		t.Fatalf("expected a BinpackError, got %T", err)
	}
	if binpackErr.Details["move"] != "e2e4" {
		t.Errorf("move detail = %v, want e2e4", binpackErr.Details["move"])
	}
	if !strings.Contains(err.Error(), "empty origin square") {
		t.Errorf("Error() = %q, want reason", err.Error())
	}
}

func TestIsBinpackError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "BinpackError",
			err:  ErrMalformedPosition,
			want: true,
		},
		{
			name: "BinpackError with cause",
			err:  ErrMalformedPosition.WithCause(stderrors.New("test")),
			want: true,
		},
		{
			name: "wrapped by a file name",
			err:  fmt.Errorf("a.binpack: %w", NewCorruptChunkError(0, "bad magic")),
			want: true,
		},
		{
			name: "standard error",
			err:  stderrors.New("test"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBinpackError(tt.err); got != tt.want {
				t.Errorf("IsBinpackError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "BinpackError",
			err:  ErrIllegalMove,
			want: "ILLEGAL_MOVE",
		},
		{
			name: "BinpackError with modifications",
			err:  ErrCorruptChunk.WithDetail("chunkOffset", int64(16)),
			want: "CORRUPT_CHUNK",
		},
		{
			name: "wrapped BinpackError",
			err:  fmt.Errorf("decode: %w", ErrTruncatedInput),
			want: "TRUNCATED_INPUT",
		},
		{
			name: "outermost code wins over the cause",
			err:  ErrUnrepresentable.WithCause(ErrMalformedPosition),
			want: "UNREPRESENTABLE",
		},
		{
			name: "standard error",
			err:  stderrors.New("test"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for binpack operations
var (
	// ErrTruncatedInput is returned when a varint or fixed-width field runs past the available bytes
	ErrTruncatedInput = &BinpackError{Code: "TRUNCATED_INPUT", Message: "truncated input"}

	// ErrMalformedPosition is returned when a decoded position fails basic piece-count sanity
	ErrMalformedPosition = &BinpackError{Code: "MALFORMED_POSITION", Message: "malformed position"}

	// ErrIllegalMove is returned when a move cannot be applied to its position
	ErrIllegalMove = &BinpackError{Code: "ILLEGAL_MOVE", Message: "illegal move"}

	// ErrCorruptChunk is returned when a chunk header or its declared length is inconsistent
	ErrCorruptChunk = &BinpackError{Code: "CORRUPT_CHUNK", Message: "corrupt chunk"}

	// ErrUnexpectedEOF is returned when the source ends in the middle of a chunk
	ErrUnexpectedEOF = &BinpackError{Code: "UNEXPECTED_EOF", Message: "unexpected end of file"}

	// ErrUnrepresentable is returned when an entry cannot be encoded in the binpack format
	ErrUnrepresentable = &BinpackError{Code: "UNREPRESENTABLE", Message: "value cannot be encoded"}

	// ErrWriterClosed is returned when writing to a closed writer
	ErrWriterClosed = &BinpackError{Code: "WRITER_CLOSED", Message: "writer is closed"}
)

// BinpackError represents a structured error in binpack operations
type BinpackError struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error, if any
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *BinpackError) Error() string {
	if e.Cause != nil {
		if len(e.Details) > 0 {
			return fmt.Sprintf("[%s] %s (details: %v): %v", e.Code, e.Message, e.Details, e.Cause)
		}
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *BinpackError) Unwrap() error {
	return e.Cause
}

// Is matches any BinpackError carrying the same code, so sentinels keep
// matching after WithDetail or WithCause produced a copy.
func (e *BinpackError) Is(target error) bool {
	t, ok := target.(*BinpackError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause adds a cause to the error
func (e *BinpackError) WithCause(cause error) *BinpackError {
	return &BinpackError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

// WithDetail adds a detail key-value pair to the error
func (e *BinpackError) WithDetail(key string, value interface{}) *BinpackError {
	details := make(map[string]interface{})
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &BinpackError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *BinpackError) WithMessage(message string) *BinpackError {
	return &BinpackError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// IsBinpackError reports whether err, or anything it wraps, is a
// BinpackError
func IsBinpackError(err error) bool {
	var binpackErr *BinpackError
	return stderrors.As(err, &binpackErr)
}

// GetErrorCode extracts the code of the outermost BinpackError in err's
// chain, or "" if there is none
func GetErrorCode(err error) string {
	var binpackErr *BinpackError
	if stderrors.As(err, &binpackErr) {
		return binpackErr.Code
	}
	return ""
}

// NewTruncatedInputError creates a truncated input error for a field read at offset
func NewTruncatedInputError(field string, offset int) error {
	return ErrTruncatedInput.
		WithDetail("field", field).
		WithDetail("offset", offset)
}

// NewIllegalMoveError creates an illegal move error for a move in UCI form
func NewIllegalMoveError(move string, reason string) error {
	return ErrIllegalMove.
		WithDetail("move", move).
		WithMessage("illegal move: " + reason)
}

// NewMalformedPositionError creates a malformed position error
func NewMalformedPositionError(reason string) error {
	return ErrMalformedPosition.WithMessage("malformed position: " + reason)
}

// NewCorruptChunkError creates a corrupt chunk error for the chunk starting at offset
func NewCorruptChunkError(offset int64, reason string) error {
	return ErrCorruptChunk.
		WithDetail("chunkOffset", offset).
		WithMessage("corrupt chunk: " + reason)
}

// NewUnexpectedEOFError creates an unexpected EOF error with the bytes still missing
func NewUnexpectedEOFError(offset int64, want, got int) error {
	return ErrUnexpectedEOF.
		WithDetail("offset", offset).
		WithDetail("want", want).
		WithDetail("got", got)
}

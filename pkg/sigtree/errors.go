package sigtree

import "fmt"

// DecodeError is returned by every decode entry point.
//
// Decoding is all or nothing: a DecodeError means no part of the input was
// accepted. Offset is relative to the start of the buffer handed to the
// public entry point, so it can be used to point at the offending byte.
type DecodeError struct {
	Code    string // Error code (e.g., CodeTruncated)
	Offset  int    // Byte offset where decoding failed
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *DecodeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("decode error [%s]", e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("decode error [%s] at offset %d: %s: %v", e.Code, e.Offset, e.Message, e.Cause)
	}
	return fmt.Sprintf("decode error [%s] at offset %d: %s", e.Code, e.Offset, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DecodeError with the same code, so the
// sentinels below work with errors.Is.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Code == e.Code
}

// Error codes used by the decoder.
const (
	CodeNoTypeByte      = "NO_TYPE_BYTE"     // Input is empty
	CodeUnsupportedType = "UNSUPPORTED_TYPE" // Unknown top-level signature type
	CodeUnsupportedTag  = "UNSUPPORTED_TAG"  // Unknown record tag inside a tree
	CodeTruncated       = "TRUNCATED"        // Input ends inside a record
	CodeEmptyTree       = "EMPTY_TREE"       // Tree slice holds no records
	CodeDepthExceeded   = "DEPTH_EXCEEDED"   // Branch/Nested recursion too deep
	CodeUnimplemented   = "UNIMPLEMENTED"    // Recognised but unsupported format
)

// Sentinels for errors.Is.
var (
	ErrNoTypeByte      = &DecodeError{Code: CodeNoTypeByte}
	ErrUnsupportedType = &DecodeError{Code: CodeUnsupportedType}
	ErrUnsupportedTag  = &DecodeError{Code: CodeUnsupportedTag}
	ErrTruncated       = &DecodeError{Code: CodeTruncated}
	ErrEmptyTree       = &DecodeError{Code: CodeEmptyTree}
	ErrDepthExceeded   = &DecodeError{Code: CodeDepthExceeded}
	ErrUnimplemented   = &DecodeError{Code: CodeUnimplemented}
)

func decodeErr(code string, offset int, format string, args ...any) error {
	return &DecodeError{Code: code, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

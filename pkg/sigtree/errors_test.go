package sigtree

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeErrorFormatting(t *testing.T) {
	e := &DecodeError{Code: CodeTruncated}
	assert.Equal(t, "decode error [TRUNCATED]", e.Error())

	e = &DecodeError{Code: CodeTruncated, Offset: 4, Message: "truncated address"}
	assert.Equal(t, "decode error [TRUNCATED] at offset 4: truncated address", e.Error())

	cause := errors.New("boom")
	e = &DecodeError{Code: CodeEmptyTree, Offset: 1, Message: "x", Cause: cause}
	assert.Equal(t, "decode error [EMPTY_TREE] at offset 1: x: boom", e.Error())
	assert.ErrorIs(t, e, cause)
}

func TestDecodeErrorIsMatchesCode(t *testing.T) {
	err := decodeErr(CodeUnsupportedTag, 12, "unsupported signature tree tag: %d", 9)
	wrapped := fmt.Errorf("preview: %w", err)

	assert.ErrorIs(t, wrapped, ErrUnsupportedTag)
	assert.NotErrorIs(t, wrapped, ErrUnsupportedType)

	var de *DecodeError
	assert.ErrorAs(t, wrapped, &de)
	assert.Equal(t, 12, de.Offset)
	assert.Equal(t, "unsupported signature tree tag: 9", de.Message)
}

package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputError(t *testing.T) {
	cause := stderrors.New("no such file or directory")
	err := WrapInputError(CodeFileNotFound, "can't open file", "a.xml", cause)

	assert.Equal(t, "[FILE_NOT_FOUND] can't open file (file: a.xml)", err.Error())
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, IsCode(err, CodeFileNotFound))
}

func TestInputErrorWithoutPath(t *testing.T) {
	err := NewInputError(CodeParse, "can't parse file", "")
	assert.Equal(t, "[PARSE] can't parse file", err.Error())
}

func TestUsageError(t *testing.T) {
	err := NewUsageError("exactly two files are required")
	assert.Equal(t, "[USAGE] exactly two files are required", err.Error())
	assert.Equal(t, CodeUsage, GetCode(err))

	format := NewFormatError("contradictory output format options")
	assert.Equal(t, CodeFormat, GetCode(format))
}

func TestInternalError(t *testing.T) {
	cause := stderrors.New("broken pipe")
	err := WrapInternalError("writing report", cause)

	assert.Equal(t, "[INTERNAL] writing report", err.Error())
	assert.True(t, stderrors.Is(err, cause))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitEqual, ExitCode(nil))
	assert.Equal(t, ExitError, ExitCode(NewUsageError("bad flags")))
	assert.Equal(t, ExitError, ExitCode(stderrors.New("plain")))
}

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	plain := NewExitError(ExitCommandError, "bad input")
	assert.Equal(t, "bad input", plain.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(plain))

	cause := errors.New("file missing")
	wrapped := WrapExitError(ExitCommandError, "failed to load", cause)
	assert.Equal(t, "failed to load: file missing", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitSuccess, GetExitCode(NewExitError(ExitSuccess, "ok")))
	assert.Equal(t, ExitFailure,
		GetExitCode(fmt.Errorf("outer: %w", NewExitError(ExitFailure, "inner"))))
}

func TestOutputFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	out := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, out.PrintData(map[string]int{"n": 1}, "n is 1"))
	assert.Equal(t, "n is 1\n", buf.String())

	buf.Reset()
	require.NoError(t, out.PrintError(errors.New("boom")))
	assert.Equal(t, "error: boom\n", buf.String())
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	out := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, out.PrintData([]string{"a"}, "ignored in json mode"))
	assert.Contains(t, buf.String(), `"status": "ok"`)
	assert.Contains(t, buf.String(), `"a"`)
	assert.NotContains(t, buf.String(), "ignored in json mode")

	buf.Reset()
	require.NoError(t, out.PrintError(errors.New("boom")))
	assert.Contains(t, buf.String(), `"status": "error"`)
	assert.Contains(t, buf.String(), `"error": "boom"`)
}

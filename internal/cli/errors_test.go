package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

func TestPrintError_Cancelled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printError(&buf, svperrors.Cancelled(""), false)

	assert.Equal(t, "Operation cancelled\n", buf.String())
}

func TestPrintError_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printError(&buf, svperrors.Validation(`Directory "demo" already exists`), false)

	out := buf.String()
	assert.Contains(t, out, `✗ Directory "demo" already exists`)
	assert.NotContains(t, out, "code:")
	assert.NotContains(t, out, "--verbose")
}

func TestPrintError_UnexpectedSuggestsVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printError(&buf, errors.New("boom"), false)

	out := buf.String()
	assert.Contains(t, out, "✗ boom")
	assert.Contains(t, out, "Rerun with --verbose for details.")
}

func TestPrintError_DebugDetails(t *testing.T) {
	t.Parallel()

	cause := errors.New("npm ERR! //registry.npmjs.org/:_authToken=abc123")
	err := svperrors.NewError(svperrors.ErrCommandExecution, "Command failed").
		WithContext("token", "secret-value").
		WithContext("command", "npm install").
		WithCause(cause)

	var buf bytes.Buffer
	printError(&buf, err, true)

	out := buf.String()
	assert.Contains(t, out, "code:")
	assert.Contains(t, out, "command: npm install")
	assert.Contains(t, out, "token: [REDACTED]")
	assert.NotContains(t, out, "secret-value")
	assert.Contains(t, out, "caused by:")
	assert.NotContains(t, out, "abc123")
}

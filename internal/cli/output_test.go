package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nbstripout/internal/gitfilter"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad flags")
	assert.Equal(t, "bad flags", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	inner := errors.New("boom")
	wrapped := WrapExitError(ExitFailure, "Installation failed", inner)
	assert.Equal(t, "Installation failed: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(&ExitError{Code: ExitCommandError}))
}

func TestOutputFormatter_Diagnostic(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}

	f.Diagnostic("'%s' is not a valid notebook", "a.ipynb")
	assert.Empty(t, out.String())
	assert.Equal(t, "'a.ipynb' is not a valid notebook\n", errOut.String())
}

func TestOutputFormatter_DiagnosticFallsBackToWriter(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out}

	f.Diagnostic("hello")
	assert.Equal(t, "hello\n", out.String())
}

func TestOutputFormatter_StatusText(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out}

	require.NoError(t, f.Status(gitfilter.Report{
		Installed:      true,
		Location:       "globally",
		Clean:          `"/bin/nbstripout"`,
		Smudge:         "cat",
		Diff:           `"/bin/nbstripout" -t`,
		Attributes:     "*.ipynb filter=nbstripout",
		DiffAttributes: "*.ipynb diff=ipynb",
	}))

	want := `nbstripout is installed globally

Filter:
  clean = "/bin/nbstripout"
  smudge = cat
  diff= "/bin/nbstripout" -t
  extrakeys= 

Attributes:
  *.ipynb filter=nbstripout

Diff Attributes:
  *.ipynb diff=ipynb
`
	assert.Equal(t, want, out.String())
}

func TestOutputFormatter_StatusNotInstalled(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: out}

	require.NoError(t, f.Status(gitfilter.Report{Location: "globally"}))
	assert.Equal(t, "nbstripout is not installed globally\n", out.String())
}

func TestOutputFormatter_StatusJSON(t *testing.T) {
	out := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out}

	require.NoError(t, f.Status(gitfilter.Report{Installed: true, Location: "system-wide", Smudge: "cat"}))

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "installed", resp.Status)
	assert.Equal(t, "system-wide", resp.Report.Location)
	assert.Equal(t, "cat", resp.Report.Smudge)
}

package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "nbstripout", cmd.Name())
	assert.Contains(t, cmd.Long, "--install")
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"dry-run", "", "false"},
		{"verify", "", "false"},
		{"install", "", "false"},
		{"uninstall", "", "false"},
		{"is-installed", "", "false"},
		{"status", "", "false"},
		{"version", "", "false"},
		{"keep-count", "", "false"},
		{"keep-output", "", "false"},
		{"keep-id", "", "false"},
		{"extra-keys", "", ""},
		{"keep-metadata-keys", "", ""},
		{"drop-empty-cells", "", "false"},
		{"drop-tagged-cells", "", ""},
		{"strip-init-cells", "", "false"},
		{"max-size", "", "0"},
		{"drop-output-types", "", ""},
		{"keep-output-types", "", ""},
		{"attributes", "", ""},
		{"global", "", "false"},
		{"system", "", "false"},
		{"force", "f", "false"},
		{"mode", "m", "jupyter"},
		{"textconv", "t", "false"},
		{"verbose", "v", "false"},
		{"format", "", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestTaskFlagsAreExclusive(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRootCommand(&Options{GitRunner: newFakeGit()})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--install", "--uninstall"})

	assert.Equal(t, ExitCommandError, Execute(cmd))
	assert.Contains(t, buf.String(), "install")
}

func TestScopeFlagsAreExclusive(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRootCommand(&Options{GitRunner: newFakeGit()})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--status", "--global", "--system"})

	assert.Equal(t, ExitCommandError, Execute(cmd))
}

func TestUnknownFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRootCommand(&Options{GitRunner: newFakeGit()})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--bogus"})

	assert.Equal(t, ExitCommandError, Execute(cmd))
	assert.Contains(t, buf.String(), "bogus")
}

func TestExecuteExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"success", nil, ExitSuccess, ""},
		{"silent failure", &ExitError{Code: ExitFailure}, ExitFailure, ""},
		{"failure with message", NewExitError(ExitFailure, "No valid notebook detected"), ExitFailure, "No valid notebook detected\n"},
		{"plain error is a usage error", errors.New("bad flag"), ExitCommandError, "invalid arguments: bad flag\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			cmd := &cobra.Command{
				Use:           "nbstripout",
				SilenceErrors: true,
				SilenceUsage:  true,
				RunE:          func(*cobra.Command, []string) error { return tt.err },
			}
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{})

			assert.Equal(t, tt.code, Execute(cmd))
			assert.Equal(t, tt.message, buf.String())
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRootCommand(&Options{GitRunner: newFakeGit()})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--status", "--format", "yaml"})

	assert.Equal(t, ExitCommandError, Execute(cmd))
	assert.Contains(t, buf.String(), "invalid format")
}

func TestVersion(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := newRootCommand(&Options{GitRunner: newFakeGit()})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	assert.Equal(t, ExitSuccess, Execute(cmd))
	assert.Equal(t, Version+"\n", buf.String())
}

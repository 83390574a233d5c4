package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/nbstripout/internal/gitfilter"
)

// Exit codes.
const (
	ExitSuccess      = 0 // Everything stripped, or the filter is installed
	ExitFailure      = 1 // A file failed, verify found changes, or the filter is not installed
	ExitCommandError = 2 // Invalid flags or configuration
)

// ExitError carries the process exit code for a failed invocation.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // Shown to the user unless empty
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes results to Writer and diagnostics to ErrWriter.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostics (defaults to Writer)
}

// StatusResponse is the JSON form of --status.
type StatusResponse struct {
	Status string           `json:"status"` // "installed" or "not_installed"
	Report gitfilter.Report `json:"report"`
}

// Println writes one line of regular output.
func (f *OutputFormatter) Println(a ...any) {
	fmt.Fprintln(f.Writer, a...)
}

// Diagnostic writes one line to the diagnostic stream.
func (f *OutputFormatter) Diagnostic(format string, args ...any) {
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// Status prints an installation report in the configured format.
func (f *OutputFormatter) Status(r gitfilter.Report) error {
	if f.Format == "json" {
		status := "not_installed"
		if r.Installed {
			status = "installed"
		}
		return json.NewEncoder(f.Writer).Encode(StatusResponse{Status: status, Report: r})
	}

	if !r.Installed {
		if r.Location != "" {
			fmt.Fprintln(f.Writer, "nbstripout is not installed", r.Location)
		} else {
			fmt.Fprintln(f.Writer, "nbstripout is not installed")
		}
		return nil
	}

	fmt.Fprintln(f.Writer, "nbstripout is installed", r.Location)
	fmt.Fprintln(f.Writer, "\nFilter:")
	fmt.Fprintln(f.Writer, "  clean =", r.Clean)
	fmt.Fprintln(f.Writer, "  smudge =", r.Smudge)
	fmt.Fprintln(f.Writer, "  diff=", r.Diff)
	fmt.Fprintln(f.Writer, "  extrakeys=", r.ExtraKeys)
	fmt.Fprintln(f.Writer, "\nAttributes:\n ", r.Attributes)
	fmt.Fprintln(f.Writer, "\nDiff Attributes:\n ", r.DiffAttributes)
	return nil
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

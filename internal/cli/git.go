package cli

import (
	"context"
	"os"

	"github.com/roach88/nbstripout/internal/gitfilter"
)

// executable returns the path git should run as the filter.
func executable() string {
	exe, err := os.Executable()
	if err != nil {
		return "nbstripout"
	}
	return exe
}

func install(ctx context.Context, git *gitfilter.Client, opts *Options) error {
	if err := git.Install(ctx, executable(), opts.Attributes); err != nil {
		return WrapExitError(ExitFailure, "Installation failed", err)
	}
	return nil
}

func uninstall(ctx context.Context, git *gitfilter.Client, opts *Options) error {
	if err := git.Uninstall(ctx, opts.Attributes); err != nil {
		return WrapExitError(ExitFailure, "Uninstall failed", err)
	}
	return nil
}

// status reports the installation. Only the verbose form prints; both
// exit with ExitFailure when the filter is not installed.
func status(ctx context.Context, git *gitfilter.Client, out *OutputFormatter, verbose bool) error {
	report, err := git.Status(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "Cannot determine status", err)
	}
	if verbose {
		if err := out.Status(report); err != nil {
			return err
		}
	}
	if !report.Installed {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

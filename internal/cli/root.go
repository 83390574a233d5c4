package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/nbstripout/internal/config"
	"github.com/roach88/nbstripout/internal/gitfilter"
)

// Version is the release version, set at build time.
var Version = "dev"

// Options holds the command-line flags.
type Options struct {
	// Tasks
	DryRun      bool
	Verify      bool
	Install     bool
	Uninstall   bool
	IsInstalled bool
	Status      bool
	Version     bool

	// Policy
	KeepCount        bool
	KeepOutput       bool
	KeepID           bool
	ExtraKeys        string
	KeepMetadataKeys string
	DropEmptyCells   bool
	DropTaggedCells  string
	StripInitCells   bool
	MaxSize          string
	DropOutputTypes  string
	KeepOutputTypes  string

	// Git installation
	Attributes string
	Global     bool
	System     bool

	Force    bool
	Mode     string
	Textconv bool
	Verbose  bool
	Format   string // "json" | "text"

	// GitRunner allows overriding git invocations (for testing).
	// If nil, the git binary on PATH is used.
	GitRunner gitfilter.Runner
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidModes defines the allowed document modes.
var ValidModes = []string{config.ModeJupyter, config.ModeZeppelin}

// NewRootCommand creates the nbstripout command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&Options{})
}

func newRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nbstripout [flags] [files...]",
		Short: "Strip output from Jupyter and Zeppelin notebooks",
		Long: `Strip output, execution counts and volatile metadata from notebooks
so that version control only sees meaningful changes.

Files are rewritten in place. Without files, a notebook is read from
standard input and the stripped result written to standard output.

Install as a git filter in the current repository:
  nbstripout --install

Check a set of notebooks in CI:
  nbstripout --verify notebooks/*.ipynb`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts, args)
			var exitErr *ExitError
			if err != nil && !errors.As(err, &exitErr) {
				return WrapExitError(ExitFailure, "nbstripout", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.DryRun, "dry-run", false, "print which notebooks would have been stripped")
	f.BoolVar(&opts.Verify, "verify", false, "exit with status 1 if any notebook would have been stripped")
	f.BoolVar(&opts.Install, "install", false, "install the git filter and attributes")
	f.BoolVar(&opts.Uninstall, "uninstall", false, "remove the git filter and attributes")
	f.BoolVar(&opts.IsInstalled, "is-installed", false, "exit with status 0 if the git filter is installed")
	f.BoolVar(&opts.Status, "status", false, "print the installation status and filter configuration")
	f.BoolVar(&opts.Version, "version", false, "print version")

	f.BoolVar(&opts.KeepCount, "keep-count", false, "do not strip execution counts and prompt numbers")
	f.BoolVar(&opts.KeepOutput, "keep-output", false, "do not strip outputs")
	f.BoolVar(&opts.KeepID, "keep-id", false, "keep cell ids instead of renumbering them")
	f.StringVar(&opts.ExtraKeys, "extra-keys", "",
		"space separated extra keys to strip, e.g. metadata.foo cell.metadata.bar")
	f.StringVar(&opts.KeepMetadataKeys, "keep-metadata-keys", "",
		"space separated keys to keep even when stripped by default")
	f.BoolVar(&opts.DropEmptyCells, "drop-empty-cells", false, "remove cells whose source is empty or whitespace")
	f.StringVar(&opts.DropTaggedCells, "drop-tagged-cells", "", "space separated cell tags that remove a cell")
	f.BoolVar(&opts.StripInitCells, "strip-init-cells", false, "strip outputs of cells with init_cell metadata")
	f.StringVar(&opts.MaxSize, "max-size", config.DefaultMaxSize, "keep outputs no larger than SIZE (e.g. 100, 10k, 1M)")
	f.StringVar(&opts.DropOutputTypes, "drop-output-types", "",
		"space separated output types to drop, e.g. error stream:stderr")
	f.StringVar(&opts.KeepOutputTypes, "keep-output-types", "",
		"space separated output types to keep, e.g. execute_result stream:stdout")

	f.StringVar(&opts.Attributes, "attributes", "",
		"attributes file to use with --install/--uninstall (default .git/info/attributes)")
	f.BoolVar(&opts.Global, "global", false, "use the global git config")
	f.BoolVar(&opts.System, "system", false, "use the system git config")

	f.BoolVarP(&opts.Force, "force", "f", false, "strip files without a .ipynb or .zpln extension")
	f.StringVarP(&opts.Mode, "mode", "m", config.ModeJupyter, "document mode (jupyter|zeppelin)")
	f.BoolVarP(&opts.Textconv, "textconv", "t", false, "print stripped files to standard output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	f.StringVar(&opts.Format, "format", "text", "status output format (json|text)")

	cmd.MarkFlagsMutuallyExclusive("dry-run", "verify", "install", "uninstall", "is-installed", "status", "version")
	cmd.MarkFlagsMutuallyExclusive("global", "system")

	return cmd
}

// Execute runs cmd and returns the process exit code. The command itself
// only fails with an *ExitError, so any other error comes from flag
// parsing or flag validation and is a usage error.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		err = WrapExitError(ExitCommandError, "invalid arguments", err)
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}
	return GetExitCode(err)
}

// scope returns the git config scope selected by --global/--system.
func (o *Options) scope() gitfilter.Scope {
	switch {
	case o.System:
		return gitfilter.ScopeSystem
	case o.Global:
		return gitfilter.ScopeGlobal
	default:
		return gitfilter.ScopeLocal
	}
}

package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/nbstripout/internal/config"
	"github.com/roach88/nbstripout/internal/gitfilter"
	"github.com/roach88/nbstripout/internal/strip"
)

func run(cmd *cobra.Command, opts *Options, files []string) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	defer func() { _ = logger.Sync() }()

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	git := gitfilter.New(opts.GitRunner, opts.scope(), logger)

	switch {
	case opts.Version:
		out.Println(Version)
		return nil
	case opts.Install:
		return install(ctx, git, opts)
	case opts.Uninstall:
		return uninstall(ctx, git, opts)
	case opts.IsInstalled:
		return status(ctx, git, out, false)
	case opts.Status:
		return status(ctx, git, out, true)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot determine working directory", err)
	}
	settings, err := config.Discover(files, cwd)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if settings != nil {
		logger.Debug("using configuration file", zap.String("path", settings.Path))
		if err := config.Apply(cmd.Flags(), settings); err != nil {
			return WrapExitError(ExitCommandError, "invalid configuration", err)
		}
	}

	if opts.Mode != config.ModeJupyter && opts.Mode != config.ModeZeppelin {
		return NewExitError(ExitCommandError,
			"invalid mode "+strings.TrimSpace(opts.Mode)+": must be one of "+strings.Join(ValidModes, ", "))
	}

	policy, err := resolvePolicy(ctx, cmd, opts, git, logger)
	if err != nil {
		return err
	}

	p := &processor{
		opts:     opts,
		stripper: strip.New(policy, logger),
		out:      out,
		stdout:   cmd.OutOrStdout(),
		logger:   logger,
	}
	if len(files) == 0 {
		return p.processStdin(cmd.InOrStdin())
	}
	return p.processFiles(files)
}

// resolvePolicy turns the merged flags into the strip configuration,
// extending the key lists with the ones stored in git config.
func resolvePolicy(ctx context.Context, cmd *cobra.Command, opts *Options, git *gitfilter.Client, logger *zap.Logger) (strip.Config, error) {
	o := config.Defaults()
	o.KeepCount = opts.KeepCount
	o.KeepID = opts.KeepID
	o.DropEmptyCells = opts.DropEmptyCells
	o.StripInitCells = opts.StripInitCells
	if cmd.Flags().Changed("keep-output") {
		o.KeepOutput = strip.Bool(opts.KeepOutput)
	}
	o.ExtraKeys = strings.Fields(opts.ExtraKeys)
	o.KeepMetadataKeys = strings.Fields(opts.KeepMetadataKeys)
	o.DropTaggedCells = strings.Fields(opts.DropTaggedCells)
	o.DropOutputTypes = strings.Fields(opts.DropOutputTypes)
	o.KeepOutputTypes = strings.Fields(opts.KeepOutputTypes)
	o.MaxSize = opts.MaxSize
	o.Mode = opts.Mode
	o.Force = opts.Force

	gitExtra, err := git.GetWords(ctx, gitfilter.KeyExtraKeys)
	if err != nil {
		logger.Debug("cannot read extra keys from git config", zap.Error(err))
	}
	gitKeep, err := git.GetWords(ctx, gitfilter.KeyKeepMetadataKeys)
	if err != nil {
		logger.Debug("cannot read keep metadata keys from git config", zap.Error(err))
	}

	policy, err := o.Policy(gitExtra, gitKeep)
	if err != nil {
		return strip.Config{}, WrapExitError(ExitCommandError, "invalid --max-size", err)
	}
	return policy, nil
}

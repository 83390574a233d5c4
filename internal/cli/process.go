package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/nbstripout/internal/config"
	"github.com/roach88/nbstripout/internal/notebook"
	"github.com/roach88/nbstripout/internal/strip"
)

// processor runs the stripper over files or standard input.
type processor struct {
	opts     *Options
	stripper *strip.Stripper
	out      *OutputFormatter
	stdout   io.Writer
	logger   *zap.Logger
}

// result is one transformed document.
type result struct {
	data    []byte
	changed bool
}

// transform parses data, strips it and serializes the result. stream
// selects the trailing-newline form of Zeppelin output.
func (p *processor) transform(data []byte, zeppelin, stream bool) (result, error) {
	if zeppelin {
		z, err := notebook.ParseZeppelin(data)
		if err != nil {
			return result{}, err
		}
		before := z.Clone()
		strip.StripZeppelin(z)
		out, err := z.Marshal(stream)
		if err != nil {
			return result{}, err
		}
		return result{data: out, changed: strip.Changed(before.Root, z.Root)}, nil
	}

	nb, err := notebook.ParseNotebook(data)
	if err != nil {
		return result{}, err
	}
	before := nb.Clone()
	stripped, err := p.stripper.Strip(nb)
	if err != nil {
		return result{}, err
	}
	out, err := stripped.Marshal()
	if err != nil {
		return result{}, err
	}
	return result{data: out, changed: strip.Changed(before.Root, stripped.Root)}, nil
}

// eligible reports whether a file is processed at all.
func (p *processor) eligible(name string) bool {
	return p.opts.Force || strings.HasSuffix(name, ".ipynb") || strings.HasSuffix(name, ".zpln")
}

func (p *processor) zeppelin(name string) bool {
	return p.opts.Mode == config.ModeZeppelin || strings.HasSuffix(name, ".zpln")
}

// processFiles strips every eligible file in order. A failing file is
// reported and skipped; the invocation then exits with ExitFailure, as it
// does when verify or dry-run finds a file that would change.
func (p *processor) processFiles(files []string) error {
	var failed, wouldChange int
	for _, name := range files {
		if !p.eligible(name) {
			p.logger.Debug("skipping file", zap.String("file", name))
			continue
		}

		changed, err := p.processFile(name)
		if err != nil {
			failed++
			p.reportFailure(name, err)
			continue
		}
		if changed && (p.opts.DryRun || p.opts.Verify) {
			wouldChange++
		}
	}

	switch {
	case failed > 0:
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d of %d files could not be stripped", failed, len(files))}
	case wouldChange > 0:
		return &ExitError{Code: ExitFailure}
	}
	return nil
}

// processFile holds the file open for the whole read-transform-write
// sequence and closes it on every path.
func (p *processor) processFile(name string) (changed bool, err error) {
	readOnly := p.opts.DryRun || p.opts.Verify || p.opts.Textconv
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}

	f, err := os.OpenFile(name, flag, 0)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return false, err
	}
	res, err := p.transform(data, p.zeppelin(name), p.opts.Textconv)
	if err != nil {
		return false, err
	}
	p.logger.Debug("stripped", zap.String("file", name), zap.Bool("changed", res.changed))

	switch {
	case p.opts.DryRun:
		if res.changed {
			p.out.Println("Dry run: would have stripped " + name)
		}
	case p.opts.Verify:
		if res.changed {
			p.out.Println("Would have stripped " + name)
		}
	case p.opts.Textconv:
		_, err = p.stdout.Write(res.data)
	default:
		err = rewrite(f, res.data)
	}
	return res.changed, err
}

func rewrite(f *os.File, data []byte) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := f.Write(data)
	return err
}

func (p *processor) reportFailure(name string, err error) {
	switch {
	case errors.Is(err, notebook.ErrNotNotebook), errors.Is(err, notebook.ErrNotZeppelin):
		p.out.Diagnostic("'%s' is not a valid notebook", name)
		p.logger.Debug("parse failure", zap.String("file", name), zap.Error(err))
	case errors.Is(err, os.ErrNotExist):
		p.out.Diagnostic("Could not strip '%s': file not found", name)
	default:
		p.out.Diagnostic("Could not strip '%s': %v", name, err)
	}
}

// processStdin strips one document from r to standard output.
func (p *processor) processStdin(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return WrapExitError(ExitFailure, "cannot read standard input", err)
	}

	res, err := p.transform(data, p.opts.Mode == config.ModeZeppelin, true)
	if err != nil {
		if errors.Is(err, notebook.ErrNotNotebook) || errors.Is(err, notebook.ErrNotZeppelin) {
			return NewExitError(ExitFailure, "No valid notebook detected")
		}
		return WrapExitError(ExitFailure, "Could not strip input from stdin", err)
	}

	switch {
	case p.opts.DryRun:
		if res.changed {
			p.out.Println("Dry run: would have stripped input from stdin")
			return &ExitError{Code: ExitFailure}
		}
		return nil
	case p.opts.Verify:
		if res.changed {
			p.out.Println("Would have stripped input from stdin")
			return &ExitError{Code: ExitFailure}
		}
		return nil
	}

	if _, err := p.stdout.Write(res.data); err != nil {
		return WrapExitError(ExitFailure, "cannot write standard output", err)
	}
	return nil
}

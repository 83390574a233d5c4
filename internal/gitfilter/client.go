package gitfilter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Scope selects which git configuration file is read and written.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
	ScopeSystem Scope = "system"
)

// Git config keys.
const (
	KeyClean            = "filter.nbstripout.clean"
	KeySmudge           = "filter.nbstripout.smudge"
	KeyExtraKeys        = "filter.nbstripout.extrakeys"
	KeyKeepMetadataKeys = "filter.nbstripout.keepmetadatakeys"
	KeyTextconv         = "diff.ipynb.textconv"
	diffSection         = "diff.ipynb"
)

// ErrNotRepository is returned when a local operation runs outside a
// git repository.
var ErrNotRepository = errors.New("not a git repository")

// Client manages the filter in one configuration scope.
type Client struct {
	Runner Runner
	Scope  Scope
	Logger *zap.Logger
}

// New returns a client for scope. A nil runner runs the git binary from
// PATH in the working directory.
func New(runner Runner, scope Scope, logger *zap.Logger) *Client {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{Runner: runner, Scope: scope, Logger: logger}
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.logger().Debug("running git", zap.Strings("args", args))
	return c.Runner.Run(ctx, args...)
}

// configArgs prefixes args with the scope flag used for writes.
func (c *Client) configArgs(args ...string) []string {
	scope := c.Scope
	if scope == "" {
		scope = ScopeLocal
	}
	return append([]string{"config", "--" + string(scope)}, args...)
}

// Get reads a git config value. Local reads see the merged configuration
// like a plain `git config key`. An unset key yields "" and no error.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	args := []string{"config", key}
	if c.Scope == ScopeGlobal || c.Scope == ScopeSystem {
		args = c.configArgs(key)
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) && ce.ExitCode == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GetWords reads a space separated git config list.
func (c *Client) GetWords(ctx context.Context, key string) ([]string, error) {
	v, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return strings.Fields(v), nil
}

// FilterCommand returns the quoted command git runs for exe.
func FilterCommand(exe string) string {
	return `"` + filepath.ToSlash(exe) + `"`
}

// Install registers exe as the clean filter and textconv driver and adds
// the attribute lines to attrFile (or the scope's default file).
func (c *Client) Install(ctx context.Context, exe, attrFile string) error {
	command := FilterCommand(exe)
	settings := [][2]string{
		{KeyClean, command},
		{KeySmudge, "cat"},
		{KeyTextconv, command + " -t"},
	}
	for _, kv := range settings {
		if _, err := c.run(ctx, c.configArgs(kv[0], kv[1])...); err != nil {
			return classify(err)
		}
	}

	path, err := c.AttributesFile(ctx, attrFile)
	if err != nil {
		return classify(err)
	}
	if err := addAttributes(path); err != nil {
		return permissionHint(c.Scope, path, err)
	}
	c.logger().Debug("installed filter", zap.String("attributes", path))
	return nil
}

// Uninstall removes the filter settings and the attribute lines. The
// extrakeys setting is left alone.
func (c *Client) Uninstall(ctx context.Context, attrFile string) error {
	steps := [][]string{
		c.configArgs("--unset", KeyClean),
		c.configArgs("--unset", KeySmudge),
		c.configArgs("--remove-section", diffSection),
	}
	for _, args := range steps {
		if _, err := c.run(ctx, args...); errors.Is(err, ErrGitNotFound) {
			return err
		}
	}

	path, err := c.AttributesFile(ctx, attrFile)
	if err != nil {
		return classify(err)
	}
	if err := removeAttributes(path); err != nil {
		return err
	}
	c.logger().Debug("uninstalled filter", zap.String("attributes", path))
	return nil
}

// Report describes the installation in one scope.
type Report struct {
	Installed      bool   `json:"installed"`
	Location       string `json:"location"`
	Clean          string `json:"clean,omitempty"`
	Smudge         string `json:"smudge,omitempty"`
	Diff           string `json:"diff,omitempty"`
	ExtraKeys      string `json:"extra_keys,omitempty"`
	Attributes     string `json:"attributes,omitempty"`
	DiffAttributes string `json:"diff_attributes,omitempty"`
}

// Status inspects the installation. A missing filter is reported through
// Report.Installed; errors are reserved for git being unusable.
func (c *Client) Status(ctx context.Context) (Report, error) {
	var r Report

	switch c.Scope {
	case ScopeSystem:
		r.Location = "system-wide"
	case ScopeGlobal:
		r.Location = "globally"
	default:
		gitDir, err := c.gitDir(ctx)
		if err != nil {
			if errors.Is(err, ErrNotRepository) {
				return r, nil
			}
			return r, err
		}
		abs, err := filepath.Abs(gitDir)
		if err != nil {
			return r, err
		}
		r.Location = fmt.Sprintf("in repository '%s'", filepath.Dir(abs))
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyClean, &r.Clean},
		{KeySmudge, &r.Smudge},
		{KeyTextconv, &r.Diff},
	} {
		v, err := c.Get(ctx, f.key)
		if err != nil {
			return r, err
		}
		if v == "" {
			return r, nil
		}
		*f.dst = v
	}

	if err := c.readAttributes(ctx, &r); err != nil {
		return r, err
	}

	extra, err := c.Get(ctx, KeyExtraKeys)
	if err != nil {
		return r, err
	}
	r.ExtraKeys = extra

	r.Installed = r.Attributes != "" && !strings.HasSuffix(r.Attributes, "unspecified")
	return r, nil
}

func (c *Client) readAttributes(ctx context.Context, r *Report) error {
	if c.Scope == ScopeGlobal || c.Scope == ScopeSystem {
		path, err := c.AttributesFile(ctx, "")
		if err != nil {
			return err
		}
		if r.Attributes, err = readAttributeLines(path, "filter"); err != nil {
			return err
		}
		r.DiffAttributes, err = readAttributeLines(path, "diff")
		return err
	}

	out, err := c.run(ctx, "check-attr", "filter", "--", "*.ipynb")
	if err != nil {
		return classify(err)
	}
	r.Attributes = strings.TrimSpace(out)

	out, err = c.run(ctx, "check-attr", "diff", "--", "*.ipynb")
	if err != nil {
		return classify(err)
	}
	r.DiffAttributes = strings.TrimSpace(out)
	return nil
}

// classify maps a failed git command to ErrNotRepository.
func classify(err error) error {
	var ce *CommandError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %v", ErrNotRepository, err)
	}
	return err
}

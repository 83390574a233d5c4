package gitfilter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Attribute lines maintained by Install and Uninstall.
const (
	FilterAttribute         = "*.ipynb filter=nbstripout"
	ZeppelinFilterAttribute = "*.zpln filter=nbstripout"
	DiffAttribute           = "*.ipynb diff=ipynb"
)

// Prefixes identifying existing attribute lines, whatever their value.
var attributePrefixes = []string{"*.ipynb filter", "*.zpln filter", "*.ipynb diff"}

var fatalFileRE = regexp.MustCompile(`fatal:.*file '([^']+)'`)

// AttributesFile resolves the attributes file for the client's scope.
// An explicit path wins. Parent directories are created.
func (c *Client) AttributesFile(ctx context.Context, explicit string) (string, error) {
	path := explicit
	if path == "" {
		var err error
		path, err = c.defaultAttributesFile(ctx)
		if err != nil {
			return "", err
		}
	}

	path, err := expandHome(path)
	if err != nil {
		return "", err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return path, nil
}

func (c *Client) defaultAttributesFile(ctx context.Context) (string, error) {
	switch c.Scope {
	case ScopeGlobal, ScopeSystem:
		configured, err := c.Get(ctx, "core.attributesFile")
		if err != nil {
			return "", err
		}
		if configured != "" {
			return configured, nil
		}
		if c.Scope == ScopeGlobal {
			dir := os.Getenv("XDG_CONFIG_DIR")
			if dir == "" {
				dir = filepath.Join("~", ".config")
			}
			return filepath.Join(dir, "git", "attributes"), nil
		}
		dir, err := c.systemConfigDir(ctx)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "gitattributes"), nil
	default:
		gitDir, err := c.gitDir(ctx)
		if err != nil {
			return "", err
		}
		return filepath.Join(gitDir, "info", "attributes"), nil
	}
}

func (c *Client) gitDir(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) {
			return "", ErrNotRepository
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// systemConfigDir finds the directory of the system gitconfig from the
// origin git reports for its entries.
func (c *Client) systemConfigDir(ctx context.Context) (string, error) {
	list := func() (string, error) {
		return c.run(ctx, "config", "--system", "--list", "--show-origin")
	}

	out, err := list()
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) {
			if m := fatalFileRE.FindStringSubmatch(ce.Stderr); m != nil {
				return filepath.Abs(filepath.Dir(m[1]))
			}
		}
		return "", err
	}

	// An empty file lists nothing, so set a throwaway key to learn its origin.
	if strings.TrimSpace(out) == "" {
		const probe = "filter.nbstripoutput.test"
		if _, err := c.run(ctx, "config", "--system", probe, "test"); err != nil {
			return "", err
		}
		out, err = list()
		if _, unsetErr := c.run(ctx, "config", "--system", "--unset", probe); err == nil {
			err = unsetErr
		}
		if err != nil {
			return "", err
		}
	}

	first, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	origin, _, _ := strings.Cut(first, "\t")
	return filepath.Abs(filepath.Dir(strings.TrimPrefix(origin, "file:")))
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// addAttributes appends the missing attribute lines to path.
func addAttributes(path string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	text := string(existing)
	hasFilter := strings.Contains(text, "*.ipynb filter")
	hasZeppelin := strings.Contains(text, "*.zpln filter")
	hasDiff := strings.Contains(text, "*.ipynb diff")
	if hasFilter && hasDiff {
		return nil
	}

	var b strings.Builder
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	if !hasFilter {
		b.WriteString(FilterAttribute + "\n")
	}
	if !hasZeppelin {
		b.WriteString(ZeppelinFilterAttribute + "\n")
	}
	if !hasDiff {
		b.WriteString(DiffAttribute + "\n")
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// removeAttributes drops every nbstripout attribute line from path. A
// missing file is not an error.
func removeAttributes(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	lines := strings.SplitAfter(string(data), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !hasAttributePrefix(line) {
			kept = append(kept, line)
		}
	}
	return os.WriteFile(path, []byte(strings.Join(kept, "")), 0o644)
}

func hasAttributePrefix(line string) bool {
	for _, p := range attributePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// readAttributeLines returns the lines of path containing word, trimmed.
func readAttributeLines(path, word string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if strings.Contains(line, word) {
			b.WriteString(line)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func permissionHint(scope Scope, path string, err error) error {
	if errors.Is(err, os.ErrPermission) && scope == ScopeGlobal {
		return fmt.Errorf("could not write to %s (did you forget to sudo?): %w", path, err)
	}
	return fmt.Errorf("could not write to %s: %w", path, err)
}

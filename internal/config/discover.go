package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
)

// FileError reports a configuration file that could not be used.
type FileError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// Settings are the validated options of one configuration section, keyed
// by option name and rendered as flag values.
type Settings struct {
	// Path is the file the section was read from.
	Path string

	values map[string]string
}

// Names returns the configured option names in sorted order.
func (s *Settings) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Value returns the flag value configured for name.
func (s *Settings) Value(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// sectionReader reads the nbstripout section of one file kind. found is
// false when the file exists but has no such section.
type sectionReader func(path string, sc *schema) (raw map[string]any, found bool, err error)

var configFiles = []struct {
	name string
	read sectionReader
}{
	{"pyproject.toml", readPyproject},
	{"setup.cfg", readSetupCfg},
}

// Discover looks for a configuration section, starting at the common
// directory of files (or at cwd when files is empty) and walking up to the
// filesystem root. In each directory pyproject.toml is tried before
// setup.cfg. The first file carrying a section wins, even an empty one.
// It returns nil when nothing is found.
func Discover(files []string, cwd string) (*Settings, error) {
	sc, err := loadSchema()
	if err != nil {
		return nil, err
	}

	dir, err := searchRoot(files, cwd)
	if err != nil {
		return nil, err
	}

	for {
		for _, cf := range configFiles {
			path := filepath.Join(dir, cf.name)
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			raw, found, err := cf.read(path, sc)
			if err != nil {
				return nil, err
			}
			if found {
				return sc.validate(path, raw)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// searchRoot returns the longest path shared by every file.
func searchRoot(files []string, cwd string) (string, error) {
	if len(files) == 0 {
		return filepath.Abs(cwd)
	}

	var common []string
	var volume string
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return "", err
		}
		volume = filepath.VolumeName(abs)
		parts := strings.Split(abs[len(volume):], string(filepath.Separator))
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}

	root := volume + strings.Join(common, string(filepath.Separator))
	if root == volume {
		root += string(filepath.Separator)
	}
	return root, nil
}

func readPyproject(path string, _ *schema) (map[string]any, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, &FileError{Path: path, Err: err}
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, false, &FileError{Path: path, Err: err}
	}

	tool, ok := doc["tool"].(map[string]any)
	if !ok {
		return nil, false, nil
	}
	section, ok := tool["nbstripout"].(map[string]any)
	if !ok {
		return nil, false, nil
	}
	return section, true, nil
}

func readSetupCfg(path string, sc *schema) (map[string]any, bool, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:            true,
		AllowPythonMultilineValues: true,
	}, path)
	if err != nil {
		return nil, false, &FileError{Path: path, Err: err}
	}

	section, err := file.GetSection("nbstripout")
	if err != nil {
		return nil, false, nil
	}

	raw := make(map[string]any)
	for _, key := range section.Keys() {
		name := key.Name()
		if !sc.booleans[name] {
			raw[name] = key.String()
			continue
		}
		b, err := key.Bool()
		if err != nil {
			return nil, false, &FileError{
				Path: path,
				Err:  fmt.Errorf("argument %s must be a boolean, not %q", name, key.String()),
			}
		}
		raw[name] = b
	}
	return raw, true, nil
}

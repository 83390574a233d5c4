package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverPyproject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), `
[tool.black]
line-length = 100

[tool.nbstripout]
keep_count = true
extra_keys = "metadata.foo cell.metadata.bar"
drop_tagged_cells = ["test", "slow"]
max_size = 1000
mode = "jupyter"
`)
	nb := filepath.Join(root, "sub", "dir", "a.ipynb")
	writeFile(t, nb, "{}")

	s, err := Discover([]string{nb}, "")
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, filepath.Join(root, "pyproject.toml"), s.Path)
	assert.Equal(t, []string{"drop_tagged_cells", "extra_keys", "keep_count", "max_size", "mode"}, s.Names())

	v, _ := s.Value("keep_count")
	assert.Equal(t, "true", v)
	v, _ = s.Value("drop_tagged_cells")
	assert.Equal(t, "test slow", v)
	v, _ = s.Value("max_size")
	assert.Equal(t, "1000", v)
}

func TestDiscoverSetupCfg(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.cfg"), `
[metadata]
name = demo

[nbstripout]
Drop_Empty_Cells = yes
keep_output = off
extra_keys = metadata.foo
`)

	s, err := Discover(nil, root)
	require.NoError(t, err)
	require.NotNil(t, s)

	v, _ := s.Value("drop_empty_cells")
	assert.Equal(t, "true", v)
	v, _ = s.Value("keep_output")
	assert.Equal(t, "false", v)
	v, _ = s.Value("extra_keys")
	assert.Equal(t, "metadata.foo", v)
}

func TestDiscoverPrefersPyprojectInSameDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[tool.nbstripout]\nkeep_id = true\n")
	writeFile(t, filepath.Join(root, "setup.cfg"), "[nbstripout]\nkeep_count = true\n")

	s, err := Discover(nil, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep_id"}, s.Names())
}

func TestDiscoverSkipsFilesWithoutSection(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.cfg"), "[nbstripout]\nkeep_count = true\n")
	child := filepath.Join(root, "child")
	writeFile(t, filepath.Join(child, "pyproject.toml"), "[tool.ruff]\nline-length = 88\n")
	writeFile(t, filepath.Join(child, "setup.cfg"), "[metadata]\nname = x\n")

	s, err := Discover(nil, child)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, filepath.Join(root, "setup.cfg"), s.Path)
}

func TestDiscoverEmptySectionStopsSearch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "setup.cfg"), "[nbstripout]\nkeep_count = true\n")
	child := filepath.Join(root, "child")
	writeFile(t, filepath.Join(child, "pyproject.toml"), "[tool.nbstripout]\n")

	s, err := Discover(nil, child)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, filepath.Join(child, "pyproject.toml"), s.Path)
	assert.Empty(t, s.Names())
}

func TestDiscoverCommonDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "setup.cfg"), "[nbstripout]\nkeep_count = true\n")
	writeFile(t, filepath.Join(root, "pyproject.toml"), "[tool.nbstripout]\nkeep_id = true\n")

	files := []string{filepath.Join(root, "a", "x.ipynb"), filepath.Join(root, "b", "y.ipynb")}
	s, err := Discover(files, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "pyproject.toml"), s.Path, "search starts above both files")
}

func TestDiscoverErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		msg     string
	}{
		{"unknown option", "pyproject.toml", "[tool.nbstripout]\nbogus = 1\n", "bogus in the config file is not a valid option"},
		{"non-bool in toml", "pyproject.toml", "[tool.nbstripout]\nkeep_count = \"yes\"\n", "keep_count"},
		{"non-bool in cfg", "setup.cfg", "[nbstripout]\nkeep_count = maybe\n", "must be a boolean"},
		{"bad mode", "pyproject.toml", "[tool.nbstripout]\nmode = \"vscode\"\n", "mode"},
		{"bad toml", "pyproject.toml", "[tool.nbstripout\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			path := filepath.Join(root, tt.file)
			writeFile(t, path, tt.content)

			_, err := Discover(nil, root)
			var fe *FileError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, path, fe.Path)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDiscoverNothing(t *testing.T) {
	s, err := Discover(nil, t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSearchRoot(t *testing.T) {
	got, err := searchRoot([]string{"/a/b/c.ipynb", "/a/b/d/e.ipynb"}, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/a/b"), got)

	got, err = searchRoot([]string{"/x/1.ipynb", "/y/2.ipynb"}, "")
	require.NoError(t, err)
	assert.Equal(t, string(filepath.Separator), got)
}

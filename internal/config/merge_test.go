package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFlags is a minimal FlagSet.
type fakeFlags struct {
	values  map[string]string
	changed map[string]bool
}

func newFakeFlags(values map[string]string, changed ...string) *fakeFlags {
	f := &fakeFlags{values: values, changed: make(map[string]bool)}
	for _, c := range changed {
		f.changed[c] = true
	}
	return f
}

func (f *fakeFlags) Changed(name string) bool { return f.changed[name] }

func (f *fakeFlags) Set(name, value string) error {
	if _, ok := f.values[name]; !ok {
		return fmt.Errorf("unknown flag %q", name)
	}
	f.values[name] = value
	f.changed[name] = true
	return nil
}

func (f *fakeFlags) GetString(name string) (string, error) {
	v, ok := f.values[name]
	if !ok {
		return "", fmt.Errorf("unknown flag %q", name)
	}
	return v, nil
}

func TestApply(t *testing.T) {
	flags := newFakeFlags(map[string]string{
		"keep-count": "false",
		"keep-id":    "true",
		"max-size":   "0",
		"extra-keys": "metadata.b metadata.a",
	}, "keep-id", "extra-keys")

	s := &Settings{Path: "setup.cfg", values: map[string]string{
		"keep_count": "true",
		"keep_id":    "false",
		"max_size":   "1k",
		"extra_keys": "metadata.c metadata.a",
	}}
	require.NoError(t, Apply(flags, s))

	assert.Equal(t, "true", flags.values["keep-count"])
	assert.Equal(t, "true", flags.values["keep-id"], "command line wins")
	assert.Equal(t, "1k", flags.values["max-size"])
	assert.Equal(t, "metadata.a metadata.b metadata.c", flags.values["extra-keys"])
}

func TestApplyNil(t *testing.T) {
	assert.NoError(t, Apply(newFakeFlags(nil), nil))
}

func TestApplyUnknownFlag(t *testing.T) {
	s := &Settings{Path: "pyproject.toml", values: map[string]string{"textconv": "true"}}
	err := Apply(newFakeFlags(map[string]string{}), s)
	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "pyproject.toml", fe.Path)
}

func TestUnionWords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UnionWords("c a", " b  a ", ""))
	assert.Empty(t, UnionWords())
}

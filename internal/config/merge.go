package config

import (
	"fmt"
	"slices"
	"strings"
)

// FlagSet is the part of a command-line flag set that Apply needs.
// *pflag.FlagSet satisfies it.
type FlagSet interface {
	Changed(name string) bool
	Set(name, value string) error
	GetString(name string) (string, error)
}

// FlagName maps an option name to its command-line flag.
func FlagName(option string) string {
	return strings.ReplaceAll(option, "_", "-")
}

// Apply makes the configured values the defaults of flags. A flag given on
// the command line keeps its value, except extra-keys which becomes the
// sorted union of both lists.
func Apply(flags FlagSet, s *Settings) error {
	if s == nil {
		return nil
	}

	for _, name := range s.Names() {
		value, _ := s.Value(name)
		flag := FlagName(name)

		if name == "extra_keys" {
			current, err := flags.GetString(flag)
			if err != nil {
				return &FileError{Path: s.Path, Err: err}
			}
			value = strings.Join(UnionWords(value, current), " ")
		} else if flags.Changed(flag) {
			continue
		}

		if err := flags.Set(flag, value); err != nil {
			return &FileError{Path: s.Path, Err: fmt.Errorf("%s: %w", name, err)}
		}
	}
	return nil
}

// UnionWords splits each list on whitespace and returns the sorted set
// of all words.
func UnionWords(lists ...string) []string {
	var words []string
	for _, l := range lists {
		words = append(words, strings.Fields(l)...)
	}
	slices.Sort(words)
	return slices.Compact(words)
}

package config

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// schema is the compiled #Config definition.
type schema struct {
	ctx      *cue.Context
	def      cue.Value
	options  map[string]cue.Kind
	booleans map[string]bool
}

var loadSchema = sync.OnceValues(func() (*schema, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}

	def := value.LookupPath(cue.ParsePath("#Config"))
	if !def.Exists() {
		return nil, fmt.Errorf("config schema has no #Config definition")
	}

	s := &schema{
		ctx:      ctx,
		def:      def,
		options:  make(map[string]cue.Kind),
		booleans: make(map[string]bool),
	}
	iter, err := def.Fields(cue.Optional(true))
	if err != nil {
		return nil, fmt.Errorf("iterating config schema: %w", err)
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		kind := iter.Value().IncompleteKind()
		s.options[name] = kind
		if kind == cue.BoolKind {
			s.booleans[name] = true
		}
	}
	return s, nil
})

// validate checks a raw configuration section and flattens it into flag
// values. Lists become space separated words and booleans "true"/"false".
func (s *schema) validate(path string, raw map[string]any) (*Settings, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, ok := s.options[name]; !ok {
			return nil, &FileError{Path: path, Err: fmt.Errorf("%s in the config file is not a valid option", name)}
		}
	}

	data := s.ctx.Encode(raw)
	if err := data.Err(); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	value := s.def.Unify(data)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	settings := &Settings{Path: path, values: make(map[string]string, len(names))}
	for _, name := range names {
		text, err := flagText(value.LookupPath(cue.MakePath(cue.Str(name))))
		if err != nil {
			return nil, &FileError{Path: path, Err: fmt.Errorf("%s: %w", name, err)}
		}
		settings.values[name] = text
	}
	return settings, nil
}

func flagText(v cue.Value) (string, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case cue.StringKind:
		return v.String()
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return "", err
		}
		var words []string
		for iter.Next() {
			w, err := iter.Value().String()
			if err != nil {
				return "", err
			}
			words = append(words, w)
		}
		return strings.Join(words, " "), nil
	default:
		return "", fmt.Errorf("unsupported value of kind %s", v.Kind())
	}
}

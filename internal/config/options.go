package config

import (
	"slices"

	"github.com/roach88/nbstripout/internal/strip"
)

// Document modes.
const (
	ModeJupyter  = "jupyter"
	ModeZeppelin = "zeppelin"
)

// DefaultExtraKeys are erased on every run unless listed in the keep keys.
var DefaultExtraKeys = []string{
	"metadata.signature",
	"metadata.widgets",
	"cell.metadata.collapsed",
	"cell.metadata.ExecuteTime",
	"cell.metadata.execution",
	"cell.metadata.heading_collapsed",
	"cell.metadata.hidden",
	"cell.metadata.scrolled",
}

// DefaultMaxSize keeps no output of an unkept cell.
const DefaultMaxSize = "0"

// Options is the resolved option set after defaults, configuration files
// and flags have been merged.
type Options struct {
	KeepCount      bool
	KeepID         bool
	DropEmptyCells bool
	StripInitCells bool

	// KeepOutput is nil unless the option was given, in which case it
	// overrides each document's own metadata.keep_output.
	KeepOutput *bool

	ExtraKeys        []string
	KeepMetadataKeys []string
	DropTaggedCells  []string
	DropOutputTypes  []string
	KeepOutputTypes  []string

	MaxSize string
	Mode    string
	Force   bool
}

// Defaults returns the option set used when nothing is configured.
func Defaults() Options {
	return Options{MaxSize: DefaultMaxSize, Mode: ModeJupyter}
}

// Policy builds the strip configuration. gitExtra and gitKeep are the
// key lists read from git config and extend the configured ones.
func (o Options) Policy(gitExtra, gitKeep []string) (strip.Config, error) {
	maxSize, err := ParseSize(o.MaxSize)
	if err != nil {
		return strip.Config{}, err
	}

	extra := slicesConcat(DefaultExtraKeys, gitExtra, o.ExtraKeys)
	keep := slicesConcat(gitKeep, o.KeepMetadataKeys)

	return strip.Config{
		KeepOutput:       o.KeepOutput,
		KeepCount:        o.KeepCount,
		KeepID:           o.KeepID,
		StripInitCells:   o.StripInitCells,
		DropEmptyCells:   o.DropEmptyCells,
		DropTaggedCells:  slices.Clone(o.DropTaggedCells),
		ExtraKeys:        extra,
		KeepMetadataKeys: keep,
		MaxSize:          maxSize,
		DropOutputTypes:  slices.Clone(o.DropOutputTypes),
		KeepOutputTypes:  slices.Clone(o.KeepOutputTypes),
	}, nil
}

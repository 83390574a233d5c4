package strip

import (
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Config is the policy configuration for one invocation. It is built once
// before any document is processed and never modified afterwards.
type Config struct {
	// KeepOutput forces outputs to be kept (true) or stripped (false).
	// When nil, a document's own metadata.keep_output decides.
	KeepOutput *bool

	// KeepCount keeps execution_count / prompt_number values.
	KeepCount bool

	// KeepID keeps cell ids instead of renumbering them.
	KeepID bool

	// StripInitCells strips outputs of init cells regardless of their flag.
	StripInitCells bool

	// DropEmptyCells removes cells whose source is blank.
	DropEmptyCells bool

	// DropTaggedCells removes cells carrying any of these tags.
	DropTaggedCells []string

	// ExtraKeys are dotted paths to erase, rooted at "metadata." (document)
	// or "cell.metadata." (every cell).
	ExtraKeys []string

	// KeepMetadataKeys are exempted from ExtraKeys.
	KeepMetadataKeys []string

	// MaxSize keeps outputs of unkept cells whose size is at most MaxSize.
	MaxSize int64

	// DropOutputTypes and KeepOutputTypes select outputs by "output_type"
	// or the more specific "output_type:name".
	DropOutputTypes []string
	KeepOutputTypes []string
}

// Bool returns a pointer to b, for Config.KeepOutput.
func Bool(b bool) *bool {
	return &b
}

// Namespaces of extra keys.
const (
	documentNamespace = "metadata"
	cellNamespace     = "cell"
)

// erasePaths holds the extra keys split by namespace, with the namespace
// prefix removed. Cell paths keep their "metadata." prefix because they are
// popped from the cell object itself.
type erasePaths struct {
	document []string
	cell     []string
}

// splitExtraKeys subtracts keep from extra and splits the rest by
// namespace. Keys outside both namespaces are logged and ignored.
func splitExtraKeys(extra, keep []string, logger *zap.Logger) erasePaths {
	kept := make(map[string]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}

	keys := slices.Clone(extra)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	var paths erasePaths
	for _, key := range keys {
		if kept[key] {
			continue
		}
		namespace, sub, found := strings.Cut(key, ".")
		if !found || sub == "" {
			logger.Warn("ignoring invalid extra key", zap.String("key", key))
			continue
		}
		switch namespace {
		case documentNamespace:
			paths.document = append(paths.document, sub)
		case cellNamespace:
			paths.cell = append(paths.cell, sub)
		default:
			logger.Warn("ignoring invalid extra key", zap.String("key", key))
		}
	}
	return paths
}

package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SizeError reports a --max-size value that could not be parsed.
type SizeError struct {
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *SizeError) Error() string {
	return fmt.Sprintf("invalid size %q: %s", e.Value, e.Reason)
}

var sizeMultipliers = map[byte]int64{
	'K': 1_000,
	'M': 1_000_000,
	'G': 1_000_000_000,
}

// ParseSize parses an integer optionally followed by K, M or G (case
// insensitive, powers of 1000).
func ParseSize(s string) (int64, error) {
	text := strings.ToUpper(strings.TrimSpace(s))
	if text == "" {
		return 0, &SizeError{Value: s, Reason: "empty size"}
	}

	multiplier := int64(1)
	last := text[len(text)-1]
	if last < '0' || last > '9' {
		m, ok := sizeMultipliers[last]
		if !ok {
			return 0, &SizeError{Value: s, Reason: "Unknown size identifier"}
		}
		multiplier = m
		text = text[:len(text)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, &SizeError{Value: s, Reason: "not an integer"}
	}
	if n < 0 {
		return 0, &SizeError{Value: s, Reason: "negative size"}
	}
	if n > math.MaxInt64/multiplier {
		return 0, &SizeError{Value: s, Reason: "size out of range"}
	}
	return n * multiplier, nil
}

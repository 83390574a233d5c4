package notebook

import (
	"bytes"
	"fmt"
	"strings"
)

// Format controls the byte layout of serialized documents.
type Format struct {
	// Indent is written once per nesting level. Empty means compact output.
	Indent string

	// EnsureASCII escapes every non-ASCII character as \uXXXX.
	EnsureASCII bool

	// TrailingNewline appends "\n" after the top-level value.
	TrailingNewline bool
}

// JupyterFormat matches the layout nbformat writes: one-space indent,
// raw UTF-8, newline at end of file.
var JupyterFormat = Format{Indent: " ", TrailingNewline: true}

// ZeppelinFormat matches a two-space indented, ASCII-escaped dump.
var ZeppelinFormat = Format{Indent: "  ", EnsureASCII: true}

const hexDigits = "0123456789abcdef"

// Marshal serializes n with the given format.
func Marshal(n Node, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, n, f, 0); err != nil {
		return nil, err
	}
	if f.TrailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, n Node, f Format, depth int) error {
	switch v := n.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if v == "" {
			return fmt.Errorf("empty number literal")
		}
		buf.WriteString(string(v))
	case String:
		encodeString(buf, string(v), f.EnsureASCII)
	case Array:
		if len(v) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, elem := range v {
			if i > 0 {
				separator(buf, f)
			}
			newline(buf, f, depth+1)
			if err := encodeValue(buf, elem, f, depth+1); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		newline(buf, f, depth)
		buf.WriteByte(']')
	case *Object:
		if v == nil || v.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				separator(buf, f)
			}
			newline(buf, f, depth+1)
			encodeString(buf, k, f.EnsureASCII)
			buf.WriteString(": ")
			if err := encodeValue(buf, v.fields[k], f, depth+1); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		newline(buf, f, depth)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown node type: %T", n)
	}
	return nil
}

// separator writes the item separator; compact output uses ", ".
func separator(buf *bytes.Buffer, f Format) {
	buf.WriteByte(',')
	if f.Indent == "" {
		buf.WriteByte(' ')
	}
}

func newline(buf *bytes.Buffer, f Format, depth int) {
	if f.Indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(f.Indent, depth))
}

// encodeString writes s as a JSON string. Only quote, backslash and control
// characters are escaped (plus non-ASCII when ensureASCII is set); HTML
// characters and U+2028/U+2029 stay literal.
func encodeString(buf *bytes.Buffer, s string, ensureASCII bool) {
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r < 0x20:
			writeEscape(buf, r)
		case ensureASCII && r >= 0x7f:
			if r > 0xffff {
				r -= 0x10000
				writeEscape(buf, 0xd800|(r>>10)&0x3ff)
				writeEscape(buf, 0xdc00|r&0x3ff)
				continue
			}
			writeEscape(buf, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

func writeEscape(buf *bytes.Buffer, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hexDigits[(r>>12)&0xf])
	buf.WriteByte(hexDigits[(r>>8)&0xf])
	buf.WriteByte(hexDigits[(r>>4)&0xf])
	buf.WriteByte(hexDigits[r&0xf])
}

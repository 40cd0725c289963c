// Package props parses theme property text into typed values.
package props

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the declared type of a theme property.
type Type int

const (
	TypeInvalid Type = iota
	TypePair         // "a b", normalized screen fractions
	TypeRect         // "a b" or "a b c d"
	TypePath         // joined with the document directory
	TypeString
	TypeColor // RRGGBB or RRGGBBAA
	TypeFloat
	TypeBool
)

var typeNames = map[string]Type{
	"pair":   TypePair,
	"rect":   TypeRect,
	"path":   TypePath,
	"string": TypeString,
	"color":  TypeColor,
	"float":  TypeFloat,
	"bool":   TypeBool,
}

// ParseType maps a schema type name to a Type.
func ParseType(name string) (Type, bool) {
	t, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

func (t Type) String() string {
	for name, v := range typeNames {
		if v == t {
			return name
		}
	}
	return "invalid"
}

// Value is one parsed property. The set of implementations is closed.
type Value interface {
	fmt.Stringer
	isValue()
}

// Pair is a normalized pair such as pos or size.
type Pair struct{ A, B float64 }

// Rect is a normalized rectangle. Two-value input repeats itself as C, D.
type Rect struct{ A, B, C, D float64 }

// Color is a hex color. Hex is the six RGB digits, Raw the text as written.
type Color struct {
	Raw     string
	Hex     string
	Opacity float64
}

// Path is a file path already joined with the directory of its document.
type Path string

// Text is a plain string property.
type Text string

// Number is a float property.
type Number float64

// Bool is a boolean property.
type Bool bool

func (Pair) isValue()   {}
func (Rect) isValue()   {}
func (Color) isValue()  {}
func (Path) isValue()   {}
func (Text) isValue()   {}
func (Number) isValue() {}
func (Bool) isValue()   {}

func (p Pair) String() string { return fmt.Sprintf("Pair{%s, %s}", FormatFloat(p.A), FormatFloat(p.B)) }
func (r Rect) String() string {
	return fmt.Sprintf("Rect{%s, %s, %s, %s}", FormatFloat(r.A), FormatFloat(r.B), FormatFloat(r.C), FormatFloat(r.D))
}
func (c Color) String() string  { return "#" + c.Raw }
func (p Path) String() string   { return string(p) }
func (t Text) String() string   { return string(t) }
func (n Number) String() string { return FormatFloat(float64(n)) }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

// HasAlpha reports whether the color was written with an alpha byte.
func (c Color) HasAlpha() bool { return len(c.Raw) == 8 }

// FormatFloat prints a float the way generated markup expects it:
// shortest form, with a trailing ".0" kept for integral values.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

package props

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidValue is wrapped by every Parse failure.
var ErrInvalidValue = errors.New("invalid property value")

var colorRegex = regexp.MustCompile(`^([0-9a-fA-F]{6})([0-9a-fA-F]{2})?$`)

// Parse converts raw into a Value of the expected type. Paths are joined
// with basedir but not checked on disk. A failure means "not set".
func Parse(basedir string, t Type, raw string) (Value, error) {
	switch t {
	case TypePair:
		return parsePair(raw)
	case TypeRect:
		return parseRect(raw)
	case TypeString:
		return Text(raw), nil
	case TypePath:
		return Path(filepath.Join(basedir, raw)), nil
	case TypeColor:
		c, err := ParseColor(raw)
		if err != nil {
			return nil, err
		}
		return c, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: not a number: `%s`", ErrInvalidValue, raw)
		}
		return Number(f), nil
	case TypeBool:
		return parseBool(raw)
	}
	return nil, fmt.Errorf("%w: unknown property type %d", ErrInvalidValue, t)
}

func parseFloats(raw string) ([]float64, error) {
	fields := strings.Fields(raw)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parsePair(raw string) (Value, error) {
	if len(strings.Fields(raw)) != 2 {
		return nil, fmt.Errorf("%w: invalid normalized pair: `%s`", ErrInvalidValue, raw)
	}
	v, err := parseFloats(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid normalized pair values: `%s`", ErrInvalidValue, raw)
	}
	return Pair{A: v[0], B: v[1]}, nil
}

func parseRect(raw string) (Value, error) {
	n := len(strings.Fields(raw))
	if n != 2 && n != 4 {
		return nil, fmt.Errorf("%w: invalid normalized rectangle: `%s`", ErrInvalidValue, raw)
	}
	v, err := parseFloats(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid normalized rect values: `%s`", ErrInvalidValue, raw)
	}
	if n == 2 {
		return Rect{A: v[0], B: v[1], C: v[0], D: v[1]}, nil
	}
	return Rect{A: v[0], B: v[1], C: v[2], D: v[3]}, nil
}

// ParseColor parses RRGGBB or RRGGBBAA. Opacity is 1.0 without an alpha byte.
func ParseColor(raw string) (Color, error) {
	m := colorRegex.FindStringSubmatch(raw)
	if m == nil {
		return Color{}, fmt.Errorf("%w: invalid color value: `%s`", ErrInvalidValue, raw)
	}
	c := Color{Raw: raw, Hex: m[1], Opacity: 1.0}
	if m[2] != "" {
		a, _ := strconv.ParseUint(m[2], 16, 8)
		c.Opacity = float64(a) / 255
	}
	return c, nil
}

func parseBool(raw string) (Value, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty boolean", ErrInvalidValue)
	}
	switch strings.ToLower(raw)[0] {
	case '1', 't', 'y':
		return Bool(true), nil
	}
	return Bool(false), nil
}

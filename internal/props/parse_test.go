package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		hex     string
		opacity float64
		wantErr bool
	}{
		{name: "rgb with alpha", raw: "ff00ff80", hex: "ff00ff", opacity: 128.0 / 255},
		{name: "rgb only", raw: "000000", hex: "000000", opacity: 1.0},
		{name: "mixed case", raw: "AbCdEf", hex: "AbCdEf", opacity: 1.0},
		{name: "bad digits", raw: "zz0000", wantErr: true},
		{name: "too short", raw: "fff", wantErr: true},
		{name: "seven digits", raw: "fffffff", wantErr: true},
		{name: "leading hash", raw: "#ffffff", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseColor(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hex, c.Hex)
			assert.InDelta(t, tt.opacity, c.Opacity, 1e-9)
			assert.Equal(t, tt.raw, c.Raw)
		})
	}
}

func TestParseColorAlphaRoundTrip(t *testing.T) {
	c, err := ParseColor("ff00ff80")
	require.NoError(t, err)
	assert.True(t, c.HasAlpha())
	assert.InDelta(t, 0.502, c.Opacity, 0.001)

	c, err = ParseColor("000000")
	require.NoError(t, err)
	assert.False(t, c.HasAlpha())
}

func TestParsePairAndRect(t *testing.T) {
	v, err := Parse("/x", TypePair, "0.5  0.25")
	require.NoError(t, err)
	assert.Equal(t, Pair{A: 0.5, B: 0.25}, v)

	_, err = Parse("/x", TypePair, "0.5")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Parse("/x", TypePair, "0.5 0.2 0.1")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = Parse("/x", TypePair, "a b")
	assert.ErrorIs(t, err, ErrInvalidValue)

	v, err = Parse("/x", TypeRect, "1 2")
	require.NoError(t, err)
	assert.Equal(t, Rect{A: 1, B: 2, C: 1, D: 2}, v)

	v, err = Parse("/x", TypeRect, "1 2 3 4")
	require.NoError(t, err)
	assert.Equal(t, Rect{A: 1, B: 2, C: 3, D: 4}, v)

	_, err = Parse("/x", TypeRect, "1 2 3")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestParsePath(t *testing.T) {
	v, err := Parse("themes/x", TypePath, "bg.png")
	require.NoError(t, err)
	assert.Equal(t, Path("themes/x/bg.png"), v)

	v, err = Parse("themes/x", TypePath, "./art/../art/logo.svg")
	require.NoError(t, err)
	assert.Equal(t, Path("themes/x/art/logo.svg"), v)
}

func TestParseBool(t *testing.T) {
	for raw, want := range map[string]bool{
		"true": true, "True": true, "1": true, "yes": true, "Y": true,
		"false": false, "0": false, "no": false, "off": false,
	} {
		v, err := Parse("/", TypeBool, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Bool(want), v, raw)
	}
}

func TestParseFloatAndString(t *testing.T) {
	v, err := Parse("/", TypeFloat, "0.045")
	require.NoError(t, err)
	assert.Equal(t, Number(0.045), v)

	_, err = Parse("/", TypeFloat, "big")
	assert.ErrorIs(t, err, ErrInvalidValue)

	v, err = Parse("/", TypeString, "Rating: ")
	require.NoError(t, err)
	assert.Equal(t, Text("Rating: "), v)
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.0", FormatFloat(1))
	assert.Equal(t, "0.0", FormatFloat(0))
	assert.Equal(t, "0.045", FormatFloat(0.045))
	assert.Equal(t, "-2.5", FormatFloat(-2.5))
	assert.Equal(t, "40.0", FormatFloat(40))
}

func TestParseType(t *testing.T) {
	typ, ok := ParseType("Color")
	require.True(t, ok)
	assert.Equal(t, TypeColor, typ)
	assert.Equal(t, "color", typ.String())

	_, ok = ParseType("vector")
	assert.False(t, ok)
}

package fontmetrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestSFNTMeasurer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))

	m, err := SFNTMeasurer{}.Measure(path)
	require.NoError(t, err)

	assert.Greater(t, m.ESLineHeight, 0.0)
	assert.Greater(t, m.QtBaseline, 0.0)
	assert.Greater(t, m.QtLineHeight, m.QtBaseline)
	assert.Greater(t, m.ESBaseline, m.ESSY)
	assert.InDelta(t, m.QtBaseline-m.QtSY, m.ESBaseline-m.ESSY, 1e-9, "both use the S glyph height")
}

func TestSFNTMeasurerPixelSize(t *testing.T) {
	assert.Equal(t, 32, SFNTMeasurer{}.pixelSize())
	assert.Equal(t, 50, SFNTMeasurer{WindowHeight: 1000, SizeMedium: 0.05}.pixelSize())
}

func TestSFNTMeasurerErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := SFNTMeasurer{}.Measure(filepath.Join(dir, "missing.ttf"))
	assert.ErrorIs(t, err, ErrFontLoad)

	bogus := filepath.Join(dir, "bogus.ttf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a font"), 0o644))
	_, err = SFNTMeasurer{}.Measure(bogus)
	assert.ErrorIs(t, err, ErrFontLoad)
}

type countingMeasurer struct {
	calls int
}

func (c *countingMeasurer) Measure(path string) (Metrics, error) {
	c.calls++
	if path == "bad" {
		return Metrics{}, ErrFontLoad
	}
	return Metrics{QtBaseline: 20, ESBaseline: 18}, nil
}

func TestCache(t *testing.T) {
	inner := &countingMeasurer{}
	c := NewCache(inner)

	for i := 0; i < 3; i++ {
		m, err := c.Measure("a.ttf")
		require.NoError(t, err)
		assert.Equal(t, 20.0, m.QtBaseline)
	}
	for i := 0; i < 2; i++ {
		_, err := c.Measure("bad")
		assert.ErrorIs(t, err, ErrFontLoad)
	}
	assert.Equal(t, 2, inner.calls)
}

// Package fontmetrics measures the baseline and line-height conventions of
// the legacy renderer and of the target renderer for one font file.
package fontmetrics

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ErrFontLoad is wrapped by every measurement failure.
var ErrFontLoad = errors.New("cannot load font")

const (
	DefaultWindowHeight = 720
	DefaultSizeMedium   = 0.045
)

// Metrics are the measurements used for text baseline correction.
// ES values follow the legacy renderer (bitmap rows), Qt values the target
// renderer (rounded ascender and descender).
type Metrics struct {
	ESLineHeight float64
	ESSY         float64
	ESBaseline   float64
	QtLineHeight float64
	QtSY         float64
	QtBaseline   float64
}

// Measurer returns the metrics of a font file.
type Measurer interface {
	Measure(path string) (Metrics, error)
}

// SFNTMeasurer measures TrueType and OpenType files.
type SFNTMeasurer struct {
	WindowHeight int
	SizeMedium   float64
}

// pixelSize is the medium font size of the legacy renderer at the
// reference window height, truncated to whole pixels.
func (m SFNTMeasurer) pixelSize() int {
	h, s := m.WindowHeight, m.SizeMedium
	if h <= 0 {
		h = DefaultWindowHeight
	}
	if s <= 0 {
		s = DefaultSizeMedium
	}
	return int(float64(h) * s)
}

// Measure implements Measurer.
func (m SFNTMeasurer) Measure(path string) (Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("%w `%s`: %v", ErrFontLoad, path, err)
	}
	f, err := parseFont(data)
	if err != nil {
		return Metrics{}, fmt.Errorf("%w `%s`: %v", ErrFontLoad, path, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(m.pixelSize()),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return Metrics{}, fmt.Errorf("%w `%s`: %v", ErrFontLoad, path, err)
	}
	defer face.Close()

	esLineHeight := 0
	for r := rune(32); r < 128; r++ {
		bounds, _, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		esLineHeight = max(esLineHeight, glyphRows(bounds))
	}

	sBounds, _, ok := face.GlyphBounds('S')
	if !ok {
		return Metrics{}, fmt.Errorf("%w `%s`: no glyph for 'S'", ErrFontLoad, path)
	}
	sRows := float64(glyphRows(sBounds))
	sBearing := -fixedToFloat(sBounds.Min.Y)
	sOrigin := (sBearing + float64(esLineHeight)) / 2
	esSY := sOrigin - sBearing

	fm := face.Metrics()
	ascend := float64(fm.Ascent.Round())
	descend := float64(fm.Descent.Round())

	return Metrics{
		ESLineHeight: float64(esLineHeight),
		ESSY:         esSY,
		ESBaseline:   esSY + sRows,
		QtLineHeight: ascend + descend,
		QtSY:         ascend - sRows,
		QtBaseline:   ascend,
	}, nil
}

func parseFont(data []byte) (*sfnt.Font, error) {
	f, err := sfnt.Parse(data)
	if err == nil {
		return f, nil
	}
	coll, cerr := sfnt.ParseCollection(data)
	if cerr != nil {
		return nil, err
	}
	return coll.Font(0)
}

// glyphRows is the height of the rasterized glyph in whole pixel rows.
func glyphRows(b fixed.Rectangle26_6) int {
	if b.Max.Y <= b.Min.Y {
		return 0
	}
	return b.Max.Y.Ceil() - b.Min.Y.Floor()
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Cache memoizes a Measurer per path, failures included.
type Cache struct {
	m       Measurer
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	metrics Metrics
	err     error
}

// NewCache wraps m.
func NewCache(m Measurer) *Cache {
	return &Cache{m: m, entries: map[string]cacheEntry{}}
}

// Measure implements Measurer.
func (c *Cache) Measure(path string) (Metrics, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		return e.metrics, e.err
	}
	metrics, err := c.m.Measure(path)
	c.entries[path] = cacheEntry{metrics: metrics, err: err}
	return metrics, err
}

package qml

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/waozixyz/esqml/internal/props"
	"github.com/waozixyz/esqml/internal/theme"
)

var (
	idUnsafe   = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
	fontUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_]`)
)

// f formats a float the way the generated markup spells numbers.
func f(v float64) string { return props.FormatFloat(v) }

// plain formats a float without forcing a decimal point.
func plain(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ElementID is the QML id of an element: unsafe runs replaced by "_", the
// first letter lower-cased, and an "x_" prefix for extras.
func ElementID(e *theme.Element) string {
	clean := idUnsafe.ReplaceAllString(e.Name, "_")
	if clean != "" {
		clean = strings.ToLower(clean[:1]) + clean[1:]
	}
	if e.IsExtra {
		return "x_" + clean
	}
	return clean
}

// FontName is the FontLoader id used for a font file.
func FontName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = fontUnsafe.ReplaceAllString(base, "_")
	base = strings.TrimSuffix(base, "_ttf")
	return "theme_" + base
}

// quoteText turns theme text into a JS string literal. The per-platform
// variables become references to the model row.
func quoteText(text string) string {
	s := strings.NewReplacer(
		"'", `\'`,
		"${system.name}", "' + modelData.shortName + '",
		"${system.theme}", "' + modelData.shortName + '",
		"${system.fullName}", "' + modelData.name + '",
	).Replace(text)
	return "'" + s + "'"
}

// rgba renders RRGGBBAA as the '#AARRGGBB' literal QML expects.
func rgba(c props.Color) string {
	if c.HasAlpha() {
		return "'#" + c.Raw[6:] + c.Raw[:6] + "'"
	}
	return "'#" + c.Raw + "'"
}

// relPath makes a loaded path relative to the theme root.
func relPath(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func setID(e *theme.Element, n *Node) { n.Set("id", ElementID(e)) }

func setPos(e *theme.Element, n *Node) {
	pos, ok := e.Pair("pos")
	if !ok {
		return
	}
	x, y := "0", "0"
	if pos.A != 0 {
		x = f(pos.A) + " * root.width"
	}
	if pos.B != 0 {
		y = f(pos.B) + " * root.height"
	}
	if origin, ok := e.Pair("origin"); ok {
		if origin.A != 0 {
			x = fmt.Sprintf("%s - %s * width", x, f(origin.A))
		}
		if origin.B != 0 {
			y = fmt.Sprintf("%s - %s * height", y, f(origin.B))
		}
	}
	n.Set("x", x)
	n.Set("y", y)
}

func setRotation(e *theme.Element, n *Node) {
	angle, ok := e.Number("rotation")
	if !ok || angle == 0 {
		return
	}
	origin := props.Pair{A: 0.5, B: 0.5}
	if o, ok := e.Pair("rotationOrigin"); ok {
		origin = o
	}
	n.Set("transform", fmt.Sprintf("Rotation { angle: %s; origin.x: %s * width; origin.y: %s * height; }",
		f(angle), f(origin.A), f(origin.B)))
}

func setZIndex(e *theme.Element, n *Node) {
	if z, ok := e.Number("zIndex"); ok {
		n.Set("z", f(z))
	}
}

func setVisible(e *theme.Element, n *Node) {
	if visible, ok := e.Bool("visible"); ok && !visible {
		n.Set("visible", "false")
	}
}

func setOpacity(e *theme.Element, n *Node) {
	if c, ok := e.Color("color"); ok && c.HasAlpha() {
		n.Set("opacity", f(c.Opacity))
	}
}

func setFontInfo(e *theme.Element, n *Node) {
	if path, ok := e.Path("fontPath"); ok {
		name := FontName(path)
		n.Set("font.family", name+".name")

		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, "light") {
			n.Set("font.weight", "Font.Light")
		}
		if strings.HasSuffix(lower, "bold") {
			n.Set("font.weight", "Font.Bold")
		}
	}
	if size, ok := e.Number("fontSize"); ok {
		n.Set("font.pixelSize", f(size)+" * root.height")
	}
}

func setTextInfo(e *theme.Element, n *Node) {
	if align, ok := e.Text("alignment"); ok {
		switch align {
		case "center":
			n.Set("horizontalAlignment", "Text.AlignHCenter")
			n.Set("verticalAlignment", "Text.AlignVCenter")
		case "right":
			n.Set("horizontalAlignment", "Text.AlignRight")
		}
	}
	if upper, ok := e.Bool("forceUppercase"); ok && upper {
		n.Set("font.capitalization", "Font.AllUppercase")
	}
	if spacing, ok := e.Number("lineSpacing"); ok {
		n.Set("lineHeight", f(spacing))
	}
}

// colorOverlay emulates an image tint: a hidden fill of the color and a
// multiply blend of the fill over the target.
func colorOverlay(c props.Color, targetID string) []*Node {
	fillID := "color_" + targetID

	fill := NewNode("Rectangle", map[string]string{
		"id":           fillID,
		"anchors.fill": targetID,
		"color":        "'#" + c.Hex + "'",
		"visible":      "false",
	})
	blend := NewNode("Blend", map[string]string{
		"anchors.fill":     targetID,
		"source":           targetID,
		"foregroundSource": fillID,
		"mode":             "'multiply'",
	})
	if c.Opacity < 1 {
		blend.Set("opacity", f(c.Opacity))
	}
	return []*Node{fill, blend}
}

// applyTint hides n behind a color overlay when the element has a color.
// The z order moves to the blend, which is what is actually painted.
func applyTint(e *theme.Element, n *Node) []*Node {
	c, ok := e.Color("color")
	if !ok {
		return nil
	}
	n.Set("visible", "false")
	n.Pop("opacity")
	id, _ := n.Get("id")
	siblings := colorOverlay(c, id)
	if z, ok := n.Pop("z"); ok {
		siblings[len(siblings)-1].Set("z", z)
	}
	return siblings
}

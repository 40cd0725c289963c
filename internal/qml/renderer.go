package qml

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/waozixyz/esqml/internal/fontmetrics"
	"github.com/waozixyz/esqml/internal/logger"
	"github.com/waozixyz/esqml/internal/schema"
	"github.com/waozixyz/esqml/internal/theme"
)

// Imports opens every generated view file.
var Imports = []string{
	"import QtQuick 2.6",
	"import QtGraphicalEffects 1.0",
	"import '../__components'",
	"import '../__components/helpers.js' as Helpers",
}

// Kind is the closed set of element kinds the renderer knows.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindText
	KindDateTime
	KindRating
	KindTextList
	KindCarousel
	KindHelpSystem
)

var kindNames = map[string]Kind{
	"image":      KindImage,
	"text":       KindText,
	"datetime":   KindDateTime,
	"rating":     KindRating,
	"textlist":   KindTextList,
	"carousel":   KindCarousel,
	"helpsystem": KindHelpSystem,
}

// KindOf maps a kind name to its Kind.
func KindOf(name string) Kind { return kindNames[name] }

// Data sources of the reserved date items.
var dateSources = map[string]string{
	"md_releasedate": "currentGame.release",
	"md_lastplayed":  "currentGame.lastPlayed",
}

var dateFormat = strings.NewReplacer(
	"%Y", "yyyy",
	"%m", "MM",
	"%d", "dd",
	"%H", "hh",
	"%M", "mm",
	"%S", "ss",
)

// Renderer builds the scene of one view. It is stateless between calls
// apart from the shared font metrics cache.
type Renderer struct {
	reg   *schema.Registry
	fonts fontmetrics.Measurer
	root  string
	log   *log.Logger
}

// NewRenderer creates a renderer. root is the theme directory every output
// path is made relative to.
func NewRenderer(reg *schema.Registry, fonts fontmetrics.Measurer, root string) *Renderer {
	return &Renderer{
		reg:   reg,
		fonts: fonts,
		root:  root,
		log:   logger.NewStyledLogger("render"),
	}
}

// RenderView returns the lines of a complete view file.
func (r *Renderer) RenderView(view *theme.View) ([]string, error) {
	root, err := r.ViewRoot(view)
	if err != nil {
		return nil, err
	}
	lines := append([]string(nil), Imports...)
	return append(lines, root.Render(0)...), nil
}

// ViewRoot builds the root FocusScope of a view with one subtree per
// renderable element, in stacking order.
func (r *Renderer) ViewRoot(view *theme.View) (*Node, error) {
	root := NewNode("FocusScope", map[string]string{
		"id":      "root",
		"enabled": "focus",
		"focus":   "parent.focus",
		"clip":    "true",
	})
	if view.Name != "system" {
		root.Set("readonly property alias currentGame", "gamelist.currentGame")
	}

	for _, e := range r.sorted(view.Elements()) {
		if !r.valid(view.Name, e) {
			continue
		}
		nodes, err := r.renderElement(view.Name, e)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", view.Name, e.Name, err)
		}
		root.Append(nodes...)
	}
	return root, nil
}

// sorted orders elements by stacking order: an explicit zIndex, else the
// static table. Ties keep view order.
func (r *Renderer) sorted(elems []*theme.Element) []*theme.Element {
	z := func(e *theme.Element) float64 {
		if v, ok := e.Number("zIndex"); ok {
			return v
		}
		return r.reg.ZOrder(e.Name)
	}
	out := append([]*theme.Element(nil), elems...)
	sort.SliceStable(out, func(i, j int) bool { return z(out[i]) < z(out[j]) })
	return out
}

// valid rejects extras of restricted kinds and non-extras that are not a
// reserved item of the view with the matching kind.
func (r *Renderer) valid(view string, e *theme.Element) bool {
	if e.IsExtra {
		if r.reg.IsRestricted(e.Kind) {
			r.log.Warn("Extra elements of this kind are not allowed, skipped", "view", view, "name", e.Name, "kind", e.Kind)
			return false
		}
		return true
	}
	kind, ok := r.reg.Reserved(view, e.Name)
	if !ok {
		r.log.Warn("Unknown item name, skipped", "view", view, "name", e.Name, "kind", e.Kind)
		return false
	}
	if kind != e.Kind {
		r.log.Warn("Item kind does not match its name, skipped", "view", view, "name", e.Name, "kind", e.Kind, "expected", kind)
		return false
	}
	return true
}

func (r *Renderer) renderElement(view string, e *theme.Element) ([]*Node, error) {
	if r.reg.IsDisabled(e.Kind) {
		return nil, nil
	}

	switch KindOf(e.Kind) {
	case KindImage:
		if view == "system" && e.Name == "logo" {
			return nil, nil
		}
		return r.image(view, e), nil
	case KindText:
		if e.Name == "md_description" && !e.IsExtra {
			n, err := r.scrollText(view, e)
			if err != nil {
				return nil, err
			}
			return []*Node{n}, nil
		}
		if view == "system" && (e.Name == "systemInfo" || e.Name == "logoText") {
			return nil, nil
		}
		fallthrough
	case KindDateTime:
		n, err := r.text(view, e)
		if err != nil {
			return nil, err
		}
		return []*Node{n}, nil
	case KindRating:
		return r.rating(view, e), nil
	case KindTextList:
		n, err := r.textList(view, e)
		if err != nil {
			return nil, err
		}
		return []*Node{n}, nil
	case KindCarousel, KindHelpSystem:
		return nil, nil
	}

	r.log.Debug("Element not rendered", "view", view, "name", e.Name, "kind", e.Kind)
	return nil, nil
}

func (r *Renderer) defaults(view, kind, name string) map[string]string {
	return r.reg.RenderDefaults(view, kind, name)
}

func (r *Renderer) image(view string, e *theme.Element) []*Node {
	n := NewNode("Image", r.defaults(view, e.Kind, e.Name))

	setID(e, n)
	setPos(e, n)
	setRotation(e, n)
	setZIndex(e, n)
	setVisible(e, n)
	setOpacity(e, n)

	path, hasPath := e.Path("path")
	fallback, hasFallback := e.Path("default")
	switch {
	case hasPath && hasFallback:
		n.Set("source", quoteText("../"+relPath(r.root, path))+" || "+quoteText("../"+relPath(r.root, fallback)))
	case hasPath:
		n.Set("source", quoteText("../"+relPath(r.root, path)))
	case hasFallback:
		n.Set("source", quoteText("../"+relPath(r.root, fallback)))
	}

	if size, ok := e.Pair("size"); ok {
		hasW, hasH := size.A != 0, size.B != 0
		switch {
		case hasW && hasH:
			n.Set("fillMode", "Image.Stretch")
			n.Set("width", f(size.A)+" * root.width")
			n.Set("height", f(size.B)+" * root.height")
		case hasW:
			n.Set("width", f(size.A)+" * root.width")
			n.Set("height", "width * (implicitHeight || 1) / (implicitWidth || 1)")
		case hasH:
			n.Set("width", "height * (implicitWidth || 1) / (implicitHeight || 1)")
			n.Set("height", f(size.B)+" * root.height")
		}
	} else if maxSize, ok := e.Pair("maxSize"); ok {
		n.Set("width", f(maxSize.A)+" * root.width")
		n.Set("height", f(maxSize.B)+" * root.height")
		n.Set("fillMode", "Image.PreserveAspectFit")
	}

	if tile, ok := e.Bool("tile"); ok && tile {
		n.Set("fillMode", "Image.Tile")
	}

	siblings := applyTint(e, n)
	if !n.Has("opacity") && !n.Has("visible") {
		n.Extra = append(n.Extra, "Behavior on opacity { NumberAnimation { duration: 120 } }")
	}
	return append([]*Node{n}, siblings...)
}

// metrics returns the font metrics of the element's font, if it has one.
func (r *Renderer) metrics(e *theme.Element) (fontmetrics.Metrics, bool, error) {
	path, ok := e.Path("fontPath")
	if !ok {
		return fontmetrics.Metrics{}, false, nil
	}
	m, err := r.fonts.Measure(path)
	if err != nil {
		return fontmetrics.Metrics{}, false, err
	}
	return m, true, nil
}

// correctFont rescales pixel size and line height so glyphs land where the
// legacy renderer put them. y is only shifted when shiftY is set.
func correctFont(e *theme.Element, n *Node, m fontmetrics.Metrics, shiftY bool) {
	if y, ok := n.Get("y"); ok && shiftY && m.QtSY != 0 {
		n.Set("y", fmt.Sprintf("%s - font.pixelSize * %s", y, f((m.QtSY-m.ESSY)/m.QtSY)))
	}
	if ps, ok := n.Get("font.pixelSize"); ok && m.QtBaseline != 0 {
		n.Set("font.pixelSize", fmt.Sprintf("%s * %s / %s", ps, plain(m.ESBaseline), plain(m.QtBaseline)))
	}
	if spacing, ok := e.Number("lineSpacing"); ok && n.Has("lineHeight") && m.QtLineHeight != 0 {
		n.Set("lineHeight", f(spacing*m.ESLineHeight/m.QtLineHeight))
	}
}

func (r *Renderer) text(view string, e *theme.Element) (*Node, error) {
	n := NewNode("Text", r.defaults(view, e.Kind, e.Name))

	setID(e, n)
	setPos(e, n)
	setRotation(e, n)
	setZIndex(e, n)
	setVisible(e, n)
	setOpacity(e, n)
	setFontInfo(e, n)
	setTextInfo(e, n)

	m, ok, err := r.metrics(e)
	if err != nil {
		return nil, err
	}
	if ok {
		correctFont(e, n, m, true)
	}

	if size, ok := e.Pair("size"); ok {
		if size.A != 0 {
			n.Set("width", f(size.A)+" * root.width")
			n.Set("wrapMode", "Text.WordWrap")
		}
		if size.B != 0 {
			n.Set("height", f(size.B)+" * root.height")
			n.Set("elide", "Text.ElideRight")
		}
	}

	if c, ok := e.Color("color"); ok {
		n.Set("color", rgba(c))
	}
	if bg, ok := e.Color("backgroundColor"); ok {
		n.Append(NewNode("Rectangle", map[string]string{
			"anchors.fill": "parent",
			"color":        rgba(bg),
			"z":            "-1",
		}))
	}

	switch KindOf(e.Kind) {
	case KindText:
		if text, ok := e.Text("text"); ok {
			n.Set("text", quoteText(text))
		}
	case KindDateTime:
		source, known := dateSources[e.Name]
		relative, _ := e.Bool("displayRelative")
		if known {
			if relative {
				n.Set("text", fmt.Sprintf("Helpers.relative_date(%s)", source))
			} else {
				n.Set("text", fmt.Sprintf("Qt.formatDateTime(%s, dateFormat) || 'unknown'", source))
			}
		}
		if format, ok := e.Text("format"); ok {
			n.Set("readonly property string dateFormat", quoteText(dateFormat.Replace(format)))
		}
	}
	return n, nil
}

func (r *Renderer) rating(view string, e *theme.Element) []*Node {
	n := NewNode("RatingBar", r.defaults(view, e.Kind, e.Name))

	setID(e, n)
	setPos(e, n)
	setRotation(e, n)
	setZIndex(e, n)
	setVisible(e, n)
	setOpacity(e, n)

	if p, ok := e.Path("filledPath"); ok {
		n.Set("filledPath", "'../"+relPath(r.root, p)+"'")
	}
	if p, ok := e.Path("unfilledPath"); ok {
		n.Set("unfilledPath", "'../"+relPath(r.root, p)+"'")
	}

	// Five stars side by side: one side drives the other. With both
	// sides set the bar keeps its template size.
	if size, ok := e.Pair("size"); ok {
		switch {
		case size.A != 0 && size.B != 0:
		case size.A != 0:
			n.Set("width", f(size.A)+" * root.width")
			n.Set("height", "width / 5")
		case size.B != 0:
			n.Set("width", "height * 5")
			n.Set("height", f(size.B)+" * root.height")
		}
	}

	return append([]*Node{n}, applyTint(e, n)...)
}

func (r *Renderer) textList(view string, e *theme.Element) (*Node, error) {
	list := NewNode("ListView", r.defaults(view, e.Kind, e.Name))
	delegate := NewNode("Text", r.defaults(view, e.Kind+"__delegate", e.Name+"__delegate"))

	setID(e, list)
	setPos(e, list)
	setFontInfo(e, delegate)
	setTextInfo(e, delegate)
	setZIndex(e, list)
	setVisible(e, list)

	m, ok, err := r.metrics(e)
	if err != nil {
		return nil, err
	}
	if ok {
		correctFont(e, delegate, m, false)
	}

	if size, ok := e.Pair("size"); ok {
		list.Set("width", f(size.A)+" * root.width")
		list.Set("height", f(size.B)+" * root.height")
		list.Set("clip", "true")
	}

	var highlight *Node
	if p, ok := e.Path("selectorImagePath"); ok {
		highlight = NewNode("Image", map[string]string{
			"source":       "'../" + relPath(r.root, p) + "'",
			"asynchronous": "true",
			"smooth":       "false",
		})
		if tile, ok := e.Bool("selectorImageTile"); ok && tile {
			highlight.Set("fillMode", "Image.Tile")
		}
	} else {
		highlight = NewNode("Rectangle", map[string]string{"color": "'#000'"})
		if c, ok := e.Color("selectorColor"); ok {
			highlight.Set("color", rgba(c))
		}
	}

	if size, ok := e.Number("fontSize"); ok {
		list.Set("readonly property int highlightHeight", f(size)+" * 1.5 * root.height")
	}

	primary, hasPrimary := e.Color("primaryColor")
	selected, hasSelected := e.Color("selectedColor")
	if hasPrimary {
		delegate.Set("readonly property color unselectedColor", rgba(primary))
		delegate.Set("color", "unselectedColor")
	}
	if hasSelected {
		delegate.Set("readonly property color selectedColor", rgba(selected))
	}
	if hasPrimary && hasSelected {
		delegate.Set("color", "ListView.isCurrentItem ? selectedColor : unselectedColor")
	}

	if pad, ok := e.Number("horizontalMargin"); ok {
		delegate.Set("leftPadding", f(pad)+" * root.width")
		delegate.Set("rightPadding", "leftPadding")
	}

	list.SetNamed("delegate", delegate)
	list.SetNamed("highlight", highlight)
	return list, nil
}

// scrollText wraps a long text in a clipped container that scrolls it up
// and back down in a loop.
func (r *Renderer) scrollText(view string, e *theme.Element) (*Node, error) {
	text, err := r.text(view, e)
	if err != nil {
		return nil, err
	}

	containerID, _ := text.Pop("id")
	innerID := containerID + "_inner"
	scrollID := containerID + "_scroll"

	container := NewNode("Flickable", r.defaults(view, e.Kind+"__flick", e.Name+"__flick"))
	ids := strings.NewReplacer("$INNERID", innerID, "$SCROLLID", scrollID)
	for key, val := range container.Props {
		container.Props[key] = ids.Replace(val)
	}

	for _, key := range []string{"x", "y", "width", "height"} {
		if val, ok := text.Pop(key); ok {
			container.Set(key, strings.ReplaceAll(val, " font.", " "+innerID+".font."))
		}
	}
	text.Set("width", "parent.width")
	text.Set("id", innerID)
	container.Set("id", containerID)

	anim := NewNode("SequentialAnimation on contentY", map[string]string{
		"id":    scrollID,
		"loops": "Animation.Infinite",
	})
	anim.Append(
		NewNode("PauseAnimation", map[string]string{"duration": "1000"}),
		NewNode("PropertyAnimation", map[string]string{
			"to":       fmt.Sprintf("Math.max(0, %s.contentHeight - %s.height)", containerID, containerID),
			"duration": innerID + ".lineCount * 1000",
		}),
		NewNode("PauseAnimation", map[string]string{"duration": "3000"}),
		NewNode("PropertyAnimation", map[string]string{"to": "0", "duration": "500"}),
	)

	container.Append(anim, text)
	return container, nil
}

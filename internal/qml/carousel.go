package qml

import (
	"fmt"
	"strings"

	"github.com/waozixyz/esqml/internal/props"
	"github.com/waozixyz/esqml/internal/theme"
)

const (
	carouselName   = "systemcarousel"
	systemInfoName = "systemInfo"

	// Wheel carousels keep two extra logos on each side so the rotated
	// ends never show a gap.
	wheelBuffer = 2 * 2
)

// carouselLayout reads the layout params of a carousel element, falling
// back to the stock horizontal carousel for anything missing.
type carouselLayout struct {
	vertical       bool
	wheel          bool
	maxLogoCount   float64
	logoScale      float64
	logoRotation   float64
	rotationOrigin props.Pair
	logoSize       props.Pair
	logoAlignment  string
}

func readCarouselLayout(e *theme.Element) carouselLayout {
	l := carouselLayout{
		maxLogoCount:   3,
		logoScale:      1.2,
		logoRotation:   7.5,
		rotationOrigin: props.Pair{A: -5, B: 0.5},
		logoSize:       props.Pair{A: 0.25, B: 0.155},
		logoAlignment:  "center",
	}
	if typ, ok := e.Text("type"); ok {
		l.vertical = strings.HasPrefix(typ, "vertical")
		l.wheel = strings.HasSuffix(typ, "wheel")
	}
	if v, ok := e.Number("maxLogoCount"); ok {
		l.maxLogoCount = v
	}
	if v, ok := e.Number("logoScale"); ok {
		l.logoScale = v
	}
	if v, ok := e.Number("logoRotation"); ok {
		l.logoRotation = v
	}
	if v, ok := e.Pair("logoRotationOrigin"); ok {
		l.rotationOrigin = v
	}
	if v, ok := e.Pair("logoSize"); ok {
		l.logoSize = v
	}
	if v, ok := e.Text("logoAlignment"); ok {
		l.logoAlignment = v
	}
	return l
}

// RenderSystemSelector renders the platform carousel and the system info
// line of the system view, each as a block ready to be spliced into the
// system view template. A missing element yields an empty block.
func (r *Renderer) RenderSystemSelector(view *theme.View) (carousel, info string, err error) {
	if e, ok := view.Get(carouselName); ok && e.Kind == "carousel" {
		carousel = block(r.systemCarousel(view.Name, e))
	}
	if e, ok := view.Get(systemInfoName); ok && e.Kind == "text" {
		n, err := r.systemInfo(view.Name, e)
		if err != nil {
			return "", "", fmt.Errorf("%s/%s: %w", view.Name, e.Name, err)
		}
		info = block(n)
	}
	return carousel, info, nil
}

// block renders n one level deep, without the indent of the first line.
func block(n *Node) string {
	return strings.TrimSpace(strings.Join(n.Render(1), "\n"))
}

func (r *Renderer) systemCarousel(view string, e *theme.Element) *Node {
	layout := readCarouselLayout(e)

	container := NewNode("Rectangle", nil)
	setID(e, container)
	setPos(e, container)
	if size, ok := e.Pair("size"); ok {
		container.Set("width", f(size.A)+" * root.width")
		container.Set("height", f(size.B)+" * root.height")
	}
	if c, ok := e.Color("color"); ok {
		container.Set("color", rgba(c))
	}
	setZIndex(e, container)

	pathView := NewNode("PathView", r.defaults(view, "carousel__pathview", e.Name+"__pathview"))
	axis := "width"
	prevKey, nextKey := "Keys.onLeftPressed", "Keys.onRightPressed"
	if layout.vertical {
		axis = "height"
		prevKey, nextKey = "Keys.onUpPressed", "Keys.onDownPressed"
	}
	pathView.Set(prevKey, "decrementCurrentIndex()")
	pathView.Set(nextKey, "incrementCurrentIndex()")
	pathView.Set("pathItemCount", fmt.Sprintf(
		"{ let count = Math.ceil(%s / itemMainLength); return (count + 2 <= model.count) ? count + 2 : Math.min(count, model.count); }",
		axis))

	pathView.SetNamed("path", carouselPath(pathView, layout))
	pathView.SetNamed("delegate", r.carouselDelegate(view, e, layout))

	container.Append(pathView)
	return container
}

func carouselPath(pathView *Node, l carouselLayout) *Node {
	id, _ := pathView.Get("id")

	count := l.maxLogoCount
	if l.wheel {
		count += wheelBuffer
	}

	path := NewNode("Path", nil)
	line := NewNode("PathLine", nil)
	if l.vertical {
		path.Set("startX", id+".width / 2")
		path.Set("startY", fmt.Sprintf("(%s.height - %s.pathLength) / 2", id, id))
		line.Set("x", id+".path.startX")
		line.Set("y", fmt.Sprintf("%s.path.startY + %s.pathLength", id, id))
		pathView.Set("readonly property int itemMainLength", "height / "+f(count))
	} else {
		path.Set("startX", fmt.Sprintf("(%s.width - %s.pathLength) / 2", id, id))
		path.Set("startY", id+".height / 2")
		line.Set("x", fmt.Sprintf("%s.path.startX + %s.pathLength", id, id))
		line.Set("y", id+".path.startY")
		pathView.Set("readonly property int itemMainLength", "width / "+f(count))
	}

	rotation := func(half string) *Node {
		return NewNode("PathAttribute", map[string]string{
			"name":  "'itemRotation'",
			"value": fmt.Sprintf("%s.pathItemCount / %s * %s", id, half, f(l.logoRotation)),
		})
	}
	if l.wheel {
		path.Append(rotation("-2"))
	}
	path.Append(line)
	if l.wheel {
		path.Append(rotation("2"))
	}
	return path
}

func (r *Renderer) carouselDelegate(view string, e *theme.Element, l carouselLayout) *Node {
	delegate := NewNode("Item", r.defaults(view, "carousel__delegate", e.Name+"__delegate"))
	if l.vertical {
		delegate.Set("width", "PathView.view.width")
		delegate.Set("height", "PathView.view.itemMainLength")
	} else {
		delegate.Set("width", "PathView.view.itemMainLength")
		delegate.Set("height", "PathView.view.height")
	}

	const innerID = "innerDelegate"
	inner := NewNode("Item", map[string]string{"id": innerID})

	align := l.logoAlignment
	if align == "center" {
		inner.Set("anchors.centerIn", "parent")
	} else {
		inner.Set("anchors."+align, "parent."+align)
	}
	switch align {
	case "left", "right":
		inner.Set("anchors."+align+"Margin", "width * 0.1")
	case "top", "bottom":
		inner.Set("anchors."+align+"Margin", "height * 0.1")
	}
	if l.vertical {
		inner.Set("anchors.verticalCenter", "parent.verticalCenter")
	} else {
		inner.Set("anchors.horizontalCenter", "parent.horizontalCenter")
	}

	// Scaled by hand so the anchored side stays in place.
	scale := fmt.Sprintf("(selected ? %s : 1.0)", f(l.logoScale))
	inner.Set("width", fmt.Sprintf("%s * %s * root.width", scale, f(l.logoSize.A)))
	inner.Set("height", fmt.Sprintf("%s * %s * root.height", scale, f(l.logoSize.B)))
	inner.Extra = append(inner.Extra,
		"Behavior on width { NumberAnimation { duration: 200 } }",
		"Behavior on height { NumberAnimation { duration: 200 } }",
	)

	if l.wheel {
		inner.SetNamed("transform", NewNode("Rotation", map[string]string{
			"origin.x": fmt.Sprintf("%s.width * %s", innerID, f(l.rotationOrigin.A)),
			"origin.y": fmt.Sprintf("%s.height * %s", innerID, f(l.rotationOrigin.B)),
			"angle":    innerID + ".parent.PathView.itemRotation",
		}))
	}

	logo := NewNode("Image", r.defaults(view, "carousel__logo", e.Name+"__logo"))
	logo.Extra = append(logo.Extra, "Behavior on opacity { NumberAnimation { duration: 120 } }")
	label := NewNode("Text", r.defaults(view, "carousel__label", e.Name+"__label"))
	inner.Append(logo, label)

	delegate.Append(inner)
	return delegate
}

// systemInfo is the game count line under the carousel. It fades in a
// moment after the selection settles.
func (r *Renderer) systemInfo(view string, e *theme.Element) (*Node, error) {
	n, err := r.text(view, e)
	if err != nil {
		return nil, err
	}
	n.Set("text", "root.model.get(currentIndex).games.count + ' GAMES AVAILABLE'")
	n.Set("readonly property alias currentIndex", "root.currentIndex")
	n.Set("onCurrentIndexChanged", "{visible = false; opacity = 0.0; fadeInTimer.restart();}")

	if !e.Has("pos") {
		n.Set("anchors.top", carouselName+".bottom")
	}
	if !e.Has("size") {
		n.Set("anchors.left", "parent.left")
		n.Set("anchors.right", "parent.right")
		n.Set("height", "font.pixelSize * 1.75")
	}

	n.Append(NewNode("Timer", map[string]string{
		"id":          "fadeInTimer",
		"interval":    "1000",
		"onTriggered": "{parent.visible = true; parent.opacity = 1.0}",
	}))
	n.Extra = append(n.Extra, "Behavior on opacity { NumberAnimation { duration: 300 } }")
	return n, nil
}

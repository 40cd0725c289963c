package qml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waozixyz/esqml/internal/props"
)

func carouselElem(typ string) map[string]props.Value {
	return map[string]props.Value{
		"type":               props.Text(typ),
		"size":               props.Pair{A: 1, B: 0.2325},
		"pos":                props.Pair{A: 0, B: 0.38375},
		"color":              props.Color{Raw: "FFFFFFD8", Hex: "FFFFFF", Opacity: 216.0 / 255},
		"logoScale":          props.Number(1.2),
		"logoRotation":       props.Number(7.5),
		"logoRotationOrigin": props.Pair{A: -5, B: 0.5},
		"logoSize":           props.Pair{A: 0.25, B: 0.155},
		"logoAlignment":      props.Text("center"),
		"maxLogoCount":       props.Number(3),
		"zIndex":             props.Number(40),
	}
}

func TestSystemCarouselHorizontal(t *testing.T) {
	r, _ := newTestRenderer(t)
	e := elem("systemcarousel", "carousel", false, carouselElem("horizontal"))

	container := r.systemCarousel("system", e)
	assert.Equal(t, "Rectangle", container.Type)
	assert.Equal(t, "systemcarousel", container.Props["id"])
	assert.Equal(t, "1.0 * root.width", container.Props["width"])
	assert.Equal(t, "0.38375 * root.height", container.Props["y"])
	assert.Equal(t, "'#D8FFFFFF'", container.Props["color"])
	assert.Equal(t, "40.0", container.Props["z"])

	require.Len(t, container.Children, 1)
	pathView := container.Children[0]
	assert.Equal(t, "logoAxis", pathView.Props["id"])
	assert.Equal(t, "decrementCurrentIndex()", pathView.Props["Keys.onLeftPressed"])
	assert.Equal(t, "width / 3.0", pathView.Props["readonly property int itemMainLength"])
	assert.Contains(t, pathView.Props["pathItemCount"], "Math.ceil(width / itemMainLength)")

	require.Len(t, pathView.Named, 2)
	path := pathView.Named[0].Node
	assert.Equal(t, "path", pathView.Named[0].Name)
	assert.Equal(t, "(logoAxis.width - logoAxis.pathLength) / 2", path.Props["startX"])
	require.Len(t, path.Children, 1)
	assert.Equal(t, "PathLine", path.Children[0].Type)

	delegate := pathView.Named[1].Node
	assert.Equal(t, "PathView.view.itemMainLength", delegate.Props["width"])
	require.Len(t, delegate.Children, 1)
	inner := delegate.Children[0]
	assert.Equal(t, "parent", inner.Props["anchors.centerIn"])
	assert.Equal(t, "parent.horizontalCenter", inner.Props["anchors.horizontalCenter"])
	assert.Equal(t, "(selected ? 1.2 : 1.0) * 0.25 * root.width", inner.Props["width"])
	assert.Empty(t, inner.Named)
	require.Len(t, inner.Children, 2)
	assert.Equal(t, "logoImage", inner.Children[0].Props["id"])
	assert.Equal(t, "logoText", inner.Children[1].Props["id"])
}

func TestSystemCarouselVerticalWheel(t *testing.T) {
	r, _ := newTestRenderer(t)
	params := carouselElem("vertical_wheel")
	params["logoAlignment"] = props.Text("left")
	e := elem("systemcarousel", "carousel", false, params)

	pathView := r.systemCarousel("system", e).Children[0]
	assert.Equal(t, "incrementCurrentIndex()", pathView.Props["Keys.onDownPressed"])
	assert.Equal(t, "height / 7.0", pathView.Props["readonly property int itemMainLength"])

	path := pathView.Named[0].Node
	require.Len(t, path.Children, 3)
	assert.Equal(t, "logoAxis.pathItemCount / -2 * 7.5", path.Children[0].Props["value"])
	assert.Equal(t, "PathLine", path.Children[1].Type)
	assert.Equal(t, "logoAxis.pathItemCount / 2 * 7.5", path.Children[2].Props["value"])

	inner := pathView.Named[1].Node.Children[0]
	assert.Equal(t, "parent.left", inner.Props["anchors.left"])
	assert.Equal(t, "width * 0.1", inner.Props["anchors.leftMargin"])
	assert.Equal(t, "parent.verticalCenter", inner.Props["anchors.verticalCenter"])
	require.Len(t, inner.Named, 1)
	assert.Equal(t, "transform", inner.Named[0].Name)
	assert.Equal(t, "innerDelegate.width * -5.0", inner.Named[0].Node.Props["origin.x"])
}

func TestSystemInfo(t *testing.T) {
	r, _ := newTestRenderer(t)
	e := elem("systemInfo", "text", false, map[string]props.Value{
		"fontSize": props.Number(0.035),
	})

	n, err := r.systemInfo("system", e)
	require.NoError(t, err)
	assert.Equal(t, "root.model.get(currentIndex).games.count + ' GAMES AVAILABLE'", n.Props["text"])
	assert.Equal(t, "systemcarousel.bottom", n.Props["anchors.top"])
	assert.Equal(t, "font.pixelSize * 1.75", n.Props["height"])
	require.Len(t, n.Children, 1)
	assert.Equal(t, "fadeInTimer", n.Children[0].Props["id"])
	assert.Equal(t, []string{"Behavior on opacity { NumberAnimation { duration: 300 } }"}, n.Extra)
}

func TestRenderSystemSelector(t *testing.T) {
	r, _ := newTestRenderer(t)

	carousel, info, err := r.RenderSystemSelector(view("system"))
	require.NoError(t, err)
	assert.Empty(t, carousel)
	assert.Empty(t, info)

	v := view("system",
		elem("systemcarousel", "carousel", false, carouselElem("horizontal")),
		elem("systemInfo", "text", false, nil),
	)
	carousel, info, err = r.RenderSystemSelector(v)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(carousel, "Rectangle {\n    "), carousel)
	assert.True(t, strings.HasSuffix(carousel, "\n  }"), carousel)
	assert.True(t, strings.HasPrefix(info, "Text {"), info)
}

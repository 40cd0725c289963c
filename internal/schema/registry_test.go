package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waozixyz/esqml/internal/props"
)

func loadRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Load()
	require.NoError(t, err)
	return r
}

func TestLoadEmbedded(t *testing.T) {
	r := loadRegistry(t)

	assert.Equal(t, 6, r.MaxFormatVersion())
	assert.Equal(t, []string{"system", "basic", "detailed"}, r.Views())
	assert.True(t, r.IsSupportedView("detailed"))
	assert.False(t, r.IsSupportedView("grid"))
}

func TestPropTypes(t *testing.T) {
	r := loadRegistry(t)

	tests := []struct {
		kind, prop string
		want       props.Type
		ok         bool
	}{
		{"image", "pos", props.TypePair, true},
		{"image", "path", props.TypePath, true},
		{"image", "tile", props.TypeBool, true},
		{"text", "color", props.TypeColor, true},
		{"text", "fontSize", props.TypeFloat, true},
		{"text", "text", props.TypeString, true},
		{"image", "fontSize", props.TypeInvalid, false},
		{"video", "pos", props.TypeInvalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"."+tt.prop, func(t *testing.T) {
			got, ok := r.PropType(tt.kind, tt.prop)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReservedItems(t *testing.T) {
	r := loadRegistry(t)

	kind, ok := r.Reserved("detailed", "md_rating")
	assert.True(t, ok)
	assert.Equal(t, "rating", kind)

	kind, ok = r.Reserved("system", "systemcarousel")
	assert.True(t, ok)
	assert.Equal(t, "carousel", kind)

	_, ok = r.Reserved("basic", "md_rating")
	assert.False(t, ok)

	_, ok = r.Reserved("basic", "help")
	assert.True(t, ok)

	var names []string
	for _, item := range r.DefaultItems("basic") {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"background", "logo", "logoText", "gamelist"}, names)
}

func TestKindFlags(t *testing.T) {
	r := loadRegistry(t)

	for _, kind := range []string{"datetime", "carousel", "imagegrid", "textlist"} {
		assert.True(t, r.IsRestricted(kind), kind)
	}
	assert.False(t, r.IsRestricted("image"))
	assert.True(t, r.IsDisabled("helpsystem"))
	assert.False(t, r.IsDisabled("text"))
	assert.True(t, r.IsKnownKind("helpsystem"))
	assert.False(t, r.IsKnownKind("video"))
}

func TestZOrder(t *testing.T) {
	r := loadRegistry(t)

	assert.Equal(t, 0.0, r.ZOrder("background"))
	assert.Equal(t, 50.0, r.ZOrder("logo"))
	assert.Equal(t, FallbackZOrder, r.ZOrder("my_extra"))
}

func TestThemeDefaults(t *testing.T) {
	r := loadRegistry(t)

	got := r.ThemeDefaults("detailed", "datetime", "md_lastplayed")
	assert.Equal(t, "true", got["displayRelative"])
	assert.Equal(t, "%Y-%m-%d", got["format"])
	assert.Equal(t, "0.045", got["fontSize"], "datetime inherits text defaults")

	got = r.ThemeDefaults("detailed", "text", "md_name")
	assert.Equal(t, "aaaaaa", got["color"])
	assert.Equal(t, "center", got["alignment"])
	assert.Equal(t, "1.5", got["lineSpacing"])
}

func TestRenderDefaultsLabelGrid(t *testing.T) {
	r := loadRegistry(t)

	first := r.RenderDefaults("detailed", "text", "md_lbl_rating")
	assert.Equal(t, "0.01 * root.width", first["x"])
	assert.Equal(t, "0.625 * root.height", first["y"])
	assert.Equal(t, "0.035 * root.height", first["font.pixelSize"])

	second := r.RenderDefaults("detailed", "text", "md_lbl_releasedate")
	assert.Equal(t, "md_lbl_rating.x", second["x"])
	assert.Equal(t, "md_lbl_rating.y + md_lbl_rating.height", second["y"])

	column := r.RenderDefaults("detailed", "text", "md_lbl_genre")
	assert.Equal(t, "0.25 * root.width", column["x"])
	assert.Equal(t, "0.625 * root.height", column["y"])

	dev := r.RenderDefaults("detailed", "text", "md_developer")
	assert.Equal(t, "currentGame.developer || 'unknown'", dev["text"])
	assert.Equal(t, "md_lbl_developer.x + md_lbl_developer.width", dev["x"])
	assert.Equal(t, "0.24 * root.width - md_lbl_developer.width", dev["width"])
	assert.Equal(t, "Text.ElideRight", dev["elide"])
	assert.Equal(t, "Text.PlainText", dev["textFormat"])

	rating := r.RenderDefaults("detailed", "rating", "md_rating")
	assert.Equal(t, "md_lbl_rating.font.pixelSize", rating["height"])
	assert.Equal(t, "currentGame.rating", rating["percentage"])
	assert.NotContains(t, rating, "width")

	desc := r.RenderDefaults("detailed", "text", "md_description")
	assert.Equal(t, "md_lbl_playcount.y + md_lbl_playcount.height + 0.01 * root.height", desc["y"])
	assert.Equal(t, "Text.AlignTop", desc["verticalAlignment"])

	releasedate := r.RenderDefaults("detailed", "datetime", "md_releasedate")
	assert.Equal(t, "Text.PlainText", releasedate["textFormat"], "datetime extends text")
}

func TestRenderDefaultsSkipGenericLevel(t *testing.T) {
	r := loadRegistry(t)
	got := r.RenderDefaults("basic", "image", "background")
	assert.Equal(t, "Image.PreserveAspectFit", got["fillMode"])
	assert.NotContains(t, got, "size")
}

func TestBuildRejectsBadSchema(t *testing.T) {
	_, err := build([]byte("kinds:\n  image:\n    props:\n      pos: vector\n"), []byte("{}"))
	assert.Error(t, err)

	_, err = build([]byte("views:\n  - name: basic\n    items:\n      - {name: x, kind: nope}\n"), []byte("{}"))
	assert.Error(t, err)

	_, err = build(schemaData, []byte("theme:\n  - key: [a, b]\n"))
	assert.Error(t, err)
}

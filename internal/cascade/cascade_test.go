package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		{"*", "*", "*"}:                 {"generic": "g"},
		{"*", "text", "*"}:              {"color": "000000", "fontSize": "0.045", "alignment": "left"},
		{"detailed", "text", "*"}:       {"color": "111111"},
		{"*", "text", "md_name"}:        {"alignment": "center", "color": "222222"},
		{"detailed", "text", "md_name"}: {"color": "aaaaaa"},
		{"*", "image", "*"}:             {"fillMode": "fit"},
	}
}

func TestResolveOverrideOrder(t *testing.T) {
	table := sampleTable()

	got := table.Resolve(RenderLevels, "detailed", "text", "md_name")
	assert.Equal(t, Props{
		"color":     "aaaaaa",
		"fontSize":  "0.045",
		"alignment": "center",
	}, got)

	got = table.Resolve(RenderLevels, "basic", "text", "md_name")
	assert.Equal(t, "222222", got["color"])

	got = table.Resolve(RenderLevels, "basic", "text", "other")
	assert.Equal(t, "000000", got["color"])
	assert.Equal(t, "left", got["alignment"])
}

func TestResolveGenericLevelOnlyForDefaults(t *testing.T) {
	table := sampleTable()

	render := table.Resolve(RenderLevels, "basic", "image", "background")
	assert.NotContains(t, render, "generic")

	defaults := table.Resolve(DefaultLevels, "basic", "image", "background")
	assert.Equal(t, "g", defaults["generic"])
	assert.Equal(t, "fit", defaults["fillMode"])
}

func TestResolveOnlyKindRules(t *testing.T) {
	table := sampleTable()
	got := table.Resolve(RenderLevels, "detailed", "image", "md_name")
	assert.Equal(t, Props{"fillMode": "fit"}, got)
}

func TestResolveDoesNotMutateTable(t *testing.T) {
	table := sampleTable()
	got := table.Resolve(RenderLevels, "detailed", "text", "md_name")
	got["color"] = "changed"
	assert.Equal(t, "000000", table[Key{"*", "text", "*"}]["color"])
	assert.Equal(t, "aaaaaa", table[Key{"detailed", "text", "md_name"}]["color"])
}

func TestOverlay(t *testing.T) {
	base := Props{"a": "1", "b": "2"}
	over := Props{"b": "3", "c": "4"}
	out := Overlay(base, over)
	assert.Equal(t, Props{"a": "1", "b": "3", "c": "4"}, out)
	assert.Equal(t, Props{"a": "1", "b": "2"}, base)
	assert.Equal(t, []string{"a", "b", "c"}, out.Keys())
}

func TestBuildExtends(t *testing.T) {
	text := Key{"*", "text", "*"}
	datetime := Key{"*", "datetime", "*"}
	rules := []Rule{
		{Key: text, Props: Props{"color": "000000", "alignment": "left"}},
		{Key: datetime, Extends: []Key{text}, Props: Props{"format": "%Y", "alignment": "right"}},
	}
	table, err := Build(rules)
	require.NoError(t, err)
	assert.Equal(t, Props{"color": "000000", "alignment": "right", "format": "%Y"}, table[datetime])
	assert.Equal(t, Props{"color": "000000", "alignment": "left"}, table[text])
}

func TestBuildMergesDuplicates(t *testing.T) {
	k := Key{"detailed", "text", "md_name"}
	table, err := Build([]Rule{
		{Key: k, Props: Props{"text": "a", "x": "1"}},
		{Key: k, Props: Props{"text": "b"}},
	})
	require.NoError(t, err)
	assert.Equal(t, Props{"text": "b", "x": "1"}, table[k])
}

func TestBuildCycle(t *testing.T) {
	a := Key{"*", "a", "*"}
	b := Key{"*", "b", "*"}
	_, err := Build([]Rule{
		{Key: a, Extends: []Key{b}},
		{Key: b, Extends: []Key{a}},
	})
	assert.ErrorIs(t, err, ErrExtendsCycle)
}

func TestBuildUnknownBase(t *testing.T) {
	_, err := Build([]Rule{{Key: Key{"*", "a", "*"}, Extends: []Key{{"*", "missing", "*"}}}})
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/waozixyz/esqml/internal/config"
	"github.com/waozixyz/esqml/internal/output"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func themeDoc(body string) []byte {
	return []byte("<theme>\n<formatVersion>6</formatVersion>\n" + body + "\n</theme>\n")
}

// newTheme lays out a small theme: a root document, one good platform and
// one that fails to parse.
func newTheme(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "demo")
	writeFile(t, filepath.Join(root, "fonts", "go.ttf"), goregular.TTF)
	writeFile(t, filepath.Join(root, "theme.xml"), themeDoc(`
<view name="system">
  <image name="logo"><path>./art/logo.svg</path></image>
</view>`))
	writeFile(t, filepath.Join(root, "snes", "theme.xml"), themeDoc(`
<variables><accent>FF0000</accent></variables>
<view name="basic">
  <text name="banner" extra="true">
    <text>${system.name}</text>
    <fontPath>../fonts/go.ttf</fontPath>
    <fontSize>0.05</fontSize>
    <color>${accent}</color>
  </text>
</view>`))
	writeFile(t, filepath.Join(root, "broken", "theme.xml"), []byte(`<theme>`))
	return root
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.Load(config.New())
	require.NoError(t, err)
	return c
}

func TestBuildTheme(t *testing.T) {
	files, err := buildTheme(testConfig(t), newTheme(t))
	require.NoError(t, err)

	assert.Equal(t, "name: demo", files["theme.cfg"])
	assert.Contains(t, files, "snes/basic.qml")
	assert.Contains(t, files, "__generic/system.qml")
	assert.NotContains(t, files, "broken/basic.qml")

	basic := files["snes/basic.qml"]
	assert.Contains(t, basic, "id: x_banner")
	assert.Contains(t, basic, "font.family: theme_go.name")
	assert.Contains(t, basic, "modelData.shortName")
	assert.Contains(t, files["theme.qml"], "id: theme_go")
}

func TestBuildThemeMissingInput(t *testing.T) {
	_, err := buildTheme(testConfig(t), filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestRunConvertListsFiles(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runConvert(testConfig(t), newTheme(t), "", &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines, "theme.qml")
	assert.Contains(t, lines, "snes/basic.qml")
}

func TestRunConvertWritesOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.ResourcesDir = t.TempDir()
	writeFile(t, filepath.Join(cfg.ResourcesDir, "star.svg"), []byte("<svg/>"))

	dest := filepath.Join(t.TempDir(), "out")
	require.NoError(t, runConvert(cfg, newTheme(t), dest, &bytes.Buffer{}))

	data, err := os.ReadFile(filepath.Join(dest, "theme.cfg"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "name: demo"))
	assert.FileExists(t, filepath.Join(dest, "snes", "basic.qml"))
	assert.FileExists(t, filepath.Join(dest, output.ResourcesDir, "star.svg"))
}

func TestRunDiff(t *testing.T) {
	cfg := testConfig(t)
	input := newTheme(t)
	dest := filepath.Join(t.TempDir(), "out")
	require.NoError(t, runConvert(cfg, input, dest, &bytes.Buffer{}))

	var out bytes.Buffer
	differs, err := runDiff(cfg, input, dest, &out)
	require.NoError(t, err)
	assert.False(t, differs)
	assert.Empty(t, out.String())

	writeFile(t, filepath.Join(dest, "stale.qml"), nil)
	differs, err = runDiff(cfg, input, dest, &out)
	require.NoError(t, err)
	assert.True(t, differs)
	assert.Contains(t, out.String(), "stale.qml")
}

func TestBaseVersion(t *testing.T) {
	assert.Equal(t, "1.2.3", baseVersion("1.2.3-rc.1+build"))
	assert.Equal(t, "0.1.0", baseVersion("v0.1.0"))
	assert.Equal(t, "dev", baseVersion("dev"))
}

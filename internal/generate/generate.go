// Package generate assembles every output file of a converted theme: one
// view file per platform and view, the fallback views, and the shared
// templates with their placeholders filled in.
package generate

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/waozixyz/esqml/internal/logger"
	"github.com/waozixyz/esqml/internal/qml"
	"github.com/waozixyz/esqml/internal/schema"
	"github.com/waozixyz/esqml/internal/theme"
)

// ComponentsDir holds the shared components and the fallback views.
const ComponentsDir = "__components"

// missingViewFill paints fallback views white below everything else.
const missingViewFill = "  Rectangle { anchors.fill: parent; color: '#fff' }"

// Files maps output paths, relative to the output root and slash
// separated, to their contents.
type Files map[string]string

// Paths returns the output paths in lexical order.
func (f Files) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Generator turns loaded platforms into output files.
type Generator struct {
	reg      *schema.Registry
	renderer *qml.Renderer
	root     string
	log      *log.Logger
}

// New creates a generator. root is the theme directory.
func New(reg *schema.Registry, renderer *qml.Renderer, root string) *Generator {
	return &Generator{
		reg:      reg,
		renderer: renderer,
		root:     root,
		log:      logger.NewStyledLogger("generate"),
	}
}

// Generate renders all files of the theme. A platform whose views cannot
// be rendered is logged and left out, including from the shared tables.
func (g *Generator) Generate(themeName string, platforms []*theme.Platform, defaults map[string]*theme.View) (Files, error) {
	files := Files{}

	if err := g.missingViews(defaults, files); err != nil {
		return nil, err
	}

	var rendered []*theme.Platform
	for _, p := range platforms {
		out, err := g.platformViews(p)
		if err != nil {
			g.log.Error("Platform skipped", "platform", p.Name, "err", err)
			continue
		}
		for k, v := range out {
			files[k] = v
		}
		rendered = append(rendered, p)
	}

	for _, s := range staticFiles {
		content, err := loadTemplate(s.template)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", s.template, err)
		}
		files[s.out] = content
	}

	if err := g.fillTemplates(files, rendered, defaults); err != nil {
		return nil, err
	}

	files["theme.cfg"] = "name: " + themeName
	return files, nil
}

func (g *Generator) missingViews(defaults map[string]*theme.View, files Files) error {
	for _, name := range g.reg.Views() {
		view, ok := defaults[name]
		if !ok {
			continue
		}
		lines, err := g.renderer.RenderView(view)
		if err != nil {
			return fmt.Errorf("default %s view: %w", name, err)
		}

		// Right after the opening line of the root item.
		at := len(qml.Imports) + 1
		lines = append(lines[:at], append([]string{missingViewFill}, lines[at:]...)...)

		files[path.Join(ComponentsDir, "Missing"+title(name)+"View.qml")] = strings.Join(lines, "\n")
	}
	return nil
}

func (g *Generator) platformViews(p *theme.Platform) (Files, error) {
	out := Files{}
	for _, name := range g.reg.Views() {
		view := p.View(name)
		if view == nil {
			continue
		}
		lines, err := g.renderer.RenderView(view)
		if err != nil {
			return nil, err
		}
		out[path.Join(p.Name, name+".qml")] = strings.Join(lines, "\n")
	}
	return out, nil
}

func (g *Generator) fillTemplates(files Files, platforms []*theme.Platform, defaults map[string]*theme.View) error {
	carousel, info, err := g.systemSelector(platforms, defaults)
	if err != nil {
		return err
	}

	replace := func(file string, pairs ...string) {
		files[file] = strings.NewReplacer(pairs...).Replace(files[file])
	}

	replace("theme.qml",
		FontListPlaceholder, g.fontList(platforms))
	replace(path.Join(ComponentsDir, "DetailsView.qml"),
		PlatformsWithDetailPlaceholder, platformsWithView(platforms, "detailed"))
	replace(path.Join(ComponentsDir, "SystemView.qml"),
		PlatformLogosPlaceholder, g.platformLogos(platforms),
		PlatformsWithSystemPlaceholder, platformsWithView(platforms, "system"),
		SystemCarouselPlaceholder, carousel,
		SystemInfoPlaceholder, info)
	return nil
}

// systemSelector renders the carousel of the generic platform's system
// view, else of the first platform by name, else of the default view.
func (g *Generator) systemSelector(platforms []*theme.Platform, defaults map[string]*theme.View) (string, string, error) {
	candidates := make([]*theme.Platform, 0, len(platforms))
	for _, p := range platforms {
		if p.View("system") != nil {
			candidates = append(candidates, p)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		gi, gj := candidates[i].Name == theme.GenericPlatform, candidates[j].Name == theme.GenericPlatform
		if gi != gj {
			return gi
		}
		return candidates[i].Name < candidates[j].Name
	})

	for _, p := range candidates {
		carousel, info, err := g.renderer.RenderSystemSelector(p.View("system"))
		if err == nil {
			return carousel, info, nil
		}
		g.log.Warn("Cannot render the system carousel", "platform", p.Name, "err", err)
	}

	view, ok := defaults["system"]
	if !ok {
		return "", "", nil
	}
	return g.renderer.RenderSystemSelector(view)
}

func (g *Generator) rel(p string) string {
	if rel, err := filepath.Rel(g.root, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(p)
}

// fontList declares one FontLoader per font id. Two files sharing a base
// name map to the same id; the first one in platform and view order wins.
func (g *Generator) fontList(platforms []*theme.Platform) string {
	seen := map[string]string{}
	var lines []string
	for _, p := range platforms {
		for _, name := range g.reg.Views() {
			view := p.View(name)
			if view == nil {
				continue
			}
			for _, e := range view.Elements() {
				font, ok := e.Path("fontPath")
				if !ok {
					continue
				}
				font = filepath.Clean(font)
				id := qml.FontName(font)
				if prev, ok := seen[id]; ok {
					if prev != font {
						g.log.Warn("Font id already taken", "id", id, "font", g.rel(font), "kept", g.rel(prev))
					}
					continue
				}
				seen[id] = font
				lines = append(lines, fmt.Sprintf("  FontLoader { id: %s; source: '%s' }", id, g.rel(font)))
			}
		}
	}
	return sortedBlock(lines)
}

func (g *Generator) platformLogos(platforms []*theme.Platform) string {
	var lines []string
	for _, p := range platforms {
		view := p.View("system")
		if view == nil {
			continue
		}
		logo, ok := view.Get("logo")
		if !ok || logo.Kind != "image" {
			continue
		}
		if src, ok := logo.Path("path"); ok {
			lines = append(lines, fmt.Sprintf("    ['%s', '%s'],", p.Name, g.rel(src)))
		}
	}
	return sortedBlock(lines)
}

func platformsWithView(platforms []*theme.Platform, view string) string {
	var lines []string
	for _, p := range platforms {
		if p.View(view) != nil {
			lines = append(lines, fmt.Sprintf("    '%s',", p.Name))
		}
	}
	return sortedBlock(lines)
}

// sortedBlock joins sorted lines. The outer whitespace is dropped since
// the placeholder already sits at the right indent.
func sortedBlock(lines []string) string {
	sort.Strings(lines)
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

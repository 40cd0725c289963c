// Package schema holds the static knowledge about theme documents: element
// kinds and their property types, the reserved items of every view, the
// z-order table and the two default-property cascade tables.
//
// A Registry is built once from embedded YAML and never modified afterwards.
package schema

import (
	_ "embed"
	"fmt"

	"github.com/waozixyz/esqml/internal/cascade"
	"github.com/waozixyz/esqml/internal/props"
	"gopkg.in/yaml.v3"
)

//go:embed data/schema.yaml
var schemaData []byte

//go:embed data/defaults.yaml
var defaultsData []byte

// FallbackZOrder is used for elements without a zIndex and without an
// entry in the z-order table.
const FallbackZOrder = 10.0

// Item is a reserved item of a view.
type Item struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Default bool   `yaml:"default"`
}

type schemaFile struct {
	MaxFormatVersion int                 `yaml:"maxFormatVersion"`
	Restricted       []string            `yaml:"restricted"`
	Kinds            map[string]kindFile `yaml:"kinds"`
	Views            []viewFile          `yaml:"views"`
	ZOrders          map[string]float64  `yaml:"zOrders"`
}

type kindFile struct {
	Disabled bool              `yaml:"disabled"`
	Props    map[string]string `yaml:"props"`
}

type viewFile struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

type defaultsFile struct {
	Theme  []ruleFile `yaml:"theme"`
	Render []ruleFile `yaml:"render"`
}

type ruleFile struct {
	Key     []string          `yaml:"key"`
	Extends [][]string        `yaml:"extends"`
	Props   map[string]string `yaml:"props"`
}

type kindInfo struct {
	disabled bool
	props    map[string]props.Type
}

type viewInfo struct {
	name     string
	items    []Item
	reserved map[string]string
}

// Registry is the immutable schema. All methods are safe for concurrent use.
type Registry struct {
	maxFormatVersion int
	kinds            map[string]kindInfo
	restricted       map[string]bool
	views            []viewInfo
	viewIndex        map[string]int
	zOrders          map[string]float64
	themeDefaults    cascade.Table
	renderDefaults   cascade.Table
}

// Load builds the registry from the embedded schema and default tables.
func Load() (*Registry, error) {
	return build(schemaData, defaultsData)
}

func build(schemaYAML, defaultsYAML []byte) (*Registry, error) {
	var sf schemaFile
	if err := yaml.Unmarshal(schemaYAML, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	var df defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &df); err != nil {
		return nil, fmt.Errorf("failed to parse default tables: %w", err)
	}

	r := &Registry{
		maxFormatVersion: sf.MaxFormatVersion,
		kinds:            make(map[string]kindInfo, len(sf.Kinds)),
		restricted:       make(map[string]bool, len(sf.Restricted)),
		viewIndex:        make(map[string]int, len(sf.Views)),
		zOrders:          sf.ZOrders,
	}
	if r.zOrders == nil {
		r.zOrders = map[string]float64{}
	}

	for name, kf := range sf.Kinds {
		info := kindInfo{disabled: kf.Disabled, props: make(map[string]props.Type, len(kf.Props))}
		for prop, typeName := range kf.Props {
			t, ok := props.ParseType(typeName)
			if !ok {
				return nil, fmt.Errorf("kind %s, property %s: unknown type %q", name, prop, typeName)
			}
			info.props[prop] = t
		}
		r.kinds[name] = info
	}
	for _, kind := range sf.Restricted {
		r.restricted[kind] = true
	}

	for _, vf := range sf.Views {
		if _, dup := r.viewIndex[vf.Name]; dup {
			return nil, fmt.Errorf("view %s declared twice", vf.Name)
		}
		vi := viewInfo{name: vf.Name, items: vf.Items, reserved: make(map[string]string, len(vf.Items))}
		for _, item := range vf.Items {
			if _, ok := r.kinds[item.Kind]; !ok {
				return nil, fmt.Errorf("view %s, item %s: unknown kind %s", vf.Name, item.Name, item.Kind)
			}
			vi.reserved[item.Name] = item.Kind
		}
		r.viewIndex[vf.Name] = len(r.views)
		r.views = append(r.views, vi)
	}

	themeRules, err := convertRules(df.Theme)
	if err != nil {
		return nil, fmt.Errorf("theme defaults: %w", err)
	}
	if r.themeDefaults, err = cascade.Build(themeRules); err != nil {
		return nil, fmt.Errorf("theme defaults: %w", err)
	}

	renderRules, err := convertRules(df.Render)
	if err != nil {
		return nil, fmt.Errorf("render defaults: %w", err)
	}
	renderRules = append(renderRules, r.labelRules()...)
	if r.renderDefaults, err = cascade.Build(renderRules); err != nil {
		return nil, fmt.Errorf("render defaults: %w", err)
	}

	return r, nil
}

func convertRules(in []ruleFile) ([]cascade.Rule, error) {
	out := make([]cascade.Rule, 0, len(in))
	for i, rf := range in {
		key, err := toKey(rf.Key)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rule := cascade.Rule{Key: key, Props: cascade.Props(rf.Props)}
		for _, ext := range rf.Extends {
			base, err := toKey(ext)
			if err != nil {
				return nil, fmt.Errorf("rule %s extends: %w", key, err)
			}
			rule.Extends = append(rule.Extends, base)
		}
		out = append(out, rule)
	}
	return out, nil
}

func toKey(fields []string) (cascade.Key, error) {
	if len(fields) != 3 {
		return cascade.Key{}, fmt.Errorf("rule key needs 3 fields, got %d", len(fields))
	}
	return cascade.Key{View: fields[0], Kind: fields[1], Name: fields[2]}, nil
}

// MaxFormatVersion is the newest theme format version the converter knows.
func (r *Registry) MaxFormatVersion() int { return r.maxFormatVersion }

// IsKnownKind reports whether kind is an element kind of the schema.
func (r *Registry) IsKnownKind(kind string) bool {
	_, ok := r.kinds[kind]
	return ok
}

// PropType returns the type of a property of kind.
func (r *Registry) PropType(kind, prop string) (props.Type, bool) {
	info, ok := r.kinds[kind]
	if !ok {
		return props.TypeInvalid, false
	}
	t, ok := info.props[prop]
	return t, ok
}

// IsRestricted reports whether kind depends on per-game data and therefore
// cannot be rendered as an extra.
func (r *Registry) IsRestricted(kind string) bool { return r.restricted[kind] }

// IsDisabled reports whether kind is parsed but never rendered.
func (r *Registry) IsDisabled(kind string) bool { return r.kinds[kind].disabled }

// Views returns the supported view names in declaration order.
func (r *Registry) Views() []string {
	names := make([]string, len(r.views))
	for i, v := range r.views {
		names[i] = v.name
	}
	return names
}

// IsSupportedView reports whether view is a known view.
func (r *Registry) IsSupportedView(view string) bool {
	_, ok := r.viewIndex[view]
	return ok
}

// Reserved returns the kind an item name is reserved for in view.
func (r *Registry) Reserved(view, name string) (string, bool) {
	idx, ok := r.viewIndex[view]
	if !ok {
		return "", false
	}
	kind, ok := r.views[idx].reserved[name]
	return kind, ok
}

// Items returns all reserved items of view in declaration order.
func (r *Registry) Items(view string) []Item {
	idx, ok := r.viewIndex[view]
	if !ok {
		return nil
	}
	return append([]Item(nil), r.views[idx].items...)
}

// DefaultItems returns the items the default view synthesizer materializes.
func (r *Registry) DefaultItems(view string) []Item {
	var out []Item
	for _, item := range r.Items(view) {
		if item.Default {
			out = append(out, item)
		}
	}
	return out
}

// ZOrder returns the static stacking order of an item name.
func (r *Registry) ZOrder(name string) float64 {
	if z, ok := r.zOrders[name]; ok {
		return z
	}
	return FallbackZOrder
}

// ThemeDefaults resolves the theme-level defaults of one item, including
// the fully generic level.
func (r *Registry) ThemeDefaults(view, kind, name string) cascade.Props {
	return r.themeDefaults.Resolve(cascade.DefaultLevels, view, kind, name)
}

// RenderDefaults resolves the render-level defaults of one item. The
// returned map is a fresh copy owned by the caller.
func (r *Registry) RenderDefaults(view, kind, name string) cascade.Props {
	return r.renderDefaults.Resolve(cascade.RenderLevels, view, kind, name)
}

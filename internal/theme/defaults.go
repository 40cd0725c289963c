package theme

import (
	"fmt"

	"github.com/waozixyz/esqml/internal/props"
	"github.com/waozixyz/esqml/internal/schema"
)

// DefaultViews builds the fallback views from the registry alone: one
// element per default item, with the theme-level cascade resolved through
// all five levels. Properties the item kind does not accept are dropped.
// Paths are joined with rootDir.
func DefaultViews(reg *schema.Registry, rootDir string) (map[string]*View, error) {
	views := make(map[string]*View)
	for _, viewName := range reg.Views() {
		view := NewView(viewName)
		for _, item := range reg.DefaultItems(viewName) {
			elem := newElement(item.Name, item.Kind)
			raw := reg.ThemeDefaults(viewName, item.Kind, item.Name)
			for _, propName := range raw.Keys() {
				t, ok := reg.PropType(item.Kind, propName)
				if !ok {
					continue
				}
				v, err := props.Parse(rootDir, t, raw[propName])
				if err != nil {
					return nil, fmt.Errorf("default %s.%s.%s: %w", viewName, item.Name, propName, err)
				}
				elem.Params[propName] = v
			}
			view.Add(elem)
		}
		views[viewName] = view
	}
	return views, nil
}

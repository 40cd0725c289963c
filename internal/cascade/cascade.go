// Package cascade resolves wildcard default-property rules into the
// effective property set of one (view, kind, name) triple.
//
// Rules are keyed by a triple where any field may be the wildcard "*".
// Resolution walks an explicit list of levels from general to specific;
// each level overwrites same-named keys of the previous ones.
package cascade

import (
	"fmt"
	"sort"
)

// Wildcard matches any view, kind or name.
const Wildcard = "*"

// Key addresses one rule. It is a lookup key only and never stored on an element.
type Key struct {
	View string
	Kind string
	Name string
}

func (k Key) String() string { return fmt.Sprintf("(%s, %s, %s)", k.View, k.Kind, k.Name) }

// Props maps property names to their raw text.
type Props map[string]string

// Table holds the rules of one default-property set.
type Table map[Key]Props

// Level builds the key of one cascade step from the queried triple.
type Level func(view, kind, name string) Key

var (
	anyAny   Level = func(_, _, _ string) Key { return Key{Wildcard, Wildcard, Wildcard} }
	anyKind  Level = func(_, kind, _ string) Key { return Key{Wildcard, kind, Wildcard} }
	viewKind Level = func(view, kind, _ string) Key { return Key{view, kind, Wildcard} }
	anyName  Level = func(_, kind, name string) Key { return Key{Wildcard, kind, name} }
	viewName Level = func(view, kind, name string) Key { return Key{view, kind, name} }
)

// DefaultLevels is used when synthesizing default views: all five levels,
// starting at the fully generic rule.
var DefaultLevels = []Level{anyAny, anyKind, viewKind, anyName, viewName}

// RenderLevels is used at render time. It omits the fully generic rule;
// render defaults are always kind specific.
var RenderLevels = []Level{anyKind, viewKind, anyName, viewName}

// Overlay returns a new map holding base with over applied on top.
// Neither argument is modified.
func Overlay(base, over Props) Props {
	out := make(Props, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Resolve merges the rules found at each level, in order.
func (t Table) Resolve(levels []Level, view, kind, name string) Props {
	out := Props{}
	for _, level := range levels {
		if rule, ok := t[level(view, kind, name)]; ok {
			out = Overlay(out, rule)
		}
	}
	return out
}

// Keys returns the property names in lexical order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy of p.
func (p Props) Clone() Props { return Overlay(nil, p) }

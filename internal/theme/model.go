// Package theme loads legacy theme documents into a normalized model: per
// platform, per view, an ordered set of named elements with typed params.
package theme

import (
	"github.com/waozixyz/esqml/internal/props"
)

// GenericPlatform is the key of the root-level theme document.
const GenericPlatform = "__generic"

// Element is one named item of a view.
type Element struct {
	Name    string
	Kind    string
	IsExtra bool
	Params  map[string]props.Value
}

func newElement(name, kind string) *Element {
	return &Element{Name: name, Kind: kind, Params: map[string]props.Value{}}
}

// Has reports whether the param is set.
func (e *Element) Has(name string) bool {
	_, ok := e.Params[name]
	return ok
}

// Pair returns a pair param.
func (e *Element) Pair(name string) (props.Pair, bool) {
	v, ok := e.Params[name].(props.Pair)
	return v, ok
}

// Number returns a float param.
func (e *Element) Number(name string) (float64, bool) {
	v, ok := e.Params[name].(props.Number)
	return float64(v), ok
}

// Bool returns a boolean param.
func (e *Element) Bool(name string) (bool, bool) {
	v, ok := e.Params[name].(props.Bool)
	return bool(v), ok
}

// Text returns a string param.
func (e *Element) Text(name string) (string, bool) {
	v, ok := e.Params[name].(props.Text)
	return string(v), ok
}

// Color returns a color param.
func (e *Element) Color(name string) (props.Color, bool) {
	v, ok := e.Params[name].(props.Color)
	return v, ok
}

// Path returns a path param.
func (e *Element) Path(name string) (string, bool) {
	v, ok := e.Params[name].(props.Path)
	return string(v), ok
}

// mergeParams returns a new map with over applied on top of base.
func mergeParams(base, over map[string]props.Value) map[string]props.Value {
	out := make(map[string]props.Value, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// View is an ordered set of elements keyed by name. Elements keep the
// order of their first reference.
type View struct {
	Name  string
	order []string
	elems map[string]*Element
}

// NewView creates an empty view.
func NewView(name string) *View {
	return &View{Name: name, elems: map[string]*Element{}}
}

// Get returns the element with the given name.
func (v *View) Get(name string) (*Element, bool) {
	e, ok := v.elems[name]
	return e, ok
}

// Elements returns the elements in first-reference order.
func (v *View) Elements() []*Element {
	out := make([]*Element, 0, len(v.order))
	for _, name := range v.order {
		out = append(out, v.elems[name])
	}
	return out
}

// Len returns the number of elements.
func (v *View) Len() int { return len(v.order) }

// Add inserts e, replacing an element of the same name in place.
func (v *View) Add(e *Element) {
	if _, ok := v.elems[e.Name]; !ok {
		v.order = append(v.order, e.Name)
	}
	v.elems[e.Name] = e
}

// Platform is the theme data of one platform directory (or the generic
// root document). It is read-only once loading returns.
type Platform struct {
	Name      string
	Views     map[string]*View
	Variables Variables
}

// View returns the named view or nil.
func (p *Platform) View(name string) *View { return p.Views[name] }

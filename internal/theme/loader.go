package theme

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/waozixyz/esqml/internal/logger"
	"github.com/waozixyz/esqml/internal/props"
	"github.com/waozixyz/esqml/internal/schema"
)

// DefaultThemeFile is the document name looked up in every platform directory.
const DefaultThemeFile = "theme.xml"

// DefaultMaxIncludeDepth bounds include nesting when Options leaves it unset.
const DefaultMaxIncludeDepth = 16

var (
	viewNameSplit = regexp.MustCompile(`[,\s]+`)
	itemNameSplit = regexp.MustCompile(`,\s*`)
)

// Options tune the loader. Zero values select the defaults.
type Options struct {
	ThemeFile        string
	MaxFormatVersion int
	MaxIncludeDepth  int
}

// Loader reads theme documents into platforms. A Loader accumulates
// diagnostics over every platform it loads.
type Loader struct {
	reg  *schema.Registry
	opts Options
	log  *log.Logger
	diag *Diagnostics
}

// NewLoader creates a loader backed by reg.
func NewLoader(reg *schema.Registry, opts Options) *Loader {
	if opts.ThemeFile == "" {
		opts.ThemeFile = DefaultThemeFile
	}
	if opts.MaxFormatVersion <= 0 {
		opts.MaxFormatVersion = reg.MaxFormatVersion()
	}
	if opts.MaxIncludeDepth <= 0 {
		opts.MaxIncludeDepth = DefaultMaxIncludeDepth
	}
	return &Loader{
		reg:  reg,
		opts: opts,
		log:  logger.NewStyledLogger("loader"),
		diag: &Diagnostics{},
	}
}

// Diagnostics returns the warnings collected so far.
func (l *Loader) Diagnostics() *Diagnostics { return l.diag }

// loadState is the mutable state of one platform while its documents are read.
type loadState struct {
	rootDir     string
	variables   Variables
	views       map[string]*View
	active      map[string]bool
	unsupported map[string]struct{}
}

// LoadPlatform reads the document at xmlPath, its includes, and merges the
// result over the default views. Any returned error is a *PlatformError.
func (l *Loader) LoadPlatform(name, rootDir, xmlPath string) (*Platform, error) {
	views, err := DefaultViews(l.reg, rootDir)
	if err != nil {
		return nil, &PlatformError{Platform: name, Err: err}
	}

	st := &loadState{
		rootDir:     rootDir,
		variables:   Variables{},
		views:       views,
		active:      map[string]bool{},
		unsupported: map[string]struct{}{},
	}
	if err := l.readDocument(st, xmlPath, 0, true); err != nil {
		return nil, &PlatformError{Platform: name, Err: err}
	}

	l.diag.addUnsupported(st.unsupported)
	return &Platform{Name: name, Views: st.views, Variables: st.variables}, nil
}

func (l *Loader) warn(path, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.log.Warn(msg, "path", path)
	l.diag.add(path, msg)
}

// readDocument processes one document: version check, variables, includes
// (depth first, before the document's own views), then the root feature
// group and every <feature> group.
func (l *Loader) readDocument(st *loadState, path string, depth int, checkVersion bool) error {
	if depth > l.opts.MaxIncludeDepth {
		return fmt.Errorf("%w (%d): processing %s", ErrIncludeDepth, l.opts.MaxIncludeDepth, path)
	}

	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	key = filepath.Clean(key)
	if st.active[key] {
		return fmt.Errorf("%w: %s includes itself", ErrIncludeCycle, path)
	}
	st.active[key] = true
	defer delete(st.active, key)

	l.log.Debug("Reading document", "path", path, "depth", depth)
	root, err := loadDocument(path)
	if err != nil {
		return err
	}

	if checkVersion {
		l.checkFormatVersion(path, root)
	}

	st.variables.collect(root)

	baseDir := filepath.Dir(path)
	for _, inc := range root.all("include") {
		text := inc.trimmedText()
		if text == "" {
			l.warn(path, "Found an empty include")
			continue
		}
		incPath := filepath.Join(baseDir, text)
		if err := l.readDocument(st, incPath, depth+1, false); err != nil {
			return fmt.Errorf("in include %s (from %s): %w", incPath, path, err)
		}
	}

	groups := append([]*node{root}, root.all("feature")...)
	for _, group := range groups {
		for _, viewNode := range group.all("view") {
			nameAttr, _ := viewNode.attr("name")
			for _, viewName := range splitNames(viewNameSplit, nameAttr) {
				if !l.reg.IsSupportedView(viewName) {
					continue
				}
				view, ok := st.views[viewName]
				if !ok {
					view = NewView(viewName)
					st.views[viewName] = view
				}
				l.readView(st, path, viewName, viewNode, view)
			}
		}
	}
	return nil
}

// checkFormatVersion never fails; every problem is a warning.
func (l *Loader) checkFormatVersion(path string, root *node) {
	n := root.child("formatVersion")
	if n == nil {
		l.warn(path, "No <formatVersion> tag found")
		return
	}
	text := n.trimmedText()
	if text == "" {
		l.warn(path, "The <formatVersion> is empty")
		return
	}
	version, err := strconv.Atoi(text)
	if err != nil {
		l.warn(path, "The <formatVersion> seems to be an invalid number")
		return
	}
	if version > l.opts.MaxFormatVersion {
		l.warn(path, "This theme may use features not yet supported (format version %d, supported up to %d)",
			version, l.opts.MaxFormatVersion)
	}
}

func splitNames(re *regexp.Regexp, s string) []string {
	var out []string
	for _, part := range re.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readView applies one <view> block to a view.
func (l *Loader) readView(st *loadState, path, viewName string, viewNode *node, view *View) {
	baseDir := filepath.Dir(path)

	for _, elemNode := range viewNode.children {
		kind := elemNode.tag
		if !l.reg.IsKnownKind(kind) {
			st.unsupported[kind] = struct{}{}
			continue
		}

		nameAttr, ok := elemNode.attr("name")
		if !ok {
			l.warn(path, "A `%s` element has no `name` field", kind)
			continue
		}
		names := splitNames(itemNameSplit, nameAttr)
		if len(names) == 0 {
			l.warn(path, "A `%s` element's `name` field has no items", kind)
			continue
		}

		_, isExtra := elemNode.attr("extra")
		found := make(map[string]props.Value, len(elemNode.children))
		for _, param := range elemNode.children {
			v, err := l.parseProperty(st, baseDir, kind, param)
			if err != nil {
				l.warn(path, "%v", err)
				continue
			}
			found[param.tag] = v
		}

		for _, itemName := range names {
			expected, reserved := l.reg.Reserved(viewName, itemName)
			if reserved && expected != kind {
				l.warn(path, "In `%s` views `%s` is a known element with type `%s`, but here it is declared as `%s`. Ignoring the properties.",
					viewName, itemName, expected, kind)
				continue
			}
			if isExtra && reserved {
				l.warn(path, "In `%s` views `%s` is a known non-extra element, but it is marked as an extra here. Ignoring the extra setting.",
					viewName, itemName)
			}
			if !isExtra && !reserved {
				l.warn(path, "In `%s` views `%s` is not a known element and should be marked as extra, but it isn't. Marking it as one.",
					viewName, itemName)
			}

			elem, exists := view.Get(itemName)
			if !exists {
				elem = newElement(itemName, kind)
				view.Add(elem)
			}
			if elem.Kind != kind {
				msg := fmt.Sprintf("A `%s` is defined with name `%s`, but there's already an item called like that with type `%s`. Entry ignored.",
					kind, itemName, elem.Kind)
				l.log.Error(msg, "path", path)
				l.diag.add(path, msg)
				continue
			}

			elem.Params = mergeParams(elem.Params, found)
			elem.IsExtra = !reserved
		}
	}
}

func (l *Loader) parseProperty(st *loadState, baseDir, kind string, param *node) (props.Value, error) {
	t, ok := l.reg.PropType(kind, param.tag)
	if !ok {
		return nil, fmt.Errorf("unknown or unsupported element parameter `%s` for `%s`", param.tag, kind)
	}
	text := param.trimmedText()
	if text == "" {
		return nil, fmt.Errorf("empty element parameter `%s` for `%s`", param.tag, kind)
	}
	text = st.variables.Substitute(text)
	if text == "" {
		return nil, fmt.Errorf("after replacing the variables, `%s` for `%s` is empty", param.tag, kind)
	}
	v, err := props.Parse(baseDir, t, text)
	if err != nil {
		return nil, fmt.Errorf("could not process element parameter `%s` for `%s` with value `%s`: %w",
			param.tag, kind, text, err)
	}
	return v, nil
}

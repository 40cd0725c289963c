package theme

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrWrongRoot means the document does not start with a <theme> element.
	ErrWrongRoot = errors.New("a theme document must start with a <theme> element")
	// ErrMalformed means the document is not well-formed XML or not decodable.
	ErrMalformed = errors.New("the file does not follow the rules of the XML format")
	// ErrIncludeCycle means a document includes itself, directly or not.
	ErrIncludeCycle = errors.New("include cycle")
	// ErrIncludeDepth means includes are nested deeper than allowed.
	ErrIncludeDepth = errors.New("maximum include depth exceeded")
)

// PlatformError is a condition that aborts the processing of one platform.
type PlatformError struct {
	Platform string
	Err      error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Platform, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// Warning is one recoverable problem found while loading.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	if w.Path == "" {
		return w.Message
	}
	return w.Path + ": " + w.Message
}

// Diagnostics collects the warnings of a load run, in emission order, and
// the set of element tags that were skipped as unsupported.
type Diagnostics struct {
	Warnings    []Warning
	unsupported map[string]struct{}
}

func (d *Diagnostics) add(path, msg string) {
	d.Warnings = append(d.Warnings, Warning{Path: path, Message: msg})
}

func (d *Diagnostics) addUnsupported(tags map[string]struct{}) {
	if d.unsupported == nil {
		d.unsupported = make(map[string]struct{}, len(tags))
	}
	for tag := range tags {
		d.unsupported[tag] = struct{}{}
	}
}

// Unsupported returns the unsupported element tags, sorted.
func (d *Diagnostics) Unsupported() []string {
	out := make([]string, 0, len(d.unsupported))
	for tag := range d.unsupported {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

package output

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Status tells how a generated file relates to the existing tree.
type Status int

const (
	Unchanged Status = iota
	Added
	Changed
	Stale
)

func (s Status) String() string {
	switch s {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Stale:
		return "stale"
	default:
		return "unchanged"
	}
}

// FileDiff is the comparison result of one path.
type FileDiff struct {
	Path   string
	Status Status
	Diffs  []diffmatchpatch.Diff
}

// Diff compares the stamped files with what is on disk below root. Files
// present on disk but no longer generated are reported as stale; the
// resource tree is ignored. Unchanged files are left out of the result.
func Diff(files map[string]string, root, version string) ([]FileDiff, error) {
	dmp := diffmatchpatch.New()
	var out []FileDiff

	for _, rel := range sortedPaths(files) {
		want := Stamp(rel, files[rel], version)

		have, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if isNotExist(err) {
			out = append(out, FileDiff{Path: rel, Status: Added})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		if string(have) == want {
			continue
		}

		a, b, lines := dmp.DiffLinesToChars(string(have), want)
		diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
		out = append(out, FileDiff{Path: rel, Status: Changed, Diffs: diffs})
	}

	stale, err := staleFiles(files, root)
	if err != nil {
		return nil, err
	}
	for _, rel := range stale {
		out = append(out, FileDiff{Path: rel, Status: Stale})
	}
	return out, nil
}

func staleFiles(files map[string]string, root string) ([]string, error) {
	var stale []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && isNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == ResourcesDir {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := files[rel]; !ok {
			stale = append(stale, rel)
		}
		return nil
	})
	sort.Strings(stale)
	return stale, err
}

// Format renders a file diff as a header line followed by the removed and
// inserted lines.
func (d FileDiff) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", d.Status, d.Path)
	for _, diff := range d.Diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(strings.TrimSuffix(line, "\n"))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

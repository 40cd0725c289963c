package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Document is a theme document found during discovery.
type Document struct {
	Platform string
	Path     string
}

// FindDocuments returns one document per platform subdirectory of root,
// sorted by directory name, followed by the root-level generic document if
// there is one. Only a failure to list root is an error.
func FindDocuments(root, themeFile string) ([]Document, error) {
	if themeFile == "" {
		themeFile = DefaultThemeFile
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot enumerate theme directory: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(root, entry.Name(), themeFile)
		if isFile(path) {
			docs = append(docs, Document{Platform: entry.Name(), Path: path})
		}
	}

	generic := filepath.Join(root, themeFile)
	if isFile(generic) {
		docs = append(docs, Document{Platform: GenericPlatform, Path: generic})
	}
	return docs, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LoadPlatforms discovers and loads every platform under root. A platform
// that fails to load is logged and left out; the rest are returned in
// discovery order. The unsupported element tags of all loaded platforms
// are reported once at the end.
func (l *Loader) LoadPlatforms(root string) ([]*Platform, error) {
	docs, err := FindDocuments(root, l.opts.ThemeFile)
	if err != nil {
		return nil, err
	}

	var platforms []*Platform
	for _, doc := range docs {
		l.log.Info("Processing platform", "platform", doc.Platform, "path", doc.Path)

		p, err := l.LoadPlatform(doc.Platform, root, doc.Path)
		if err != nil {
			var perr *PlatformError
			if !errors.As(err, &perr) {
				return nil, err
			}
			l.log.Error(perr.Err.Error(), "platform", doc.Platform)
			l.warn(doc.Path, "Platform `%s` skipped", doc.Platform)
			continue
		}
		platforms = append(platforms, p)
	}

	if unsupported := l.diag.Unsupported(); len(unsupported) > 0 {
		l.log.Warn("The following unknown or unsupported items were found in this theme:")
		for _, tag := range unsupported {
			l.log.Warn("  - " + tag)
		}
	}
	return platforms, nil
}

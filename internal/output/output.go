// Package output writes generated files to disk with their header, copies
// the bundled resources and compares a generation with an existing tree.
package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultVersion is the converter version stamped into headers.
const DefaultVersion = "0.1.0"

// ResourcesDir is the name of the copied resource tree in the output.
const ResourcesDir = "__es_resources"

// Header returns the autogenerated notice for a file. Markup and script
// files get line comments, everything else hash comments.
func Header(path, version string) string {
	if version == "" {
		version = DefaultVersion
	}
	mark := "#"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".qml", ".js":
		mark = "//"
	}
	return fmt.Sprintf("%s Autogenerated content, do not edit by hand!\n%s converter v%s\n\n", mark, mark, version)
}

// Stamp prefixes content with its header.
func Stamp(path, content, version string) string {
	return Header(path, version) + content
}

func sortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Write stamps and writes every file below root, creating directories as
// needed. Paths are slash separated and relative to root.
func Write(files map[string]string, root, version string) error {
	for _, rel := range sortedPaths(files) {
		target := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(target, []byte(Stamp(rel, files[rel], version)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}
	return nil
}

// CopyTree copies the directory src recursively into dst.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

func isNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }

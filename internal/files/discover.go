// Package files finds and watches the documents a run should fix.
package files

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a root-relative path is selected by a set of
// include and exclude globs
type Matcher struct {
	Include []string
	Exclude []string
}

// Match reports whether rel, a slash or OS separated path relative to the
// root, is included and not excluded
func (m Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(m.Include, rel) && !matchAny(m.Exclude, rel)
}

// Skip reports whether a directory can be skipped during a walk
func (m Matcher) Skip(relDir string) bool {
	rel := filepath.ToSlash(relDir)
	for _, pattern := range m.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Discover walks root and returns the absolute paths of matching files,
// sorted
func Discover(root string, m Matcher) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	var found []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && m.Skip(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.Match(rel) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, err)
	}

	slices.Sort(found)
	return found, nil
}

// Dirs returns root and every directory below it that the matcher does not
// skip
func Dirs(root string, m Matcher) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	var dirs []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		if rel != "." && m.Skip(rel) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, err)
	}
	return dirs, nil
}

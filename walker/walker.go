// Package walker discovers gettext catalogs under the locale directory
// conventions used by web framework message extraction:
//
//	<root>/locale/<lang>/LC_MESSAGES/*.po
//	<root>/conf/locale/<lang>/LC_MESSAGES/*.po
//
// plus any directory literally named "locale" anywhere under the project
// root, plus extra search paths supplied by project configuration.
package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoLocaleDirs is returned when no base locale directory exists at all.
var ErrNoLocaleDirs = errors.New("no locale directories found")

// Catalog identifies one discovered .po file.
type Catalog struct {
	// Dir is the directory containing the file (normally .../<lang>/LC_MESSAGES).
	Dir string
	// Name is the file name, e.g. "django.po".
	Name string
	// Lang is the locale code, taken from the directory two levels above
	// the file.
	Lang string
}

// Path returns the full path of the catalog file.
func (c Catalog) Path() string {
	return filepath.Join(c.Dir, c.Name)
}

// Walker enumerates catalogs under a project root.
type Walker struct {
	// Root is the project root directory.
	Root string
	// Locales restricts discovery to these locale codes. Empty means all
	// locales found under the base directories.
	Locales []string
	// Exclude lists locale codes to skip.
	Exclude []string
	// ExtraPaths are additional base locale directories from configuration.
	ExtraPaths []string
}

// baseDirs collects the existing base locale directories: the two
// conventional locations, every directory named "locale" found by a
// recursive walk, and the configured extras. The result is deduplicated
// via absolute paths and sorted for deterministic output.
func (w *Walker) baseDirs() ([]string, error) {
	candidates := []string{
		filepath.Join(w.Root, "conf", "locale"),
		filepath.Join(w.Root, "locale"),
	}
	candidates = append(candidates, w.ExtraPaths...)

	err := filepath.WalkDir(w.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep walking
		}
		if d.IsDir() && d.Name() == "locale" {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", w.Root, err)
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, dir := range candidates {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if seen[abs] {
			continue
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			continue
		}
		seen[abs] = true
		dirs = append(dirs, abs)
	}
	sort.Strings(dirs)

	if len(dirs) == 0 {
		return nil, fmt.Errorf("%w: run from your project tree or configure locale_paths", ErrNoLocaleDirs)
	}
	return dirs, nil
}

// allLocales lists the locale codes present as subdirectories of the base
// directories.
func allLocales(baseDirs []string) []string {
	var locales []string
	for _, base := range baseDirs {
		entries, err := os.ReadDir(base)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				locales = append(locales, e.Name())
			}
		}
	}
	return locales
}

// FindCatalogs returns every catalog matching the walker's locale selection,
// in deterministic order. The requested locale list narrows the search to
// <base>/<locale>/LC_MESSAGES; without one, whole base trees are searched.
func (w *Walker) FindCatalogs() ([]Catalog, error) {
	baseDirs, err := w.baseDirs()
	if err != nil {
		return nil, err
	}

	requested := w.Locales
	if len(requested) == 0 {
		requested = allLocales(baseDirs)
	}

	excluded := make(map[string]bool, len(w.Exclude))
	for _, l := range w.Exclude {
		excluded[l] = true
	}
	locales := make([]string, 0, len(requested))
	seen := make(map[string]bool)
	for _, l := range requested {
		if excluded[l] || seen[l] {
			continue
		}
		seen[l] = true
		locales = append(locales, l)
	}
	sort.Strings(locales)

	var catalogs []Catalog
	for _, base := range baseDirs {
		var searchDirs []string
		if len(locales) > 0 {
			for _, l := range locales {
				searchDirs = append(searchDirs, filepath.Join(base, l, "LC_MESSAGES"))
			}
		} else {
			searchDirs = []string{base}
		}

		for _, dir := range searchDirs {
			err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					if os.IsNotExist(err) {
						return nil // requested locale absent under this base
					}
					return err
				}
				if d.IsDir() || !strings.HasSuffix(d.Name(), ".po") {
					return nil
				}
				catalogs = append(catalogs, Catalog{
					Dir:  filepath.Dir(path),
					Name: d.Name(),
					Lang: langFromDir(filepath.Dir(path)),
				})
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("searching %s: %w", dir, err)
			}
		}
	}

	return catalogs, nil
}

// langFromDir derives the locale code for a catalog directory: the name of
// the directory two levels up from the file, i.e. the parent of LC_MESSAGES.
func langFromDir(dir string) string {
	return filepath.Base(filepath.Dir(dir))
}

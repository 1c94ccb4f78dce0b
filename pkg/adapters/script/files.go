package script

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches script files below the current directory.
const DefaultPattern = "**/*.{yaml,yml,json}"

// Expand resolves doublestar patterns (e.g. "scripts/**/*.yaml") and plain
// paths into a sorted list of files without duplicates.
func Expand(patterns ...string) ([]string, error) {
	var files []string
	for _, p := range patterns {
		if !doublestar.ValidatePathPattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", p, err)
		}
		for _, m := range matches {
			files = append(files, filepath.Clean(m))
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// Matches reports whether path matches any of the patterns.
func Matches(path string, patterns ...string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	for _, p := range patterns {
		if ok, err := doublestar.Match(filepath.ToSlash(filepath.Clean(p)), path); err == nil && ok {
			return true
		}
	}
	return false
}

// LoadAll loads every script matched by patterns.
func LoadAll(patterns ...string) ([]*Script, error) {
	files, err := Expand(patterns...)
	if err != nil {
		return nil, err
	}
	scripts := make([]*Script, 0, len(files))
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, sc)
	}
	return scripts, nil
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// Package ignore filters a directory tree for sync-tree operations using
// .syncignore files, one per directory, with the same pattern semantics
// as .gitignore.
package ignore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName is the ignore-file name Load looks for in each directory.
const FileName = ".syncignore"

// Matcher answers whether a path relative to some root should be
// skipped during a sync-tree walk. A nil *Matcher matches nothing.
type Matcher struct {
	baseDir  string
	matchers map[string]*gitignore.GitIgnore // relative dir path -> compiled patterns; "" is the root
}

// Load pre-scans baseDir for .syncignore files and compiles them. Returns
// a nil Matcher (not an error) when none are found, so callers can skip
// filtering entirely.
func Load(baseDir string) (*Matcher, error) {
	baseDir = filepath.Clean(baseDir)
	m := &Matcher{baseDir: baseDir, matchers: make(map[string]*gitignore.GitIgnore)}

	err := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || filepath.Base(path) != FileName {
			return nil
		}

		dir := filepath.Dir(path)
		relDir, err := filepath.Rel(baseDir, dir)
		if err != nil {
			return nil
		}
		if relDir == "." {
			relDir = ""
		}

		compiled, err := gitignore.CompileIgnoreFile(path)
		if err != nil {
			return nil
		}
		m.matchers[filepath.ToSlash(relDir)] = compiled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(m.matchers) == 0 {
		return nil, nil
	}
	return m, nil
}

// Match reports whether relPath (slash- or OS-separated, relative to the
// Matcher's baseDir) matches an ignore pattern in its own directory or
// any ancestor.
func (m *Matcher) Match(relPath string) bool {
	if m == nil || len(m.matchers) == 0 {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	for _, dir := range m.hierarchy(relPath) {
		matcher, ok := m.matchers[dir]
		if !ok {
			continue
		}
		pathToCheck := relPath
		if dir != "" {
			pathToCheck = strings.TrimPrefix(relPath, dir+"/")
		}
		if matcher.MatchesPath(pathToCheck) {
			return true
		}
	}
	return false
}

// MatchDir reports whether relPath names a directory that should be
// pruned entirely during a tree walk: it must match as a directory
// pattern (trailing slash) and not merely as a file pattern that happens
// to share the name.
func (m *Matcher) MatchDir(relPath string) bool {
	if m == nil {
		return false
	}
	return m.Match(relPath+"/") && !m.Match(relPath)
}

func (m *Matcher) hierarchy(relPath string) []string {
	parent := filepath.ToSlash(filepath.Dir(relPath))
	if parent == "." {
		parent = ""
	}

	levels := []string{""}
	if parent == "" {
		return levels
	}

	current := ""
	for _, part := range strings.Split(parent, "/") {
		if part == "" {
			continue
		}
		if current == "" {
			current = part
		} else {
			current = current + "/" + part
		}
		levels = append(levels, current)
	}

	sort.Slice(levels, func(i, j int) bool { return len(levels[i]) < len(levels[j]) })
	return levels
}

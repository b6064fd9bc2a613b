// Package scanner discovers the corpus on disk: each immediate subdirectory
// of the corpus root is one assignment, and the files beneath it are that
// assignment's submission.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/tattlecode/tattle/pkg/config"
	"github.com/tattlecode/tattle/pkg/detector"
)

// Scanner walks a corpus directory and groups source files into assignments.
type Scanner struct {
	cfg      *config.Config
	matchers []gitignore.Matcher
}

// New creates a scanner driven by the corpus section of cfg.
func New(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{cfg: cfg}
}

// ScanCorpus lists the assignments under root. File paths are relative to
// root, so they double as stable document IDs. Assignments and the files
// within each are sorted lexicographically, so two scans of the same tree
// produce the same result regardless of readdir order.
func (s *Scanner) ScanCorpus(root string) ([]detector.Assignment, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadIgnorePatterns(root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), ".") || s.cfg.IgnoresDir(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	assignments := make([]detector.Assignment, 0, len(names))
	for _, name := range names {
		files, err := s.scanAssignment(root, name, absRoot)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, detector.Assignment{Name: name, Files: files})
	}

	return assignments, nil
}

// scanAssignment collects the source files below one assignment directory.
func (s *Scanner) scanAssignment(root, name, absRoot string) ([]string, error) {
	dir := filepath.Join(root, name)
	files := make([]string, 0, 16)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)

		// Symlinks must not let the walk escape the corpus root.
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(base, ".") || s.cfg.IgnoresDir(base)) {
				return filepath.SkipDir
			}
			if s.isIgnored(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(base, ".") {
			return nil
		}
		if s.isIgnored(relPath, false) {
			return nil
		}
		if !s.cfg.AllowsExtension(filepath.Ext(path)) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(files)
	return files, nil
}

// loadIgnorePatterns reads .gitignore files under the nearest git root when
// the corpus config enables it.
func (s *Scanner) loadIgnorePatterns(root string) {
	if !s.cfg.Corpus.Gitignore {
		return
	}

	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}

	fs := osfs.New(gitRoot)
	if patterns, err := gitignore.ReadPatterns(fs, nil); err == nil && len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isIgnored checks a corpus-relative path against the loaded gitignore
// matchers.
func (s *Scanner) isIgnored(path string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}

	parts := strings.Split(path, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// findGitRoot walks upward looking for a .git directory. Returns empty when
// the corpus is not inside a repository.
func findGitRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// isWithinRoot reports whether path is contained in root after cleaning.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

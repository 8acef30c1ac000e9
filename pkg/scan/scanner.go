// Package scan enumerates the candidate source files under a set of
// registered root directories.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dghubble/trie"
	"github.com/pcj/mobyprogress"
	"github.com/rs/zerolog"
)

// DefaultPattern matches the file base names scanned when no pattern is set.
const DefaultPattern = "*.{php,inc}"

type Option func(*Scanner) *Scanner

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scanner) *Scanner {
		s.logger = logger
		return s
	}
}

// WithProgress reports per-root progress to the given output.
func WithProgress(output mobyprogress.Output) Option {
	return func(s *Scanner) *Scanner {
		s.progress = output
		return s
	}
}

// Scanner walks the registered roots and yields files whose base name matches
// the configured pattern and whose path is not under an excluded subtree.
type Scanner struct {
	logger   zerolog.Logger
	progress mobyprogress.Output

	roots    []string
	excludes []string
	excluded *trie.PathTrie
	pattern  string
}

// New constructs a Scanner with no roots and the default pattern.
func New(options ...Option) *Scanner {
	s := &Scanner{
		logger:   zerolog.Nop(),
		excluded: trie.NewPathTrie(),
		pattern:  DefaultPattern,
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// AddRoot registers a directory tree to scan.  Roots are scanned in
// registration order.  Registering the same directory twice is a no-op.
func (s *Scanner) AddRoot(path string) error {
	dir, err := resolveDir(path)
	if err != nil {
		return err
	}
	for _, root := range s.roots {
		if root == dir {
			return nil
		}
	}
	s.roots = append(s.roots, dir)
	s.logger.Debug().Str("root", dir).Msg("added scan root")
	return nil
}

// ExcludeRoot excludes the subtree at path from every root.  The exclusion is
// a path-segment prefix: excluding /app/lib skips /app/lib/x.php but not
// /app/library/x.php.
func (s *Scanner) ExcludeRoot(path string) error {
	dir, err := resolveDir(path)
	if err != nil {
		return err
	}
	if s.excluded.Put(trieKey(dir), true) {
		s.excludes = append(s.excludes, dir)
	}
	s.logger.Debug().Str("exclude", dir).Msg("excluded subtree")
	return nil
}

// SetMatchPattern sets the doublestar pattern matched against file base
// names, for example "*.{php,inc}".
func (s *Scanner) SetMatchPattern(pattern string) error {
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return &ConfigurationError{Path: pattern, Reason: "invalid match pattern"}
	}
	s.pattern = pattern
	return nil
}

// SetAllowedExtensions is a shortcut for SetMatchPattern that matches files
// ending with any of the given extensions (with or without the leading dot).
func (s *Scanner) SetAllowedExtensions(exts ...string) error {
	if len(exts) == 0 {
		return &ConfigurationError{Reason: "empty extension set"}
	}
	trimmed := make([]string, len(exts))
	for i, ext := range exts {
		trimmed[i] = strings.TrimPrefix(ext, ".")
	}
	if len(trimmed) == 1 {
		return s.SetMatchPattern("*." + trimmed[0])
	}
	return s.SetMatchPattern("*.{" + strings.Join(trimmed, ",") + "}")
}

// Roots returns the registered roots in registration order.
func (s *Scanner) Roots() []string {
	return append([]string(nil), s.roots...)
}

// Excludes returns the excluded subtrees.
func (s *Scanner) Excludes() []string {
	return append([]string(nil), s.excludes...)
}

// Pattern returns the current match pattern.
func (s *Scanner) Pattern() string {
	return s.pattern
}

// Match reports whether the file at path would be yielded by a scan, ignoring
// whether it exists.
func (s *Scanner) Match(path string) bool {
	if s.isExcluded(path) {
		return false
	}
	ok, _ := doublestar.Match(s.pattern, filepath.Base(path))
	return ok
}

// WalkFunc is called for each candidate file.
type WalkFunc func(path string) error

// Walk calls fn for every candidate file.  Unreadable directories are reported
// to onError and skipped; an error returned by fn stops the walk.
func (s *Scanner) Walk(fn WalkFunc, onError func(error)) error {
	for _, root := range s.roots {
		var count int
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if onError != nil {
					onError(fmt.Errorf("walk %s: %w", path, err))
				}
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && s.isExcluded(path) {
					return fs.SkipDir
				}
				return nil
			}
			if !isRegular(path, d) {
				return nil
			}
			if !s.Match(path) {
				return nil
			}
			count++
			return fn(path)
		})
		if err != nil {
			return err
		}
		s.writeProgress(root, count)
	}
	return nil
}

// Files collects the candidate files of every root.
func (s *Scanner) Files() ([]string, []error) {
	var files []string
	var errs []error
	if err := s.Walk(func(path string) error {
		files = append(files, path)
		return nil
	}, func(err error) {
		errs = append(errs, err)
	}); err != nil {
		errs = append(errs, err)
	}
	return files, errs
}

func (s *Scanner) isExcluded(path string) bool {
	var found bool
	s.excluded.WalkPath(trieKey(path), func(key string, value interface{}) error {
		found = true
		return errStopWalk
	})
	return found
}

func (s *Scanner) writeProgress(root string, count int) {
	if s.progress == nil {
		return
	}
	s.progress.WriteProgress(mobyprogress.Progress{
		ID:      root,
		Action:  "scanned",
		Current: int64(count),
		Total:   int64(count),
		Units:   "files",
	})
}

var errStopWalk = fmt.Errorf("stop walk")

func resolveDir(path string) (string, error) {
	if path == "" {
		return "", &ConfigurationError{Path: path, Reason: "empty directory path"}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &ConfigurationError{Path: path, Reason: "failed to resolve directory", Err: err}
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &ConfigurationError{Path: path, Reason: "failed to open directory", Err: err}
	}
	if !info.IsDir() {
		return "", &ConfigurationError{Path: path, Reason: "not a directory"}
	}
	return abs, nil
}

// isRegular reports whether the entry is a regular file, following symlinks.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// trieKey converts a filesystem path to a slash-separated trie key.
func trieKey(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

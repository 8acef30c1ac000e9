package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// MustPrepareTestFiles writes the given files under a fresh temporary
// directory, which is removed when the test ends.  The returned directory has
// its symlinks evaluated so it compares equal to paths produced by a scan.
func MustPrepareTestFiles(t *testing.T, files []testtools.FileSpec) (tmpDir string, filenames []string) {
	t.Helper()
	tmpDir, err := bazel.NewTmpDir("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})
	if real, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = real
	}

	filenames = MustWriteTestFiles(t, tmpDir, files)

	return tmpDir, filenames
}

// MustWriteTestFiles writes the given files relative to tmpDir.  A FileSpec
// with a trailing slash creates a directory; NotExist files are only named.
func MustWriteTestFiles(t *testing.T, tmpDir string, files []testtools.FileSpec) []string {
	t.Helper()
	var filenames []string
	for _, file := range files {
		abs := filepath.Join(tmpDir, file.Path)
		if file.Path[len(file.Path)-1] == '/' {
			if err := os.MkdirAll(abs, os.ModePerm); err != nil {
				t.Fatal(err)
			}
			filenames = append(filenames, abs)
			continue
		}
		dir := filepath.Dir(abs)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if !file.NotExist {
			if err := os.WriteFile(abs, []byte(file.Content), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		filenames = append(filenames, abs)
	}
	return filenames
}

// MustReadTestFile reads a file relative to dir.
func MustReadTestFile(t *testing.T, dir string, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		ListFiles(t, dir)
		t.Fatal("reading", filename, ":", err)
	}
	return string(data)
}

// MustRemoveTestFile deletes a file relative to dir.
func MustRemoveTestFile(t *testing.T, dir string, filename string) {
	t.Helper()
	if err := os.Remove(filepath.Join(dir, filename)); err != nil {
		t.Fatal(err)
	}
}

// EqualError reports whether errors a and b are considered equal.
// They're equal if both are nil, or both are not nil and a.Error() == b.Error().
func EqualError(a, b error) bool {
	return a == nil && b == nil || a != nil && b != nil && a.Error() == b.Error()
}

// ExpectError asserts that the errors are equal.  Return value is true
// if the "want" argument is non-nil.
func ExpectError(t *testing.T, want, got error) bool {
	t.Helper()
	if !EqualError(want, got) {
		t.Fatal("errors: want:", want, "got:", got)
	}
	return want != nil
}

// ListFiles is a convenience debugging function to log the files under a given dir.
func ListFiles(t *testing.T, dir string) {
	t.Log("Listing files under:", dir)
	if err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		t.Log(path)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
}

// Package symbol holds the data model shared by the scanner, the cache and
// the resolver: normalized symbol names, index entries and the per-pass error
// log.
package symbol

import (
	"fmt"
	"strings"
)

// Separator joins a namespace and a simple name.
const Separator = `\`

// Name is a case-normalized fully-qualified symbol name, for example
// `app\model\user`.
type Name string

// NewName normalizes the given raw name.  A leading separator (a fully
// qualified reference such as `\App\User`) is dropped.
func NewName(raw string) Name {
	return Name(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), Separator)))
}

// Join builds the name for simple declared in namespace ns.  An empty
// namespace yields the simple name alone.
func Join(ns, simple string) Name {
	if ns == "" {
		return NewName(simple)
	}
	return NewName(ns + Separator + simple)
}

// Namespace returns the namespace part of the name, or the empty string.
func (n Name) Namespace() string {
	if i := strings.LastIndex(string(n), Separator); i >= 0 {
		return string(n[:i])
	}
	return ""
}

// Simple returns the unqualified part of the name.
func (n Name) Simple() string {
	if i := strings.LastIndex(string(n), Separator); i >= 0 {
		return string(n[i+1:])
	}
	return string(n)
}

// Entry is the value stored for a Name.  An Entry with Negative set is a
// tombstone: the name was looked up and not found as of the last scan.
type Entry struct {
	// Location is the absolute path of the defining file.
	Location string
	// Negative marks the name as confirmed absent.
	Negative bool
}

// Located constructs an entry for a real location.
func Located(path string) Entry {
	return Entry{Location: path}
}

// NegativeMarker is the tombstone entry.
var NegativeMarker = Entry{Negative: true}

// String implements fmt.Stringer
func (e Entry) String() string {
	if e.Negative {
		return "<absent>"
	}
	return fmt.Sprintf("%q", e.Location)
}

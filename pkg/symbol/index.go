package symbol

import (
	"sort"
)

// Index maps symbol names to entries.  The zero value is not usable; call
// NewIndex.
type Index struct {
	entries map[Name]Entry
}

// NewIndex constructs an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[Name]Entry)}
}

// IndexOf constructs an Index holding a copy of the given entries.
func IndexOf(entries map[Name]Entry) *Index {
	ix := NewIndex()
	for k, v := range entries {
		ix.entries[k] = v
	}
	return ix
}

// Lookup returns the entry for the name.  The boolean is false when the name
// is absent (never looked up and never scanned).
func (ix *Index) Lookup(name Name) (Entry, bool) {
	e, ok := ix.entries[name]
	return e, ok
}

// Len returns the number of entries, tombstones included.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Merge folds the result of a fresh scan into the index.  A fresh location
// supersedes any prior entry for the same name; names missing from the fresh
// scan keep their prior entry.  Returns true if the index changed.
func (ix *Index) Merge(fresh map[Name]string) bool {
	var changed bool
	for name, path := range fresh {
		next := Located(path)
		if prev, ok := ix.entries[name]; ok && prev == next {
			continue
		}
		ix.entries[name] = next
		changed = true
	}
	return changed
}

// MarkAbsent records a tombstone for the name.  Returns false if the name
// already has an entry, which is left untouched.
func (ix *Index) MarkAbsent(name Name) bool {
	if _, ok := ix.entries[name]; ok {
		return false
	}
	ix.entries[name] = NegativeMarker
	return true
}

// Snapshot returns a copy of the entries.
func (ix *Index) Snapshot() map[Name]Entry {
	out := make(map[Name]Entry, len(ix.entries))
	for k, v := range ix.entries {
		out[k] = v
	}
	return out
}

// Names returns the sorted list of names in the index.
func (ix *Index) Names() []Name {
	names := make([]Name, 0, len(ix.entries))
	for name := range ix.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})
	return names
}

// Equal reports whether both indexes hold the same entries.
func (ix *Index) Equal(other *Index) bool {
	if len(ix.entries) != len(other.entries) {
		return false
	}
	for k, v := range ix.entries {
		if o, ok := other.entries[k]; !ok || o != v {
			return false
		}
	}
	return true
}

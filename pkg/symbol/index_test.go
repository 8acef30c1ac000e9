package symbol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIndexMerge(t *testing.T) {
	for name, tc := range map[string]struct {
		prior       map[Name]Entry
		fresh       map[Name]string
		want        map[Name]Entry
		wantChanged bool
	}{
		"degenerate": {
			want: map[Name]Entry{},
		},
		"adds new locations": {
			fresh: map[Name]string{"foo": "/a.php"},
			want: map[Name]Entry{
				"foo": Located("/a.php"),
			},
			wantChanged: true,
		},
		"fresh location supersedes tombstone": {
			prior: map[Name]Entry{"late": NegativeMarker},
			fresh: map[Name]string{"late": "/late.php"},
			want: map[Name]Entry{
				"late": Located("/late.php"),
			},
			wantChanged: true,
		},
		"fresh location supersedes prior location": {
			prior: map[Name]Entry{"foo": Located("/old.php")},
			fresh: map[Name]string{"foo": "/new.php"},
			want: map[Name]Entry{
				"foo": Located("/new.php"),
			},
			wantChanged: true,
		},
		"names missing from the scan keep their entry": {
			prior: map[Name]Entry{
				"gone":    Located("/gone.php"),
				"missing": NegativeMarker,
			},
			fresh: map[Name]string{},
			want: map[Name]Entry{
				"gone":    Located("/gone.php"),
				"missing": NegativeMarker,
			},
		},
		"identical scan is not a change": {
			prior: map[Name]Entry{"foo": Located("/a.php")},
			fresh: map[Name]string{"foo": "/a.php"},
			want: map[Name]Entry{
				"foo": Located("/a.php"),
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			ix := IndexOf(tc.prior)
			changed := ix.Merge(tc.fresh)
			if diff := cmp.Diff(tc.want, ix.Snapshot()); diff != "" {
				t.Errorf("entries (-want +got):\n%s", diff)
			}
			if changed != tc.wantChanged {
				t.Errorf("changed: want %t, got %t", tc.wantChanged, changed)
			}
		})
	}
}

func TestIndexMarkAbsent(t *testing.T) {
	ix := IndexOf(map[Name]Entry{"foo": Located("/a.php")})
	if ix.MarkAbsent("foo") {
		t.Error("MarkAbsent must not overwrite a real location")
	}
	if !ix.MarkAbsent("missing") {
		t.Error("MarkAbsent should record a new tombstone")
	}
	if ix.MarkAbsent("missing") {
		t.Error("MarkAbsent should be a no-op for an existing tombstone")
	}
	e, ok := ix.Lookup("missing")
	if !ok || !e.Negative {
		t.Errorf("want tombstone, got %v (present=%t)", e, ok)
	}
	if _, ok := ix.Lookup("never"); ok {
		t.Error("never looked up name should be absent")
	}
}

func TestIndexNamesAndEqual(t *testing.T) {
	a := IndexOf(map[Name]Entry{"b": Located("/b"), "a": NegativeMarker})
	if diff := cmp.Diff([]Name{"a", "b"}, a.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	b := IndexOf(a.Snapshot())
	if !a.Equal(b) {
		t.Error("copies should be equal")
	}
	b.MarkAbsent("c")
	if a.Equal(b) {
		t.Error("indexes with different entries should not be equal")
	}
	if a.Len() != 2 || b.Len() != 3 {
		t.Errorf("unexpected lengths: %d, %d", a.Len(), b.Len())
	}
}

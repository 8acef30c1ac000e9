package symbol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewName(t *testing.T) {
	for name, tc := range map[string]struct {
		raw  string
		want Name
	}{
		"degenerate":     {},
		"simple":         {raw: "Foo", want: "foo"},
		"qualified":      {raw: `App\Model\User`, want: `app\model\user`},
		"fully qualified": {raw: `\App\User`, want: `app\user`},
		"whitespace":     {raw: "  Foo ", want: "foo"},
	} {
		t.Run(name, func(t *testing.T) {
			got := NewName(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestNameParts(t *testing.T) {
	for name, tc := range map[string]struct {
		name       Name
		wantNs     string
		wantSimple string
	}{
		"degenerate": {},
		"global":     {name: "foo", wantSimple: "foo"},
		"nested":     {name: `a\b\c`, wantNs: `a\b`, wantSimple: "c"},
	} {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.wantNs, tc.name.Namespace()); diff != "" {
				t.Errorf("namespace (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantSimple, tc.name.Simple()); diff != "" {
				t.Errorf("simple (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join("", "Foo"); got != "foo" {
		t.Errorf("want foo, got %s", got)
	}
	if got := Join(`App\Http`, "Kernel"); got != `app\http\kernel` {
		t.Errorf(`want app\http\kernel, got %s`, got)
	}
}

func TestEntryString(t *testing.T) {
	if got := NegativeMarker.String(); got != "<absent>" {
		t.Errorf("want <absent>, got %s", got)
	}
	if got := Located("/a.php").String(); got != `"/a.php"` {
		t.Errorf(`want "/a.php", got %s`, got)
	}
}

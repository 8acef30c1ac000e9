package chain_test

import (
	"bytes"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stackb/autoloader/pkg/chain"
	"github.com/stackb/autoloader/pkg/loader"
	"github.com/stackb/autoloader/pkg/scan"
	"github.com/stackb/autoloader/pkg/symbol"
	"github.com/stackb/autoloader/pkg/testutil"
)

func noop(string, bool) {}

func TestRegistryOrder(t *testing.T) {
	for name, tc := range map[string]struct {
		ops  func(r *chain.Registry) error
		want []string
	}{
		"degenerate": {
			ops:  func(r *chain.Registry) error { return nil },
			want: []string{},
		},
		"register appends": {
			ops: func(r *chain.Registry) error {
				r.Register("a", noop)
				r.Register("b", noop)
				return nil
			},
			want: []string{"a", "b"},
		},
		"register twice moves to end": {
			ops: func(r *chain.Registry) error {
				r.Register("a", noop)
				r.Register("b", noop)
				r.Register("a", noop)
				return nil
			},
			want: []string{"b", "a"},
		},
		"move to tail is idempotent": {
			ops: func(r *chain.Registry) error {
				r.Register("a", noop)
				r.Register("b", noop)
				for i := 0; i < 3; i++ {
					if err := r.MoveToTail("a"); err != nil {
						return err
					}
				}
				return nil
			},
			want: []string{"b", "a"},
		},
		"unregister": {
			ops: func(r *chain.Registry) error {
				r.Register("a", noop)
				r.Register("b", noop)
				r.Unregister("a")
				return nil
			},
			want: []string{"b"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			r := chain.NewRegistry(func(string) bool { return false }, testutil.NewTestLogger(t))
			require.NoError(t, tc.ops(r))
			if diff := cmp.Diff(tc.want, r.Order()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMoveToTailLogsMove(t *testing.T) {
	var buf bytes.Buffer
	r := chain.NewRegistry(func(string) bool { return false }, zerolog.New(&buf).Level(zerolog.DebugLevel))
	r.Register("a", noop)
	r.Register("b", noop)
	buf.Reset()

	require.NoError(t, r.MoveToTail("a"))
	require.Equal(t, []string{"b", "a"}, r.Order())
	require.Contains(t, buf.String(), `"message":"moved resolver to tail"`)
	require.NotContains(t, buf.String(), "registered resolver")
}

func TestRegistryErrors(t *testing.T) {
	r := chain.NewRegistry(func(string) bool { return false }, testutil.NewTestLogger(t))
	require.Error(t, r.MoveToTail("missing"))
	require.False(t, r.Unregister("missing"))
	// out of range is logged and ignored
	r.Invoke(3, "Foo")
}

func TestRegistryLoad(t *testing.T) {
	defined := map[string]bool{}
	var calls []string
	r := chain.NewRegistry(func(name string) bool { return defined[name] }, testutil.NewTestLogger(t))
	r.Register("a", func(name string, probeOnly bool) {
		calls = append(calls, "a")
	})
	r.Register("b", func(name string, probeOnly bool) {
		calls = append(calls, "b")
		defined[name] = !probeOnly
	})
	r.Register("c", func(name string, probeOnly bool) {
		calls = append(calls, "c")
	})

	require.True(t, r.Load("Foo"))
	require.Equal(t, []string{"a", "b"}, calls)

	calls = nil
	require.True(t, r.Load("Foo"), "already defined")
	require.Empty(t, calls)

	calls = nil
	require.False(t, r.Exists("Bar"))
	require.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestRegistryDoesNotReinvoke(t *testing.T) {
	var calls []string
	r := chain.NewRegistry(func(string) bool { return false }, testutil.NewTestLogger(t))
	r.Register("first", func(name string, probeOnly bool) {
		calls = append(calls, "first")
		// act like a resolver that hands the lookup to its follower
		r.Invoke(1, name)
	})
	r.Register("second", func(name string, probeOnly bool) {
		calls = append(calls, "second")
	})

	require.False(t, r.Load("Foo"))
	require.Equal(t, []string{"first", "second"}, calls)
}

func TestAttachKeepsResolverLast(t *testing.T) {
	dir, _ := testutil.MustPrepareTestFiles(t, []testtools.FileSpec{
		{Path: "src/Foo.php", Content: "<?php class Foo {}"},
	})
	scanner := scan.New(scan.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, scanner.AddRoot(dir+"/src"))

	ldr := loader.New()
	r := chain.NewRegistry(ldr.DefinedString, testutil.NewTestLogger(t))
	rslv := r.Attach("autoloader", scanner, ldr)

	var builtin int
	r.Register("builtin", func(name string, probeOnly bool) {
		builtin++
		if symbol.NewName(name) == "bar" {
			ldr.Define("<builtin>", "bar")
		}
	})
	require.Equal(t, []string{"autoloader", "builtin"}, r.Order())

	require.True(t, r.Load("Bar"))
	require.Equal(t, []string{"builtin", "autoloader"}, r.Order())
	require.Equal(t, 1, builtin, "follower must run exactly once")
	require.Equal(t, 0, rslv.Stats().Passes)

	require.True(t, r.Load("Foo"))
	require.Equal(t, 2, builtin)
	require.Equal(t, 1, rslv.Stats().Passes)
	require.Equal(t, []string{"builtin", "autoloader"}, r.Order())

	// existence checks never scan
	require.False(t, r.Exists("Nope"))
	require.Equal(t, 1, rslv.Stats().Passes)
	_, tombstoned := rslv.Symbols()["nope"]
	require.False(t, tombstoned)
}

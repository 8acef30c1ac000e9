package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/stackb/autoloader/pkg/resolver"
	"github.com/stackb/autoloader/pkg/scan"
	"github.com/stackb/autoloader/pkg/testutil"
)

func newTestHandler(t *testing.T, files []testtools.FileSpec, roots ...string) (*Handler, string) {
	t.Helper()
	dir, _ := testutil.MustPrepareTestFiles(t, files)
	s := scan.New()
	for _, root := range roots {
		require.NoError(t, s.AddRoot(filepath.Join(dir, root)))
	}
	r := resolver.New(s, nil, resolver.WithLogger(testutil.NewTestLogger(t)))
	return NewHandler(r, WithLogger(testutil.NewTestLogger(t))), dir
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "want text content, got %T", result.Content[0])
	return text.Text, result.IsError
}

func TestResolveSymbol(t *testing.T) {
	h, dir := newTestHandler(t, []testtools.FileSpec{
		{Path: "src/Foo.php", Content: "<?php namespace App; class Foo {}"},
	}, "src")

	text, isError := call(t, h.ResolveSymbol, map[string]any{"name": "Missing", "probe": true})
	require.False(t, isError)
	require.Equal(t, "CONFIRMED_ABSENT missing", text)

	text, isError = call(t, h.ResolveSymbol, map[string]any{"name": `App\Foo`})
	require.False(t, isError)
	require.Equal(t, `RESOLVED app\foo -> `+filepath.Join(dir, "src/Foo.php"), text)

	_, isError = call(t, h.ResolveSymbol, map[string]any{})
	require.True(t, isError)
}

func TestResolveSymbolWithErrors(t *testing.T) {
	h, _ := newTestHandler(t, []testtools.FileSpec{
		{Path: "a/x.php", Content: "<?php class X {}"},
		{Path: "b/x.php", Content: "<?php class X {}"},
	}, "a", "b")

	text, isError := call(t, h.ResolveSymbol, map[string]any{"name": "Y"})
	require.True(t, isError)
	require.Contains(t, text, "UNRESOLVED_WITH_ERRORS y (1 errors)")
	require.Contains(t, text, "x")

	text, isError = call(t, h.ListErrors, nil)
	require.False(t, isError)
	require.Contains(t, text, "x.php")

	_, isError = call(t, h.RefreshIndex, nil)
	require.True(t, isError)
}

func TestListSymbols(t *testing.T) {
	h, dir := newTestHandler(t, []testtools.FileSpec{
		{Path: "src/a.php", Content: "<?php namespace App; class Foo {} interface Bar {}"},
		{Path: "src/b.php", Content: "<?php namespace Lib; trait Baz {}"},
	}, "src")

	text, _ := call(t, h.ListSymbols, nil)
	require.Equal(t, "no symbols", text)

	text, isError := call(t, h.RefreshIndex, nil)
	require.False(t, isError)
	require.Equal(t, "passes=1 symbols=3 tombstones=0", text)

	text, _ = call(t, h.ListSymbols, map[string]any{"prefix": `\App\`})
	want := `app\bar	` + filepath.Join(dir, "src/a.php") + "\n" +
		`app\foo	` + filepath.Join(dir, "src/a.php") + "\n"
	require.Equal(t, want, text)

	call(t, h.ResolveSymbol, map[string]any{"name": `App\Gone`})
	text, _ = call(t, h.ListSymbols, map[string]any{"prefix": "app", "include_absent": true})
	require.Contains(t, text, `app\gone`)

	text, _ = call(t, h.ListErrors, nil)
	require.Equal(t, "no errors", text)
}

func TestServerListsTools(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	s := New(h)

	response := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(response)
	require.NoError(t, err)
	for _, name := range []string{"resolve_symbol", "list_symbols", "refresh_index", "list_errors"} {
		require.Contains(t, string(data), name)
	}
}

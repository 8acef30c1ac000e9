// Package mcpserver serves a resolver over the Model Context Protocol so
// that tools can ask which file declares a symbol.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to clients.
var Version = "0.1.0"

// New creates the MCP server and registers the tools of handler.
func New(handler *Handler) *server.MCPServer {
	s := server.NewMCPServer(
		"autoloader",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("resolve_symbol",
		mcp.WithDescription("Find the source file that declares a class, interface, trait or enum. Scans the configured roots on a miss."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description(`Fully qualified symbol name, for example App\Http\Controller`),
		),
		mcp.WithBoolean("probe",
			mcp.Description("Existence check only: never scan or record the name as absent"),
		),
	), handler.ResolveSymbol)

	s.AddTool(mcp.NewTool("list_symbols",
		mcp.WithDescription("List indexed symbols and their files."),
		mcp.WithString("prefix",
			mcp.Description(`Only list names starting with this namespace prefix, for example App\`),
		),
		mcp.WithBoolean("include_absent",
			mcp.Description("Also list names recorded as absent"),
		),
	), handler.ListSymbols)

	s.AddTool(mcp.NewTool("refresh_index",
		mcp.WithDescription("Rescan every root and merge the result into the index."),
	), handler.RefreshIndex)

	s.AddTool(mcp.NewTool("list_errors",
		mcp.WithDescription("List the errors (such as duplicate declarations) of the last scan."),
	), handler.ListErrors)

	return s
}

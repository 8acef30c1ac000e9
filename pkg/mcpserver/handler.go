package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/stackb/autoloader/pkg/resolver"
	"github.com/stackb/autoloader/pkg/symbol"
)

// Handler adapts tool calls to a Resolver.  A Resolver is not safe for
// concurrent use, so calls are serialized.
type Handler struct {
	mu       sync.Mutex
	resolver *resolver.Resolver
	logger   zerolog.Logger
}

type Option func(*Handler) *Handler

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) *Handler {
		h.logger = logger
		return h
	}
}

// NewHandler constructs a Handler for the resolver.
func NewHandler(r *resolver.Resolver, options ...Option) *Handler {
	h := &Handler{
		resolver: r,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		h = opt(h)
	}
	return h
}

// ResolveSymbol handles the resolve_symbol tool.
func (h *Handler) ResolveSymbol(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name is required"), nil
	}
	probe := req.GetBool("probe", false)

	h.mu.Lock()
	defer h.mu.Unlock()

	var outcome resolver.Outcome
	if probe {
		outcome = h.resolver.Probe(name)
	} else {
		outcome = h.resolver.Resolve(name)
	}
	h.logger.Debug().Stringer("outcome", outcome).Bool("probe", probe).Msg("resolve_symbol")

	if outcome.Status == resolver.UnresolvedWithErrors {
		return mcp.NewToolResultError(outcome.String() + "\n" + strings.Join(outcome.Errors.Strings(), "\n")), nil
	}
	return mcp.NewToolResultText(outcome.String()), nil
}

// ListSymbols handles the list_symbols tool.
func (h *Handler) ListSymbols(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefix := string(symbol.NewName(req.GetString("prefix", "")))
	absent := req.GetBool("include_absent", false)

	h.mu.Lock()
	symbols := h.resolver.Symbols()
	h.mu.Unlock()

	names := make([]string, 0, len(symbols))
	for name, entry := range symbols {
		if !strings.HasPrefix(string(name), prefix) {
			continue
		}
		if entry.Negative && !absent {
			continue
		}
		names = append(names, string(name))
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		entry := symbols[symbol.Name(name)]
		location := entry.Location
		if entry.Negative {
			location = "<absent>"
		}
		fmt.Fprintf(&b, "%s\t%s\n", name, location)
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("no symbols"), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

// RefreshIndex handles the refresh_index tool.
func (h *Handler) RefreshIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	failed := h.resolver.Refresh()
	stats := h.resolver.Stats()
	summary := fmt.Sprintf("passes=%d symbols=%d tombstones=%d", stats.Passes, stats.Symbols, stats.Tombstones)
	if failed {
		return mcp.NewToolResultError(summary + "\n" + strings.Join(h.resolver.Errors().Strings(), "\n")), nil
	}
	return mcp.NewToolResultText(summary), nil
}

// ListErrors handles the list_errors tool.
func (h *Handler) ListErrors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	errs := h.resolver.Errors()
	h.mu.Unlock()

	if errs.Empty() {
		return mcp.NewToolResultText("no errors"), nil
	}
	return mcp.NewToolResultText(strings.Join(errs.Strings(), "\n")), nil
}

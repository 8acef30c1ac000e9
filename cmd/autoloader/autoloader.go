// autoloader maps class, interface, trait and enum names to the source files
// that declare them.
//
// Usage:
//
//	autoloader --config autoload.yaml generate
//	autoloader --root src resolve 'App\Http\Controller'
//	autoloader --root src serve
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kingpin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/stackb/autoloader/pkg/config"
	"github.com/stackb/autoloader/pkg/loader"
	"github.com/stackb/autoloader/pkg/logger"
	"github.com/stackb/autoloader/pkg/mcpserver"
	"github.com/stackb/autoloader/pkg/progress"
	"github.com/stackb/autoloader/pkg/resolver"
	"github.com/stackb/autoloader/pkg/scan"
	"github.com/stackb/autoloader/pkg/symbol"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// command holds the parsed command line.
type command struct {
	configFile   string
	showProgress bool
	overrides    config.Config

	probe   bool
	names   []string
	prefix  string
	absent  bool
	refresh bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cmd command

	app := kingpin.New("autoloader", "Resolve symbol names to the source files that declare them.")
	app.Terminate(nil)
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	app.Flag("config", "configuration file (.yaml or .star)").Short('c').StringVar(&cmd.configFile)
	app.Flag("progress", "report scan progress on stderr").BoolVar(&cmd.showProgress)

	// the settings flags are shared with flag.FlagSet users of pkg/config
	fs := flag.NewFlagSet("autoloader", flag.ContinueOnError)
	cmd.overrides.RegisterFlags(fs)
	fs.VisitAll(func(f *flag.Flag) {
		app.Flag(f.Name, f.Usage).SetValue(f.Value)
	})

	generate := app.Command("generate", "scan every root and write the cache file")

	resolve := app.Command("resolve", "resolve symbol names")
	resolve.Flag("probe", "existence check: never scan on a miss").BoolVar(&cmd.probe)
	resolve.Arg("name", "symbol name").Required().StringsVar(&cmd.names)

	list := app.Command("list", "list indexed symbols")
	list.Flag("absent", "include names recorded as absent").BoolVar(&cmd.absent)
	list.Flag("refresh", "scan before listing").Default("true").BoolVar(&cmd.refresh)
	list.Arg("prefix", "namespace prefix").StringVar(&cmd.prefix)

	errorsCmd := app.Command("errors", "scan and report errors such as duplicate declarations")

	serve := app.Command("serve", "serve the resolver as MCP tools over stdio")

	selected, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "autoloader: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig(&cmd)
	if err != nil {
		fmt.Fprintf(stderr, "autoloader: %v\n", err)
		return exitUsage
	}
	level, _ := cfg.Level()
	log := logger.New(stderr, level)

	var scanOptions []scan.Option
	scanOptions = append(scanOptions, scan.WithLogger(log))
	if cmd.showProgress {
		out := progress.NewOutput(stderr)
		defer out.Close()
		scanOptions = append(scanOptions, scan.WithProgress(out))
	}
	scanner, err := cfg.NewScanner(scanOptions...)
	if err != nil {
		fmt.Fprintf(stderr, "autoloader: %v\n", err)
		return exitUsage
	}
	r, err := cfg.NewResolver(scanner, loader.New(loader.WithLogger(log)), resolver.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "autoloader: %v\n", err)
		return exitUsage
	}

	switch selected {
	case generate.FullCommand():
		return runGenerate(r, cfg, stdout, stderr)
	case resolve.FullCommand():
		return runResolve(r, &cmd, stdout)
	case list.FullCommand():
		return runList(r, &cmd, stdout, stderr)
	case errorsCmd.FullCommand():
		return runErrors(r, stdout)
	case serve.FullCommand():
		return runServe(r, log, stdin, stdout)
	}
	return exitUsage
}

func loadConfig(cmd *command) (*config.Config, error) {
	cfg := &config.Config{}
	if cmd.configFile != "" {
		loaded, err := config.Load(cmd.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := absPaths(&cmd.overrides); err != nil {
		return nil, err
	}
	cfg.Overlay(&cmd.overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// absPaths makes the paths given as flags relative to the working directory
// rather than to the config file.
func absPaths(c *config.Config) error {
	for _, list := range []*[]string{&c.Roots, &c.Excludes} {
		for i, p := range *list {
			abs, err := filepath.Abs(p)
			if err != nil {
				return err
			}
			(*list)[i] = abs
		}
	}
	if c.CacheFile != "" {
		abs, err := filepath.Abs(c.CacheFile)
		if err != nil {
			return err
		}
		c.CacheFile = abs
	}
	return nil
}

func runGenerate(r *resolver.Resolver, cfg *config.Config, stdout, stderr io.Writer) int {
	if err := r.Generate(); err != nil {
		fmt.Fprintf(stderr, "autoloader: generate: %v\n", err)
		for _, e := range r.Errors().Strings() {
			fmt.Fprintln(stderr, "  "+e)
		}
		return exitFailure
	}
	stats := r.Stats()
	fmt.Fprintf(stdout, "wrote %s (%d symbols)\n", cfg.CacheFile, stats.Symbols)
	return exitOK
}

func runResolve(r *resolver.Resolver, cmd *command, stdout io.Writer) int {
	code := exitOK
	for _, name := range cmd.names {
		var outcome resolver.Outcome
		if cmd.probe {
			outcome = r.Probe(name)
		} else {
			outcome = r.Resolve(name)
		}
		fmt.Fprintln(stdout, outcome)
		switch outcome.Status {
		case resolver.UnresolvedWithErrors:
			for _, e := range outcome.Errors.Strings() {
				fmt.Fprintln(stdout, "  "+e)
			}
			code = exitFailure
		case resolver.ConfirmedAbsent:
			if code == exitOK {
				code = exitFailure
			}
		}
	}
	return code
}

func runList(r *resolver.Resolver, cmd *command, stdout, stderr io.Writer) int {
	if cmd.refresh && r.Refresh() {
		for _, e := range r.Errors().Strings() {
			fmt.Fprintln(stderr, "autoloader: "+e)
		}
	}
	prefix := string(symbol.NewName(cmd.prefix))
	symbols := r.Symbols()
	for _, name := range sortedNames(symbols) {
		if !strings.HasPrefix(string(name), prefix) {
			continue
		}
		entry := symbols[name]
		switch {
		case !entry.Negative:
			fmt.Fprintf(stdout, "%s\t%s\n", name, entry.Location)
		case cmd.absent:
			fmt.Fprintf(stdout, "%s\t<absent>\n", name)
		}
	}
	return exitOK
}

func runErrors(r *resolver.Resolver, stdout io.Writer) int {
	if !r.Refresh() {
		return exitOK
	}
	for _, e := range r.Errors().Strings() {
		fmt.Fprintln(stdout, e)
	}
	return exitFailure
}

func runServe(r *resolver.Resolver, log zerolog.Logger, stdin io.Reader, stdout io.Writer) int {
	s := mcpserver.New(mcpserver.NewHandler(r, mcpserver.WithLogger(log)))
	log.Info().Msg("autoloader MCP server starting")
	if err := server.NewStdioServer(s).Listen(context.Background(), stdin, stdout); err != nil {
		log.Error().Err(err).Msg("server error")
		return exitFailure
	}
	return exitOK
}

func sortedNames(symbols map[symbol.Name]symbol.Entry) []symbol.Name {
	names := make([]symbol.Name, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i] < names[j]
	})
	return names
}

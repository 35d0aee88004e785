package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/covercache"
	"github.com/openshelf/openshelf/internal/launcher"
	"github.com/openshelf/openshelf/internal/openlibrary"
	"github.com/openshelf/openshelf/internal/plugin"
	"github.com/openshelf/openshelf/internal/tui"
)

var (
	runSelect  = tui.Select
	isTerminal = func(fd int) bool { return term.IsTerminal(fd) }
)

// CLI represents the complete command structure for the openshelf plugin
type CLI struct {
	// Global flags
	Debug    bool   `help:"Enable debug logging"`
	LogFile  string `help:"Path to the log file used in rpc mode"`
	CacheDir string `help:"Directory for cached cover images"`

	Rpc    RpcCmd    `cmd:"" default:"withargs" help:"Handle a single launcher JSON-RPC request"`
	Search SearchCmd `cmd:"" help:"Search Open Library and open a book in the browser"`
	Cache  CacheCmd  `cmd:"" help:"Manage the cover image cache"`
}

// RpcCmd is the launcher entry point: one request in, one response out.
type RpcCmd struct {
	Request []string `arg:"" optional:"" help:"JSON-RPC request payload (read from stdin when omitted)"`
}

// SearchCmd represents the standalone interactive search command
type SearchCmd struct {
	Term  []string `arg:"" help:"Search terms"`
	First bool     `help:"Open the first result without prompting"`
}

// CacheCmd represents the cache maintenance commands
type CacheCmd struct {
	Clean CacheCleanCmd `cmd:"" help:"Remove expired cover images"`
}

// CacheCleanCmd removes cover images past their TTL
type CacheCleanCmd struct {
	All bool `help:"Remove all cached covers, not just expired ones"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("openshelf"),
		kong.Description("Open Library book search plugin for keyboard launchers."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	initLogging(&cli, ctx.Command())

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Enable environment variable support
	viper.SetEnvPrefix("OPENSHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults cover everything.
		// Anything else is a broken config the user should know about.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	if cli.CacheDir != "" {
		config.SetCacheDir(cli.CacheDir)
	}
	if cli.LogFile != "" {
		config.LogFile = cli.LogFile
	}
}

// initLogging routes logs to a file in rpc mode, since stdout carries
// the JSON-RPC response and must stay clean.
func initLogging(cli *CLI, command string) {
	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if command == "rpc" || strings.HasPrefix(command, "rpc ") {
		file, err := os.OpenFile(config.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			out = io.Discard
		} else {
			out = file
		}
	}

	handler := humanlog.NewHandler(out, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}

// newAdapter wires the Open Library client, cover cache and adapter
// from the global config.
func newAdapter() (*plugin.Adapter, *covercache.Cache) {
	client := openlibrary.NewClient()
	covers := covercache.New(config.CacheDir)

	adapter := plugin.New(client,
		plugin.WithCovers(covers),
		plugin.WithLimit(config.SearchLimit),
		plugin.WithIcons(config.AppIcon, config.BookIcon),
	)

	return adapter, covers
}

// Run methods for each command

func (r *RpcCmd) Run() error {
	// Only fall back to stdin when something is actually piped in,
	// otherwise an interactive invocation would hang forever.
	var stdin io.Reader
	if !isTerminal(int(os.Stdin.Fd())) {
		stdin = os.Stdin
	}

	req, err := launcher.ParseRequest(r.Request, stdin)
	if err != nil {
		slog.Error("Malformed request", "error", err)
		resp := launcher.Response{Result: []launcher.Result{{
			Title:    "OpenShelf Plugin Error",
			SubTitle: err.Error(),
			IcoPath:  config.AppIcon,
		}}}
		return resp.Write(os.Stdout)
	}

	adapter, covers := newAdapter()
	covers.CleanAsync(config.CacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), config.SearchTimeout)
	defer cancel()

	return adapter.Handle(ctx, req).Write(os.Stdout)
}

func (s *SearchCmd) Run() error {
	query := strings.Join(s.Term, " ")

	client := openlibrary.NewClient()

	ctx, cancel := context.WithTimeout(context.Background(), config.SearchTimeout)
	defer cancel()

	docs, err := client.Search(ctx, query, config.SearchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(docs) == 0 {
		fmt.Printf("No books found for '%s'\n", query)
		return nil
	}

	var doc *openlibrary.Doc
	if s.First {
		doc = &docs[0]
	} else {
		result, err := runSelect(query, docs)
		if err != nil {
			return err
		}
		if result.Action != tui.ActionSelected {
			return nil
		}
		doc = result.Selection
	}

	adapter := plugin.New(client)
	return adapter.Open(doc.Key)
}

func (c *CacheCleanCmd) Run() error {
	covers := covercache.New(config.CacheDir)

	maxAge := config.CacheTTL
	if c.All {
		maxAge = 0
	}

	removed, err := covers.Clean(maxAge)
	if err != nil {
		return fmt.Errorf("cleaning cover cache: %w", err)
	}

	fmt.Printf("Removed %d cover(s) from %s\n", removed, covers.Dir())
	return nil
}

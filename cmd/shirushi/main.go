// Package main is the Shirushi CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/shirushi/internal/cli"
	"github.com/hyperjump/shirushi/internal/config"
	"github.com/hyperjump/shirushi/internal/extract"
	"github.com/hyperjump/shirushi/internal/highlight"
	"github.com/hyperjump/shirushi/internal/library"
	"github.com/hyperjump/shirushi/internal/models"
	"github.com/hyperjump/shirushi/internal/server"
	"github.com/hyperjump/shirushi/internal/storage"
	"github.com/hyperjump/shirushi/internal/watcher"
	"github.com/hyperjump/shirushi/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shirushi/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "shirushi server" from the project dir uses the
// project's config (including debug). Returns the config and the path that
// was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "find":
		runFind()
	case "pages":
		runPages()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("shirushi version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// reorderArgs moves any flags (and their values) that appear after positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's
// flag package stops at the first non-flag argument, so
// "shirushi find report.pdf -phrase x" would otherwise leave -phrase unparsed.
func reorderArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// buildPhrase joins all positional args with spaces so multi-word phrases
// work the same with or without shell quoting.
func buildPhrase(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// outputFormatFromFlag maps a -format value to a cli output format.
func outputFormatFromFlag(value string) (cli.OutputFormat, error) {
	switch value {
	case "json":
		return cli.OutputJSON, nil
	case "text", "":
		return cli.OutputText, nil
	default:
		return cli.OutputText, fmt.Errorf("unknown output format %q; use text or json", value)
	}
}

func printFindUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: shirushi find -file <document> [flags] <phrase>\n\n")
	fmt.Fprintf(fs.Output(), "Phrase is all remaining arguments joined by spaces, or the -phrase flag.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  shirushi find -file report.pdf revenue grew 12.8%%
  shirushi find -file report.pdf -phrase "revenue grew 12.8%%" -format json
  shirushi find -file slides.pptx -page 3 "closing remarks"
  shirushi find -file report.pdf -auto-hint "total liabilities"
`)
}

func runFind() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	file := fs.String("file", "", "document to search (required)")
	phraseFlag := fs.String("phrase", "", "phrase to locate (or pass it as positional arguments)")
	pageHint := fs.Int("page", -1, "0-based page to try first (-1 = none)")
	autoHint := fs.Bool("auto-hint", false, "derive a page hint from the per-document page ranking")
	formatFlag := fs.String("format", "text", "output format: text or json")
	fs.Usage = func() { printFindUsage(fs) }
	_ = fs.Parse(args)

	phrase := *phraseFlag
	if phrase == "" {
		phrase = buildPhrase(fs.Args())
	}
	if *file == "" || phrase == "" {
		printFindUsage(fs)
		os.Exit(1)
	}
	format, err := outputFormatFromFlag(*formatFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	ctx := context.Background()
	doc, err := components.Library.Open(ctx, *file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open document: %v\n", err)
		os.Exit(1)
	}

	query := &models.PhraseQuery{Phrase: phrase}
	if *pageHint >= 0 {
		hint := *pageHint
		query.PageHint = &hint
	}
	hl, err := components.Library.FindPhrase(doc.ID, query, *autoHint)
	if err != nil {
		if errors.Is(err, highlight.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "Phrase not found on any page")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Find failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteHighlight(os.Stdout, doc, hl, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runPages() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("pages", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	file := fs.String("file", "", "document to inspect (required, or the first positional argument)")
	formatFlag := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(args)

	path := *file
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		fmt.Println("Usage: shirushi pages [flags] <document>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	format, err := outputFormatFromFlag(*formatFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	ctx := context.Background()
	doc, err := components.Library.Open(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open document: %v\n", err)
		os.Exit(1)
	}
	pages, err := components.Library.Pages(doc.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read pages: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WritePages(os.Stdout, doc, pages, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, cache hits, span resolution, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	lib := components.Library
	watchOpts := []watcher.Option{
		watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond),
	}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if _, err := lib.Open(context.Background(), path); err != nil {
				logger.Warn("watch open document failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if err := lib.RemoveByPath(context.Background(), path); err != nil {
				logger.Warn("watch remove document failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.ScanExisting()

	srv := server.NewServer(
		lib,
		components.Store,
		&cfg.Server,
		logger,
		watchSvc,
		resolvedConfigPath,
		cfg,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	DatabasePath string `json:"database_path,omitempty"`
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	OpenDocuments     int                   `json:"open_documents"`
	OpenPages         int                   `json:"open_pages"`
	CachedDocuments   int64                 `json:"cached_documents"`
	DatabaseSizeBytes *int64                `json:"database_size_bytes,omitempty"`
	WatchDirectories  []string              `json:"watch_directories,omitempty"`
	Config            *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use the local cache directly)")
	formatFlag := fs.String("format", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open cache: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		cached, err := store.CountDocuments(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			CachedDocuments: cached,
			Config:          &statusConfigResponse{DatabasePath: cfg.Storage.DatabasePath},
		}
		if size, err := storage.DatabaseSizeBytes(cfg.Storage.DatabasePath); err == nil {
			status.DatabaseSizeBytes = &size
		}
	}

	switch *formatFlag {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("open_documents:      %d   # documents currently open for lookups\n", status.OpenDocuments)
		fmt.Printf("open_pages:          %d   # pages across open documents\n", status.OpenPages)
		fmt.Printf("cached_documents:    %d   # extractions in the cache\n", status.CachedDocuments)
		if status.DatabaseSizeBytes != nil {
			fmt.Printf("database_size_bytes: %d   # cache size on disk\n", *status.DatabaseSizeBytes)
		}
		if len(status.WatchDirectories) > 0 {
			fmt.Println()
			fmt.Println("# watched directories")
			for _, d := range status.WatchDirectories {
				fmt.Println(d)
			}
		}
		if status.Config != nil && status.Config.DatabasePath != "" {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("database_path:       %s\n", status.Config.DatabasePath)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *formatFlag)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: shirushi watch <add|remove|list> [path]")
		fmt.Println("  shirushi watch add <path>     Add directory to watch")
		fmt.Println("  shirushi watch remove <path>  Remove directory from watch")
		fmt.Println("  shirushi watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: shirushi watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "scan": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: shirushi watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Store   *storage.SQLiteStore
	Library *library.Library
}

func (c *Components) Close() {
	if c.Library != nil {
		_ = c.Library.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extraction cache: %w", err)
	}

	var engineOpts []highlight.Option
	var libOpts []library.Option
	if debug && logger != nil {
		engineOpts = append(engineOpts, highlight.WithLogger(logger))
		libOpts = append(libOpts, library.WithLogger(logger))
	}
	engine := highlight.NewEngine(&cfg.Engine, engineOpts...)
	extractor := extract.NewExtractor(&cfg.Extract)
	lib := library.NewLibrary(store, extractor, engine, libOpts...)

	return &Components{
		Store:   store,
		Library: lib,
	}, nil
}

func printUsage() {
	fmt.Println(`shirushi - phrase location and highlight rectangles for paginated documents

Usage:
  shirushi server [flags]                 Start the HTTP server
  shirushi find -file <doc> <phrase>      Locate a phrase in a document
  shirushi pages [flags] <doc>            Show a document's page inventory
  shirushi status [flags]                 Show library/cache status
  shirushi watch <add|remove|list>        Manage watched directories
  shirushi version                        Show version
  shirushi help                           Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/shirushi/config.yaml)
  --debug            Enable debug logging (watch events, cache hits, span resolution, etc.)

Find Flags:
  --config string    Config file path
  --file string      Document to search (required)
  --phrase string    Phrase to locate (or pass it as positional arguments)
  --page int         0-based page to try first (default: none)
  --auto-hint        Derive a page hint from the per-document page ranking
  --format string    Output format: text or json (default: text)

Pages Flags:
  --config string    Config file path
  --file string      Document to inspect (or the first positional argument)
  --format string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct cache access)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct cache access.
  --format string    Output format: text or json (default: text)

Watch Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  shirushi server
  shirushi find -file report.pdf revenue grew 12.8%
  shirushi find -file report.pdf -format json -auto-hint "total liabilities"
  shirushi pages slides.pptx
  shirushi status
  shirushi watch add /path/to/docs
  shirushi watch list`)
}

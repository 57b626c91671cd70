// Package main is the clinscribe CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clinscribe/clinscribe/internal/cli"
	"github.com/clinscribe/clinscribe/internal/config"
	"github.com/clinscribe/clinscribe/internal/export"
	"github.com/clinscribe/clinscribe/internal/extract"
	"github.com/clinscribe/clinscribe/internal/fileid"
	"github.com/clinscribe/clinscribe/internal/ingest"
	"github.com/clinscribe/clinscribe/internal/pipeline"
	"github.com/clinscribe/clinscribe/internal/runindex"
	"github.com/clinscribe/clinscribe/internal/sentiment"
	"github.com/clinscribe/clinscribe/internal/server"
	"github.com/clinscribe/clinscribe/internal/soapnote"
	"github.com/clinscribe/clinscribe/internal/storage"
	"github.com/clinscribe/clinscribe/internal/watcher"
	"github.com/clinscribe/clinscribe/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/clinscribe/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists it
// is used, so that "clinscribe server" from the project dir uses the project's
// config (including debug). Returns the config and the path that was actually
// loaded (for saving, etc.).
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
	case "process":
		runProcess()
	case "runs":
		runRuns()
	case "soap":
		runSOAP()
	case "search":
		runSearch()
	case "delete":
		runDelete()
	case "export":
		runExport()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("clinscribe version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (directory changes, transcript processing, etc.)")
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

	svc := components.Ingest
	exts := cfg.Watch.Extensions
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		cfg.Watch.Directories,
		exts,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if _, err := svc.ProcessFile(context.Background(), path, exts); err != nil {
				logger.Warn("watch process file failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if err := svc.RemoveFile(context.Background(), path); err != nil {
				logger.Warn("watch remove by path failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(
		components.Ingest,
		components.Storage,
		components.Index,
		components.Suggester,
		components.Exporter,
		&cfg.Server,
		logger,
	)
	srv.SetWatch(watchSvc, cfg, resolvedConfigPath)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
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

func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: clinscribe process [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		exts := cfg.Watch.Extensions
		if exts == nil {
			exts = []string{".txt", ".md", ".pdf", ".docx", ".xlsx"}
		}
		n, err := components.Ingest.ProcessDirectory(ctx, path, exts)
		if err != nil {
			fmt.Printf("Processing directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Processed %d transcript(s) from %s\n", n, path)
		return
	}
	// Single file: no extension filter
	run, err := components.Ingest.ProcessFile(ctx, path, nil)
	if err != nil {
		fmt.Printf("Processing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Transcript processed: %s\n", run.ID)
	if run.Output != nil && run.Output.Summary.PatientName != "" {
		fmt.Printf("Patient: %s\n", run.Output.Summary.PatientName)
	}
	if run.Output != nil && run.Output.Summary.Diagnosis != "" {
		fmt.Printf("Diagnosis: %s\n", run.Output.Summary.Diagnosis)
	}
}

func runRuns() {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 50, "number of runs to list")
	offset := fs.Int("offset", 0, "listing offset")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	rows, err := components.Storage.ListRuns(context.Background(), *offset, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List runs failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRunList(os.Stdout, rows, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSOAP() {
	fs := flag.NewFlagSet("soap", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: clinscribe soap [flags] <run-id>")
		os.Exit(1)
	}
	runID := fs.Arg(0)

	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	run, err := components.Storage.GetRun(context.Background(), runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Run not found: %s\n", runID)
		os.Exit(1)
	}
	if run.SOAP == nil {
		fmt.Fprintf(os.Stderr, "No SOAP note for run: %s\n", runID)
		os.Exit(1)
	}
	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(run.SOAP); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Println(soapnote.Render(run.SOAP))
	}
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "clinscribe search neck
// pain -fuzzy" would otherwise leave -fuzzy unparsed.
func searchArgsReorder(args []string) []string {
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

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 10, "number of results")
	fuzzyEnabled := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: clinscribe search [flags] <query>")
		os.Exit(1)
	}
	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Println("Usage: clinscribe search [flags] <query>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if *serverURL != "" {
		// Use the HTTP API when the server is running (avoids the Bleve and
		// SQLite lock conflict).
		response, err := searchViaHTTP(*serverURL, queryStr, *limit, *fuzzyEnabled)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		// Auto-retry with fuzzy if no results and fuzzy not already enabled.
		if !*fuzzyEnabled && len(response.Hits) == 0 {
			if fuzzyResponse, fuzzyErr := searchViaHTTP(*serverURL, queryStr, *limit, true); fuzzyErr == nil && len(fuzzyResponse.Hits) > 0 {
				response = fuzzyResponse
			}
		}
		if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Direct storage access (when server is not running).
	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	response, err := searchDirect(components, queryStr, *limit, *fuzzyEnabled)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if !*fuzzyEnabled && len(response.Hits) == 0 {
		if fuzzyResponse, fuzzyErr := searchDirect(components, queryStr, *limit, true); fuzzyErr == nil && len(fuzzyResponse.Hits) > 0 {
			response = fuzzyResponse
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchDirect(components *Components, query string, limit int, fuzzy bool) (*cli.SearchResponse, error) {
	ctx := context.Background()
	results, err := components.Index.Search(ctx, query, limit, &runindex.SearchOptions{
		DiagnosisBoost: 3.0,
		FuzzyEnabled:   fuzzy,
	})
	if err != nil {
		return nil, err
	}
	response := &cli.SearchResponse{Query: query}
	for _, res := range results {
		hit := cli.SearchHit{ID: res.ID, Score: res.Score}
		if run, getErr := components.Storage.GetRun(ctx, res.ID); getErr == nil {
			hit.Source = run.Source
			if run.Output != nil {
				hit.PatientName = run.Output.Summary.PatientName
				hit.Diagnosis = run.Output.Summary.Diagnosis
			}
		}
		response.Hits = append(response.Hits, hit)
	}
	if len(response.Hits) == 0 && components.Suggester != nil {
		if check, checkErr := components.Suggester.Check(query); checkErr == nil && check.HasCorrections {
			response.Suggestion = check.CorrectedQuery
		}
	}
	return response, nil
}

func searchViaHTTP(serverURL, query string, limit int, fuzzy bool) (*cli.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	if fuzzy {
		params.Set("fuzzy", "true")
	}
	resp, err := http.Get(serverURL + "/api/v1/search?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response cli.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: clinscribe delete [flags] <run-id-or-file>")
		os.Exit(1)
	}
	arg := fs.Arg(0)

	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	// A path argument maps to the run derived from it.
	runID := arg
	if strings.ContainsAny(arg, "/\\") || !strings.HasPrefix(arg, "run:") {
		if abs, err := filepath.Abs(arg); err == nil {
			if _, err := components.Storage.GetRun(context.Background(), fileid.RunID(abs)); err == nil {
				runID = fileid.RunID(abs)
			}
		}
	}
	if err := components.Ingest.DeleteRun(context.Background(), runID); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Run deleted: %s\n", runID)
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	components, logger := mustInitialize(*configPath)
	defer logger.Sync()
	defer components.Close()

	rows, err := components.Storage.ListRuns(context.Background(), 0, 10000)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List runs failed: %v\n", err)
		os.Exit(1)
	}
	path, err := components.Exporter.Export(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d run(s) to %s\n", len(rows), path)
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	DatabasePath   string `json:"database_path,omitempty"`
	BleveIndexPath string `json:"bleve_index_path,omitempty"`
	ExportDir      string `json:"export_dir,omitempty"`
	EntityCap      int    `json:"entity_cap,omitempty"`
	MaxKeywords    int    `json:"max_keywords,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Runs            int64                 `json:"runs"`
	IndexedRuns     uint64                `json:"indexed_runs"`
	PipelineVersion string                `json:"pipeline_version"`
	DiskUsageBytes  *int64                `json:"disk_usage_bytes,omitempty"`
	Config          *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
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
		runCount, err := components.Storage.CountRuns(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count runs failed: %v\n", err)
			os.Exit(1)
		}
		indexed, err := components.Index.DocCount()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Index count failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Runs:            runCount,
			IndexedRuns:     indexed,
			PipelineVersion: pipeline.Version,
			Config: &statusConfigResponse{
				DatabasePath:   cfg.Storage.DatabasePath,
				BleveIndexPath: cfg.Storage.BleveIndexPath,
				ExportDir:      cfg.Storage.ExportDir,
				EntityCap:      cfg.Pipeline.EntityCap,
				MaxKeywords:    cfg.Pipeline.MaxKeywords,
			},
		}
		diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath, cfg.Storage.ExportDir)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("runs:               %d   # count of stored runs\n", status.Runs)
		fmt.Printf("indexed_runs:       %d   # count of runs in the search index\n", status.IndexedRuns)
		fmt.Printf("pipeline_version:   %s\n", status.PipelineVersion)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # storage + index + exports on disk\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:      %s\n", status.Config.DatabasePath)
			}
			if status.Config.BleveIndexPath != "" {
				fmt.Printf("bleve_index_path:   %s\n", status.Config.BleveIndexPath)
			}
			if status.Config.ExportDir != "" {
				fmt.Printf("export_dir:         %s\n", status.Config.ExportDir)
			}
			if status.Config.EntityCap > 0 {
				fmt.Printf("entity_cap:         %d\n", status.Config.EntityCap)
			}
			if status.Config.MaxKeywords > 0 {
				fmt.Printf("max_keywords:       %d\n", status.Config.MaxKeywords)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
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
		fmt.Println("Usage: clinscribe watch <add|remove|list> [path]")
		fmt.Println("  clinscribe watch add <path>     Add intake directory to watch")
		fmt.Println("  clinscribe watch remove <path>  Remove directory from watch")
		fmt.Println("  clinscribe watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: clinscribe watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
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
			fmt.Println("Usage: clinscribe watch remove <path>")
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
	Storage   storage.Storage
	Index     runindex.Index
	Suggester *runindex.Suggester
	Pipeline  *pipeline.Pipeline
	Ingest    *ingest.Service
	Exporter  *export.Writer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	idx, err := runindex.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run index: %w", err)
	}

	var analyzer sentiment.Analyzer
	if cfg.Sentiment.ModelPath != "" {
		onnxAnalyzer, onnxErr := sentiment.NewONNXAnalyzer(cfg.Sentiment.ModelPath, cfg.Sentiment.MaxTokens)
		if onnxErr != nil {
			// Fall back to the lexicon analyzer when the model cannot load.
			if logger != nil {
				logger.Warn("sentiment model unavailable, using lexicon analyzer",
					zap.String("model_path", cfg.Sentiment.ModelPath),
					zap.Error(onnxErr))
			}
		} else {
			analyzer = onnxAnalyzer
		}
	}

	pipeOpts := pipeline.Options{
		EntityCap:          cfg.Pipeline.EntityCap,
		EntityConfidence:   cfg.Pipeline.EntityConfidence,
		MaxKeywords:        cfg.Pipeline.MaxKeywords,
		SentimentThreshold: cfg.Pipeline.SentimentThreshold,
		SentimentAnalyzer:  analyzer,
	}
	if debug && logger != nil {
		pipeOpts.Logger = logger
	}
	pipe := pipeline.New(pipeOpts)

	svcOpts := []ingest.Option{}
	if debug && logger != nil {
		svcOpts = append(svcOpts, ingest.WithLogger(logger))
	}
	svc := ingest.NewService(pipe, store, idx, extract.NewExtractor(), svcOpts...)

	return &Components{
		Storage:   store,
		Index:     idx,
		Suggester: runindex.NewSuggester(idx, 2),
		Pipeline:  pipe,
		Ingest:    svc,
		Exporter:  export.NewWriter(cfg.Storage.ExportDir),
	}, nil
}

// mustInitialize is the shared config-load plus component-init path for the
// direct-access subcommands.
func mustInitialize(configPath string) (*Components, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, cfg.Debug)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	return components, logger
}

func printUsage() {
	fmt.Println(`clinscribe - Medical transcript structuring pipeline

Usage:
  clinscribe server [flags]            Start the HTTP server
  clinscribe process [flags] <file>    Process a transcript file or directory
  clinscribe runs [flags]              List stored runs
  clinscribe soap [flags] <run-id>     Print the SOAP note for a run
  clinscribe search [flags] <query>    Search stored runs
  clinscribe delete [flags] <id>       Delete a run
  clinscribe export [flags]            Export runs to a spreadsheet
  clinscribe status [flags]            Show pipeline/storage/index status
  clinscribe watch <add|remove|list>   Manage watched intake directories
  clinscribe version                   Show version
  clinscribe help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/clinscribe/config.yaml)
  --debug            Enable debug logging (directory changes, transcript processing, etc.)

Search Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to use direct storage when server is not running.
  --limit int        Number of results (default: 10)
  --fuzzy            Enable fuzzy matching for typo tolerance (default: false)
  --output string    Output format: text, compact, or json (default: text)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Watch Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  clinscribe server
  clinscribe process visit-notes.txt
  clinscribe process /data/intake
  clinscribe search "neck pain"
  clinscribe search --fuzzy whiplsh
  clinscribe soap run:3f5a...
  clinscribe export
  clinscribe status --output json
  clinscribe watch add /data/intake`)
}

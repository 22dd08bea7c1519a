// Foreman is the natural-language assistant behind the contractor app.
//
// It serves a JSON API that turns a conversation plus a snapshot of the
// business's records into a reply and, at most, one proposed change for
// the app to confirm and apply. Configuration is loaded from a single
// YAML file discovered automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	foreman serve                          Start the API server
//	foreman init [dir]                     Initialize a working directory with defaults
//	foreman ask -snapshot f.json <text>    Run one turn against a snapshot file
//	foreman catalog                        Print the operation catalog
//	foreman version                        Print version and build information
//	foreman -o json version                Output version information as JSON
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/legacyprime/foreman/internal/api"
	"github.com/legacyprime/foreman/internal/audit"
	"github.com/legacyprime/foreman/internal/buildinfo"
	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/config"
	"github.com/legacyprime/foreman/internal/connwatch"
	"github.com/legacyprime/foreman/internal/events"
	"github.com/legacyprime/foreman/internal/llm"
	"github.com/legacyprime/foreman/internal/ops"
	"github.com/legacyprime/foreman/internal/orchestrator"
	"github.com/legacyprime/foreman/internal/snapshot"
	"github.com/legacyprime/foreman/internal/talents"
	"github.com/legacyprime/foreman/internal/usage"
	"github.com/legacyprime/foreman/internal/vision"
)

func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point. Arguments are parsed by hand so that run
// carries no global flag state and can be called concurrently from tests.
func run(ctx context.Context, stdout io.Writer, stderr io.Writer, args []string) error {
	var configPath string
	var outputFmt string // "text" (default) or "json"
	var command string
	var cmdArgs []string

	for i := 0; i < len(args); i++ {
		switch {
		case command == "" && args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case command == "" && strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case command == "" && (args[i] == "-o" || args[i] == "--output") && i+1 < len(args):
			outputFmt = args[i+1]
			i++
		case command == "" && strings.HasPrefix(args[i], "-o="):
			outputFmt = strings.TrimPrefix(args[i], "-o=")
		case command == "" && strings.HasPrefix(args[i], "--output="):
			outputFmt = strings.TrimPrefix(args[i], "--output=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			if command == "" {
				return fmt.Errorf("unknown flag: %s", args[i])
			}
			cmdArgs = append(cmdArgs, args[i])
		}
	}

	if outputFmt == "" {
		outputFmt = "text"
	}
	if outputFmt != "text" && outputFmt != "json" {
		return fmt.Errorf("unknown output format: %q (expected text or json)", outputFmt)
	}

	switch command {
	case "serve":
		return runServe(ctx, stdout, stderr, configPath)
	case "init":
		dir := "."
		if len(cmdArgs) > 0 {
			dir = cmdArgs[0]
		}
		return runInit(stdout, dir)
	case "ask":
		return runAsk(ctx, stdout, stderr, configPath, outputFmt, cmdArgs)
	case "catalog":
		return runCatalog(stdout, outputFmt)
	case "version":
		return runVersion(stdout, outputFmt)
	case "":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runVersion(w io.Writer, outputFmt string) error {
	info := buildinfo.Info()
	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprintln(w, buildinfo.String())
	for _, kv := range info.Fields() {
		fmt.Fprintf(w, "  %-12s %s\n", kv[0]+":", kv[1])
	}
	return nil
}

// runCatalog prints the operations the model may call. JSON output is
// the exact tool list sent to the model.
func runCatalog(w io.Writer, outputFmt string) error {
	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.ToolSpecs())
	}

	entries := catalog.Entries()
	for _, e := range entries {
		kind := "read"
		if e.Writes() {
			kind = "write -> " + e.Action
		}
		fmt.Fprintf(w, "%-28s %-14s %s\n", e.Op, e.Domain, kind)
	}
	fmt.Fprintf(w, "\n%d operations\n", len(entries))
	return nil
}

func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Foreman - construction business assistant")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: foreman [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve                   Start the API server")
	fmt.Fprintln(w, "  init [dir]              Initialize working directory with defaults (default: .)")
	fmt.Fprintln(w, "  ask [opts] <message>    Run one turn against a snapshot file")
	fmt.Fprintln(w, "      -snapshot <file>    Business snapshot (appData JSON)")
	fmt.Fprintln(w, "      -page <context>     Page context, e.g. \"Project: Kitchen Remodel\"")
	fmt.Fprintln(w, "  catalog                 List the operation catalog")
	fmt.Fprintln(w, "  version                 Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>    Path to config file (default: auto-discover)")
	fmt.Fprintln(w, "  -o, --output fmt  Output format: text (default) or json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  ./config.yaml, ~/.config/foreman/config.yaml, /etc/foreman/config.yaml")
	return nil
}

// askArgs is the parsed form of the ask subcommand's arguments.
type askArgs struct {
	snapshotPath string
	page         string
	message      string
}

func parseAskArgs(args []string) (askArgs, error) {
	var a askArgs
	var words []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-snapshot" && i+1 < len(args):
			a.snapshotPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-snapshot="):
			a.snapshotPath = strings.TrimPrefix(args[i], "-snapshot=")
		case args[i] == "-page" && i+1 < len(args):
			a.page = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-page="):
			a.page = strings.TrimPrefix(args[i], "-page=")
		default:
			words = append(words, args[i])
		}
	}
	a.message = strings.TrimSpace(strings.Join(words, " "))
	if a.message == "" {
		return a, fmt.Errorf("usage: foreman ask [-snapshot file.json] [-page context] <message>")
	}
	return a, nil
}

// runAsk runs a single turn without the API server or the ledgers.
// Useful for trying prompts against a saved snapshot.
func runAsk(ctx context.Context, stdout, stderr io.Writer, configPath, outputFmt string, args []string) error {
	a, err := parseAskArgs(args)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, slog.LevelWarn, "text")

	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	snap := snapshot.New(snapshot.Data{})
	if a.snapshotPath != "" {
		raw, err := os.ReadFile(a.snapshotPath)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		if snap, err = snapshot.Decode(raw); err != nil {
			return fmt.Errorf("snapshot %s: %w", a.snapshotPath, err)
		}
	}

	orch, _, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}

	resp, err := orch.Run(ctx, &orchestrator.Request{
		Messages:    []orchestrator.Message{{Role: "user", Text: a.message}},
		Snapshot:    snap,
		PageContext: a.page,
	})
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprintln(stdout, resp.Content)
	if resp.ActionRequired != "" {
		data, err := json.MarshalIndent(resp.ActionData, "", "  ")
		if err != nil {
			return fmt.Errorf("encode action: %w", err)
		}
		fmt.Fprintf(stdout, "\nPending %s:\n%s\n", resp.ActionRequired, data)
	}
	return nil
}

// runServe loads config, opens the ledgers, wires the orchestrator and
// serves until SIGINT or SIGTERM.
func runServe(ctx context.Context, stdout io.Writer, stderr io.Writer, configPath string) error {
	logger := newLogger(stdout, slog.LevelInfo, "text")
	logger.Info("starting Foreman", "version", buildinfo.Version, "commit", buildinfo.GitCommit, "branch", buildinfo.GitBranch, "built", buildinfo.BuildTime)

	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	{
		level := slog.LevelInfo
		if cfg.LogLevel != "" {
			level, _ = config.ParseLogLevel(cfg.LogLevel)
		}
		logger = newLogger(stdout, level, cfg.LogFormat)
	}

	logger.Info("config loaded",
		"path", cfgPath,
		"port", cfg.Listen.Port,
		"model", cfg.Models.Default,
		"vision_model", cfg.Models.Vision,
		"data_dir", cfg.DataDir,
	)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	usageStore, err := usage.NewStore(filepath.Join(cfg.DataDir, "usage.db"))
	if err != nil {
		return fmt.Errorf("open usage store: %w", err)
	}
	defer usageStore.Close()

	auditStore, err := audit.Open(filepath.Join(cfg.DataDir, "audit.db"))
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	defer auditStore.Close()

	bus := events.New()

	orch, providers, err := buildOrchestrator(cfg, logger)
	if err != nil {
		return err
	}
	orch.SetUsageRecorder(usageStore)
	orch.SetCallRecorder(auditStore)
	orch.SetEventBus(bus)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor := connwatch.NewMonitor(connwatch.DefaultSchedule(), logger)
	monitor.SetEventBus(bus)
	for name, client := range providers {
		monitor.Add(name, client.Ping)
	}
	watchCtx, stopWatch := context.WithCancel(ctx)
	monitor.Start(watchCtx)
	defer func() {
		stopWatch()
		monitor.Wait()
	}()

	server := api.NewServer(cfg.Listen.Address, cfg.Listen.Port, int64(cfg.Listen.MaxBodyMB)<<20, orch, logger)
	server.SetUsageReporter(usageStore)
	server.SetCallLister(auditStore)
	server.SetHealthReporter(monitor)
	server.SetEventBus(bus)

	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("API server shutdown failed", "error", err)
		}
	}()

	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("API server: %w", err)
	}
	logger.Info("Foreman stopped")
	return nil
}

// buildOrchestrator wires the model client, the vision analyzer, the
// executor and the talents into an orchestrator. Ledgers and the event
// bus are left to the caller, which also gets the provider clients for
// health probes.
func buildOrchestrator(cfg *config.Config, logger *slog.Logger) (*orchestrator.Orchestrator, map[string]llm.Client, error) {
	loc, err := cfg.Company.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("company.timezone: %w", err)
	}

	loaded, err := talents.NewLoader(cfg.TalentsDir).LoadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("load talents: %w", err)
	}
	if len(loaded) > 0 {
		logger.Info("talents loaded", "dir", cfg.TalentsDir, "count", len(loaded))
	}

	client, providers := createLLMClient(cfg, logger)
	analyzer := vision.NewAnalyzer(client, cfg.Models.Vision, logger)
	executor := ops.NewExecutor(analyzer, logger)

	return orchestrator.New(client, executor, orchestrator.Config{
		Model:        cfg.Models.Default,
		Company:      cfg.Company.Name,
		Location:     loc,
		ModelTimeout: cfg.Orchestrator.ModelTimeout(),
		ToolTimeout:  cfg.Orchestrator.ToolTimeout(),
		Pricing:      cfg.Pricing,
		Talents:      loaded,
		Provider:     client.ProviderFor,
	}, logger), providers, nil
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	return config.NewLogger(w, level, format)
}

// loadConfig locates and parses the YAML configuration file. If explicit
// is non-empty, that exact path is used (and must exist). Otherwise,
// [config.FindConfig] searches the default locations.
func loadConfig(explicit string) (*config.Config, string, error) {
	cfgPath, err := config.FindConfig(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfgPath, fmt.Errorf("load config %s: %w", cfgPath, err)
	}

	return cfg, cfgPath, nil
}

// createLLMClient builds a multi-provider client. Each model listed in
// config is routed to its provider; anything unlisted goes to OpenAI.
// The configured providers are also returned by name.
func createLLMClient(cfg *config.Config, logger *slog.Logger) (*llm.MultiClient, map[string]llm.Client) {
	defaults := llm.Defaults{
		Temperature: cfg.Models.Temperature,
		MaxTokens:   cfg.Models.MaxTokens,
	}

	openai := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, defaults, logger)
	multi := llm.NewMultiClient("openai")
	multi.AddProvider("openai", openai)

	providers := make(map[string]llm.Client)
	if cfg.OpenAI.APIKey != "" || cfg.OpenAI.BaseURL != "" {
		providers["openai"] = openai
	}
	if cfg.Anthropic.APIKey != "" {
		anthropic := llm.NewAnthropicClient(cfg.Anthropic.APIKey, defaults, logger)
		multi.AddProvider("anthropic", anthropic)
		providers["anthropic"] = anthropic
		logger.Info("Anthropic provider configured")
	}

	for _, m := range cfg.Models.Available {
		multi.AddModel(m.Name, m.Provider)
	}

	logger.Info("LLM client initialized",
		"default_model", cfg.Models.Default,
		"default_provider", multi.ProviderFor(cfg.Models.Default),
	)
	return multi, providers
}

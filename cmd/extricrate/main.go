// # cmd/extricrate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"extricrate/internal/app"
	"extricrate/internal/config"
	"extricrate/internal/resolver"
)

var (
	configPath = flag.String("config", "./extricrate.toml", "Path to config file")
	module     = flag.String("module", "", "Report on one module and check extraction feasibility (env EXTRICRATE_MODULE)")
	once       = flag.Bool("once", false, "Run single resolution and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("extricrate v%s\n", VERSION)
		os.Exit(0)
	}

	if *module == "" {
		*module = os.Getenv("EXTRICRATE_MODULE")
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					logOutput = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./extricrate.toml" {
			cfg, err = config.Load("./extricrate.example.toml")
		}
		if err != nil {
			slog.Debug("no config file found, using defaults", "path", *configPath)
			cfg = config.Default()
		}
	}

	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	a, err := app.New(cfg, root)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	result, err := a.Resolve()
	if err != nil {
		slog.Error("resolution failed", "error", err)
		os.Exit(1)
	}

	if err := a.GenerateOutputs(result); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	if err := a.SaveSnapshot(result); err != nil {
		slog.Error("failed to save history snapshot", "error", err)
	}

	if *module != "" {
		report, err := a.ModuleReport(result, resolver.ModulePath(*module))
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Print(report)
		os.Exit(0)
	}

	if !*ui {
		fmt.Print(a.Listing(result))
		a.PrintSummary(result)
	}

	if *once {
		os.Exit(0)
	}

	// Watch mode
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *ui {
		go func() {
			if err := a.Watch(ctx); err != nil && ctx.Err() == nil {
				slog.Error("watcher stopped", "error", err)
			}
		}()
		if err := runUI(a); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		if err := a.Watch(ctx); err != nil && ctx.Err() == nil {
			slog.Error("watcher stopped", "error", err)
			os.Exit(1)
		}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "extricrate", "extricrate.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "extricrate", "extricrate.log")
	}

	return "extricrate.log"
}

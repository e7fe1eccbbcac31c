package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"extricrate/internal/config"
	"extricrate/internal/graph"
	"extricrate/internal/history"
	"extricrate/internal/observability"
	"extricrate/internal/output"
	"extricrate/internal/resolver"
	"extricrate/internal/shared/util"
	"extricrate/internal/watcher"
)

// Result is one finished resolution run.
type Result struct {
	CrateName  string
	Index      resolver.ImportIndex
	Graph      *graph.Graph
	Cycles     [][]resolver.ModulePath
	FileCount  int
	Duration   time.Duration
	ResolvedAt time.Time
}

// App wires the resolver pipeline to config, outputs, history and watch mode.
type App struct {
	Config *config.Config
	Root   string

	store *history.Store

	resultMu sync.RWMutex
	result   *Result

	updateMu sync.RWMutex
	onUpdate func(*Result)
}

func New(cfg *config.Config, root string) (*App, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve crate root %q: %w", root, err)
	}

	a := &App{Config: cfg, Root: absRoot}

	if cfg.History.Path != "" {
		path := cfg.History.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(absRoot, path)
		}
		store, err := history.Open(path)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	return a, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) SetUpdateHandler(handler func(*Result)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) CurrentResult() *Result {
	a.resultMu.RLock()
	defer a.resultMu.RUnlock()
	return a.result
}

// Resolve runs one full resolution of the crate: manifest, walk, graph,
// cycles. Any walker error aborts the run; there are no partial results.
func (a *App) Resolve() (*Result, error) {
	start := time.Now()

	tree := resolver.NewDirTree(a.Root)
	manifest, err := resolver.ReadManifest(tree)
	if err != nil {
		observability.ResolutionErrorsTotal.Inc()
		return nil, err
	}

	index, err := resolver.NewWalker(tree).Walk()
	if err != nil {
		observability.ResolutionErrorsTotal.Inc()
		return nil, err
	}

	g := graph.Build(index)
	result := &Result{
		CrateName:  manifest.Package.Name,
		Index:      index,
		Graph:      g,
		Cycles:     g.DetectCycles(),
		FileCount:  len(index),
		Duration:   time.Since(start),
		ResolvedAt: time.Now(),
	}
	observability.ResolutionDuration.Observe(result.Duration.Seconds())

	a.resultMu.Lock()
	a.result = result
	a.resultMu.Unlock()

	slog.Info("resolved crate",
		"crate", result.CrateName,
		"files", result.FileCount,
		"modules", g.ModuleCount(),
		"edges", g.EdgeCount(),
		"cycles", len(result.Cycles),
		"duration", result.Duration,
	)

	a.emitUpdate(result)
	return result, nil
}

func (a *App) emitUpdate(result *Result) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(result)
	}
}

// GenerateOutputs writes the configured artifacts. Empty paths disable the
// corresponding format.
func (a *App) GenerateOutputs(result *Result) error {
	if path := a.Config.Output.DOT; path != "" {
		dot, err := output.NewDOTGenerator(result.Graph).Generate(result.Cycles)
		if err != nil {
			return fmt.Errorf("generate DOT output: %w", err)
		}
		if err := a.writeArtifact(path, dot); err != nil {
			return fmt.Errorf("write DOT output %q: %w", path, err)
		}
	}

	if path := a.Config.Output.Mermaid; path != "" {
		diagram, err := output.NewMermaidGenerator(result.Graph).Generate(result.Cycles)
		if err != nil {
			return fmt.Errorf("generate Mermaid output: %w", err)
		}
		if err := a.writeArtifact(path, diagram); err != nil {
			return fmt.Errorf("write Mermaid output %q: %w", path, err)
		}
	}

	if path := a.Config.Output.TSV; path != "" {
		tsv, err := output.NewTSVGenerator(result.Index).Generate()
		if err != nil {
			return fmt.Errorf("generate TSV output: %w", err)
		}
		if err := a.writeArtifact(path, tsv); err != nil {
			return fmt.Errorf("write TSV output %q: %w", path, err)
		}
	}

	return nil
}

func (a *App) writeArtifact(path, content string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.Root, path)
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// SaveSnapshot records the run's counts. A nil store (no history configured)
// is a no-op.
func (a *App) SaveSnapshot(result *Result) error {
	if a.store == nil {
		return nil
	}

	maxFanIn, maxFanOut := 0, 0
	for _, m := range result.Graph.Metrics() {
		if m.FanIn > maxFanIn {
			maxFanIn = m.FanIn
		}
		if m.FanOut > maxFanOut {
			maxFanOut = m.FanOut
		}
	}

	key := a.Config.History.ProjectKey
	if key == "" {
		key = result.CrateName
	}

	return a.store.SaveSnapshot(key, history.Snapshot{
		ModuleCount:   result.Graph.ModuleCount(),
		FileCount:     result.FileCount,
		EdgeCount:     result.Graph.EdgeCount(),
		ExternalCount: len(result.Graph.ExternalTargets()),
		CycleCount:    len(result.Cycles),
		MaxFanIn:      maxFanIn,
		MaxFanOut:     maxFanOut,
	})
}

// Watch re-resolves the crate whenever relevant files change, bounded by the
// configured rate limit. Blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	if addr := a.Config.Observability.Addr; addr != "" {
		srv := observability.NewServer(addr, a.health)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	changes := make(chan struct{}, 1)
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) {
			slog.Info("detected changes", "count", len(paths))
			select {
			case changes <- struct{}{}:
			default:
			}
		},
	)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch([]string{a.Root}); err != nil {
		return err
	}

	limiter := util.NewLimiter(a.Config.Watch.RatePerSecond, a.Config.Watch.Burst)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			if err := limiter.Wait(ctx, 1); err != nil {
				return err
			}
			a.runOnce()
		}
	}
}

func (a *App) health() observability.Health {
	result := a.CurrentResult()
	if result == nil {
		return observability.Health{Status: "down"}
	}
	return observability.Health{
		Status:  "up",
		Crate:   result.CrateName,
		Modules: result.Graph.ModuleCount(),
		LastRun: result.ResolvedAt,
	}
}

// runOnce is one watch-triggered pipeline pass. Resolution errors are logged,
// not fatal: the next change gets a fresh attempt.
func (a *App) runOnce() {
	result, err := a.Resolve()
	if err != nil {
		slog.Error("resolution failed", "error", err)
		return
	}
	if err := a.GenerateOutputs(result); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	if err := a.SaveSnapshot(result); err != nil {
		slog.Error("failed to save history snapshot", "error", err)
	}
	a.PrintSummary(result)
}

// Listing renders the module dependency listing, one module per line block.
func (a *App) Listing(result *Result) string {
	var b strings.Builder
	for _, module := range result.Graph.Modules() {
		b.WriteString(string(module))
		b.WriteString("\n")
		for _, dep := range result.Graph.Dependencies(module) {
			marker := "  -> "
			if !dep.IsLocal() {
				marker = "  => " // external leaf
			}
			b.WriteString(marker)
			b.WriteString(string(dep))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ModuleReport describes one module: its dependencies, dependents, and
// whether import cycles would block extracting it from the crate.
func (a *App) ModuleReport(result *Result, module resolver.ModulePath) (string, error) {
	deps := result.Graph.Dependencies(module)
	dependents := result.Graph.Dependents(module)
	if len(deps) == 0 && len(dependents) == 0 {
		return "", fmt.Errorf("module not found in graph: %s", module)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Module: %s\n", module)

	b.WriteString("Depends on:\n")
	if len(deps) == 0 {
		b.WriteString("  (nothing)\n")
	}
	for _, dep := range deps {
		fmt.Fprintf(&b, "  %s\n", dep)
	}

	b.WriteString("Depended on by:\n")
	if len(dependents) == 0 {
		b.WriteString("  (nothing)\n")
	}
	for _, dep := range dependents {
		fmt.Fprintf(&b, "  %s\n", dep)
	}

	cycles := result.Graph.CyclesInvolving(module)
	if len(cycles) == 0 {
		b.WriteString("Extraction: no import cycles involve this module\n")
	} else {
		fmt.Fprintf(&b, "Extraction: blocked by %d import cycle(s):\n", len(cycles))
		for _, cycle := range cycles {
			fmt.Fprintf(&b, "  %s\n", joinCycle(cycle))
		}
	}

	return b.String(), nil
}

func joinCycle(cycle []resolver.ModulePath) string {
	parts := make([]string, 0, len(cycle)+1)
	for _, m := range cycle {
		parts = append(parts, string(m))
	}
	if len(cycle) > 0 {
		parts = append(parts, string(cycle[0]))
	}
	return strings.Join(parts, " -> ")
}

func (a *App) PrintSummary(result *Result) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Crate %s: %d files, %d modules, %d edges in %v\n",
		result.CrateName, result.FileCount, result.Graph.ModuleCount(), result.Graph.EdgeCount(), result.Duration)

	if len(result.Cycles) > 0 {
		fmt.Printf("⚠️  FOUND %d CIRCULAR IMPORTS:\n", len(result.Cycles))
		for _, c := range result.Cycles {
			fmt.Printf("   %s\n", joinCycle(c))
		}
	} else {
		fmt.Println("✅ No circular imports found.")
	}
}

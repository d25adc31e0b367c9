// Package app implements the application layer for unitstat.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/unitstat/internal/adapters/config"
	"go.trai.ch/unitstat/internal/adapters/daemon"
	"go.trai.ch/unitstat/internal/adapters/detector"
	"go.trai.ch/unitstat/internal/adapters/export"
	"go.trai.ch/unitstat/internal/adapters/loadhook"
	"go.trai.ch/unitstat/internal/adapters/publisher"
	"go.trai.ch/unitstat/internal/adapters/scanner"
	"go.trai.ch/unitstat/internal/adapters/telemetry"
	"go.trai.ch/unitstat/internal/adapters/watcher"
	"go.trai.ch/unitstat/internal/core/domain"
	"go.trai.ch/unitstat/internal/core/ports"
	"go.trai.ch/unitstat/internal/engine/inventory"
	"go.trai.ch/unitstat/internal/engine/registry"
	"go.trai.ch/unitstat/internal/engine/usage"
	"go.trai.ch/unitstat/internal/ui/render"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	exporter     ports.Exporter
	table        *publisher.Table
	hook         *loadhook.Dispatcher
	tracer       ports.Tracer
	watcher      ports.Watcher
	connector    ports.DaemonConnector

	stdout  io.Writer
	stdin   io.Reader
	workDir string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	exporter ports.Exporter,
	table *publisher.Table,
	hook *loadhook.Dispatcher,
	tracer ports.Tracer,
	fsWatcher ports.Watcher,
	connector ports.DaemonConnector,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		exporter:     exporter,
		table:        table,
		hook:         hook,
		tracer:       tracer,
		watcher:      fsWatcher,
		connector:    connector,
		stdout:       os.Stdout,
		stdin:        os.Stdin,
		workDir:      ".",
	}
}

// WithIO redirects command output and the "-" event stream.
// The exporter's stdout destination follows the new output.
func (a *App) WithIO(stdout io.Writer, stdin io.Reader) *App {
	a.stdout = stdout
	a.stdin = stdin
	if s, ok := a.exporter.(interface{ SetOutput(w io.Writer) }); ok {
		s.SetOutput(stdout)
	}
	return a
}

// WithWorkDir sets the directory the configuration is discovered from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// ScanOptions configuration for the Scan method.
type ScanOptions struct {
	Roots []string
}

// ReportOptions configuration for the Report and Export methods.
type ReportOptions struct {
	Roots  []string
	Events string
	Dead   bool
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	Roots       []string
	Events      string
	Watch       bool
	IdleTimeout time.Duration
}

// Scan prints the search path inventory as name, kind and source separated by tabs.
// Errors from individual roots are logged. Scan fails only when nothing was found.
func (a *App) Scan(ctx context.Context, opts ScanOptions) error {
	cfg, err := a.loadConfig(opts.Roots, true)
	if err != nil {
		return err
	}
	defer a.setupTelemetry(ctx)()

	inv, _ := a.newEngine(cfg)
	entries, err := inv.Entries(ctx)
	if err != nil {
		if len(entries) == 0 {
			return zerr.Wrap(err, "search path scan failed")
		}
		a.logger.Error(err)
	}

	w := bufio.NewWriter(a.stdout)
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Kind, e.Source)
	}
	return w.Flush()
}

// Report feeds a recorded load trace into fresh statistics and prints the result as CSV.
// With Dead set only the names of units that were never loaded are printed.
func (a *App) Report(ctx context.Context, opts ReportOptions) error {
	cfg, err := a.loadConfig(opts.Roots, true)
	if err != nil {
		return err
	}
	defer a.setupTelemetry(ctx)()

	records, err := a.analyze(ctx, cfg, opts)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(a.stdout)
	if opts.Dead {
		for _, r := range records {
			_, _ = fmt.Fprintln(w, r.Name)
		}
		return w.Flush()
	}

	_, _ = fmt.Fprintln(w, usage.CSVHeader)
	for _, line := range usage.EncodeCSV(records) {
		_, _ = fmt.Fprintln(w, line)
	}
	return w.Flush()
}

// Export runs the same analysis as Report and delivers the CSV to uri.
// An empty uri selects the configured export_uri.
func (a *App) Export(ctx context.Context, uri string, opts ReportOptions) error {
	cfg, err := a.loadConfig(opts.Roots, true)
	if err != nil {
		return err
	}
	if uri == "" {
		uri = cfg.ExportURI
	}
	if uri == "" {
		return zerr.Wrap(domain.Tag(domain.ErrUnsupportedExportURI, "uri", uri), "no export destination given or configured")
	}
	defer a.setupTelemetry(ctx)()

	records, err := a.analyze(ctx, cfg, opts)
	if err != nil {
		return err
	}
	return a.export(ctx, uri, records)
}

// Serve starts the inspection registry and the daemon and blocks until ctx is done
// or a client asks the daemon to stop. Load events are read from opts.Events while serving.
// If an export destination is configured the final snapshot is exported on the way out.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig(opts.Roots, true)
	if err != nil {
		return err
	}
	defer a.setupTelemetry(ctx)()

	inv, stats := a.newEngine(cfg)
	reg := registry.New(a.table, a.hook, stats, inv, a.logger, registry.Options{
		Level:          cfg.Naming.Level,
		StatisticsName: cfg.Naming.Statistics,
		InventoryName:  cfg.Naming.Inventory,
		Policy:         cfg.ConflictPolicy,
	})
	if err := reg.Start(ctx); err != nil {
		return zerr.Wrap(err, "failed to start inspection registry")
	}
	// Teardown must run even when the caller's context is already cancelled.
	cleanupCtx := context.WithoutCancel(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := daemon.NewServer(daemon.NewLifecycle(opts.IdleTimeout), a.table, cfg.SocketPath)
	g, gctx := errgroup.WithContext(ctx)

	if opts.Watch || cfg.Watch {
		if err := a.watch(gctx, g, cfg, inv); err != nil {
			cancel()
			return errors.Join(err, g.Wait(), reg.Stop(cleanupCtx))
		}
	}

	g.Go(func() error {
		defer cancel()
		return server.Serve(gctx)
	})

	g.Go(func() error {
		select {
		case <-server.Ready():
			a.logger.Info(fmt.Sprintf("inspection daemon listening on %s", cfg.SocketPath))
		case <-gctx.Done():
		}
		return nil
	})

	if opts.Events != "" {
		// Not part of the group: a blocking read on stdin cannot be interrupted.
		// Events arriving after shutdown are dropped by the uninstalled hook.
		go func() {
			if err := a.ingest(gctx, opts.Events, a.hook.Notify); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error(err)
			}
		}()
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	stopErr := reg.Stop(cleanupCtx)
	if dropped := a.hook.Dropped(); dropped > 0 {
		a.logger.Warn(fmt.Sprintf("%d load events arrived while no hook was installed", dropped))
	}

	var exportErr error
	if cfg.ExportURI != "" {
		exportErr = a.exportSnapshot(cleanupCtx, cfg.ExportURI, stats)
	}

	return errors.Join(err, stopErr, exportErr)
}

// Status prints the status of the daemon, or the attributes of one published object when name is set.
func (a *App) Status(ctx context.Context, name string) error {
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if name == "" {
		st, err := client.Status(ctx)
		if err != nil {
			return err
		}
		return render.Status(a.stdout, st)
	}

	attrs, err := client.Get(ctx, name)
	if err != nil {
		return err
	}
	return render.Object(a.stdout, name, attrs)
}

// Stop asks the running daemon to shut down.
func (a *App) Stop(ctx context.Context) error {
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Shutdown(ctx); err != nil {
		return zerr.Wrap(err, "failed to stop inspection daemon")
	}
	a.logger.Info("inspection daemon is shutting down")
	return nil
}

func (a *App) connect(ctx context.Context) (ports.DaemonClient, error) {
	cfg, err := a.loadConfig(nil, false)
	if err != nil {
		return nil, err
	}
	return a.connector.Connect(ctx, cfg.SocketPath)
}

// loadConfig loads the configuration and applies the root arguments, which replace configured roots.
func (a *App) loadConfig(roots []string, needRoots bool) (*domain.Config, error) {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	a.configureLogging(cfg.LogFormat)

	if len(roots) > 0 {
		base, err := filepath.Abs(a.workDir)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to resolve working directory")
		}
		cfg.Roots = config.ResolveRoots(base, roots)
	}

	if needRoots && len(cfg.Roots) == 0 {
		return nil, domain.Tag(domain.ErrNoRoots, "config", cfg.Path)
	}
	return cfg, nil
}

func (a *App) configureLogging(format domain.LogFormat) {
	l, ok := a.logger.(interface{ SetJSON(enable bool) })
	if !ok {
		return
	}
	resolved := detector.ResolveLogFormat(detector.DetectEnvironment(), format)
	l.SetJSON(resolved == domain.LogFormatJSON)
}

func (a *App) setupTelemetry(ctx context.Context) func() {
	shutdown := telemetry.Setup(telemetry.NewBridge(a.logger))
	return func() {
		_ = shutdown(context.WithoutCancel(ctx))
	}
}

func (a *App) newEngine(cfg *domain.Config) (*inventory.Inventory, *usage.Statistics) {
	sc := scanner.New(cfg.UnitExtensions, cfg.ArchiveExtensions)
	inv := inventory.New(sc, cfg.Roots, a.logger, a.tracer)
	return inv, usage.NewStatistics(inv)
}

// analyze replays the event trace into fresh statistics and returns the snapshot.
func (a *App) analyze(ctx context.Context, cfg *domain.Config, opts ReportOptions) ([]domain.UnitRecord, error) {
	_, stats := a.newEngine(cfg)
	if err := a.ingest(ctx, opts.Events, stats.RecordLoad); err != nil {
		return nil, err
	}

	records, err := a.snapshot(ctx, stats)
	if err != nil {
		return nil, err
	}
	if opts.Dead {
		records = usage.FilterDead(records)
	}
	return records, nil
}

// snapshot returns the statistics snapshot. A partial scan is logged, not returned.
func (a *App) snapshot(ctx context.Context, stats *usage.Statistics) ([]domain.UnitRecord, error) {
	records, err := stats.Snapshot(ctx)
	if err != nil {
		if records == nil {
			return nil, zerr.Wrap(err, "failed to snapshot usage statistics")
		}
		a.logger.Error(err)
	}
	return records, nil
}

func (a *App) exportSnapshot(ctx context.Context, uri string, stats *usage.Statistics) error {
	records, err := a.snapshot(ctx, stats)
	if err != nil {
		return err
	}
	return a.export(ctx, uri, records)
}

func (a *App) export(ctx context.Context, uri string, records []domain.UnitRecord) error {
	if err := a.exporter.Export(ctx, uri, usage.CSVHeader, usage.EncodeCSV(records)); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("exported %d records to %s", len(records), export.Describe(uri)))
	return nil
}

// ingest feeds the trace at path into notify. An empty path is a no-op, "-" reads stdin.
func (a *App) ingest(ctx context.Context, path string, notify func(name string)) error {
	if path == "" {
		return nil
	}

	var r io.Reader = a.stdin
	source := "stdin"
	if path != "-" {
		// #nosec G304 -- the trace path is supplied by the user on purpose
		f, err := os.Open(path)
		if err != nil {
			return zerr.With(domain.Cause(domain.ErrEventReadFailed, err), "path", path)
		}
		defer func() { _ = f.Close() }()
		r = f
		source = path
	}

	n, err := loadhook.Feed(ctx, r, notify)
	a.logger.Info(fmt.Sprintf("ingested %d load events from %s", n, source))
	if err != nil {
		return zerr.With(err, "path", source)
	}
	return nil
}

// watch starts watching the search path and invalidates the inventory after each quiet period.
func (a *App) watch(ctx context.Context, g *errgroup.Group, cfg *domain.Config, inv *inventory.Inventory) error {
	if err := a.watcher.Start(ctx, cfg.Roots); err != nil {
		return zerr.Wrap(err, "failed to watch search path")
	}

	debouncer := watcher.NewDebouncer(cfg.Debounce, func(paths []string) {
		inv.Invalidate()
		a.logger.Info(fmt.Sprintf("search path changed (%d paths), inventory will be rescanned", len(paths)))
	})

	g.Go(func() error {
		defer func() { _ = a.watcher.Stop() }()
		defer debouncer.Stop()
		for ev := range a.watcher.Events() {
			debouncer.Add(ev.Path)
		}
		return nil
	})
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/calcdesk/config"
	"github.com/alejandrodnm/calcdesk/internal/adapters/cache"
	"github.com/alejandrodnm/calcdesk/internal/adapters/chart"
	"github.com/alejandrodnm/calcdesk/internal/adapters/notify"
	"github.com/alejandrodnm/calcdesk/internal/adapters/remote"
	"github.com/alejandrodnm/calcdesk/internal/adapters/storage"
	"github.com/alejandrodnm/calcdesk/internal/application/calculator"
	"github.com/alejandrodnm/calcdesk/internal/catalog"
	"github.com/alejandrodnm/calcdesk/internal/ports"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	list := flag.Bool("list", false, "print the calculator catalog and exit")
	calcID := flag.String("calc", "", "calculator to evaluate (see -list)")
	var sets setFlag
	flag.Var(&sets, "set", "input value key=value (repeatable)")
	chartPath := flag.String("chart", "", "with -calc: also write the result chart as PNG to this path")
	copyText := flag.Bool("copy", false, "with -calc: print the plain-text copy block")
	batchPath := flag.String("batch", "", "evaluate every calculation in a YAML batch file")
	workers := flag.Int("workers", 0, "with -batch: concurrent workers (0 = NumCPU)")
	history := flag.Bool("history", false, "print calculations from the last 24h and usage counters")
	serve := flag.Bool("serve", false, "run the HTTP API until SIGINT/SIGTERM")
	dryRun := flag.Bool("dry-run", false, "do not persist calculations")
	remoteURL := flag.String("remote", "", "with -list/-calc/-history: use the calcdesk API at this URL instead of evaluating locally")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	logLevel := setupLogger(cfg.Log)

	solver, err := cfg.SolverConfig()
	if err != nil {
		slog.Error("invalid solver config", "err", err)
		os.Exit(1)
	}
	registry := catalog.New(solver)
	console := notify.NewConsole(true, *copyText)

	if *remoteURL != "" {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		err := runRemote(ctx, remote.NewClient(*remoteURL), console, *list, *calcID, sets.values, *history)
		cancel()
		if err != nil {
			slog.Error("calcdesk failed", "err", err, "remote", *remoteURL)
			os.Exit(1)
		}
		return
	}

	if *list {
		console.PrintCatalog(registry.List())
		return
	}

	slog.Debug("calcdesk starting",
		"config", *configPath,
		"calculators", registry.Len(),
		"dry_run", *dryRun,
		"serve", *serve,
	)

	var store ports.Storage
	if !*dryRun {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	resultCache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	svc := calculator.New(registry, store, resultCache)
	renderer := chart.NewPNGRenderer(cfg.Chart.Width, cfg.Chart.Height)

	switch {
	case *serve:
		if !*verbose {
			watchLogLevel(ctx, *configPath, logLevel)
		}
		err = runServer(ctx, cfg, svc, renderer)
	case *batchPath != "":
		err = runBatch(ctx, svc, console, *batchPath, *workers)
	case *calcID != "":
		err = runCalc(ctx, svc, console, renderer, *calcID, sets.values, *chartPath)
	case *history:
		err = runHistory(ctx, svc, console)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("calcdesk failed", "err", err)
		os.Exit(1)
	}
}

// loadConfig usa los defaults si el archivo por defecto no existe.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil && path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// newCache elige Redis si hay dirección configurada y responde; si no, memoria.
func newCache(ctx context.Context, cfg *config.Config) (ports.ResultCache, func()) {
	if cfg.Cache.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB, cfg.CacheTTL())
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rc.Ping(pingCtx)
		if err == nil {
			slog.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
			return rc, func() { rc.Close() }
		}
		slog.Warn("redis unavailable, falling back to memory cache", "addr", cfg.Cache.RedisAddr, "err", err)
		rc.Close()
	}
	return cache.NewMemoryCache(cfg.CacheTTL(), cfg.Cache.MaxEntries), func() {}
}

func runCalc(ctx context.Context, svc *calculator.Service, presenter ports.Presenter, renderer ports.ChartRenderer,
	id string, in map[string]float64, chartPath string) error {
	calc, err := svc.Evaluate(ctx, id, in)
	if err != nil {
		return err
	}
	if err := presenter.Present(ctx, calc); err != nil {
		return err
	}

	if chartPath == "" {
		return nil
	}
	if calc.Result.Chart == nil {
		slog.Warn("calculator has no chart", "calculator", id)
		return nil
	}
	img, err := renderer.Render(*calc.Result.Chart)
	if err != nil {
		return err
	}
	if err := os.WriteFile(chartPath, img, 0o644); err != nil {
		return fmt.Errorf("write chart %q: %w", chartPath, err)
	}
	slog.Info("chart written", "path", chartPath, "bytes", len(img))
	return nil
}

func runBatch(ctx context.Context, svc *calculator.Service, console *notify.Console, path string, workers int) error {
	reqs, err := calculator.LoadBatch(path)
	if err != nil {
		return err
	}
	slog.Info("running batch", "path", path, "calculations", len(reqs))
	outcomes := svc.EvaluateBatch(ctx, reqs, workers)
	console.PrintBatch(outcomes)
	return nil
}

func runHistory(ctx context.Context, svc *calculator.Service, console *notify.Console) error {
	to := time.Now()
	calcs, err := svc.History(ctx, to.Add(-24*time.Hour), to)
	if err != nil {
		return err
	}
	console.PrintHistory(calcs)

	usage, err := svc.Usage(ctx)
	if err != nil {
		return err
	}
	console.PrintUsage(usage)
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(parseLevel(cfg.Level))

	// stdout queda para los resultados
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return level
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

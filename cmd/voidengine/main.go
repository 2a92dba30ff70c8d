// cmd/voidengine/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-voidengine/pkg/asset"
	"github.com/opd-ai/go-voidengine/pkg/audio"
	"github.com/opd-ai/go-voidengine/pkg/config"
	"github.com/opd-ai/go-voidengine/pkg/engine"
	"github.com/opd-ai/go-voidengine/pkg/event"
	"github.com/opd-ai/go-voidengine/pkg/health"
	"github.com/opd-ai/go-voidengine/pkg/input"
	"github.com/opd-ai/go-voidengine/pkg/logging"
	"github.com/opd-ai/go-voidengine/pkg/render"
	engorender "github.com/opd-ai/go-voidengine/pkg/render/engo"
	"github.com/opd-ai/go-voidengine/pkg/resource"
)

// Presenter names accepted by -presenter.
const (
	presenterNull     = "null"
	presenterTerminal = "terminal"
	presenterEngo     = "engo"
)

// tickStallWindow is how long the tick counter may stand still before
// readiness fails.
const tickStallWindow = 2 * time.Second

type options struct {
	configPath    string
	createDefault bool
	presenter     string
	assetPath     string
	ticks         int
	logPath       string
	healthAddr    string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.json", "Path to configuration file")
	flag.BoolVar(&opts.createDefault, "default", false, "Create default configuration file")
	flag.StringVar(&opts.presenter, "presenter", presenterNull, "Presenter type: 'null', 'terminal' or 'engo'")
	flag.StringVar(&opts.assetPath, "asset", "", "Image used for every sprite (placeholder if missing)")
	flag.IntVar(&opts.ticks, "ticks", 0, "Stop after this many ticks (0 runs until interrupted)")
	flag.StringVar(&opts.logPath, "log", "", "Write logs to this file instead of stdout")
	flag.StringVar(&opts.healthAddr, "health", "", "Serve /health and /ready on this address (disabled if empty)")
	flag.Parse()

	os.Exit(run(opts))
}

func run(opts options) int {
	logger, closeLog, err := newLogger(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", opts.configPath,
			)
			return 1
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", opts.configPath,
		)
		return 0
	}

	cfg, err := loadConfig(ctx, logger, opts.configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", opts.configPath,
		)
		return 1
	}

	bus := event.NewEventBus()
	decoder := asset.FallbackDecoder{
		Decoder:  asset.NewFileDecoder(logger, bus),
		Fallback: asset.DefaultPlaceholder(),
	}
	world, err := buildDemoWorld(cfg, decoder, opts.assetPath, bus)
	if err != nil {
		logger.Error(ctx, "Failed to build scene", err)
		return 1
	}

	router := input.NewRouter(world, input.WithLogger(logger))
	defer router.ReleaseAll()

	if cfg.Audio.Enabled {
		feedback := audio.NewFeedback(cfg.Audio, logger)
		if err := feedback.Init(); err != nil {
			logger.Warn(ctx, "Audio feedback unavailable", "error", err.Error())
		}
		feedback.Attach(bus)
		defer feedback.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		presenter render.Presenter
		window    *engorender.Presenter
	)
	switch opts.presenter {
	case presenterNull:
		presenter = render.NewNullPresenter(logger)
	case presenterTerminal:
		presenter = render.NewTerminalPresenter(nil, router, cancel)
	case presenterEngo:
		window = engorender.NewPresenter()
		presenter = window
	default:
		logger.Error(ctx, "Unknown presenter", errors.New("unsupported presenter"),
			"presenter", opts.presenter,
		)
		return 1
	}

	eng, err := engine.New(cfg, world,
		engine.WithPresenter(presenter),
		engine.WithLogger(logger),
		engine.WithEventBus(bus),
	)
	if err != nil {
		logger.Error(ctx, "Failed to create engine", err)
		return 1
	}

	rm := resource.NewResourceManager(cfg.Runtime, logger)
	if err := rm.Start(); err != nil {
		logger.Error(ctx, "Failed to start resource manager", err)
		return 1
	}

	if opts.healthAddr != "" {
		srv := newHealthServer(opts.healthAddr, cfg, eng, rm)
		if err := rm.Go(ctx, "health", func(ctx context.Context) error {
			return serveHealth(ctx, logger, srv)
		}); err != nil {
			logger.Warn(ctx, "Health server not started", "error", err.Error())
		}
	}

	engineDone := make(chan struct{})
	err = rm.Go(ctx, "engine", func(ctx context.Context) error {
		defer close(engineDone)
		defer cancel()
		if window != nil {
			defer engorender.Close()
		}
		if opts.ticks > 0 {
			return eng.RunTicks(ctx, opts.ticks)
		}
		return eng.Start(ctx)
	})
	if err != nil {
		logger.Error(ctx, "Failed to start engine", err)
		rm.Shutdown(context.Background())
		return 1
	}

	if window != nil {
		// The window owns the main goroutine until it closes.
		engorender.Run(cfg, window, router, cancel)
		cancel()
	}
	<-engineDone

	logger.Info(context.Background(), "Shutting down",
		"run_id", eng.RunID(),
		"ticks", eng.Tick(),
	)
	if err := rm.Shutdown(context.Background()); err != nil {
		logger.Warn(context.Background(), "Resource manager shutdown incomplete", "error", err.Error())
	}
	if err := rm.Err(); err != nil {
		logger.Error(context.Background(), "Engine stopped with an error", err)
		return 1
	}
	return 0
}

// newHealthServer registers the engine, tick and memory checks.
func newHealthServer(addr string, cfg *config.EngineConfig, eng *engine.Engine, rm *resource.ResourceManager) *http.Server {
	hc := health.NewHealthChecker()
	hc.AddCheck(health.NewEngineHealthCheck(func() bool {
		return eng.State() == engine.StateRunning
	}))
	hc.AddCheck(health.NewTickHealthCheck(eng.Tick, tickStallWindow))
	hc.AddCheck(health.NewMemoryHealthCheck(cfg.Runtime.MaxMemoryMB, func() int64 {
		rm.CheckMemoryUsage()
		return rm.GetResourceStats().MemoryUsageMB
	}))
	return health.NewServer(addr, hc)
}

// serveHealth runs srv until ctx is cancelled.
func serveHealth(ctx context.Context, logger *logging.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Starting health check server", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// newLogger picks the log destination. The terminal presenter owns stdout,
// so without -log its logs are dropped.
func newLogger(opts options) (*logging.Logger, func(), error) {
	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		level := logging.ParseLevel(os.Getenv("VOID_LOG_LEVEL"))
		return logging.NewLoggerWithWriter(f, level), func() { f.Close() }, nil
	}
	if opts.presenter == presenterTerminal {
		return logging.Discard(), func() {}, nil
	}
	return logging.NewLogger(), func() {}, nil
}

// loadConfig reads path, falling back to defaults when it does not exist,
// then applies VOID_* environment overrides.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.EngineConfig, error) {
	var cfg *config.EngineConfig

	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

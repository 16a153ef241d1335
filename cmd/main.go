package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/vbrank/internal/adapters/http/api"
	"github.com/okian/vbrank/internal/adapters/source"
	app "github.com/okian/vbrank/internal/app"
	"github.com/okian/vbrank/internal/config"
	"github.com/okian/vbrank/pkg/logger"
	"github.com/okian/vbrank/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 2 * time.Minute // POST /refresh runs the whole pipeline
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("vbrank", flag.ContinueOnError)
	fs.SetOutput(stderr)
	serve := fs.Bool("serve", false, "keep serving the HTTP API after the first run")
	configPath := fs.String("config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(*configPath)
	if err != nil {
		// logger isn't available yet
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return exitError
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(context.Background(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithHistogramBuckets(cfg.RunDurationBuckets),
	)

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := newService(cfg, log)

	if _, err := svc.Run(ctx); err != nil {
		log.Error(ctx, "initial run failed", logger.Error(err))
		if !*serve {
			return exitError
		}
	}
	if !*serve {
		return exitOK
	}
	if err := serveHTTP(ctx, cfg, svc, log); err != nil {
		log.Error(ctx, "HTTP server failed", logger.Error(err))
		return exitError
	}
	return exitOK
}

func newService(cfg *config.Config, log logger.Logger) *app.Service {
	sources := make([]source.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, source.Source{Label: s.Label, URL: s.URL, Path: s.Path})
	}

	fetcher := source.NewFetcher(
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithUserAgent(cfg.UserAgent),
		source.WithRetries(cfg.FetchRetries),
		source.WithBackoff(cfg.FetchBackoff()),
		source.WithLogger(log.Named("source")),
	)

	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithFetcher(fetcher),
		app.WithSources(sources...),
		app.WithIndexURL(cfg.IndexURL),
		app.WithOutputPath(cfg.OutputPath),
		app.WithConcurrency(cfg.FetchConcurrency),
		app.WithFallbackSample(cfg.FallbackSample),
	)
}

// serveHTTP serves the API until ctx is cancelled, then shuts down gracefully.
func serveHTTP(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(svc, cfg.MaxListLimit).Routes(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}

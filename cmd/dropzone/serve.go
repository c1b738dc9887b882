package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/dropzone/internal/config"
	"github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/middleware"
	"github.com/vango-dev/dropzone/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
		fileSize   float64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the widget server",
		Long: `Start the widget server.

The server renders the picker page, accepts picked and dropped batches,
serves image previews, and pushes toasts over a websocket.

Configuration is read from dropzone.json when present. Flags override
the file values.`,
		Example: `  dropzone serve
  dropzone serve --port 8080
  dropzone serve --config ./deploy/dropzone.json --file-size 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("file-size") {
				cfg.Widget.FileSize = fileSize
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to "+config.ConfigFileName)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to")
	cmd.Flags().Float64Var(&fileSize, "file-size", 0, "Maximum size per file in MiB")

	return cmd
}

// loadConfig reads the config file. An explicit path must exist; without
// one, a missing dropzone.json in the working directory means defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}

	cfg, err := config.Load(".")
	if err != nil {
		var de *errors.DropError
		if stderrors.As(err, &de) && de.Code == "E141" {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func runServe(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		BasePath:           cfg.BasePath,
		Title:              cfg.Title,
		Widget:             cfg.WidgetConfig(),
		Store:              store,
		MaxRequestSize:     cfg.Storage.MaxRequestSize,
		ToastLife:          cfg.ToastDuration(),
		SessionIdleTimeout: cfg.IdleTimeout(),
		CleanupInterval:    cfg.CleanupInterval(),
		SecureCookies:      cfg.Session.SecureCookies,
		Tracing:            cfg.Tracing,
		Logger:             logger,
	}
	if cfg.Metrics.Enabled {
		srvCfg.Metrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(prometheus.DefaultRegisterer),
		)
		srvCfg.Gatherer = prometheus.DefaultGatherer
	}

	printBanner()

	srv := server.New(srvCfg)
	srv.Start()

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	success("Server running at %s", cfg.URL())
	info("Max file size: %g MiB", cfg.Widget.FileSize)
	info("Storage: %s", cfg.Storage.Backend)
	if cfg.Metrics.Enabled {
		info("Metrics: %smetrics", cfg.URL())
	}
	fmt.Println()
	info("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err, ok := <-errCh:
		srv.Shutdown()
		if ok && err != nil {
			errorMsg("Server stopped")
			return errors.Newf(errors.CategoryCLI, "listen on %s: %v", cfg.Address(), err).Wrap(err)
		}
		return nil
	case <-sigCh:
	}

	fmt.Println()
	info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		warn("Forced shutdown: %v", err)
	}
	srv.Shutdown()

	success("Stopped")
	return nil
}

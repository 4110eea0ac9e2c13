package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/nhs-mcp/internal/backend"
	"github.com/dshills/nhs-mcp/internal/config"
	"github.com/dshills/nhs-mcp/internal/httpapi"
	"github.com/dshills/nhs-mcp/internal/mcp"
	"github.com/dshills/nhs-mcp/internal/middleware"
	"github.com/dshills/nhs-mcp/internal/service"
	"github.com/dshills/nhs-mcp/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

// rootCmd builds the CLI. Running without a subcommand serves MCP over stdio
func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "nhs-mcp",
		Short: "NHS organisation and health content lookup over MCP, SSE and REST.",
		Long: `nhs-mcp relays NHS organisation lookups, postcode geocoding and health
topic content from the NHS API Management service.

Configuration is read from environment variables (and a .env file), optionally
layered over a YAML file passed with --config:

api_management_endpoint: https://nhsuk-apim-int-uks.azure-api.net/service-search
api_management_subscription_key: <key>
port: 8080`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(
		stdioCmd(&configPath),
		httpCmd(&configPath),
		versionCmd(),
	)

	return cmd
}

// Serve MCP over stdin/stdout
func stdioCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve MCP JSON-RPC over stdin/stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd.Context(), *configPath)
		},
	}
}

// Serve REST, SSE, MCP-over-HTTP, health and metrics
func httpCmd(configPath *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the REST, SSE and MCP HTTP endpoints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP(cmd.Context(), *configPath, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")

	return cmd
}

// Print version info and exit
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "NHS UK MCP Server\n")
			fmt.Fprintf(out, "Version: %s\n", version)
			fmt.Fprintf(out, "Build Time: %s\n", buildTime)
			fmt.Fprintf(out, "MCP Server: %s %s\n", mcp.ServerName, mcp.ServerVersion)
			return nil
		},
	}
}

// app holds the wired components shared by both transports
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	service  *service.Service
	mcp      *mcp.Server
	registry *prometheus.Registry
	metrics  *middleware.Metrics
	tracer   *tracing.Provider
}

func newApp(configPath string) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, errs := config.Load(configPath)
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	logger := middleware.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	slog.SetDefault(logger)

	tracer, err := tracing.NewProvider(tracing.Config{
		ServiceName:    mcp.ServerName,
		ServiceVersion: version,
		Enabled:        cfg.TracingEnabled,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplingRate:   cfg.TracingSampleRate,
		InsecureMode:   cfg.TracingInsecure,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	backendMetrics := backend.NewMetrics()
	if err := backendMetrics.Register(registry); err != nil {
		return nil, fmt.Errorf("register backend metrics: %w", err)
	}
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	client := backend.New(backend.Config{
		Endpoint:        cfg.APIEndpoint,
		SubscriptionKey: cfg.SubscriptionKey,
		Timeout:         cfg.HTTPTimeout,
		Metrics:         backendMetrics,
		Logger:          logger,
	})
	if !cfg.BackendConfigured() {
		logger.Warn("API Management subscription key not set; lookups will fail until configured",
			"endpoint", client.Endpoint())
	} else {
		logger.Debug("search backend configured", "endpoint", client.Endpoint())
	}

	svc := service.New(client, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		service:  svc,
		mcp:      mcp.NewServer(svc, logger),
		registry: registry,
		metrics:  httpMetrics,
		tracer:   tracer,
	}, nil
}

func (a *app) shutdownTracing() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("tracer shutdown failed", "error", err)
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runStdio(parent context.Context, configPath string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.shutdownTracing()

	ctx, stop := signalContext(parent)
	defer stop()

	a.logger.Info("MCP server ready, listening on stdio", "version", version)
	if err := a.mcp.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}

func runHTTP(parent context.Context, configPath string, portOverride int) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.shutdownTracing()

	port := a.cfg.Port
	if portOverride > 0 {
		port = portOverride
	}

	srv := &http.Server{
		Addr: net.JoinHostPort("", strconv.Itoa(port)),
		Handler: httpapi.NewRouter(httpapi.Config{
			Service:     a.service,
			Logger:      a.logger,
			MCP:         a.mcp,
			Metrics:     a.metrics,
			Gatherer:    a.registry,
			ServiceName: mcp.ServerName,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signalContext(parent)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "addr", srv.Addr, "env", a.cfg.Env, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}

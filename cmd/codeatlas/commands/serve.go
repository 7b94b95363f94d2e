package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Iovva/codeatlas/pkg/config"
	"github.com/Iovva/codeatlas/pkg/mcp"
	"github.com/Iovva/codeatlas/pkg/observability"
)

const (
	serverReadTimeout  = 30 * time.Second
	serverWriteTimeout = 60 * time.Second
	serverIdleTimeout  = 120 * time.Second
)

// NewServeCommand creates the serve subcommand: runs the MCP tool on stdio,
// plus a /health and /metrics HTTP listener when server.enabled is set in
// the configuration. No HTTP /analyze endpoint is served; the MCP tool is
// the only way this command runs pipeline.Run.
func NewServeCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server plus a health/metrics HTTP listener",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runServe(cobraCmd.Context(), configPath, debug)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

func runServe(ctx context.Context, configPath string, debug bool) error {
	providers, err := initObservability(observability.ModeMCP, debug)
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	red, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return err
	}

	runner := buildPipeline(cfg, providers)

	srv := mcp.NewServer(mcp.ServerDeps{
		Runner:  runner,
		Logger:  providers.Logger,
		Metrics: red,
		Tracer:  providers.Tracer,
	})

	if cfg.Server.Enabled {
		httpSrv := newHealthServer(cfg.Server.Host, cfg.Server.Port, providers)

		go func() {
			if serveErr := httpSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				providers.Logger.Error("health server failed", "error", serveErr)
			}
		}()

		defer httpSrv.Close()
	}

	return srv.Run(ctx)
}

func newHealthServer(host string, port int, providers observability.Providers) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", observability.PrometheusHandler())

	handler := observability.HTTPMiddleware(providers.Tracer, providers.Logger, mux)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           handler,
		ReadHeaderTimeout: serverReadTimeout,
		ReadTimeout:       serverReadTimeout,
		WriteTimeout:      serverWriteTimeout,
		IdleTimeout:       serverIdleTimeout,
	}
}

type healthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Service:   "codeatlas",
		Timestamp: time.Now().UTC(),
		Message:   "serving",
	})
}

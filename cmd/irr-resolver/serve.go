package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/telekom/das-schiff-irr-resolver/pkg/endpoint"
	"github.com/telekom/das-schiff-irr-resolver/pkg/prefixlist"
	"github.com/telekom/das-schiff-irr-resolver/pkg/version"
)

const (
	twenty          = 20
	shutdownTimeout = 10 * time.Second
)

var serveFlags struct {
	listenAddress string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups and metrics over HTTP",
	Long: `'serve' exposes /normalize, /prefixes and /members as JSON endpoints together
with /healthz and Prometheus metrics on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		version.Get().Print(os.Args[0])

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		addr := cfg.ListenAddress
		if cmd.Flags().Changed("listen-address") {
			addr = serveFlags.listenAddress
		}

		reg, err := setupPrometheusRegistry()
		if err != nil {
			return fmt.Errorf("prometheus registry setup error: %w", err)
		}
		setupLog.Info("configured Prometheus registry")

		router := setupRouter(reg, endpoint.NewEndpoint(newCollector(cfg)))
		server := &http.Server{
			Addr:              addr,
			ReadHeaderTimeout: twenty * time.Second,
			ReadTimeout:       time.Minute,
			Handler:           router,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			setupLog.Info("created server, starting...", "Addr", server.Addr,
				"ReadHeaderTimeout", server.ReadHeaderTimeout, "ReadTimeout", server.ReadTimeout)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		setupLog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.listenAddress, "listen-address", "",
		"The address to listen on for HTTP requests (overrides the configuration).")
}

func setupPrometheusRegistry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	// Add Go module build info.
	reg.MustRegister(collectors.NewBuildInfoCollector())
	reg.MustRegister(collectors.NewGoCollector())
	if err := prefixlist.RegisterMetrics(reg); err != nil {
		return nil, fmt.Errorf("failed to register lookup metrics: %w", err)
	}
	return reg, nil
}

func setupRouter(reg *prometheus.Registry, e *endpoint.Endpoint) chi.Router {
	router := e.CreateRouter()
	router.Handle("/metrics", promhttp.HandlerFor(
		reg,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
			Timeout:           time.Minute,
		},
	))
	return router
}

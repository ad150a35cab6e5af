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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blastview/blastview/client"
	"github.com/blastview/blastview/internal/api"
	"github.com/blastview/blastview/internal/config"
	"github.com/blastview/blastview/internal/coordinator"
	"github.com/blastview/blastview/internal/render"
	"github.com/blastview/blastview/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the report server",
		Long:  "Serve the report page, the analysis API and the view event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if f := cmd.Flag("analysis-url"); f != nil && f.Changed {
				cfg.AnalysisURL = flagURL
			}
			if f := cmd.Flag("api-key"); f != nil && f.Changed {
				cfg.AnalysisAPIKey = config.Secret(flagKey)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg, newLogger(cfg.LogLevel))
		},
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}

	return log
}

// newAnalyzer builds the analysis client from resolved settings.
func newAnalyzer(baseURL, apiKey string, timeout time.Duration) *client.Client {
	var opts []client.Option
	if apiKey != "" {
		opts = append(opts, client.WithAPIKey(apiKey))
	}
	if timeout > 0 {
		opts = append(opts, client.WithTimeout(timeout))
	}

	return client.New(baseURL, opts...)
}

func runServer(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	hub := ws.NewHub(log)
	view := render.NewView()
	analyzer := newAnalyzer(cfg.AnalysisURL, cfg.AnalysisAPIKey.Value(), cfg.AnalysisTimeout)
	coord := coordinator.New(analyzer, view, log, coordinator.WithPublisher(hub))

	handler := api.NewRouter(ctx, &api.RouterDeps{
		Log:          log,
		Coordinator:  coord,
		View:         view,
		Hub:          hub,
		CORSOrigins:  cfg.CORSOrigins,
		Version:      config.Version,
		AnalysisURL:  cfg.AnalysisURL,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	// No WriteTimeout: an analysis may run for minutes and the socket is long-lived.
	apiSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":         apiSrv.Addr,
			"analysis_url": cfg.AnalysisURL,
			"version":      config.Version,
		}).Info("server listening")

		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.WithField("addr", metricsSrv.Addr).Info("metrics listening")

		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(apiSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped with error")
		return err
	}

	log.Info("server stopped")
	return nil
}

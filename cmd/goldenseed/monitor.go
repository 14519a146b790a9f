package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-goldenseed"
	"github.com/opd-ai/go-goldenseed/monitor"
)

type monitorOptions struct {
	configFile string
	listen     string
	start      uint64
}

func newMonitorCommand(g *globalOptions) *cobra.Command {
	var opts monitorOptions

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Continuously sample the stream and export Prometheus metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadMonitorConfig(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runMonitor(ctx, g, cfg, opts.start)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "config", "", "TOML configuration file")
	flags.StringVar(&opts.listen, "listen", "", "Metrics address, overriding the configuration")
	flags.Uint64Var(&opts.start, "start", 0, "Position of the first sampled block")
	return cmd
}

func loadMonitorConfig(opts monitorOptions) (monitor.Config, error) {
	cfg := monitor.DefaultConfig()
	if opts.configFile != "" {
		var err error
		if cfg, err = monitor.LoadConfig(opts.configFile); err != nil {
			return cfg, err
		}
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	return cfg, nil
}

func runMonitor(ctx context.Context, g *globalOptions, cfg monitor.Config, start uint64) error {
	p, seed, err := g.resolve()
	if err != nil {
		return err
	}
	gen, err := goldenseed.NewWithSeed(p, seed)
	if err != nil {
		return err
	}
	gen.Seek(start)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []monitor.Option{
		monitor.WithLogger(logrus.NewEntry(g.log)),
		monitor.WithRegistry(reg),
	}
	if cfg.StorePath != "" {
		st, err := monitor.OpenStore(cfg.StorePath)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, monitor.WithStore(st))
	}

	sampler, err := monitor.New(cfg, gen, opts...)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		g.log.WithField("listen", cfg.Listen).Info("serving metrics")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				g.log.WithError(err).Warn("metrics server shutdown")
			}
		}()
		if err := sampler.Run(egCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	return eg.Wait()
}

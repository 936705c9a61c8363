package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/teso/internal/metrics"
	"github.com/GoSim-25-26J-441/teso/internal/mm1"
	"github.com/GoSim-25-26J-441/teso/internal/study"
	"github.com/GoSim-25-26J-441/teso/internal/tracing"
	"github.com/GoSim-25-26J-441/teso/pkg/config"
	"github.com/GoSim-25-26J-441/teso/pkg/logger"
)

type runOptions struct {
	trials      int
	seed        int64
	variable    string
	logLevel    string
	logFormat   string
	metricsAddr string
	grpcAddr    string
	traceFile   string
	quiet       bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <config.yaml>",
		Short: "Optimise the M/M/1 service rate described by a config file",
		Long: `Run a tabu-enhanced study against the built-in M/M/1 queue model.

Example: teso run config/mm1.yaml --trials 80 --seed 7 --metrics-addr :9090 --grpc-addr :50051`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runStudy(ctx, cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.trials, "trials", 0, "override n_trials")
	cmd.Flags().Int64Var(&opts.seed, "seed", -1, "override random_state (negative keeps the config value)")
	cmd.Flags().StringVar(&opts.variable, "variable", "mu", "decision variable holding the service rate")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); default from config or TESO_LOG_LEVEL")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "", "log format (json, text); default from config or TESO_LOG_FORMAT")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	cmd.Flags().StringVar(&opts.grpcAddr, "grpc-addr", "", "serve gRPC health for the running study on this address")
	cmd.Flags().StringVar(&opts.traceFile, "trace-file", "", "write OpenTelemetry spans for the study to this file")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "disable per-trial logging")

	return cmd
}

func runStudy(ctx context.Context, cmd *cobra.Command, path string, opts runOptions) error {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	if cfg.Model == nil {
		return fmt.Errorf("%s has no model section", path)
	}

	log, err := logger.NewWithFormat(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	studyOpts := []study.Option{
		study.WithLogger(log),
		study.WithObserver(metrics.NewObserver(reg)),
	}
	if opts.traceFile != "" {
		tp, err := newTracerProvider(opts.traceFile)
		if err != nil {
			return err
		}
		studyOpts = append(studyOpts, study.WithObserver(tracing.NewObserver(tp)))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("tracer shutdown error", "error", err)
			}
		}()
	}
	if opts.grpcAddr != "" {
		lis, err := net.Listen("tcp", opts.grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC on %s: %w", opts.grpcAddr, err)
		}
		grpcServer, hs := newHealthServer()
		studyOpts = append(studyOpts, study.WithObserver(newHealthObserver(hs)))
		serveHealth(lis, grpcServer)
		defer func() {
			hs.Shutdown()
			grpcServer.GracefulStop()
		}()
	}

	driver, err := study.New(cfg.Study, studyOpts...)
	if err != nil {
		return err
	}
	if _, ok := driver.Space().Variable(opts.variable); !ok {
		return config.Errorf("variables", "service rate variable %q is not declared", opts.variable)
	}

	if opts.metricsAddr != "" {
		srv := serveMetrics(opts.metricsAddr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	res, err := driver.Optimize(ctx, mm1.Objective(*cfg.Model, opts.variable))
	if res != nil {
		printResult(cmd.OutOrStdout(), res)
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("study interrupted", "trials", res.Trials)
		return nil
	}
	return err
}

func applyOverrides(cfg *config.Config, opts runOptions) {
	if v := os.Getenv("TESO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TESO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}
	if opts.trials > 0 {
		cfg.Study.NTrials = opts.trials
	}
	if opts.seed >= 0 {
		cfg.Study = cfg.Study.Seeded(uint64(opts.seed))
	}
	if opts.quiet {
		cfg.Study.Verbose = false
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()
	return srv
}

func printResult(w io.Writer, res *study.Result) {
	fmt.Fprintf(w, "study %s: %s after %d trials (%d evaluations) in %s\n",
		res.StudyID, res.StopReason, res.Trials, res.Evaluations, res.Duration.Round(time.Millisecond))
	if !res.HasBest {
		fmt.Fprintln(w, "no successful trial")
		return
	}

	fmt.Fprintf(w, "best trial %d: value %.6g (std %.4g, %d replications)\n",
		res.Best.TrialIndex, res.Best.Result.Mean, res.Best.Result.Std(), res.Best.Result.Replications)
	params := res.Best.Candidate.Params()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s = %v\n", name, params[name])
	}

	if sum, err := study.Summarize(res.Elite); err == nil {
		fmt.Fprintf(w, "elite (%d): min %.6g, median %.6g, max %.6g\n", sum.Count, sum.Min, sum.Median, sum.Max)
	}
}

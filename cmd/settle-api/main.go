package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tirasundara/settlement-optimizer/internal/api"
	"github.com/tirasundara/settlement-optimizer/internal/config"
	"github.com/tirasundara/settlement-optimizer/internal/logging"
	"github.com/tirasundara/settlement-optimizer/internal/optimizer"
	"github.com/tirasundara/settlement-optimizer/pkg/cpsolver"
	"go.uber.org/zap"
)

const defaultSolveTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid logging configuration: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// A request never holds a worker without limit.
	maxTime := cfg.MaxTime
	if maxTime == 0 {
		maxTime = defaultSolveTimeout
	}
	opt := optimizer.NewSettlementOptimizer(
		cpsolver.NewSolver(cpsolver.WithMaxTime(maxTime)),
		optimizer.WithVerbose(cfg.Verbose),
		optimizer.WithLogger(logger),
	)

	app := api.NewApp(api.NewHandler(opt, cfg.DecimalPlaces, logger))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("settle-api listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- app.Listen(cfg.HTTPAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		logger.Fatal("server stopped", zap.Error(err))
	case sig := <-quit:
		logger.Info("shutting down", zap.Stringer("signal", sig), zap.Duration("timeout", cfg.HTTPShutdownTimeout))
	}

	if err := app.ShutdownWithTimeout(cfg.HTTPShutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

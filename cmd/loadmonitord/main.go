// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Command loadmonitord is a demonstration host process: it wires a
// registry.Registry to an optional report.Server, the way a subsystem of
// the surrounding ledger server would own one Monitor per job class and
// let an admission-control process query it.
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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jayvansantos/rippled/clock"
	"github.com/jayvansantos/rippled/config"
	"github.com/jayvansantos/rippled/logging"
	"github.com/jayvansantos/rippled/registry"
	"github.com/jayvansantos/rippled/report"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.FromArgs(args)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	level, err := logging.ToLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log := logging.New(level, os.Stdout)

	reg := registry.New(clock.Shared, log, prometheus.DefaultRegisterer)

	// Seed the subsystems this kind of server typically tracks; real
	// producers would call reg.Monitor(name) themselves as jobs complete.
	for _, name := range []string{"jobQueue", "peerInbound", "peerOutbound", "rpc"} {
		m := reg.Monitor(name)
		m.SetTarget(cfg.TargetAvgLatencySeconds, cfg.TargetPeakLatencySeconds)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if cfg.ReportListenAddr == "" {
		log.Info("report server disabled")
		<-sigCh
		return nil
	}

	srv := report.New(log, reg)
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(cfg.ReportListenAddr) }()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("report server: %w", err)
		}
		return nil
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

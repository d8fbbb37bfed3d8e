// Copyright (C) 2019-2026, jayvansantos. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config parses the handful of flags this module's Load Monitor
// deployment needs, the way the surrounding server composes a pflag
// FlagSet into a Viper environment.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileKey        = "config-file"
	targetAvgLatencyKey  = "target-avg-latency"
	targetPeakLatencyKey = "target-peak-latency"
	logLevelKey          = "log-level"
	reportAddrKey        = "report-addr"
)

// Config holds the target thresholds, log level, and optional Report
// Server bind address for one process's Load Monitors.
type Config struct {
	// TargetAvgLatencySeconds is the average-latency threshold passed to
	// every Monitor's SetTarget. 0 disables the comparison.
	TargetAvgLatencySeconds int64
	// TargetPeakLatencySeconds is the peak-latency threshold passed to
	// every Monitor's SetTarget. 0 disables the comparison.
	TargetPeakLatencySeconds int64
	// LogLevel names the minimum severity this module's logger emits.
	LogLevel string
	// ReportListenAddr is the Report Server's bind address. An empty
	// string disables the Report Server entirely.
	ReportListenAddr string
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("rippled-load-monitor", pflag.ContinueOnError)

	fs.String(configFileKey, "", "path to a config file (json, yaml, or toml)")
	fs.Int64(targetAvgLatencyKey, 0, "average-latency threshold in seconds; 0 disables the check")
	fs.Int64(targetPeakLatencyKey, 0, "peak-latency threshold in seconds; 0 disables the check")
	fs.String(logLevelKey, "info", "log level: off, fatal, error, warn, info, debug")
	fs.String(reportAddrKey, "", "address for the read-only report server to listen on; empty disables it")

	return fs
}

// FromArgs parses args (typically os.Args[1:]) the way the surrounding
// server's config package binds a FlagSet into Viper: flags first, then an
// optional config file named by --config-file layered underneath them.
func FromArgs(args []string) (Config, error) {
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parsing flags: %w", err)
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString(configFileKey); path != "" {
		v.SetConfigFile(os.ExpandEnv(path))
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	return Config{
		TargetAvgLatencySeconds:  v.GetInt64(targetAvgLatencyKey),
		TargetPeakLatencySeconds: v.GetInt64(targetPeakLatencyKey),
		LogLevel:                 v.GetString(logLevelKey),
		ReportListenAddr:         v.GetString(reportAddrKey),
	}, nil
}

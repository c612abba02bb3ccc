package main

import (
	"path/filepath"
	"time"

	"go_tftp/config"
)

// flagValues holds parsed flags. Negative numbers and empty strings mean "not given".
type flagValues struct {
	address   string
	port      int
	timeoutMS int
	retries   int
	linger    int
	dscp      int
	lz4       bool
	sha       bool
	logLevel  string
	metrics   string
}

// mergeFlags applies explicitly given flags on top of defaults/config file
func mergeFlags(cfg config.Config, f flagValues) config.Config {
	if f.address != "" {
		cfg.Server = f.address
	}
	if f.port > 0 {
		cfg.Port = f.port
	}
	if f.timeoutMS > 0 {
		cfg.Timeout = time.Duration(f.timeoutMS) * time.Millisecond
	}
	if f.retries >= 0 {
		cfg.AckRetries = f.retries
	}
	if f.linger >= 0 {
		cfg.Linger = f.linger
	}
	if f.dscp >= 0 {
		cfg.DSCP = f.dscp
	}
	if f.lz4 {
		cfg.Compress = true
	}
	if f.sha {
		cfg.SHA256 = true
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.metrics != "" {
		cfg.Metrics = f.metrics
	}
	return cfg
}

// outputPath decides where the received file goes
func outputPath(cfg config.Config, remote, output string) string {
	if output != "" {
		return filepath.Clean(output)
	}
	name := filepath.Base(filepath.FromSlash(remote))
	if cfg.Compress {
		name += ".lz4"
	}
	return filepath.Join(cfg.OutputDir, name)
}

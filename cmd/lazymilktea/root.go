// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package main is the lazy-milktea CLI: parse, query, jump and stats
// subcommands over the internal/lazymilktea facade.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leaf76/lazy-milktea/internal/config"
	"github.com/leaf76/lazy-milktea/internal/lazymilktea"
	"github.com/leaf76/lazy-milktea/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:          "lazymilktea",
	Short:        "Index and query Android bugreport/logcat files",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			logging.SetLevelString(logLevel)
		}
	},
}

// stdout/stderr are package vars, not bare os.Stdout/os.Stderr calls, so a
// test can redirect CLI output without touching the real process streams.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func cmdOut() io.Writer { return stdout }
func cmdErr() io.Writer { return stderr }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: loading config:", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	lazymilktea.Configure(cfg)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	// A build can run long over a large bugreport; SIGINT/SIGTERM cancel
	// ctx so internal/builder's cooperative cancellation (§5) can stop it
	// cleanly at the next line boundary instead of killing the process
	// mid-transaction.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/cmd/idmap/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like verify) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := cli.NewCommandLogger(logLevel())
	return commands.Root().Execute(context.Background(), os.Args[1:], logger)
}

// logLevel reads the log level from IDMAP_LOG_LEVEL. The config file
// also carries a log_level, but it is only loaded by commands that
// take a config; the environment variable works for all of them.
func logLevel() slog.Level {
	return cli.ParseLevel(os.Getenv("IDMAP_LOG_LEVEL"))
}

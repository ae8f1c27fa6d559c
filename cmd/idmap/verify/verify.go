// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package verify implements "idmap verify": check whether an idmap
// file is still fresh for its containers.
package verify

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/lib/idmap"
)

type params struct {
	Target  string `flag:"target" desc:"target container path (default: path recorded in the idmap)"`
	Overlay string `flag:"overlay" desc:"overlay container path (default: path recorded in the idmap)"`
}

// Command returns the verify command.
func Command() *cli.Command {
	var p params
	return &cli.Command{
		Name:    "verify",
		Summary: "Check whether an idmap is up to date",
		Usage:   "idmap verify [--target PATH] [--overlay PATH] IDMAP",
		Description: `Check whether an idmap still matches its containers.

Exits 0 when the idmap is fresh and 1 when it is stale (container
content changed, container moved, or container missing). Staleness is
an outcome, not an error: the caller is expected to regenerate.`,
		Examples: []cli.Example{
			{
				Description: "Verify against the container paths recorded in the idmap",
				Command:     "idmap verify overlay.idmap",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("verify", &p)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return run(&p, args)
		},
	}
}

func run(p *params, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one idmap path argument")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	header, err := idmap.DecodeHeader(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	if !idmap.UpToDate(header, p.Target, p.Overlay, nil) {
		fmt.Printf("%s: stale\n", args[0])
		return &cli.ExitError{Code: 1}
	}
	fmt.Printf("%s: up to date\n", args[0])
	return nil
}

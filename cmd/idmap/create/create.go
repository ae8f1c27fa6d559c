// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package create implements "idmap create": build an idmap from a
// target and overlay container pair and write it to disk.
package create

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/lib/idmap"
	"github.com/idmap-foundation/idmap/lib/restable"
)

type params struct {
	Target  string `flag:"target" desc:"target container path"`
	Overlay string `flag:"overlay" desc:"overlay container path"`
	Out     string `flag:"out" desc:"output idmap path"`
	Force   bool   `flag:"force" desc:"rewrite even if the existing idmap is up to date"`
}

// Command returns the create command.
func Command() *cli.Command {
	var p params
	return &cli.Command{
		Name:    "create",
		Summary: "Build an idmap from a target and overlay container",
		Usage:   "idmap create --target PATH --overlay PATH --out PATH [--force]",
		Examples: []cli.Example{
			{
				Description: "Generate an idmap for one overlay",
				Command:     "idmap create --target target.rtbl --overlay overlay.rtbl --out overlay.idmap",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("create", &p)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return run(&p, logger)
		},
	}
}

func run(p *params, logger *slog.Logger) error {
	if p.Target == "" || p.Overlay == "" || p.Out == "" {
		return fmt.Errorf("--target, --overlay, and --out are required")
	}

	// An existing, still-fresh idmap needs no work unless --force.
	if !p.Force {
		if fresh(p.Out, p.Target, p.Overlay) {
			logger.Info("existing idmap is up to date", "out", p.Out)
			return nil
		}
	}

	target, err := restable.Load(p.Target)
	if err != nil {
		return fmt.Errorf("loading target container: %w", err)
	}
	overlay, err := restable.Load(p.Overlay)
	if err != nil {
		return fmt.Errorf("loading overlay container: %w", err)
	}

	encoded, err := idmap.Create(target, overlay, p.Target, p.Overlay, nil)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.Out, encoded, 0o644); err != nil {
		return fmt.Errorf("writing idmap: %w", err)
	}

	logger.Info("idmap written",
		"out", p.Out,
		"target", p.Target,
		"overlay", p.Overlay,
		"bytes", len(encoded))
	return nil
}

// fresh reports whether path holds an idmap that is up to date for the
// given containers. Any read or parse failure means not fresh.
func fresh(path, targetPath, overlayPath string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	header, err := idmap.DecodeHeader(data)
	if err != nil {
		return false
	}
	return idmap.UpToDate(header, targetPath, overlayPath, nil)
}

// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package lookup implements "idmap lookup": resolve a single target
// resource id through an idmap file.
package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/lib/idmap"
	"github.com/idmap-foundation/idmap/lib/resource"
)

type params struct {
	ResID string `flag:"resid" desc:"target resource id (e.g. 0x7f020003)"`
}

// Command returns the lookup command.
func Command() *cli.Command {
	var p params
	return &cli.Command{
		Name:    "lookup",
		Summary: "Resolve one target resource id through an idmap",
		Usage:   "idmap lookup --resid ID IDMAP",
		Examples: []cli.Example{
			{
				Description: "Find the overlay id for a target resource",
				Command:     "idmap lookup --resid 0x7f020003 overlay.idmap",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("lookup", &p)
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
	target, err := parseResID(p.ResID)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	m, err := idmap.Decode(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	overlay, ok := m.Lookup(target)
	if !ok {
		// "Not mapped" is a valid query answer, not a tool failure:
		// print it and signal via exit code.
		fmt.Printf("%s: no mapping\n", target)
		return &cli.ExitError{Code: 1}
	}
	fmt.Printf("%s -> %s\n", target, overlay)
	return nil
}

func parseResID(s string) (resource.ID, error) {
	if s == "" {
		return 0, fmt.Errorf("--resid is required")
	}
	value, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid resource id %q: %w", s, err)
	}
	id := resource.ID(value)
	if !id.IsValid() {
		return 0, fmt.Errorf("resource id %s has a zero package field", id)
	}
	return id, nil
}

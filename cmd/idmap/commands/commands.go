// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete idmap CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	createcmd "github.com/idmap-foundation/idmap/cmd/idmap/create"
	dumpcmd "github.com/idmap-foundation/idmap/cmd/idmap/dump"
	lookupcmd "github.com/idmap-foundation/idmap/cmd/idmap/lookup"
	scancmd "github.com/idmap-foundation/idmap/cmd/idmap/scan"
	tablecmd "github.com/idmap-foundation/idmap/cmd/idmap/table"
	verifycmd "github.com/idmap-foundation/idmap/cmd/idmap/verify"
	"github.com/idmap-foundation/idmap/lib/version"
)

// Root builds and returns the complete idmap CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "idmap",
		Description: `idmap: resource overlay id mapping tool.

Build, inspect, and verify the binary idmap artifacts that map
resource ids in a target container to the overlay resources that
replace them at runtime.`,
		Subcommands: []*cli.Command{
			createcmd.Command(),
			dumpcmd.Command(),
			lookupcmd.Command(),
			verifycmd.Command(),
			scancmd.Command(),
			tablecmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("idmap %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Generate an idmap for one overlay",
				Command:     "idmap create --target target.rtbl --overlay overlay.rtbl --out overlay.idmap",
			},
			{
				Description: "Inspect an idmap with symbolic names",
				Command:     "idmap dump --target target.rtbl overlay.idmap",
			},
			{
				Description: "Refresh idmaps for a whole overlay directory",
				Command:     "idmap scan --target target.rtbl --out-dir /data/idmap-cache /vendor/overlay",
			},
		},
	}
}

// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package table implements "idmap table": resource container tooling,
// currently compiling source documents into container files.
package table

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/lib/restable"
)

// Command returns the table command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "table",
		Summary: "Work with resource table containers",
		Subcommands: []*cli.Command{
			compileCommand(),
			showCommand(),
		},
	}
}

type compileParams struct {
	Out  string `flag:"out" desc:"output container path"`
	Zstd bool   `flag:"zstd" desc:"compress the container with zstd"`
}

func compileCommand() *cli.Command {
	var p compileParams
	return &cli.Command{
		Name:    "compile",
		Summary: "Compile a source document into a container",
		Usage:   "idmap table compile [--zstd] --out PATH SOURCE",
		Examples: []cli.Example{
			{
				Description: "Compile a YAML table declaration",
				Command:     "idmap table compile --out target.rtbl target.yaml",
			},
			{
				Description: "Compile a JSONC declaration into a compressed container",
				Command:     "idmap table compile --zstd --out overlay.rtbl.zst overlay.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("compile", &p)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runCompile(&p, args, logger)
		},
	}
}

func runCompile(p *compileParams, args []string, logger *slog.Logger) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one source document argument")
	}
	if p.Out == "" {
		return fmt.Errorf("--out is required")
	}

	doc, err := restable.ReadDocument(args[0])
	if err != nil {
		return err
	}
	container, err := restable.Compile(doc, p.Zstd)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", args[0], err)
	}
	if err := os.WriteFile(p.Out, container, 0o644); err != nil {
		return fmt.Errorf("writing container: %w", err)
	}

	logger.Info("container written",
		"out", p.Out,
		"package", doc.Package,
		"bytes", len(container),
		"compressed", p.Zstd)
	return nil
}

type showParams struct {
	cli.JSONOutput
}

func showCommand() *cli.Command {
	var p showParams
	return &cli.Command{
		Name:    "show",
		Summary: "List the entries of a compiled container",
		Usage:   "idmap table show [--json] CONTAINER",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &p)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runShow(&p, args)
		},
	}
}

type jsonEntry struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Entry string `json:"entry"`
}

func runShow(p *showParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one container path argument")
	}
	table, err := restable.Load(args[0])
	if err != nil {
		return err
	}

	if p.OutputJSON {
		entries := []jsonEntry{}
		for _, e := range table.Entries() {
			entries = append(entries, jsonEntry{
				ID:    e.ID(table.PackageID()).String(),
				Type:  e.TypeName,
				Entry: e.EntryName,
			})
		}
		return cli.WriteJSON(entries)
	}

	fmt.Printf("package %s (0x%02x)\n", table.Package(), table.PackageID())
	for _, e := range table.Entries() {
		fmt.Printf("%s %s/%s\n", e.ID(table.PackageID()), e.TypeName, e.EntryName)
	}
	return nil
}

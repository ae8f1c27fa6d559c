// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package dump implements "idmap dump": render an idmap file as a
// human-readable summary, an annotated byte dump, or JSON.
package dump

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/lib/idmap"
	"github.com/idmap-foundation/idmap/lib/resource"
	"github.com/idmap-foundation/idmap/lib/restable"
)

type params struct {
	cli.JSONOutput
	Verbose bool   `flag:"verbose,v" desc:"annotated byte dump with file offsets"`
	Target  string `flag:"target" desc:"target container for symbolic name resolution"`
}

// Command returns the dump command.
func Command() *cli.Command {
	var p params
	return &cli.Command{
		Name:    "dump",
		Summary: "Show the contents of an idmap file",
		Usage:   "idmap dump [--verbose] [--json] [--target PATH] IDMAP",
		Examples: []cli.Example{
			{
				Description: "Summarize an idmap with symbolic names",
				Command:     "idmap dump --target target.rtbl overlay.idmap",
			},
			{
				Description: "Annotated byte-level dump",
				Command:     "idmap dump --verbose overlay.idmap",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("dump", &p)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return run(&p, args)
		},
	}
}

// jsonHeader and jsonMapping shape the --json output. The wire model
// itself stays free of serialization tags.
type jsonHeader struct {
	Magic       uint32 `json:"magic"`
	Version     uint32 `json:"version"`
	TargetCRC   uint32 `json:"target_crc"`
	OverlayCRC  uint32 `json:"overlay_crc"`
	TargetPath  string `json:"target_path"`
	OverlayPath string `json:"overlay_path"`
}

type jsonMapping struct {
	Target  string `json:"target"`
	Overlay string `json:"overlay"`
}

type jsonIdmap struct {
	Header   jsonHeader    `json:"header"`
	Mappings []jsonMapping `json:"mappings"`
}

func run(p *params, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one idmap path argument")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	m, err := idmap.Decode(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	if done, err := p.EmitJSON(jsonModel(m)); done {
		return err
	}

	var resolver resource.Resolver
	if p.Target != "" {
		table, err := restable.Load(p.Target)
		if err != nil {
			return fmt.Errorf("loading target container: %w", err)
		}
		resolver = table
	}

	fmt.Print(idmap.Dump(m, idmap.DumpOptions{
		Verbose:  p.Verbose,
		Resolver: resolver,
	}))
	return nil
}

func jsonModel(m *idmap.Idmap) jsonIdmap {
	out := jsonIdmap{
		Header: jsonHeader{
			Magic:       m.Header.Magic,
			Version:     m.Header.Version,
			TargetCRC:   m.Header.TargetCRC,
			OverlayCRC:  m.Header.OverlayCRC,
			TargetPath:  m.Header.TargetPath,
			OverlayPath: m.Header.OverlayPath,
		},
		Mappings: []jsonMapping{},
	}
	for _, mapping := range m.Entries() {
		out.Mappings = append(out.Mappings, jsonMapping{
			Target:  mapping.Target.String(),
			Overlay: mapping.Overlay.String(),
		})
	}
	return out
}

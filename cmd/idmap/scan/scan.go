// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package scan implements "idmap scan": walk a directory of overlay
// containers and generate or refresh an idmap for each one at its
// canonical path.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/lib/config"
	"github.com/idmap-foundation/idmap/lib/idmap"
	"github.com/idmap-foundation/idmap/lib/restable"
)

type params struct {
	Target string `flag:"target" desc:"target container path (default: scan.target_path from config)"`
	OutDir string `flag:"out-dir" desc:"directory for generated idmaps (default: scan.output_dir from config)"`
	Config string `flag:"config" desc:"config file path (default: $IDMAP_CONFIG)"`
	Force  bool   `flag:"force" desc:"regenerate even when existing idmaps are up to date"`
}

// Command returns the scan command.
func Command() *cli.Command {
	var p params
	return &cli.Command{
		Name:    "scan",
		Summary: "Generate idmaps for every overlay container in a directory",
		Usage:   "idmap scan [--target PATH] [--out-dir DIR] [--force] DIR",
		Examples: []cli.Example{
			{
				Description: "Refresh idmaps for all vendor overlays",
				Command:     "idmap scan --target target.rtbl --out-dir /data/idmap-cache /vendor/overlay",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("scan", &p)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return run(&p, args, logger)
		},
	}
}

func run(p *params, args []string, logger *slog.Logger) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one overlay directory argument")
	}
	overlayDir := args[0]

	if err := applyConfig(p); err != nil {
		return err
	}
	if p.Target == "" {
		return fmt.Errorf("no target container: pass --target or set scan.target_path in the config")
	}
	if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	target, err := restable.Load(p.Target)
	if err != nil {
		return fmt.Errorf("loading target container: %w", err)
	}

	overlays, err := findOverlays(overlayDir)
	if err != nil {
		return err
	}

	failures := 0
	for _, overlayPath := range overlays {
		outPath := idmap.CanonicalPathFor(p.OutDir, overlayPath)
		log := logger.With("overlay", overlayPath, "out", outPath)

		if !p.Force && fresh(outPath, p.Target, overlayPath) {
			log.Debug("idmap up to date")
			fmt.Println(outPath)
			continue
		}

		if err := generate(target, p.Target, overlayPath, outPath); err != nil {
			// One broken overlay must not stop the rest of the scan.
			log.Error("idmap generation failed", "error", err)
			failures++
			continue
		}
		log.Info("idmap written")
		fmt.Println(outPath)
	}

	logger.Info("scan complete",
		"directory", overlayDir,
		"overlays", len(overlays),
		"failures", failures)
	if failures > 0 {
		return fmt.Errorf("%d of %d overlays failed", failures, len(overlays))
	}
	return nil
}

// applyConfig fills unset flags from the config file. Flags win; the
// config is only consulted for values the command line left empty.
func applyConfig(p *params) error {
	var cfg *config.Config
	var err error
	switch {
	case p.Config != "":
		cfg, err = config.LoadFile(p.Config)
	case os.Getenv("IDMAP_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return err
	}

	if p.Target == "" {
		p.Target = cfg.Scan.TargetPath
	}
	if p.OutDir == "" {
		p.OutDir = cfg.Scan.OutputDir
	}
	return nil
}

// findOverlays returns every container file under dir, sorted by
// WalkDir's lexical order so scan output is deterministic.
func findOverlays(dir string) ([]string, error) {
	var overlays []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".rtbl") || strings.HasSuffix(path, ".rtbl.zst") {
			absolute, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			overlays = append(overlays, absolute)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return overlays, nil
}

func fresh(idmapPath, targetPath, overlayPath string) bool {
	data, err := os.ReadFile(idmapPath)
	if err != nil {
		return false
	}
	header, err := idmap.DecodeHeader(data)
	if err != nil {
		return false
	}
	return idmap.UpToDate(header, targetPath, overlayPath, nil)
}

func generate(target *restable.Table, targetPath, overlayPath, outPath string) error {
	overlay, err := restable.Load(overlayPath)
	if err != nil {
		return fmt.Errorf("loading overlay container: %w", err)
	}
	encoded, err := idmap.Create(target, overlay, targetPath, overlayPath, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, encoded, 0o644)
}

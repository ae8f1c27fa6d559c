// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the idmap
// tools.
//
// Configuration is loaded from a single file specified by either the
// IDMAP_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This keeps configuration deterministic
// and auditable with no hidden overrides.
//
// The config file carries defaults for the scan workflow (target
// container, output directory) and the log level. Flags always take
// precedence over config values. The only expansion performed is
// ${HOME} in path fields.
//
// This package depends on no other idmap packages.
package config

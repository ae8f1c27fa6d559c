// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command tree framework for the idmap CLI:
// command dispatch with typo suggestions, struct-tag flag binding over
// pflag, --json output support, exit-code control, and the structured
// command logger.
//
// Commands are declared as [Command] values with parameters bound from
// tagged structs via [FlagsFromParams]. Commands that need a non-zero
// exit without an error message return [ExitError]; main inspects the
// ExitCode interface rather than printing.
package cli

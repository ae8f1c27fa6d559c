// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"create", "create", 0},
		{"craete", "create", 2},
		{"dmup", "dump", 2},
		{"", "scan", 4},
		{"verify", "dump", 6},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "create"},
		{Name: "dump"},
		{Name: "verify"},
	}

	if got := suggestCommand("craete", commands); got != "create" {
		t.Errorf("suggestCommand(craete) = %q, want create", got)
	}
	if got := suggestCommand("zzzzzzzzzz", commands); got != "" {
		t.Errorf("suggestCommand(zzzzzzzzzz) = %q, want no suggestion", got)
	}
}

func TestSuggestFlag(t *testing.T) {
	flags := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.Bool("verbose", false, "")
		flagSet.String("target", "", "")
		return flagSet
	}

	if got := suggestFlag([]string{"--verbos"}, flags()); got != "--verbose" {
		t.Errorf("suggestFlag(--verbos) = %q, want --verbose", got)
	}
	if got := suggestFlag([]string{"--target=x", "--vrbose"}, flags()); got != "--verbose" {
		t.Errorf("suggestFlag with defined flag first = %q, want --verbose", got)
	}
	if got := suggestFlag([]string{"--completelydifferent"}, flags()); got != "" {
		t.Errorf("suggestFlag(--completelydifferent) = %q, want no suggestion", got)
	}
}

// ABOUTME: Tests for the root command, global flags and command tree
// ABOUTME: Flag validation runs through PersistentPreRunE on a cheap subcommand

package commands

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "pawsonality" {
		t.Errorf("Use = %q, want pawsonality", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "P A W S O N A L I T Y") {
		t.Error("Long description should contain the banner")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be true")
	}

	flags := map[string]string{"verbose": "false", "quiet": "false", "format": "auto"}
	for name, def := range flags {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			t.Errorf("--%s flag not found", name)
			continue
		}
		if f.DefValue != def {
			t.Errorf("--%s default = %q, want %q", name, f.DefValue, def)
		}
	}
}

func TestRootCmdFlagValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"verbose", []string{"--verbose", "types"}, ""},
		{"quiet", []string{"--quiet", "types"}, ""},
		{"json", []string{"--quiet", "--format", "json", "types"}, ""},
		{"verbose and quiet", []string{"--verbose", "--quiet", "types"}, "mutually exclusive"},
		{"unknown format", []string{"--quiet", "--format", "yaml", "types"}, "--format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			cmd := NewRootCmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			switch {
			case tt.wantErr == "" && err != nil:
				t.Errorf("unexpected error: %v", err)
			case tt.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tt.wantErr)):
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRootCmdTree(t *testing.T) {
	cmd := NewRootCmd()

	find := func(parent *cobra.Command, name string) *cobra.Command {
		for _, sub := range parent.Commands() {
			if sub.Name() == name {
				return sub
			}
		}
		return nil
	}

	for _, name := range []string{"serve", "questions", "classify", "types", "ask", "explain", "chat", "kb", "mcp", "version"} {
		if find(cmd, name) == nil {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	kb := find(cmd, "kb")
	if kb == nil {
		t.Fatal("kb command missing")
	}
	for _, name := range []string{"build", "stats"} {
		if find(kb, name) == nil {
			t.Errorf("kb %s not registered", name)
		}
	}
}

func TestRootCmdHelp(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("--help error = %v", err)
	}
	for _, want := range []string{"Usage:", "Available Commands:", "classify", "OPENROUTER_API_KEY"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

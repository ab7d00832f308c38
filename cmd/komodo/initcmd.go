package main

// initcmd.go — the init command: interactive creation of
// .komodo/settings.yaml.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"komodo/internal/settings"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .komodo/settings.yaml interactively",
	Long: `Prompt for deny globs and vocabulary extensions, then write
.komodo/settings.yaml under the settings root.

Errors if the file already exists.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(settingsRoot, ".komodo", "settings.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings file already exists at %s", path)
	}

	answers, err := promptQuestions([]question{
		{key: "deny", prompt: "Deny globs, comma-separated (blank for none)"},
		{key: "guards", prompt: "Extra guard-helper names, comma-separated (blank for none)"},
		{key: "wrappers", prompt: "Extra persistence-wrapper types, comma-separated (blank for none)"},
	})
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	cfg := settings.Settings{}
	cfg.Permissions.Deny = splitList(answers["deny"])
	cfg.Vocabulary.GuardHelpers = splitList(answers["guards"])
	cfg.Vocabulary.WrapperTypes = splitList(answers["wrappers"])

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

// splitList splits a comma-separated answer into trimmed entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

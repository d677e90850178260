package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cetgrade/internal/config"
	"github.com/verte-zerg/cetgrade/internal/model"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template when path does not exist.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cetgrade configuration
# Uncomment a value to enable it. Environment variables and CLI flags override config values.
# API keys are read from GEMINI_API_KEY (or API_KEY) and ANTHROPIC_API_KEY only.

[grader]
# provider = %q        # gemini or anthropic
# model = ""               # Model name (default: %s / %s)
# max-tokens = %d        # Reply token budget (anthropic)

[library]
# export-dir = %q
# default-category = %q  # One of: %s

[log]
# level = "info"           # debug, info, warn, error
# file = %q
`,
		config.ProviderGemini,
		config.DefaultGeminiModel, config.DefaultAnthropicModel,
		config.DefaultMaxTokens,
		config.DefaultExportDir(),
		model.Categories[0], strings.Join(model.Categories, ", "),
		config.DefaultLogPath(),
	)
}

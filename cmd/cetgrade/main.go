// Package main provides the CLI entrypoint for cetgrade.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/cetgrade/internal/app"
	"github.com/verte-zerg/cetgrade/internal/assess"
	"github.com/verte-zerg/cetgrade/internal/config"
	"github.com/verte-zerg/cetgrade/internal/logging"
	"github.com/verte-zerg/cetgrade/internal/model"
	"github.com/verte-zerg/cetgrade/internal/store"
	"github.com/verte-zerg/cetgrade/internal/tui"
)

var (
	flagProvider  string
	flagModel     string
	flagDB        string
	flagExportDir string
)

// newAssessor is replaced in tests.
var newAssessor = assess.New

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cetgrade",
		Short:         "CET-6 translation grader",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUICmd,
	}

	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", config.ProviderGemini, "assessment provider (gemini or anthropic)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name (default depends on provider)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path")
	rootCmd.PersistentFlags().StringVar(&flagExportDir, "export-dir", "", "directory for library exports")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newGradeCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newVocabCmd())

	return rootCmd
}

// runtime bundles what every command needs once configuration is resolved.
type runtime struct {
	settings config.Settings
	log      *zap.Logger
	store    *store.Store
	shell    *app.Shell
}

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv()
	if err != nil {
		return config.Settings{}, err
	}
	applyStringFlag(cmd, "provider", &env.Provider, flagProvider)
	applyStringFlag(cmd, "model", &env.Model, flagModel)
	applyStringFlag(cmd, "db", &env.DBPath, flagDB)
	settings, err := config.Resolve(fileCfg, env)
	if err != nil {
		return config.Settings{}, err
	}
	applyStringFlag(cmd, "export-dir", &settings.ExportDir, flagExportDir)
	return settings, nil
}

func openRuntime(cmd *cobra.Command) (*runtime, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{Level: settings.LogLevel, File: settings.LogFile})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	st, err := store.Open(settings.DBPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	assessor, err := newAssessor(ctx, settings)
	if err != nil {
		// Library commands still work without credentials; grading fails
		// the same way a service outage does.
		log.Warn("assessment unavailable", zap.String("provider", settings.Provider), zap.Error(err))
		cause := err
		assessor = assess.Func(func(context.Context, string, string) (model.GradingResult, error) {
			return model.GradingResult{}, &assess.ServiceError{Provider: settings.Provider, Err: cause}
		})
	}

	persist := store.NewPersistence(st, log)
	shell := app.NewShell(ctx, persist, assessor, app.WithLogger(log))
	log.Debug("runtime ready",
		zap.String("provider", settings.Provider),
		zap.String("model", settings.Model),
		zap.String("db", settings.DBPath))
	return &runtime{settings: settings, log: log, store: st, shell: shell}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Error("failed to close db", zap.Error(err))
	}
	_ = r.log.Sync()
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	m := tui.NewModel(cmd.Context(), rt.shell, tui.Options{
		ExportDir:       rt.settings.ExportDir,
		DefaultCategory: rt.settings.DefaultCategory,
		Logger:          rt.log,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/verte-zerg/cetgrade/internal/model"
)

// Assessment providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Built-in defaults.
const (
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultMaxTokens      = 4096
	defaultLogLevel       = "info"
)

// EnvConfig holds settings read from the process environment.
type EnvConfig struct {
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	APIKey          string `env:"API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	Provider        string `env:"CETGRADE_PROVIDER"`
	Model           string `env:"CETGRADE_MODEL"`
	LogLevel        string `env:"CETGRADE_LOG_LEVEL"`
	DBPath          string `env:"CETGRADE_DB"`
}

// LoadEnv reads EnvConfig from the environment.
func LoadEnv() (EnvConfig, error) {
	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return env, nil
}

// Settings is the resolved runtime configuration.
type Settings struct {
	Provider        string
	Model           string
	MaxTokens       int
	APIKey          string
	ExportDir       string
	DefaultCategory string
	LogLevel        string
	LogFile         string
	DBPath          string
}

// Resolve merges file and environment configuration over built-in defaults.
// Environment values win over file values.
func Resolve(file FileConfig, env EnvConfig) (Settings, error) {
	s := Settings{
		Provider:        ProviderGemini,
		MaxTokens:       DefaultMaxTokens,
		ExportDir:       DefaultExportDir(),
		DefaultCategory: model.Categories[0],
		LogLevel:        defaultLogLevel,
		LogFile:         DefaultLogPath(),
		DBPath:          DefaultDBPath(),
	}

	applyString(&s.Provider, file.Grader.Provider)
	applyString(&s.Model, file.Grader.Model)
	if file.Grader.MaxTokens != nil {
		s.MaxTokens = *file.Grader.MaxTokens
	}
	applyString(&s.ExportDir, file.Library.ExportDir)
	applyString(&s.DefaultCategory, file.Library.DefaultCategory)
	applyString(&s.LogLevel, file.Log.Level)
	applyString(&s.LogFile, file.Log.File)

	overrideString(&s.Provider, env.Provider)
	overrideString(&s.Model, env.Model)
	overrideString(&s.LogLevel, env.LogLevel)
	overrideString(&s.DBPath, env.DBPath)

	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	switch s.Provider {
	case ProviderGemini:
		s.APIKey = firstNonEmpty(env.GeminiAPIKey, env.APIKey)
		if s.Model == "" {
			s.Model = DefaultGeminiModel
		}
	case ProviderAnthropic:
		s.APIKey = env.AnthropicAPIKey
		if s.Model == "" {
			s.Model = DefaultAnthropicModel
		}
	default:
		return Settings{}, fmt.Errorf("unknown provider %q (expected %s or %s)", s.Provider, ProviderGemini, ProviderAnthropic)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.MaxTokens <= 0 {
		return fmt.Errorf("max-tokens must be > 0")
	}
	if !model.IsCategory(s.DefaultCategory) {
		return fmt.Errorf("default-category %q is not a known category", s.DefaultCategory)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q is not one of debug, info, warn, error", s.LogLevel)
	}
	if strings.TrimSpace(s.DBPath) == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

func applyString(target, value *string) {
	if value == nil {
		return
	}
	*target = *value
}

func overrideString(target *string, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	*target = value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Package assess grades CET-6 translations with a hosted language model.
package assess

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/cetgrade/internal/config"
	"github.com/verte-zerg/cetgrade/internal/model"
)

// UserMessage is shown to the user for any assessment failure.
const UserMessage = "评分服务暂时不可用，请稍后重试。"

// ErrService matches every ServiceError with errors.Is.
var ErrService = errors.New("assessment service error")

// ServiceError wraps any failure of an assessment call.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s assessment failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrService.
func (e *ServiceError) Is(target error) bool {
	return target == ErrService
}

func serviceErr(provider string, err error) error {
	return &ServiceError{Provider: provider, Err: err}
}

// Assessor grades one translation. Implementations issue exactly one request
// and never return a partial result.
type Assessor interface {
	Assess(ctx context.Context, sourceText, translationText string) (model.GradingResult, error)
}

// Func adapts a function to Assessor.
type Func func(ctx context.Context, sourceText, translationText string) (model.GradingResult, error)

// Assess implements Assessor.
func (f Func) Assess(ctx context.Context, sourceText, translationText string) (model.GradingResult, error) {
	return f(ctx, sourceText, translationText)
}

// New builds the Assessor selected by settings.
func New(ctx context.Context, s config.Settings) (Assessor, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", s.Provider)
	}
	switch s.Provider {
	case config.ProviderGemini:
		return NewGemini(ctx, GeminiOptions{APIKey: s.APIKey, Model: s.Model})
	case config.ProviderAnthropic:
		return NewAnthropic(AnthropicOptions{APIKey: s.APIKey, Model: s.Model, MaxTokens: s.MaxTokens}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Provider)
	}
}

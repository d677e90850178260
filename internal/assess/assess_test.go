package assess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cetgrade/internal/config"
	"github.com/verte-zerg/cetgrade/internal/model"
)

func TestServiceErrorMatching(t *testing.T) {
	cause := errors.New("connection reset")
	err := serviceErr(config.ProviderGemini, cause)

	assert.ErrorIs(t, err, ErrService)
	assert.ErrorIs(t, err, cause)
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, config.ProviderGemini, se.Provider)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFuncAdapter(t *testing.T) {
	var a Assessor = Func(func(_ context.Context, src, tr string) (model.GradingResult, error) {
		return model.GradingResult{Score: len(src) + len(tr)}, nil
	})
	res, err := a.Assess(context.Background(), "ab", "c")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.Settings{Provider: config.ProviderGemini, Model: "m"})
	require.Error(t, err)
}

func TestNewAnthropic(t *testing.T) {
	a, err := New(context.Background(), config.Settings{Provider: config.ProviderAnthropic, Model: "m", APIKey: "k", MaxTokens: 10})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, a)
}

package assess

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/verte-zerg/cetgrade/internal/config"
	"github.com/verte-zerg/cetgrade/internal/model"
)

const anthropicSystem = "你是一位只输出 JSON 的大学英语六级翻译阅卷老师。"

// AnthropicOptions configures the Anthropic assessor.
type AnthropicOptions struct {
	APIKey     string
	Model      string
	MaxTokens  int
	BaseURL    string
	HTTPClient *http.Client
}

// Anthropic grades through the Anthropic Messages API. The reply shape is
// described in the prompt and validated by Decode.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropic creates an Anthropic assessor. SDK retries are disabled: one
// failed attempt is final.
func NewAnthropic(opts AnthropicOptions) *Anthropic {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Anthropic{
		client:    anthropic.NewClient(reqOpts...),
		model:     opts.Model,
		maxTokens: maxTokens,
	}
}

// Assess implements Assessor.
func (a *Anthropic) Assess(ctx context.Context, sourceText, translationText string) (model.GradingResult, error) {
	prompt := BuildPrompt(sourceText, translationText) + "\n" + jsonShape
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: anthropicSystem}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return model.GradingResult{}, serviceErr(config.ProviderAnthropic, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return model.GradingResult{}, serviceErr(config.ProviderAnthropic, fmt.Errorf("empty response"))
	}
	result, err := Decode(b.String())
	if err != nil {
		return model.GradingResult{}, serviceErr(config.ProviderAnthropic, err)
	}
	return result, nil
}

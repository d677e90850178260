package assess

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/verte-zerg/cetgrade/internal/config"
	"github.com/verte-zerg/cetgrade/internal/model"
)

// GeminiOptions configures the Gemini assessor.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini grades through the Gemini API with a declared response schema.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini assessor.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: opts.Model}, nil
}

// Assess implements Assessor.
func (g *Gemini) Assess(ctx context.Context, sourceText, translationText string) (model.GradingResult, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(sourceText, translationText)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   gradingSchema(),
	})
	if err != nil {
		return model.GradingResult{}, serviceErr(config.ProviderGemini, err)
	}
	text := resp.Text()
	if text == "" {
		return model.GradingResult{}, serviceErr(config.ProviderGemini, fmt.Errorf("empty response"))
	}
	result, err := Decode(text)
	if err != nil {
		return model.GradingResult{}, serviceErr(config.ProviderGemini, err)
	}
	return result, nil
}

func gradingSchema() *genai.Schema {
	minScore := 0.0
	maxScore := float64(model.MaxScore)
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: "The score out of 15",
				Minimum:     &minScore,
				Maximum:     &maxScore,
			},
			"comments": {
				Type:        genai.TypeString,
				Description: "Detailed comments on why this score was given",
			},
			"standardTranslation": {
				Type:        genai.TypeString,
				Description: "A high-quality standard translation",
			},
			"improvements": {
				Type:        genai.TypeArray,
				Description: "Specific suggestions for improvement with original and revised snippets",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"originalSnippet": {Type: genai.TypeString, Description: "The problematic segment from the student's text"},
						"revisedSnippet":  {Type: genai.TypeString, Description: "The corrected segment"},
						"explanation":     {Type: genai.TypeString, Description: "Explanation of the correction in Chinese"},
					},
					Required:         []string{"originalSnippet", "revisedSnippet", "explanation"},
					PropertyOrdering: []string{"originalSnippet", "revisedSnippet", "explanation"},
				},
			},
			"vocabulary": {
				Type:        genai.TypeArray,
				Description: "Useful vocabulary and sentence structures to learn",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required:         []string{"score", "comments", "standardTranslation", "improvements", "vocabulary"},
		PropertyOrdering: []string{"score", "comments", "standardTranslation", "improvements", "vocabulary"},
	}
}

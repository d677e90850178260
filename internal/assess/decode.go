package assess

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/cetgrade/internal/model"
)

type wireImprovement struct {
	OriginalSnippet *string `json:"originalSnippet"`
	RevisedSnippet  *string `json:"revisedSnippet"`
	Explanation     *string `json:"explanation"`
}

type wireResult struct {
	Score               json.RawMessage    `json:"score"`
	Comments            *string            `json:"comments"`
	StandardTranslation *string            `json:"standardTranslation"`
	Improvements        *[]wireImprovement `json:"improvements"`
	Vocabulary          *[]string          `json:"vocabulary"`
}

// Decode parses a model reply into a GradingResult. The reply may wrap the
// JSON object in prose or code fences. Missing fields, a non-numeric or
// fractional score, or a score outside 0-15 are errors.
func Decode(reply string) (model.GradingResult, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return model.GradingResult{}, err
	}
	var w wireResult
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return model.GradingResult{}, fmt.Errorf("invalid JSON reply: %w", err)
	}

	score, err := decodeScore(w.Score)
	if err != nil {
		return model.GradingResult{}, err
	}
	switch {
	case w.Comments == nil:
		return model.GradingResult{}, missing("comments")
	case w.StandardTranslation == nil:
		return model.GradingResult{}, missing("standardTranslation")
	case w.Improvements == nil:
		return model.GradingResult{}, missing("improvements")
	case w.Vocabulary == nil:
		return model.GradingResult{}, missing("vocabulary")
	}

	improvements := make([]model.ImprovementItem, 0, len(*w.Improvements))
	for i, item := range *w.Improvements {
		if item.OriginalSnippet == nil || item.RevisedSnippet == nil || item.Explanation == nil {
			return model.GradingResult{}, fmt.Errorf("improvement %d is missing a required field", i)
		}
		improvements = append(improvements, model.ImprovementItem{
			OriginalSnippet: *item.OriginalSnippet,
			RevisedSnippet:  *item.RevisedSnippet,
			Explanation:     *item.Explanation,
		})
	}
	vocabulary := append([]string{}, (*w.Vocabulary)...)

	return model.GradingResult{
		Score:               score,
		Comments:            *w.Comments,
		StandardTranslation: *w.StandardTranslation,
		Improvements:        improvements,
		Vocabulary:          vocabulary,
	}, nil
}

func decodeScore(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, missing("score")
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, fmt.Errorf("score is not a number: %s", raw)
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("score is not a number: %w", err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("score %v is not an integer", f)
	}
	score := int(f)
	if score < 0 || score > model.MaxScore {
		return 0, fmt.Errorf("score %d outside 0-%d", score, model.MaxScore)
	}
	return score, nil
}

func missing(field string) error {
	return fmt.Errorf("reply is missing required field %q", field)
}

// extractJSON returns the text between the first '{' and the last '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in reply")
	}
	return s[start : end+1], nil
}

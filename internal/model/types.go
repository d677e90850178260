// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// MaxScore is the top of the CET-6 translation scale.
const MaxScore = 15

// CategoryOther is the catch-all vocabulary category.
const CategoryOther = "其他"

// Categories lists the vocabulary categories in library order.
var Categories = []string{
	"历史文化",
	"经济贸易",
	"社会发展",
	"科技创新",
	"自然环境",
	"校园生活",
	"通用表达",
	CategoryOther,
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// NormalizeCategory maps unknown or blank categories to CategoryOther.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	if IsCategory(name) {
		return name
	}
	return CategoryOther
}

// GradingRequest carries the two texts submitted for grading.
type GradingRequest struct {
	SourceText      string
	TranslationText string
}

// Blank reports whether either text is empty after trimming.
func (r GradingRequest) Blank() bool {
	return strings.TrimSpace(r.SourceText) == "" || strings.TrimSpace(r.TranslationText) == ""
}

// ImprovementItem is one line-level correction.
type ImprovementItem struct {
	OriginalSnippet string `json:"originalSnippet"`
	RevisedSnippet  string `json:"revisedSnippet"`
	Explanation     string `json:"explanation"`
}

// GradingResult is the structured reply of an assessment.
type GradingResult struct {
	Score               int               `json:"score"`
	Comments            string            `json:"comments"`
	StandardTranslation string            `json:"standardTranslation"`
	Improvements        []ImprovementItem `json:"improvements"`
	Vocabulary          []string          `json:"vocabulary"`
}

// Session is the most recent grading attempt.
type Session struct {
	SourceText      string         `json:"sourceText"`
	TranslationText string         `json:"translationText"`
	Result          *GradingResult `json:"result,omitempty"`
}

// Empty reports whether the session holds neither texts nor a result.
func (s Session) Empty() bool {
	return s.SourceText == "" && s.TranslationText == "" && s.Result == nil
}

// VocabularyItem is a saved phrase in the library.
type VocabularyItem struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

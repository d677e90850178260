package assess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReply = `{
  "score": 14,
  "comments": "译文准确流畅。",
  "standardTranslation": "China's economy continues to grow.",
  "improvements": [
    {"originalSnippet": "keeps growing", "revisedSnippet": "continues to grow", "explanation": "搭配更正式"}
  ],
  "vocabulary": ["sustained growth 持续增长", "economic development 经济发展"]
}`

func TestDecodeValidReply(t *testing.T) {
	result, err := Decode(validReply)
	require.NoError(t, err)
	assert.Equal(t, 14, result.Score)
	assert.Equal(t, "译文准确流畅。", result.Comments)
	assert.Equal(t, "China's economy continues to grow.", result.StandardTranslation)
	require.Len(t, result.Improvements, 1)
	assert.Equal(t, "continues to grow", result.Improvements[0].RevisedSnippet)
	assert.Equal(t, []string{"sustained growth 持续增长", "economic development 经济发展"}, result.Vocabulary)
}

func TestDecodeToleratesFencesAndIntegralFloat(t *testing.T) {
	reply := "```json\n" + `{"score": 8.0, "comments": "", "standardTranslation": "x", "improvements": [], "vocabulary": []}` + "\n```"
	result, err := Decode(reply)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Score)
	assert.NotNil(t, result.Improvements)
	assert.NotNil(t, result.Vocabulary)
}

func TestDecodeRejectsBadReplies(t *testing.T) {
	cases := map[string]string{
		"not json":            "抱歉，我无法评分。",
		"truncated":           `{"score": 3, "comments": "x"`,
		"missing score":       `{"comments": "", "standardTranslation": "", "improvements": [], "vocabulary": []}`,
		"null score":          `{"score": null, "comments": "", "standardTranslation": "", "improvements": [], "vocabulary": []}`,
		"string score":        `{"score": "9", "comments": "", "standardTranslation": "", "improvements": [], "vocabulary": []}`,
		"fractional score":    `{"score": 9.5, "comments": "", "standardTranslation": "", "improvements": [], "vocabulary": []}`,
		"score too high":      `{"score": 16, "comments": "", "standardTranslation": "", "improvements": [], "vocabulary": []}`,
		"negative score":      `{"score": -1, "comments": "", "standardTranslation": "", "improvements": [], "vocabulary": []}`,
		"missing comments":    `{"score": 5, "standardTranslation": "", "improvements": [], "vocabulary": []}`,
		"missing translation": `{"score": 5, "comments": "", "improvements": [], "vocabulary": []}`,
		"missing vocabulary":  `{"score": 5, "comments": "", "standardTranslation": "", "improvements": []}`,
		"null improvements":   `{"score": 5, "comments": "", "standardTranslation": "", "improvements": null, "vocabulary": []}`,
		"incomplete improvement": `{"score": 5, "comments": "", "standardTranslation": "", "improvements": [{"originalSnippet": "a", "revisedSnippet": "b"}], "vocabulary": []}`,
		"wrong vocabulary type":  `{"score": 5, "comments": "", "standardTranslation": "", "improvements": [], "vocabulary": [1, 2]}`,
	}
	for name, reply := range cases {
		_, err := Decode(reply)
		assert.Error(t, err, name)
	}
}

func TestBuildPromptEmbedsInputsAndRubric(t *testing.T) {
	prompt := BuildPrompt("中国的经济持续增长。", "China's economy keeps growing.")
	assert.Contains(t, prompt, "中国的经济持续增长。")
	assert.Contains(t, prompt, "China's economy keeps growing.")
	for _, tier := range []string{"13-15分", "10-12分", "7-9分", "4-6分", "1-3分", "0分"} {
		assert.Contains(t, prompt, tier)
	}
}

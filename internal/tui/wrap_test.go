package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	lines := wrapText("the quick brown fox", 10)
	assert.Equal(t, []string{"the quick", "brown fox"}, lines)
}

func TestWrapTextBreaksWideRunes(t *testing.T) {
	lines := wrapText("中国的经济持续增长", 8)
	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 8)
	}
	assert.Equal(t, []string{"中国的经", "济持续增", "长"}, lines)
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, wrapText("a\n\nb", 10))
}

func TestIndentPrefixesEveryLine(t *testing.T) {
	lines := indent("alpha beta", "1. ", 9)
	assert.Equal(t, []string{"1. alpha", "   beta"}, lines)
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "abc", truncateLine("abc", 5))
	assert.LessOrEqual(t, runewidth.StringWidth(truncateLine("中国的经济持续", 5)), 5)
}

func TestFitLines(t *testing.T) {
	out := fitLines("a\nb\nc", 2, 2)
	assert.Equal(t, "a \nb ", out)
}

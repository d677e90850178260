package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

func (m *Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.shell.State()
	vocab := st.Result.Vocabulary
	switch {
	case key.Matches(msg, m.keys.EditInputs):
		m.editing = true
		return m, nil
	case key.Matches(msg, m.keys.Up) && len(vocab) > 0:
		m.moveVocabCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down) && len(vocab) > 0:
		m.moveVocabCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Toggle) && len(vocab) > 0:
		m.selection = m.selection.Toggle(m.vocabCursor)
		m.renderResult()
		return m, nil
	case key.Matches(msg, m.keys.NextCategory):
		m.selection = m.selection.CycleCategory(1)
		m.renderResult()
		return m, nil
	case key.Matches(msg, m.keys.PrevCategory):
		m.selection = m.selection.CycleCategory(-1)
		m.renderResult()
		return m, nil
	case key.Matches(msg, m.keys.SaveSelection):
		return m, m.saveSelection()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyReference()
	}
	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m *Model) moveVocabCursor(delta int) {
	n := len(m.shell.State().Result.Vocabulary)
	m.vocabCursor = minInt(maxInt(0, m.vocabCursor+delta), n-1)
	m.renderResult()
	line := m.vocabLine + m.vocabCursor
	switch {
	case line < m.result.YOffset:
		m.result.SetYOffset(line)
	case line >= m.result.YOffset+m.result.Height:
		m.result.SetYOffset(line - m.result.Height + 1)
	}
}

func (m *Model) saveSelection() tea.Cmd {
	category := m.selection.Category
	next, n, err := m.shell.SaveSelection(m.ctx, m.selection)
	if err != nil {
		m.log.Error("failed to save selected vocabulary", zap.Error(err))
		return m.setFlash("保存失败")
	}
	if n == 0 {
		return nil
	}
	m.selection = next
	m.renderResult()
	return m.setFlash(fmt.Sprintf("已保存 %d 条表达到「%s」", n, category))
}

func (m *Model) copyReference() tea.Cmd {
	text := m.shell.State().Result.StandardTranslation
	if err := m.copyText(text); err != nil {
		m.log.Warn("clipboard copy failed", zap.Error(err))
		return m.setFlash("复制失败")
	}
	return m.setFlash("已复制参考译文")
}

// renderResult refreshes the result viewport and records where the
// vocabulary rows start.
func (m *Model) renderResult() {
	st := m.shell.State()
	if st.Result == nil {
		m.result.SetContent("")
		return
	}
	res := st.Result
	width := maxInt(20, m.width-2)
	var lines []string
	section := func(title string) {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, labelStyle.Render(title))
	}

	lines = append(lines, "得分  "+badge(res.Score))

	graded := st.Graded()
	section("中文原文")
	lines = append(lines, styleLines(textStyle, wrapText(graded.SourceText, width))...)
	section("你的译文")
	lines = append(lines, styleLines(textStyle, wrapText(graded.TranslationText, width))...)

	section("阅卷评语")
	lines = append(lines, styleLines(textStyle, wrapText(res.Comments, width))...)

	section("参考译文")
	lines = append(lines, styleLines(textStyle, wrapText(res.StandardTranslation, width))...)

	section("修改建议")
	if len(res.Improvements) == 0 {
		lines = append(lines, mutedStyle.Render("无"))
	}
	for i, imp := range res.Improvements {
		prefix := fmt.Sprintf("%d. ", i+1)
		pad := strings.Repeat(" ", len(prefix))
		lines = append(lines, styleLines(removedStyle, indent(imp.OriginalSnippet, prefix, width))...)
		lines = append(lines, styleLines(addedStyle, indent(imp.RevisedSnippet, pad, width))...)
		lines = append(lines, styleLines(mutedStyle, indent(imp.Explanation, pad, width))...)
	}

	section("积累表达")
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("保存到: 〈%s〉  [ ] 切换分类 · space 选择 · s 保存", m.selection.Category)))
	m.vocabLine = len(lines)
	if len(res.Vocabulary) == 0 {
		lines = append(lines, mutedStyle.Render("无"))
	}
	for i, v := range res.Vocabulary {
		mark := "[ ]"
		if m.selection.Has(i) {
			mark = "[x]"
		}
		row := truncateLine(fmt.Sprintf("%s %s", mark, v), width-2)
		if i == m.vocabCursor {
			lines = append(lines, cursorStyle.Render("> "+row))
		} else {
			lines = append(lines, textStyle.Render("  "+row))
		}
	}
	m.result.SetContent(strings.Join(lines, "\n"))
}

func styleLines(style lipgloss.Style, lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = style.Render(line)
	}
	return out
}

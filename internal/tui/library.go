package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/cetgrade/internal/library"
	"github.com/verte-zerg/cetgrade/internal/model"
)

const (
	deletePrompt      = "确定要删除这条表达吗？"
	emptyExportNotice = "表达库为空，无需导出"
)

type libraryView struct {
	filter    string
	cursor    int
	form      library.Form
	input     textinput.Model
	confirmID string
}

func newLibraryView() libraryView {
	input := textinput.New()
	input.Prompt = "内容: "
	input.Placeholder = "输入单词、短语或句子"
	input.CharLimit = 0
	return libraryView{filter: library.FilterAll, input: input}
}

func (m *Model) openLibrary() {
	if !m.shell.State().LibraryOpen {
		m.shell.ToggleLibrary()
	}
	m.clampLibraryCursor()
}

func (m *Model) closeLibrary() {
	m.shell.CloseLibrary()
	m.lib.form = m.lib.form.Cancel()
	m.lib.confirmID = ""
	m.lib.input.Blur()
}

func (m *Model) visibleItems() []model.VocabularyItem {
	return library.Filter(m.shell.State().Library, m.lib.filter)
}

func (m *Model) clampLibraryCursor() {
	n := len(m.visibleItems())
	m.lib.cursor = maxInt(0, minInt(m.lib.cursor, n-1))
}

func (m *Model) currentItem() (model.VocabularyItem, bool) {
	items := m.visibleItems()
	if m.lib.cursor < 0 || m.lib.cursor >= len(items) {
		return model.VocabularyItem{}, false
	}
	return items[m.lib.cursor], true
}

func (m *Model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lib.confirmID != "" {
		return m, m.updateConfirm(msg)
	}
	if m.lib.form.Open() {
		return m, m.updateForm(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Library):
		m.closeLibrary()
	case key.Matches(msg, m.keys.NextFilter):
		m.lib.filter = library.Cycle(library.Filters(), m.lib.filter, 1)
		m.lib.cursor = 0
	case key.Matches(msg, m.keys.PrevFilter):
		m.lib.filter = library.Cycle(library.Filters(), m.lib.filter, -1)
		m.lib.cursor = 0
	case key.Matches(msg, m.keys.Up):
		m.lib.cursor--
		m.clampLibraryCursor()
	case key.Matches(msg, m.keys.Down):
		m.lib.cursor++
		m.clampLibraryCursor()
	case key.Matches(msg, m.keys.Add):
		m.lib.form = m.lib.form.StartAdd(m.lib.filter)
		m.lib.input.SetValue("")
		return m, m.lib.input.Focus()
	case key.Matches(msg, m.keys.Edit):
		item, ok := m.currentItem()
		if !ok {
			return m, nil
		}
		m.lib.form = m.lib.form.StartEdit(item)
		m.lib.input.SetValue(item.Content)
		m.lib.input.CursorEnd()
		return m, m.lib.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.currentItem(); ok {
			m.lib.confirmID = item.ID
		}
	case key.Matches(msg, m.keys.Export):
		return m, m.exportLibrary()
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.lib.confirmID
		m.lib.confirmID = ""
		if err := m.shell.DeleteItem(m.ctx, id); err != nil {
			m.log.Error("failed to delete vocabulary item", zap.String("id", id), zap.Error(err))
			return m.setFlash("删除失败")
		}
		m.clampLibraryCursor()
		return m.setFlash("已删除")
	case key.Matches(msg, m.keys.Cancel):
		m.lib.confirmID = ""
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.lib.form = m.lib.form.Cancel()
		m.lib.input.Blur()
		return nil
	case tea.KeyTab:
		m.lib.form = m.lib.form.CycleCategory(1)
		return nil
	case tea.KeyShiftTab:
		m.lib.form = m.lib.form.CycleCategory(-1)
		return nil
	case tea.KeyEnter:
		editing := m.lib.form.Mode == library.FormEditing
		form := m.lib.form
		form.Content = m.lib.input.Value()
		next, changed, err := m.shell.SubmitForm(m.ctx, form)
		if err != nil {
			m.log.Error("failed to save vocabulary item", zap.Error(err))
			m.lib.form = next
			return m.setFlash("保存失败")
		}
		if !changed {
			return nil
		}
		m.lib.form = next
		m.lib.input.Blur()
		m.lib.input.SetValue("")
		m.clampLibraryCursor()
		if editing {
			return m.setFlash("已更新")
		}
		m.lib.cursor = 0
		return m.setFlash("已添加")
	}
	var cmd tea.Cmd
	m.lib.input, cmd = m.lib.input.Update(msg)
	return cmd
}

func (m *Model) exportLibrary() tea.Cmd {
	path, err := m.shell.Export(m.exportDir)
	switch {
	case errors.Is(err, library.ErrEmptyLibrary):
		return m.setFlash(emptyExportNotice)
	case err != nil:
		return m.setFlash("导出失败")
	}
	return m.setFlash("已导出到 " + path)
}

func (m *Model) renderLibrary(height int) string {
	st := m.shell.State()
	lines := []string{titleStyle.Render(fmt.Sprintf("我的表达库 (%d)", len(st.Library)))}
	lines = append(lines, m.renderFilterTabs()...)
	lines = append(lines, "")

	switch {
	case m.lib.form.Open():
		lines = append(lines, m.renderForm())
		return strings.Join(lines, "\n")
	case m.lib.confirmID != "":
		item, _ := library.Find(st.Library, m.lib.confirmID)
		lines = append(lines,
			errorStyle.Render(deletePrompt+" (y/n)"),
			textStyle.Render(truncateLine(item.Content, m.width-2)))
		return strings.Join(lines, "\n")
	}

	items := m.visibleItems()
	if len(items) == 0 {
		lines = append(lines, mutedStyle.Render("暂无收藏的表达"))
		return strings.Join(lines, "\n")
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{item.Category, item.CreatedAt.Local().Format("2006-01-02"), item.Content}
	}
	table := library.FormatTable(nil, rows, nil)

	room := maxInt(1, height-len(lines))
	start := 0
	if m.lib.cursor >= room {
		start = m.lib.cursor - room + 1
	}
	end := minInt(len(table), start+room)
	for i := start; i < end; i++ {
		row := truncateLine(table[i], m.width-2)
		if i == m.lib.cursor {
			lines = append(lines, cursorStyle.Render("> "+row))
		} else {
			lines = append(lines, textStyle.Render("  "+row))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFilterTabs() []string {
	items := m.shell.State().Library
	var rows []string
	row := ""
	for _, f := range library.Filters() {
		label := fmt.Sprintf("%s (%d)", f, library.Count(items, f))
		tab := inactiveNavStyle.Render(label)
		if f == m.lib.filter {
			tab = activeNavStyle.Render(label)
		}
		if row != "" && lipgloss.Width(row)+lipgloss.Width(tab) > m.width {
			rows = append(rows, row)
			row = ""
		}
		row += tab
	}
	return append(rows, row)
}

func (m *Model) renderForm() string {
	title := "新增表达"
	if m.lib.form.Mode == library.FormEditing {
		title = "编辑表达"
	}
	body := []string{
		titleStyle.Render(title),
		m.lib.input.View(),
		mutedStyle.Render(fmt.Sprintf("分类: 〈%s〉  tab 切换", m.lib.form.Category)),
		mutedStyle.Render("enter 保存 / esc 取消"),
	}
	return modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
}

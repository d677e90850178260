// Package tui provides the Bubble Tea grading interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/cetgrade/internal/app"
	"github.com/verte-zerg/cetgrade/internal/model"
)

const flashDuration = 3 * time.Second

type focusArea int

const (
	focusSource focusArea = iota
	focusTranslation
)

type gradeDoneMsg struct {
	future *app.Future
}

type flashExpiredMsg struct {
	id int
}

// Options configures the interface.
type Options struct {
	ExportDir       string
	DefaultCategory string
	Logger          *zap.Logger
	// Clipboard copies text; nil uses the system clipboard.
	Clipboard func(string) error
}

// Model implements the Bubble Tea grading UI.
type Model struct {
	ctx       context.Context
	shell     *app.Shell
	exportDir string
	log       *zap.Logger
	copyText  func(string) error

	width  int
	height int

	source      textarea.Model
	translation textarea.Model
	focus       focusArea
	editing     bool
	notice      string

	spinner spinner.Model
	pending *app.Future

	result      viewport.Model
	vocabCursor int
	vocabLine   int
	selection   app.Selection

	lib libraryView

	flash   string
	flashID int

	keys keyMap
	help help.Model
}

// NewModel constructs the grading UI over shell.
func NewModel(ctx context.Context, shell *app.Shell, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	m := &Model{
		ctx:         ctx,
		shell:       shell,
		exportDir:   opts.ExportDir,
		log:         log,
		copyText:    copyText,
		width:       80,
		height:      24,
		source:      newTextarea("请输入中文原文…"),
		translation: newTextarea("Enter your English translation…"),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		result:      viewport.New(0, 0),
		selection:   app.NewSelection(opts.DefaultCategory),
		lib:         newLibraryView(),
		keys:        defaultKeyMap(),
		help:        help.New(),
	}
	st := shell.State()
	m.source.SetValue(st.Source)
	m.translation.SetValue(st.Translation)
	m.source.Focus()
	m.updateLayout()
	m.renderResult()
	return m
}

func newTextarea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	return ta
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderResult()
		return m, nil
	case gradeDoneMsg:
		return m, m.finishGrade(msg.future)
	case flashExpiredMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil
	case spinner.TickMsg:
		if m.shell.State().Status != app.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}
	if key.Matches(msg, m.keys.Reset) {
		return m, m.reset()
	}
	if m.shell.State().LibraryOpen {
		return m.updateLibrary(msg)
	}
	if key.Matches(msg, m.keys.Library) {
		m.openLibrary()
		return m, nil
	}
	if m.showingResult() {
		return m.updateResult(msg)
	}
	return m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Grade):
		return m, m.startGrade()
	case key.Matches(msg, m.keys.SwitchField):
		return m, m.toggleFocus()
	case key.Matches(msg, m.keys.Back):
		if m.shell.State().Result != nil && m.shell.State().Status != app.Loading {
			m.editing = false
			m.renderResult()
		}
		return m, nil
	}
	if m.shell.State().Status == app.Loading {
		return m, nil
	}
	var cmd tea.Cmd
	if m.focus == focusSource {
		m.source, cmd = m.source.Update(msg)
	} else {
		m.translation, cmd = m.translation.Update(msg)
	}
	m.shell.SetInputs(m.source.Value(), m.translation.Value())
	return m, cmd
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusSource {
		m.focus = focusTranslation
		m.source.Blur()
		return m.translation.Focus()
	}
	m.focus = focusSource
	m.translation.Blur()
	return m.source.Focus()
}

func (m *Model) startGrade() tea.Cmd {
	m.shell.SetInputs(m.source.Value(), m.translation.Value())
	f, err := m.shell.Grade(m.ctx)
	switch {
	case errors.Is(err, app.ErrBlankInput):
		m.notice = app.BlankInputMessage
		return nil
	case err != nil:
		return nil
	}
	m.pending = f
	return tea.Batch(m.spinner.Tick, waitForGrade(f))
}

func waitForGrade(f *app.Future) tea.Cmd {
	return func() tea.Msg {
		<-f.Done()
		return gradeDoneMsg{future: f}
	}
}

func (m *Model) finishGrade(f *app.Future) tea.Cmd {
	if f != m.pending {
		_ = m.shell.Finish(m.ctx, f)
		return nil
	}
	m.pending = nil
	err := m.shell.Finish(m.ctx, f)
	if m.shell.State().Status != app.Success {
		return nil
	}
	m.editing = false
	m.selection = m.selection.Clear()
	m.vocabCursor = 0
	m.renderResult()
	m.result.GotoTop()
	if err != nil {
		return m.setFlash("评分结果保存失败")
	}
	return nil
}

func (m *Model) reset() tea.Cmd {
	err := m.shell.Reset(m.ctx)
	m.shell.CloseLibrary()
	m.lib = newLibraryView()
	m.updateLayout()
	m.pending = nil
	m.editing = false
	m.selection = m.selection.Clear()
	m.vocabCursor = 0
	m.source.Reset()
	m.translation.Reset()
	m.focus = focusTranslation
	cmd := m.toggleFocus()
	m.renderResult()
	if err != nil {
		return tea.Batch(cmd, m.setFlash("清除记录失败"))
	}
	return cmd
}

func (m *Model) showingResult() bool {
	st := m.shell.State()
	return st.Status == app.Success && st.Result != nil && !m.editing
}

func (m *Model) setFlash(text string) tea.Cmd {
	m.flashID++
	m.flash = text
	id := m.flashID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{id: id}
	})
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = 2
	footerHeight = 2
	bodyHeight = maxInt(4, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	_, bodyHeight, _ := m.layoutHeights()
	inner := maxInt(10, m.width-2)
	// two labels, two bordered panels, one status line
	taHeight := maxInt(2, (bodyHeight-7)/2)
	m.source.SetWidth(inner)
	m.source.SetHeight(taHeight)
	m.translation.SetWidth(inner)
	m.translation.SetHeight(taHeight)
	m.result.Width = m.width
	m.result.Height = bodyHeight
	m.lib.input.Width = maxInt(10, modalWidth(m.width)-10)
	m.help.Width = m.width
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.notice != "" {
		return m.renderModal(errorStyle.Render(m.notice) + "\n\n" + mutedStyle.Render("按任意键继续"))
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	var body string
	switch {
	case m.shell.State().LibraryOpen:
		body = m.renderLibrary(bodyHeight)
	case m.showingResult():
		body = m.result.View()
	default:
		body = m.renderInputs()
	}
	body = fitLines(body, m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderHeader() string {
	st := m.shell.State()
	title := titleStyle.Render("CET-6 翻译智能阅卷")
	lib := mutedStyle.Render(fmt.Sprintf("表达库 (%d)", len(st.Library)))
	gap := maxInt(1, m.width-lipgloss.Width(title)-lipgloss.Width(lib))
	return title + strings.Repeat(" ", gap) + lib + "\n" + mutedStyle.Render(strings.Repeat("─", maxInt(1, m.width)))
}

func (m *Model) renderFooter() string {
	status := ""
	if m.flash != "" {
		status = flashStyle.Render(m.flash)
	}
	return status + "\n" + m.help.View(m.helpBindings())
}

func (m *Model) renderInputs() string {
	st := m.shell.State()
	srcPanel, trPanel := panelStyle, panelStyle
	if m.focus == focusSource {
		srcPanel = focusedPanelStyle
	} else {
		trPanel = focusedPanelStyle
	}
	lines := []string{
		labelStyle.Render("中文原文"),
		srcPanel.Render(m.source.View()),
		labelStyle.Render("英文译文"),
		trPanel.Render(m.translation.View()),
	}
	switch st.Status {
	case app.Loading:
		lines = append(lines, m.spinner.View()+" "+mutedStyle.Render("正在评分，请稍候…"))
	case app.Error:
		lines = append(lines, errorStyle.Render(st.ErrMsg))
	default:
		if st.Result != nil {
			lines = append(lines, mutedStyle.Render("esc 返回评分结果"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderModal(content string) string {
	box := modalStyle.Width(modalWidth(m.width)).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func formatScore(value int) string {
	return fmt.Sprintf("%d/%d", value, model.MaxScore)
}

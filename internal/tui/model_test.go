package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cetgrade/internal/app"
	"github.com/verte-zerg/cetgrade/internal/assess"
	"github.com/verte-zerg/cetgrade/internal/model"
	"github.com/verte-zerg/cetgrade/internal/store"
)

type stubAssessor struct {
	calls  int32
	result model.GradingResult
	err    error
}

func (s *stubAssessor) Assess(context.Context, string, string) (model.GradingResult, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.result, s.err
}

type fixture struct {
	m        *Model
	kv       *store.Memory
	assessor *stubAssessor
	copied   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		kv: store.NewMemory(),
		assessor: &stubAssessor{result: model.GradingResult{
			Score:               14,
			Comments:            "译文准确。",
			StandardTranslation: "China's economy continues to grow.",
			Improvements: []model.ImprovementItem{
				{OriginalSnippet: "keeps growing", RevisedSnippet: "continues to grow", Explanation: "更正式"},
			},
			Vocabulary: []string{"sustained growth", "economic boom", "GDP"},
		}},
	}
	ctx := context.Background()
	shell := app.NewShell(ctx, store.NewPersistence(f.kv, nil), f.assessor)
	f.m = NewModel(ctx, shell, Options{
		ExportDir: t.TempDir(),
		Clipboard: func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		},
	})
	f.m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return f
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	_, cmd := f.m.Update(msg)
	return cmd
}

func (f *fixture) keys(t tea.KeyType) tea.Cmd {
	return f.send(tea.KeyMsg{Type: t})
}

func (f *fixture) typeText(s string) tea.Cmd {
	return f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (f *fixture) state() app.State {
	return f.m.shell.State()
}

// gradeDone runs the command returned by the grade key until the grading
// outcome arrives and feeds it back into the model.
func (f *fixture) gradeDone(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msgs := []tea.Msg{cmd()}
	for len(msgs) > 0 {
		msg := msgs[0]
		msgs = msgs[1:]
		switch msg := msg.(type) {
		case tea.BatchMsg:
			for _, c := range msg {
				if c != nil {
					msgs = append(msgs, c())
				}
			}
		case gradeDoneMsg:
			f.send(msg)
			return
		}
	}
	t.Fatalf("grading outcome never arrived")
}

func (f *fixture) grade(t *testing.T) {
	t.Helper()
	f.typeText("中国的经济持续增长。")
	f.keys(tea.KeyTab)
	f.typeText("China's economy keeps growing.")
	cmd := f.keys(tea.KeyCtrlS)
	assert.Equal(t, app.Loading, f.state().Status)
	f.gradeDone(t, cmd)
}

func TestBlankInputShowsNotice(t *testing.T) {
	f := newFixture(t)
	f.typeText("中国")

	cmd := f.keys(tea.KeyCtrlS)
	assert.Nil(t, cmd)
	assert.Equal(t, app.Idle, f.state().Status)
	assert.Contains(t, f.m.View(), app.BlankInputMessage)
	assert.Zero(t, atomic.LoadInt32(&f.assessor.calls))

	f.typeText("x")
	assert.NotContains(t, f.m.View(), app.BlankInputMessage)
	assert.Equal(t, "中国", f.state().Source, "dismissing key is not typed")
}

func TestGradeShowsResult(t *testing.T) {
	f := newFixture(t)
	f.grade(t)

	st := f.state()
	require.Equal(t, app.Success, st.Status)
	assert.Equal(t, "中国的经济持续增长。", st.Source)
	assert.Equal(t, "China's economy keeps growing.", st.Translation)
	view := f.m.View()
	assert.Contains(t, view, "14/15")
	assert.Contains(t, view, "优秀")
	assert.Contains(t, view, "China's economy continues to grow.")

	_, err := f.kv.Get(context.Background(), store.SessionKey)
	require.NoError(t, err)
}

func TestGradeKeyIgnoredWhileLoading(t *testing.T) {
	f := newFixture(t)
	f.typeText("a")
	f.keys(tea.KeyTab)
	f.typeText("b")
	first := f.keys(tea.KeyCtrlS)
	second := f.keys(tea.KeyCtrlS)
	assert.Nil(t, second)
	f.gradeDone(t, first)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.assessor.calls))
}

func TestGradeFailureShowsMessage(t *testing.T) {
	f := newFixture(t)
	f.assessor.err = &assess.ServiceError{Provider: "gemini", Err: errors.New("503")}
	f.grade(t)

	assert.Equal(t, app.Error, f.state().Status)
	assert.Contains(t, f.m.View(), assess.UserMessage)
}

func TestSaveSelectedVocabulary(t *testing.T) {
	f := newFixture(t)
	f.grade(t)

	f.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	f.keys(tea.KeyDown)
	f.keys(tea.KeyDown)
	f.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	f.typeText("]")
	cmd := f.typeText("s")
	assert.NotNil(t, cmd)

	items := f.state().Library
	require.Len(t, items, 2)
	assert.Equal(t, "sustained growth", items[0].Content)
	assert.Equal(t, "GDP", items[1].Content)
	assert.Equal(t, model.Categories[1], items[0].Category)
	assert.Contains(t, f.m.flash, "已保存 2 条")
	assert.Equal(t, 0, f.m.selection.Len())

	assert.Nil(t, f.typeText("s"), "empty selection saves nothing")
	assert.Len(t, f.state().Library, 2)
}

func TestCopyReferenceTranslation(t *testing.T) {
	f := newFixture(t)
	f.grade(t)
	f.typeText("y")
	assert.Equal(t, []string{"China's economy continues to grow."}, f.copied)
	assert.Equal(t, "已复制参考译文", f.m.flash)
}

func TestFlashExpires(t *testing.T) {
	f := newFixture(t)
	f.grade(t)
	f.typeText("y")
	f.send(flashExpiredMsg{id: f.m.flashID - 1})
	assert.NotEmpty(t, f.m.flash)
	f.send(flashExpiredMsg{id: f.m.flashID})
	assert.Empty(t, f.m.flash)
}

func TestEditInputsAndReturn(t *testing.T) {
	f := newFixture(t)
	f.grade(t)
	f.typeText("e")
	assert.False(t, f.m.showingResult())
	f.keys(tea.KeyEsc)
	assert.True(t, f.m.showingResult())
}

func TestTypingWhileLoadingDoesNotChangeGradedText(t *testing.T) {
	f := newFixture(t)
	f.typeText("中国的经济持续增长。")
	f.keys(tea.KeyTab)
	f.typeText("China's economy keeps growing.")
	cmd := f.keys(tea.KeyCtrlS)
	require.Equal(t, app.Loading, f.state().Status)

	f.typeText(" draftX")
	assert.Equal(t, "China's economy keeps growing.", f.m.translation.Value())
	f.gradeDone(t, cmd)
	require.Equal(t, app.Success, f.state().Status)

	session := store.NewPersistence(f.kv, nil).LoadSession(context.Background())
	require.NotNil(t, session)
	assert.Equal(t, "China's economy keeps growing.", session.TranslationText)
	require.NotNil(t, session.Result)
	assert.Equal(t, 14, session.Result.Score)
}

func TestResultShowsGradedTextAfterEditing(t *testing.T) {
	f := newFixture(t)
	f.grade(t)
	f.typeText("e")
	require.False(t, f.m.showingResult())
	f.typeText(" draftX")
	f.keys(tea.KeyEsc)
	require.True(t, f.m.showingResult())

	assert.Equal(t, "China's economy keeps growing.", f.state().Graded().TranslationText)
	assert.NotContains(t, f.m.View(), "draftX")
}

func TestLibraryLifecycle(t *testing.T) {
	f := newFixture(t)
	f.keys(tea.KeyCtrlL)
	require.True(t, f.state().LibraryOpen)

	f.typeText("x")
	assert.Equal(t, emptyExportNotice, f.m.flash)

	f.typeText("a")
	require.True(t, f.m.lib.form.Open())
	f.keys(tea.KeyEnter)
	assert.True(t, f.m.lib.form.Open(), "blank content keeps the form open")
	assert.Empty(t, f.state().Library)

	f.typeText("sustainable development")
	f.keys(tea.KeyTab)
	f.keys(tea.KeyEnter)
	require.Len(t, f.state().Library, 1)
	item := f.state().Library[0]
	assert.Equal(t, "sustainable development", item.Content)
	assert.Equal(t, model.Categories[1], item.Category)
	assert.False(t, f.m.lib.form.Open())

	f.typeText("e")
	require.True(t, f.m.lib.form.Open())
	f.typeText("!")
	f.keys(tea.KeyEnter)
	edited := f.state().Library[0]
	assert.Equal(t, "sustainable development!", edited.Content)
	assert.Equal(t, item.ID, edited.ID)
	assert.Equal(t, item.CreatedAt, edited.CreatedAt)

	f.typeText("d")
	assert.Contains(t, f.m.View(), deletePrompt)
	f.typeText("n")
	assert.Len(t, f.state().Library, 1)

	f.typeText("x")
	assert.True(t, strings.HasPrefix(f.m.flash, "已导出到 "), f.m.flash)

	f.typeText("d")
	f.typeText("y")
	assert.Empty(t, f.state().Library)

	f.keys(tea.KeyEsc)
	assert.False(t, f.state().LibraryOpen)
}

func TestLibraryFilterDefaultsAddCategory(t *testing.T) {
	f := newFixture(t)
	f.keys(tea.KeyCtrlL)
	f.keys(tea.KeyRight)
	f.keys(tea.KeyRight)
	assert.Equal(t, model.Categories[1], f.m.lib.filter)

	f.typeText("a")
	assert.Equal(t, model.Categories[1], f.m.lib.form.Category)
	f.keys(tea.KeyEsc)
	assert.False(t, f.m.lib.form.Open())
	assert.True(t, f.state().LibraryOpen)
	assert.Contains(t, f.m.View(), model.Categories[1]+" (0)")
}

func TestResetClearsEverything(t *testing.T) {
	f := newFixture(t)
	f.grade(t)
	f.keys(tea.KeyCtrlL)

	f.keys(tea.KeyCtrlR)
	st := f.state()
	assert.Equal(t, app.Idle, st.Status)
	assert.False(t, st.LibraryOpen)
	assert.Empty(t, f.m.source.Value())
	assert.Empty(t, f.m.translation.Value())
	_, err := f.kv.Get(context.Background(), store.SessionKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRestoresPersistedSession(t *testing.T) {
	f := newFixture(t)
	f.grade(t)

	shell := app.NewShell(context.Background(), store.NewPersistence(f.kv, nil), f.assessor)
	m := NewModel(context.Background(), shell, Options{})
	assert.True(t, m.showingResult())
	assert.Equal(t, "中国的经济持续增长。", m.source.Value())
	assert.Contains(t, m.View(), "14/15")
}

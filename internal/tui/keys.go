package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit          key.Binding
	Grade         key.Binding
	SwitchField   key.Binding
	Reset         key.Binding
	Library       key.Binding
	Back          key.Binding
	EditInputs    key.Binding
	Up            key.Binding
	Down          key.Binding
	Toggle        key.Binding
	NextCategory  key.Binding
	PrevCategory  key.Binding
	SaveSelection key.Binding
	Copy          key.Binding
	NextFilter    key.Binding
	PrevFilter    key.Binding
	Add           key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Export        key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
	Submit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "退出")),
		Grade:         key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "提交评分")),
		SwitchField:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "切换输入框")),
		Reset:         key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "重新开始")),
		Library:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "表达库")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "返回")),
		EditInputs:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "修改译文")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "上移")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "下移")),
		Toggle:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "选择")),
		NextCategory:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "下一分类")),
		PrevCategory:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "上一分类")),
		SaveSelection: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "保存所选")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "复制参考译文")),
		NextFilter:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "下一筛选")),
		PrevFilter:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "上一筛选")),
		Add:           key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "新增")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "编辑")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "删除")),
		Export:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "导出")),
		Confirm:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "确定")),
		Cancel:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "取消")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "保存")),
	}
}

// bindings adapts a list of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding {
	return b
}

func (b bindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{b}
}

func (m *Model) helpBindings() bindings {
	k := m.keys
	switch {
	case m.lib.confirmID != "":
		return bindings{k.Confirm, k.Cancel}
	case m.lib.form.Open():
		return bindings{k.Submit, key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "切换分类")), k.Back}
	case m.shell.State().LibraryOpen:
		return bindings{k.PrevFilter, k.NextFilter, k.Add, k.Edit, k.Delete, k.Export, k.Back}
	case m.showingResult():
		return bindings{k.Toggle, k.PrevCategory, k.NextCategory, k.SaveSelection, k.Copy, k.EditInputs, k.Library, k.Reset, k.Quit}
	default:
		return bindings{k.Grade, k.SwitchField, k.Library, k.Reset, k.Quit}
	}
}

package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/tasklist"
)

type focusMode int

const (
	focusInput focusMode = iota
	focusList
	focusEdit
)

func (f focusMode) String() string {
	switch f {
	case focusList:
		return "list"
	case focusEdit:
		return "edit"
	default:
		return "input"
	}
}

type tuiModel struct {
	ctx      context.Context
	ctrl     *tasklist.Controller
	logger   *log.Logger
	mode     focusMode
	cursor   int
	draft    textinput.Model
	edit     textinput.Model
	status   string
	showHelp bool
}

// noticeMsg reports that the completion notice was shown or hidden.
type noticeMsg struct{}

func newTUIModel(ctx context.Context, ctrl *tasklist.Controller, logger *log.Logger) *tuiModel {
	return &tuiModel{
		ctx:    ctx,
		ctrl:   ctrl,
		logger: logger,
		draft:  newDraftInput(ctrl.DraftText()),
		edit:   newEditInput(""),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForNotice(m.ctx, m.ctrl.NoticeChanged()))
}

// waitForNotice returns nil once ctx is done so the command goroutine does
// not outlive the program.
func waitForNotice(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return noticeMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case focusList:
			return m.updateList(msg)
		case focusEdit:
			return m.updateEdit(msg)
		default:
			return m.updateInput(msg)
		}
	case noticeMsg:
		// View reads NoticeVisible; just keep listening.
		return m, waitForNotice(m.ctx, m.ctrl.NoticeChanged())
	}
	return m.updateInputs(msg)
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		added, err := m.ctrl.SubmitTask(m.ctx)
		m.report("submit", err)
		if added {
			m.draft.Reset()
			m.cursor = m.ctrl.Len() - 1
		}
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setMode(focusList)
	case tea.KeyEsc:
		m.showHelp = false
		return m, nil
	}

	var cmd tea.Cmd
	m.draft, cmd = m.draft.Update(msg)
	if v := m.draft.Value(); v != m.ctrl.DraftText() {
		m.ctrl.SetDraftText(v)
	}
	return m, cmd
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.ctrl.Len()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if n > 0 {
			m.cursor = n - 1
		}
	case " ", "x":
		_, err := m.ctrl.ToggleComplete(m.ctx, m.cursor)
		m.report("toggle", err)
	case "e", "enter":
		if task, ok := m.ctrl.Task(m.cursor); ok {
			m.edit = newEditInput(task.Text)
			return m, m.setMode(focusEdit)
		}
	case "d", "delete", "backspace":
		_, err := m.ctrl.DeleteTask(m.ctx, m.cursor)
		m.report("delete", err)
		m.clampCursor()
	case "C":
		if n > 0 {
			err := m.ctrl.ClearAll(m.ctx)
			m.report("clear", err)
			m.cursor = 0
		}
	case "tab", "i", "esc", "shift+tab":
		return m, m.setMode(focusInput)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		_, err := m.ctrl.EditTask(m.ctx, m.cursor, m.edit.Value(), true)
		m.report("edit", err)
		return m, m.setMode(focusList)
	case tea.KeyEsc:
		m.ctrl.EditTask(m.ctx, m.cursor, "", false)
		return m, m.setMode(focusList)
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// text inputs.
func (m *tuiModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var draftCmd, editCmd tea.Cmd
	m.draft, draftCmd = m.draft.Update(msg)
	m.edit, editCmd = m.edit.Update(msg)
	return m, tea.Batch(draftCmd, editCmd)
}

// setMode moves focus between the draft input, the list and the edit
// prompt. The returned command starts the focused input's cursor blink.
func (m *tuiModel) setMode(mode focusMode) tea.Cmd {
	if mode == m.mode {
		return nil
	}
	m.logger.Debug("focus", "from", m.mode, "to", mode)
	m.mode = mode

	var cmd tea.Cmd
	switch mode {
	case focusInput:
		m.edit.Blur()
		cmd = m.draft.Focus()
	case focusEdit:
		m.draft.Blur()
		cmd = m.edit.Focus()
	default:
		m.draft.Blur()
		m.edit.Blur()
		m.clampCursor()
	}
	return cmd
}

func (m *tuiModel) clampCursor() {
	n := m.ctrl.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// report records the outcome of a controller call for the status line.
func (m *tuiModel) report(op string, err error) {
	if err != nil {
		m.logger.Error(op, "err", err)
		m.status = err.Error()
		return
	}
	m.status = ""
}

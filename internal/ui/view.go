package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasklist-go/internal/todo"
)

const (
	title        = "To-Do List"
	noticeText   = "Task completed!"
	placeholder  = "Enter a task..."
	emptyText    = "No tasks added yet."
	clearAllText = "Clear All Tasks"
	editPrompt   = "Edit task:"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	noticeStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	doneStyle        = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	selectedStyle    = lipgloss.NewStyle().Bold(true)
	placeholderStyle = lipgloss.NewStyle().Faint(true)
	cursorStyle      = lipgloss.NewStyle().Reverse(true)
	dangerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Faint(true)
)

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.ctrl.NoticeVisible() {
		b.WriteString(noticeStyle.Render(noticeText) + "\n\n")
	}

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	m.writeInput(&b)
	tasks := m.ctrl.Tasks()
	m.writeTasks(&b, tasks)
	if len(tasks) > 0 {
		b.WriteString("  " + dangerStyle.Render(clearAllText) + helpStyle.Render(" (C)") + "\n\n")
	}
	if m.mode == focusEdit {
		b.WriteString(m.edit.View() + "\n\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render("Error: "+m.status) + "\n\n")
	}
	writeFooter(&b, m.mode)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	marker := "  "
	if m.mode == focusInput {
		marker = "> "
	}
	b.WriteString(marker + m.draft.View() + "  [Add Task]\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder, tasks []todo.Task) {
	if len(tasks) == 0 {
		b.WriteString("  " + placeholderStyle.Render(emptyText) + "\n\n")
		return
	}
	for i, t := range tasks {
		b.WriteString(m.formatTask(i, t) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) formatTask(i int, t todo.Task) string {
	selected := m.mode != focusInput && i == m.cursor
	prefix := "  "
	if selected {
		prefix = "> "
	}
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}

	text := t.Text
	switch {
	case t.Completed:
		text = doneStyle.Render(text)
	case selected:
		text = selectedStyle.Render(text)
	}
	return fmt.Sprintf("%s%s %s", prefix, box, text)
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  Input\n")
	b.WriteString("    enter          Add task\n")
	b.WriteString("    tab, down      Focus the list\n")
	b.WriteString("  List\n")
	b.WriteString("    up/k, down/j   Move\n")
	b.WriteString("    space, x       Toggle completed\n")
	b.WriteString("    e, enter       Edit task\n")
	b.WriteString("    d, delete      Delete task\n")
	b.WriteString("    C              Clear all tasks\n")
	b.WriteString("    tab, i, esc    Focus the input\n")
	b.WriteString("    ?              Toggle this help screen\n")
	b.WriteString("    q              Quit\n")
	b.WriteString("  Edit\n")
	b.WriteString("    enter          Save\n")
	b.WriteString("    esc            Cancel\n\n")
	b.WriteString(helpStyle.Render("ctrl+c quits from anywhere | ? to return") + "\n")
}

func writeFooter(b *strings.Builder, mode focusMode) {
	var hint string
	switch mode {
	case focusList:
		hint = "space toggle | e edit | d delete | C clear | tab input | ? help | q quit"
	case focusEdit:
		hint = "enter save | esc cancel"
	default:
		hint = "enter add | tab list | ctrl+c quit"
	}
	b.WriteString(helpStyle.Render(hint) + "\n")
}

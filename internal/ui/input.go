package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
)

const inputWidth = 60

// newTextInput returns a blurred single-line input with the widget's styles.
func newTextInput(prompt, hint string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = hint
	ti.PlaceholderStyle = placeholderStyle
	ti.Cursor.Style = cursorStyle
	ti.Width = inputWidth
	return ti
}

// newDraftInput returns the focused task entry field seeded with text.
func newDraftInput(text string) textinput.Model {
	ti := newTextInput("", placeholder)
	ti.SetValue(text)
	ti.CursorEnd()
	ti.Focus()
	return ti
}

// newEditInput returns the edit prompt prefilled with the task's text.
func newEditInput(text string) textinput.Model {
	ti := newTextInput(editPrompt+" ", "")
	ti.SetValue(text)
	ti.CursorEnd()
	return ti
}

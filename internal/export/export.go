// Package export renders a task list snapshot in printable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// Title heads the markdown and PDF renderings.
const Title = "To-Do List"

// EmptyMessage is shown in place of an empty list.
const EmptyMessage = "No tasks added yet."

// Formats lists the supported format names.
func Formats() []string {
	return []string{"text", "markdown", "json", "csv", "pdf"}
}

// Write renders tasks to w in the named format.
func Write(w io.Writer, tasks []todo.Task, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "txt", "":
		return writeText(w, tasks)
	case "markdown", "md":
		return writeMarkdown(w, tasks)
	case "json":
		return writeJSON(w, tasks)
	case "csv":
		return writeCSV(w, tasks)
	case "pdf":
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// Line formats one task the way `tasklist ls` prints it. n is 1-based.
func Line(n int, t todo.Task) string {
	return fmt.Sprintf("%3d. %s %s", n, checkbox(t.Completed), t.Text)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func writeText(w io.Writer, tasks []todo.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}
	for i, t := range tasks {
		if _, err := fmt.Fprintln(w, Line(i+1, t)); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdown(w io.Writer, tasks []todo.Task) error {
	var b strings.Builder
	b.WriteString("# " + Title + "\n\n")
	if len(tasks) == 0 {
		b.WriteString(EmptyMessage + "\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s %s\n", checkbox(t.Completed), escapeMarkdown(t.Text))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func writeJSON(w io.Writer, tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeCSV(w io.Writer, tasks []todo.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "text", "completed"}); err != nil {
		return err
	}
	for i, t := range tasks {
		row := []string{strconv.Itoa(i + 1), t.Text, strconv.FormatBool(t.Completed)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []todo.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(Title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, Title)
	pdf.Ln(14)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.MultiCell(0, 7, EmptyMessage, "0", "L", false)
	}
	for i, t := range tasks {
		style := ""
		if t.Completed {
			style = "S"
		}
		pdf.SetFont("Arial", style, 11)
		line := fmt.Sprintf("%d. %s %s", i+1, checkbox(t.Completed), tr(t.Text))
		pdf.MultiCell(0, 7, line, "0", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

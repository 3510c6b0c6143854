// Package shell implements the interactive command layer: colored console
// output, the command registry with availability preconditions, and the
// execute-with-rollback runner every command goes through.
package shell

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color selects one of the console colors used by command output.
type Color int

const (
	White Color = iota
	Green
	Yellow
	Red
)

var colorStyles = map[Color]lipgloss.Style{
	White:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	Green:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Red:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

// Render formats the given text in this color.
func (c Color) Render(text string) string {
	return colorStyles[c].Render(text)
}

// LineReader reads one line of input with the given prompt. The REPL binary
// implements it with its line-editing library; tests implement it with a
// canned queue. The command layer never sees anything wider.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Console writes command output and reads interactive confirmations.
type Console struct {
	out    io.Writer
	reader LineReader
}

// NewConsole creates a console writing to out and reading from reader.
func NewConsole(out io.Writer, reader LineReader) *Console {
	return &Console{out: out, reader: reader}
}

// WriteLine writes a formatted line without coloring.
func (c *Console) WriteLine(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// WriteColorLine writes a formatted line in the given color.
func (c *Console) WriteColorLine(color Color, format string, args ...any) {
	fmt.Fprintln(c.out, color.Render(fmt.Sprintf(format, args...)))
}

// ReadLine reads one line of input with the given prompt.
func (c *Console) ReadLine(prompt string) (string, error) {
	return c.reader.ReadLine(prompt)
}

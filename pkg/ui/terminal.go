package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Banner printed when a run starts
const Banner = `
  ╔════════════════════════════════════════╗
  ║  IMDB RATINGS EXPORT                   ║
  ║  bulk downloader for user rating lists ║
  ╚════════════════════════════════════════╝
`

var (
	cyan    = lipgloss.Color("#00FFFF")
	yellow  = lipgloss.Color("#FFFF00")
	red     = lipgloss.Color("#FF3131")
	green   = lipgloss.Color("#39FF14")
	magenta = lipgloss.Color("#FF00FF")
	dim     = lipgloss.Color("#808080")
)

// Styles holds the lipgloss styles bound to one output
type Styles struct {
	Label     lipgloss.Style
	Value     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Highlight lipgloss.Style
	Dim       lipgloss.Style
}

// NewStyles creates styles whose color profile matches w
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Label:     r.NewStyle().Foreground(cyan).Bold(true),
		Value:     r.NewStyle().Foreground(yellow),
		Success:   r.NewStyle().Foreground(green).Bold(true),
		Error:     r.NewStyle().Foreground(red).Bold(true),
		Warning:   r.NewStyle().Foreground(yellow),
		Highlight: r.NewStyle().Foreground(magenta),
		Dim:       r.NewStyle().Foreground(dim),
	}
}

// Terminal writes styled messages to an output
type Terminal struct {
	out    io.Writer
	styles Styles
}

// NewTerminal creates a terminal writing to out
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out, styles: NewStyles(out)}
}

var std = NewTerminal(os.Stdout)

// PrintBanner prints the banner
func (t *Terminal) PrintBanner() {
	fmt.Fprint(t.out, t.styles.Label.Render(Banner)+"\n")
}

// PrintError prints an error message, followed by err when given
func (t *Terminal) PrintError(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(t.out, t.styles.Error.Render(msg))
}

// PrintSuccess prints a success message
func (t *Terminal) PrintSuccess(msg string) {
	fmt.Fprintln(t.out, t.styles.Success.Render(msg))
}

// PrintInfo prints a label/value pair
func (t *Terminal) PrintInfo(label, value string) {
	fmt.Fprintf(t.out, "%s: %s\n", t.styles.Label.Render(label), t.styles.Value.Render(value))
}

// PrintWarning prints a warning message
func (t *Terminal) PrintWarning(msg string) {
	fmt.Fprintln(t.out, t.styles.Warning.Render(msg))
}

// PrintHighlight prints a highlighted message
func (t *Terminal) PrintHighlight(msg string) {
	fmt.Fprintln(t.out, t.styles.Highlight.Render(msg))
}

func PrintBanner()                     { std.PrintBanner() }
func PrintError(msg string, err error) { std.PrintError(msg, err) }
func PrintSuccess(msg string)          { std.PrintSuccess(msg) }
func PrintInfo(label, value string)    { std.PrintInfo(label, value) }
func PrintWarning(msg string)          { std.PrintWarning(msg) }
func PrintHighlight(msg string)        { std.PrintHighlight(msg) }

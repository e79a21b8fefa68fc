package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Detail is one key/value line of a result box. A slice keeps the order
// the caller chose.
type Detail struct {
	Key   string
	Value string
}

// Printer writes styled, non-interactive output for the CLI commands.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	width, _ := GetTerminalSize()
	return &Printer{out: w, width: width}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Detail) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints an error result box with troubleshooting text
func (p *Printer) PrintError(title string, err error, hint string) {
	p.Println(RenderErrorBox(title, err, hint, p.width))
}

// RenderSuccessBox renders a success result box
func RenderSuccessBox(title string, details []Detail, width int) string {
	lines := []string{SuccessTitleStyle.Render(SuccessMarker + "  " + title)}
	if len(details) > 0 {
		lines = append(lines, "")
	}
	for _, d := range details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+ValueStyle.Render(d.Value))
	}
	return BoxStyle(width, SecondaryColor).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders an error result box with troubleshooting
func RenderErrorBox(title string, err error, hint string, width int) string {
	lines := []string{ErrorTitleStyle.Render(FailureMarker + "  " + title)}
	if err != nil {
		lines = append(lines, "", ErrorMessageStyle.Render("Error: "+err.Error()))
	}
	if hint != "" {
		lines = append(lines, "", TroubleshootingStyle.Render(hint))
	}
	return BoxStyle(width, ErrorColor).Render(strings.Join(lines, "\n"))
}

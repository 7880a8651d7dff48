package errors

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var (
	titleColor = color.New(color.FgRed, color.Bold)
	codeColor  = color.New(color.FgWhite, color.Bold)
	locColor   = color.New(color.FgCyan)
	gutter     = color.New(color.FgHiBlack)
	marker     = color.New(color.FgRed, color.Bold)
	hintColor  = color.New(color.FgCyan)
	linkColor  = color.New(color.FgBlue, color.Underline)
)

// detailWidth is the wrap width of detail text.
const detailWidth = 72

// DisableColors turns off ANSI colors for all output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors turns on ANSI colors, even when stdout is not a terminal.
func EnableColors() {
	color.NoColor = false
}

// Format renders the error for a terminal:
//
//	✗ E110 Route conflict
//	  --> pageroutes.json:3:14
//	   |
//	 3 |     "pages": src
//	   |              ^
//	   |
//	  bar.js and bar/page.js both resolve to /bar
//
//	  hint: ...
//	  docs: https://pageroutes.dev/docs/errors/E110
func (e *Error) Format() string {
	var b strings.Builder
	b.WriteString("\n")
	e.writeTitle(&b)
	e.writeLocation(&b)
	e.writeDetail(&b)
	e.writeFiles(&b)
	e.writeFooter(&b)
	return b.String()
}

func (e *Error) writeTitle(b *strings.Builder) {
	titleColor.Fprint(b, "✗ ")
	if e.Code != "" {
		codeColor.Fprint(b, e.Code)
		b.WriteString(" ")
	}
	b.WriteString(e.Message)
	b.WriteString("\n")
}

func (e *Error) writeLocation(b *strings.Builder) {
	if e.Location == nil {
		return
	}
	b.WriteString("  --> ")
	locColor.Fprint(b, e.Location.String())
	b.WriteString("\n")

	s := e.Snippet
	if s == nil || len(s.Lines) == 0 {
		return
	}

	width := len(strconv.Itoa(s.First + len(s.Lines) - 1))
	pad := strings.Repeat(" ", width)
	bar := gutter.Sprint("|")

	fmt.Fprintf(b, " %s %s\n", pad, bar)
	for i, line := range s.Lines {
		n := s.First + i
		fmt.Fprintf(b, " %*d %s %s\n", width, n, bar, line)
		if n == e.Location.Line && e.Location.Column > 0 {
			fmt.Fprintf(b, " %s %s %s%s\n", pad, bar, strings.Repeat(" ", e.Location.Column-1), marker.Sprint("^"))
		}
	}
	fmt.Fprintf(b, " %s %s\n", pad, bar)
}

func (e *Error) writeDetail(b *strings.Builder) {
	if e.Detail == "" {
		return
	}
	for _, line := range wrapText(e.Detail, detailWidth) {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (e *Error) writeFiles(b *strings.Builder) {
	if len(e.Files) == 0 {
		return
	}
	b.WriteString("\n  files:\n")
	for _, f := range e.Files {
		b.WriteString("    - ")
		b.WriteString(f)
		b.WriteString("\n")
	}
}

func (e *Error) writeFooter(b *strings.Builder) {
	if e.Suggestion == "" && e.DocURL == "" {
		return
	}
	b.WriteString("\n")
	if e.Suggestion != "" {
		b.WriteString("  ")
		hintColor.Fprint(b, "hint:")
		b.WriteString(" ")
		b.WriteString(e.Suggestion)
		b.WriteString("\n")
	}
	if e.DocURL != "" {
		b.WriteString("  docs: ")
		linkColor.Fprint(b, e.DocURL)
		b.WriteString("\n")
	}
}

// FormatCompact renders the error on one line, prefixed by its location.
func (e *Error) FormatCompact() string {
	head := ""
	if e.Location != nil {
		head = e.Location.String() + ": "
	}
	if e.Code != "" {
		head += e.Code + ": "
	}
	return head + e.Message
}

// wrapText splits text into lines of at most width bytes, breaking between
// words. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w, using Format for coded errors.
func Fprint(w io.Writer, err error) {
	if e, ok := err.(*Error); ok {
		io.WriteString(w, e.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n", titleColor.Sprint("✗"), err.Error())
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}

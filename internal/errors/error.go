package errors

import (
	"fmt"
	"os"
	"strings"
)

// Category groups error codes by the part of pageroutes that raises them.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRoutes  Category = "routes"
	CategoryExport  Category = "export"
	CategoryPublish Category = "publish"
	CategoryCLI     Category = "cli"
)

// snippetRadius is the number of lines shown on each side of a location.
const snippetRadius = 2

// Location is a position in a project file. Line and Column are 1-based;
// zero means unknown.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l *Location) String() string {
	switch {
	case l == nil:
		return ""
	case l.Line == 0:
		return l.File
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Snippet is an excerpt of the file around a Location.
type Snippet struct {
	// First is the line number of Lines[0].
	First int
	Lines []string
}

// Error is a coded pageroutes error.
type Error struct {
	Code     string
	Category Category

	// Message is the short title of the code.
	Message string

	// Detail describes this occurrence.
	Detail string

	Location *Location
	Snippet  *Snippet

	// Files lists the project files involved, such as both sides of a
	// route conflict.
	Files []string

	Suggestion string
	DocURL     string
	Wrapped    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation sets the file position. When line is known the lines around
// it are loaded into Snippet.
func (e *Error) WithLocation(file string, line, column int) *Error {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Snippet = nil
	if line > 0 {
		e.Snippet = loadSnippet(file, line, snippetRadius)
	}
	return e
}

// WithFiles appends to the files involved.
func (e *Error) WithFiles(files ...string) *Error {
	e.Files = append(e.Files, files...)
	return e
}

// WithSuggestion sets the hint shown below the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detail text.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap sets the underlying error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// loadSnippet returns lines line-radius through line+radius of file, or nil
// when the file cannot be read or is shorter than line.
func loadSnippet(file string, line, radius int) *Snippet {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if line > len(lines) {
		return nil
	}

	first := max(line-radius, 1)
	last := min(line+radius, len(lines))
	return &Snippet{First: first, Lines: lines[first-1 : last]}
}

// New returns an error for a registered code. Unknown codes produce an
// "Unknown error" with no category.
func New(code string) *Error {
	tmpl, ok := registry[code]
	if !ok {
		return &Error{Code: code, Message: "Unknown error"}
	}
	return &Error{
		Code:     code,
		Category: tmpl.Category,
		Message:  tmpl.Message,
		Detail:   tmpl.Detail,
		DocURL:   tmpl.DocURL,
	}
}

// Newf returns an uncoded error.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError wraps err under code unless it already is a coded error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(code).WithDetail(err.Error()).Wrap(err)
}

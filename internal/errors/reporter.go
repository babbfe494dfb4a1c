package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"sol2ink/internal/ast"
)

// ErrorLevel represents the severity of a diagnostic
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is one diagnostic of the frontend or of a contract translation
type CompilerError struct {
	Level    ErrorLevel
	Code     string       // E0400, W0800, ...
	Message  string       // Primary message
	Contract string       // Contract whose translation raised it; empty for the frontend
	Position ast.Position // Primary span
	Length   int
	Label    string  // Printed under the primary span
	Labels   []Label // Secondary spans, e.g. the first declaration of a colliding field

	Suggestions []Suggestion
	Notes       []string
	HelpText    string
}

// Label marks a secondary span of a diagnostic
type Label struct {
	Position ast.Position
	Length   int
	Message  string
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string
	Replacement string
	Position    ast.Position
	Length      int
}

// ErrorReporter renders diagnostics against one source file
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

var (
	bold      = color.New(color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
	secondary = color.New(color.FgBlue, color.Bold).SprintFunc()
	helpColor = color.New(color.FgCyan).SprintFunc()
)

func levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// FormatAll renders diagnostics grouped by contract, in the order the
// contracts first appear. Each contract group opens with a summary header;
// frontend diagnostics are printed without one.
func (er *ErrorReporter) FormatAll(diags []CompilerError) string {
	var order []string
	groups := make(map[string][]CompilerError)
	for _, d := range diags {
		if _, ok := groups[d.Contract]; !ok {
			order = append(order, d.Contract)
		}
		groups[d.Contract] = append(groups[d.Contract], d)
	}

	var out strings.Builder
	for _, contract := range order {
		if contract != "" {
			out.WriteString(er.header(contract, groups[contract]))
		}
		for _, d := range groups[contract] {
			out.WriteString(er.FormatError(d))
		}
	}
	return out.String()
}

func (er *ErrorReporter) header(contract string, diags []CompilerError) string {
	errs, warns := 0, 0
	for _, d := range diags {
		if d.IsError() {
			errs++
		} else {
			warns++
		}
	}
	var counts []string
	if errs > 0 {
		counts = append(counts, plural(errs, "error"))
	}
	if warns > 0 {
		counts = append(counts, plural(warns, "warning"))
	}
	return bold(fmt.Sprintf("== %s: %s ==", contract, strings.Join(counts, ", "))) + "\n"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatError renders one diagnostic: the primary span with its label, then
// every secondary span, then suggestions, notes and help.
func (er *ErrorReporter) FormatError(d CompilerError) string {
	var out strings.Builder
	paint := levelColor(d.Level)

	if d.Code != "" {
		fmt.Fprintf(&out, "%s: %s\n", paint(fmt.Sprintf("%s[%s]", d.Level, d.Code)), bold(d.Message))
	} else {
		fmt.Fprintf(&out, "%s: %s\n", paint(string(d.Level)), bold(d.Message))
	}

	width := er.gutterWidth(d)
	pad := strings.Repeat(" ", width)
	fmt.Fprintf(&out, "%s%s %s:%d:%d\n", pad, dim("-->"), er.filename, d.Position.Line, d.Position.Column)
	fmt.Fprintf(&out, "%s %s\n", pad, dim("|"))

	er.span(&out, width, d.Position, d.Length, "^", paint, d.Label)
	for _, l := range d.Labels {
		if l.Position.Line == 0 {
			continue
		}
		if l.Position.Line != d.Position.Line {
			fmt.Fprintf(&out, "%s %s\n", pad, dim("..."))
		}
		er.span(&out, width, l.Position, l.Length, "-", secondary, l.Message)
	}
	fmt.Fprintf(&out, "%s %s\n", pad, dim("|"))

	for _, s := range d.Suggestions {
		fmt.Fprintf(&out, "%s %s %s\n", pad, helpColor("= try:"), s.Message)
		if s.Replacement != "" {
			for _, line := range strings.Split(s.Replacement, "\n") {
				fmt.Fprintf(&out, "%s %s   %s\n", pad, dim("|"), helpColor(line))
			}
		}
	}
	for _, note := range d.Notes {
		fmt.Fprintf(&out, "%s %s %s\n", pad, bold("= note:"), note)
	}
	if d.HelpText != "" {
		fmt.Fprintf(&out, "%s %s %s\n", pad, helpColor("= help:"), d.HelpText)
	}

	out.WriteString("\n")
	return out.String()
}

// span prints one source line with a marker under [column, column+length)
func (er *ErrorReporter) span(out *strings.Builder, width int, pos ast.Position, length int, mark string, paint func(...interface{}) string, label string) {
	if pos.Line <= 0 || pos.Line > len(er.lines) {
		return
	}
	if length <= 0 {
		length = 1
	}
	pad := strings.Repeat(" ", width)
	fmt.Fprintf(out, "%s %s %s\n", dim(fmt.Sprintf("%*d", width, pos.Line)), dim("|"), er.lines[pos.Line-1])

	marker := strings.Repeat(" ", max(0, pos.Column-1)) + paint(strings.Repeat(mark, length))
	if label != "" {
		marker += " " + paint(label)
	}
	fmt.Fprintf(out, "%s %s %s\n", pad, dim("|"), marker)
}

// gutterWidth fits the widest line number the diagnostic prints
func (er *ErrorReporter) gutterWidth(d CompilerError) int {
	widest := d.Position.Line
	for _, l := range d.Labels {
		widest = max(widest, l.Position.Line)
	}
	return max(2, len(fmt.Sprintf("%d", widest)))
}

package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"
	sterrors "sol2ink/internal/errors"
)

const diagnosticSource = "sol2ink"

// ConvertDiagnostics transforms parser and translation diagnostics into
// LSP diagnostics for IDE display
func ConvertDiagnostics(diags []sterrors.CompilerError) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(diags))

	for _, d := range diags {
		line := zeroBased(d.Position.Line)
		start := zeroBased(d.Position.Column)
		length := d.Length
		if length <= 0 {
			length = 1
		}

		diagnostic := protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: start + uint32(length)},
			},
			Severity: ptrSeverity(severity(d.Level)),
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString(diagnosticSource),
			Message:  d.Message,
		}
		for _, l := range d.Labels {
			if l.Position.Line > 0 {
				diagnostic.Message += fmt.Sprintf("\nnote: %s (%d:%d)", l.Message, l.Position.Line, l.Position.Column)
			}
		}
		for _, note := range d.Notes {
			diagnostic.Message += "\nnote: " + note
		}
		if d.HelpText != "" {
			diagnostic.Message += "\nhelp: " + d.HelpText
		}
		diagnostics = append(diagnostics, diagnostic)
	}

	return diagnostics
}

func severity(level sterrors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case sterrors.Error:
		return protocol.DiagnosticSeverityError
	case sterrors.Warning:
		return protocol.DiagnosticSeverityWarning
	case sterrors.Note:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

// LSP positions are 0-based
func zeroBased(n int) uint32 {
	if n <= 0 {
		return 0
	}
	return uint32(n - 1)
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}

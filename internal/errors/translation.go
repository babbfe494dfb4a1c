package errors

import (
	"fmt"
	"strings"
)

// Error returns a one-line rendering of the diagnostic
func (e CompilerError) Error() string {
	return fmt.Sprintf("%s: %s[%s]: %s", e.Position, e.Level, e.Code, e.Message)
}

// IsError reports whether the diagnostic is fatal
func (e CompilerError) IsError() bool {
	return e.Level == Error
}

// TranslationError is returned when a contract cannot be translated. It
// carries every diagnostic collected for the contract, warnings included.
type TranslationError struct {
	Contract    string
	Diagnostics []CompilerError
}

func (e *TranslationError) Error() string {
	var msgs []string
	for _, d := range e.Diagnostics {
		if d.IsError() {
			msgs = append(msgs, fmt.Sprintf("[%s] %s", d.Code, d.Message))
		}
	}
	return fmt.Sprintf("translating %s: %s", e.Contract, strings.Join(msgs, "; "))
}

// Codes lists the codes of the fatal diagnostics
func (e *TranslationError) Codes() []string {
	var codes []string
	for _, d := range e.Diagnostics {
		if d.IsError() {
			codes = append(codes, d.Code)
		}
	}
	return codes
}

// HasErrors reports whether any diagnostic is fatal
func HasErrors(diags []CompilerError) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

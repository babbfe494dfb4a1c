package errors

import (
	"fmt"
	"strings"

	"sol2ink/internal/ast"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new error builder
func NewDiagnostic(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos ast.Position) *DiagnosticBuilder {
	b := NewDiagnostic(code, message, pos)
	b.err.Level = Warning
	return b
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithLabel sets the text printed under the primary span
func (b *DiagnosticBuilder) WithLabel(label string) *DiagnosticBuilder {
	b.err.Label = label
	return b
}

// WithSecondary marks another span of the source
func (b *DiagnosticBuilder) WithSecondary(pos ast.Position, length int, message string) *DiagnosticBuilder {
	b.err.Labels = append(b.err.Labels, Label{Position: pos, Length: length, Message: message})
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// Structural errors

// FieldCollision reports a storage field declared by two contracts of one
// flattened chain. Both declarers are named; firstPos marks the earlier
// declaration and is skipped when zero.
func FieldCollision(name, first, second string, pos, firstPos ast.Position) CompilerError {
	return NewDiagnostic(ErrorFieldCollision,
		fmt.Sprintf("storage field '%s' is declared by both '%s' and '%s'", name, first, second), pos).
		WithLength(len(name)).
		WithLabel(fmt.Sprintf("declared again in '%s'", second)).
		WithSecondary(firstPos, len(name), fmt.Sprintf("first declared in '%s'", first)).
		WithSuggestion(fmt.Sprintf("rename '%s' in '%s'", name, second)).
		WithNote("fields of the whole inheritance chain share one storage aggregate").
		WithHelp("colliding fields are never renamed automatically").
		Build()
}

// UnresolvedBase reports an inherited contract that is not defined
func UnresolvedBase(contract, base string, pos ast.Position, known []string) CompilerError {
	builder := NewDiagnostic(ErrorUnresolvedBase,
		fmt.Sprintf("contract '%s' inherits from undefined contract '%s'", contract, base), pos).
		WithLength(len(base))
	if similar := findSimilarNames(base, known); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	}
	return builder.Build()
}

// UnresolvedType reports a type name that is neither a struct, an enum nor
// a contract of the unit
func UnresolvedType(name string, pos ast.Position, known []string) CompilerError {
	builder := NewDiagnostic(ErrorUnresolvedType,
		fmt.Sprintf("type '%s' is not defined", name), pos).
		WithLength(len(name)).
		WithLabel("unknown type")
	if similar := findSimilarNames(name, known); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	}
	return builder.Build()
}

// Unsupported reports a construct with no translation
func Unsupported(what string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorUnsupportedNode, fmt.Sprintf("unsupported construct: %s", what), pos).
		WithNote("the contract is not translated partially").
		Build()
}

// Overloaded reports an externally visible name used by more than one signature
func Overloaded(contract, name string, signatures []string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorOverloadedMessage,
		fmt.Sprintf("message '%s' of '%s' is overloaded", name, contract), pos).
		WithLength(len(name)).
		WithNote(fmt.Sprintf("signatures: %s", strings.Join(signatures, ", "))).
		WithHelp("message names must be unique; rename all but one overload").
		Build()
}

// InvalidMessageType reports a parameter or return type that cannot be part
// of a message signature
func InvalidMessageType(function, param, typ string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorInvalidMessageType,
		fmt.Sprintf("'%s' of '%s' has type %s, which cannot cross the message boundary", param, function, typ), pos).
		WithLength(len(param)).
		WithHelp("storage handles are only valid inside the implementation").
		Build()
}

// ConstantOverflow reports a constant expression whose exact value does not fit
func ConstantOverflow(expr, typ, reason string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorNumericOverflow,
		fmt.Sprintf("constant expression '%s' overflows %s", expr, typ), pos).
		WithNote(reason).
		Build()
}

// LayoutDrift reports a storage layout that no longer extends the recorded one
func LayoutDrift(contract, detail string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorLayoutDrift,
		fmt.Sprintf("storage layout of '%s' drifted: %s", contract, detail), pos).
		WithSuggestion("only append new state variables after the existing ones").
		WithHelp("delete the layout lock entry to accept the new layout").
		Build()
}

// SyntaxError reports a frontend failure
func SyntaxError(message string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorSyntax, message, pos).Build()
}

// Warnings

// Narrowing reports an integer type wider than the target's native width.
// Under strict diagnostics it is an error instead.
func Narrowing(source, target string, pos ast.Position, strict bool) CompilerError {
	msg := fmt.Sprintf("%s is narrowed to %s", source, target)
	var builder *DiagnosticBuilder
	if strict {
		builder = NewDiagnostic(ErrorNarrowing, msg, pos)
	} else {
		builder = NewWarning(WarningNarrowing, msg, pos)
	}
	return builder.WithLength(len(source)).
		WithLabel(fmt.Sprintf("%s becomes %s", source, target)).
		WithNote("values above the narrower maximum are not representable").
		Build()
}

// TopicLimit reports an event declaring more topics than the target allows
func TopicLimit(event string, topics, limit int, pos ast.Position) CompilerError {
	return NewWarning(WarningTopicLimit,
		fmt.Sprintf("event '%s' has %d topics, the target allows %d", event, topics, limit), pos).
		WithLength(len(event)).
		WithLabel(fmt.Sprintf("%d topics, at most %d fit", topics, limit)).
		Build()
}

// Helper functions

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

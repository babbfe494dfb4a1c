package grammar

import (
	"os"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"sol2ink/internal/ast"
	sterrors "sol2ink/internal/errors"
)

var (
	buildOnce sync.Once
	parser    *participle.Parser[File]
	buildErr  error
)

func build() (*participle.Parser[File], error) {
	buildOnce.Do(func() {
		parser, buildErr = participle.Build[File](
			participle.Lexer(SolidityLexer),
			participle.Elide("Whitespace", "Comment", "BlockComment"),
			participle.UseLookahead(1024),
		)
	})
	return parser, buildErr
}

// ParseFile reads and parses a source file
func ParseFile(path string) (*ast.SourceUnit, []sterrors.CompilerError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read file")
	}
	unit, diags, err := Parse(path, string(source))
	return unit, diags, err
}

// Parse parses source into a source unit with linearized inheritance.
// Syntax errors come back as diagnostics with a nil unit; the error is
// only set when the parser itself cannot be built.
func Parse(filename, source string) (*ast.SourceUnit, []sterrors.CompilerError, error) {
	p, err := build()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build parser")
	}

	file, err := p.ParseString(filename, source)
	if err != nil {
		return nil, []sterrors.CompilerError{syntaxError(filename, err)}, nil
	}

	l := &lowerer{filename: filename}
	unit := l.file(file)
	return unit, l.diags, nil
}

func syntaxError(filename string, err error) sterrors.CompilerError {
	var pe participle.Error
	if errors.As(err, &pe) {
		return sterrors.SyntaxError(pe.Message(), position(pe.Position()))
	}
	return sterrors.SyntaxError(err.Error(), ast.Position{Filename: filename, Line: 1, Column: 1})
}

func position(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Offset: p.Offset, Line: p.Line, Column: p.Column}
}

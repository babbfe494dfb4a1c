package lsp

import (
	"sort"
	"strings"

	"sol2ink/internal/ast"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

// tokenizer places declaration names. AST positions mark the start of a
// declaration, so names are found by a whole-word search from there.
type tokenizer struct {
	source     string
	lineStarts []int
	tokens     []SemanticToken
}

func collectSemanticTokens(unit *ast.SourceUnit, source string) []SemanticToken {
	if unit == nil {
		return nil
	}

	tz := &tokenizer{source: source, lineStarts: []int{0}}
	for i, c := range source {
		if c == '\n' {
			tz.lineStarts = append(tz.lineStarts, i+1)
		}
	}

	for _, s := range unit.Structs {
		tz.walkStruct(s)
	}
	for _, e := range unit.Enums {
		tz.walkEnum(e)
	}
	for _, c := range unit.Contracts {
		tz.walkContract(c)
	}

	sort.SliceStable(tz.tokens, func(i, j int) bool {
		a, b := tz.tokens[i], tz.tokens[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.StartChar < b.StartChar
	})
	return tz.tokens
}

func (tz *tokenizer) walkContract(c *ast.ContractDefinition) {
	mods := declaration
	if c.Abstract {
		mods |= modifierBit("abstract")
	}
	tz.add(c.Pos, c.Name, "type", mods)

	for _, u := range c.Using {
		tz.add(u.Pos, u.Library, "namespace", 0)
	}
	for _, s := range c.Structs {
		tz.walkStruct(s)
	}
	for _, e := range c.Enums {
		tz.walkEnum(e)
	}
	for _, e := range c.Events {
		tz.add(e.Pos, e.Name, "event", declaration)
		for _, p := range e.Params {
			tz.add(p.Pos, p.Name, "parameter", 0)
		}
	}
	for _, v := range c.StateVariables {
		mods := declaration
		if v.Constant || v.Immutable {
			mods |= modifierBit("readonly")
		}
		tz.add(v.Pos, v.Name, "property", mods)
	}
	for _, m := range c.Modifiers {
		tz.add(m.Pos, m.Name, "modifier", declaration)
		tz.walkParams(m.Params)
	}
	for _, fn := range c.Functions {
		tz.walkFunction(fn)
	}
}

func (tz *tokenizer) walkStruct(s *ast.StructType) {
	tz.add(s.Pos, s.Name, "type", declaration)
	for _, f := range s.Fields {
		tz.add(f.Pos, f.Name, "property", declaration)
	}
}

func (tz *tokenizer) walkEnum(e *ast.EnumType) {
	tz.add(e.Pos, e.Name, "type", declaration)
	// values follow the name in order
	from := e.Pos
	for _, v := range e.Values {
		if off, ok := tz.find(from.Offset, v); ok {
			tz.addAt(off, v, "enumMember", declaration)
			from.Offset = off + len(v)
		}
	}
}

func (tz *tokenizer) walkFunction(fn *ast.FunctionDefinition) {
	if fn.Kind == ast.OrdinaryFunction {
		mods := declaration
		if fn.Body == nil {
			mods |= modifierBit("abstract")
		}
		tz.add(fn.Pos, fn.Name, "function", mods)
	}
	tz.walkParams(fn.Params)
	tz.walkParams(fn.Returns)
	for _, m := range fn.Modifiers {
		tz.add(m.Pos, m.Name, "modifier", 0)
	}
}

func (tz *tokenizer) walkParams(params []*ast.Parameter) {
	for _, p := range params {
		tz.add(p.Pos, p.Name, "parameter", declaration)
	}
}

func (tz *tokenizer) add(pos ast.Position, name, tokenType string, mods int) {
	if name == "" {
		return
	}
	if off, ok := tz.find(pos.Offset, name); ok {
		tz.addAt(off, name, tokenType, mods)
	}
}

func (tz *tokenizer) addAt(offset int, name, tokenType string, mods int) {
	line := sort.Search(len(tz.lineStarts), func(i int) bool { return tz.lineStarts[i] > offset }) - 1
	tz.tokens = append(tz.tokens, SemanticToken{
		Line:           uint32(line),
		StartChar:      uint32(offset - tz.lineStarts[line]),
		Length:         uint32(len(name)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: mods,
	})
}

// find returns the offset of the first whole-word occurrence of name at
// or after from
func (tz *tokenizer) find(from int, name string) (int, bool) {
	for from >= 0 && from < len(tz.source) {
		i := strings.Index(tz.source[from:], name)
		if i < 0 {
			return 0, false
		}
		start, end := from+i, from+i+len(name)
		if (start == 0 || !isWordByte(tz.source[start-1])) && (end == len(tz.source) || !isWordByte(tz.source[end])) {
			return start, true
		}
		from = end
	}
	return 0, false
}

func isWordByte(b byte) bool {
	return b == '_' || b == '$' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// encodeTokens packs sorted tokens into the LSP wire format (delta-line, delta-start compression)
func encodeTokens(tokens []SemanticToken) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaStart := token.StartChar
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}
	return data
}

var declaration = modifierBit("declaration")

func modifierBit(name string) int {
	return 1 << indexOf(name, SemanticTokenModifiers)
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}

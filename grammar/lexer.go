package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var SolidityLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},
		{Name: "BlockComment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`, Action: nil},

		// Strings, single or double quoted
		{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`, Action: nil},

		// Reserved words; identifiers can never take these values
		{Name: "Keyword", Pattern: `\b(pragma|import|abstract|contract|interface|library|is|using|for|struct|enum|event|modifier|function|constructor|returns|return|if|else|while|public|private|internal|external|pure|view|payable|constant|immutable|virtual|override|indexed|anonymous|memory|storage|calldata|mapping|emit|revert|unchecked|true|false|delete)\b`, Action: nil},

		// Identifiers
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`, Action: nil},

		// Integer literals
		{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+|[0-9][0-9_]*([eE][0-9]+)?`, Action: nil},

		// Operators (longest first)
		{Name: "Operator", Pattern: `>>=|<<=|\*\*|\+\+|--|\|\||&&|==|!=|<=|>=|<<|>>|\+=|-=|\*=|/=|%=|\|=|&=|\^=|=>|[-+*/%&|^~!<>=?:]`, Action: nil},

		// Punctuation
		{Name: "Punctuation", Pattern: `[{}\[\]();,.]`, Action: nil},

		// Whitespace
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})

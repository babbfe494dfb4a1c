package builtins

import (
	"strconv"
	"strings"

	"sol2ink/internal/ast"
)

// IntegerWidths are the widths a source integer may map onto without rounding
var IntegerWidths = []int{8, 16, 32, 64, 128, 256}

// ElementaryType parses an elementary source type name such as "uint",
// "int64", "bytes32", "address" or "string".
func ElementaryType(name string) (*ast.TypeName, bool) {
	switch name {
	case "bool":
		return ast.Bool(), true
	case "address":
		return ast.Address(), true
	case "string":
		return ast.String(), true
	case "bytes":
		return ast.Bytes(), true
	case "byte":
		return ast.FixedBytes(1), true
	case "uint":
		return ast.Uint(256), true
	case "int":
		return ast.Int(256), true
	}

	switch {
	case strings.HasPrefix(name, "uint"):
		if bits, ok := parseWidth(name[4:]); ok {
			return ast.Uint(bits), true
		}
	case strings.HasPrefix(name, "int"):
		if bits, ok := parseWidth(name[3:]); ok {
			return ast.Int(bits), true
		}
	case strings.HasPrefix(name, "bytes"):
		size, err := strconv.Atoi(name[5:])
		if err == nil && size >= 1 && size <= 32 {
			return ast.FixedBytes(size), true
		}
	}
	return nil, false
}

// IsElementaryType checks if a name spells an elementary type
func IsElementaryType(name string) bool {
	_, ok := ElementaryType(name)
	return ok
}

func parseWidth(s string) (int, bool) {
	bits, err := strconv.Atoi(s)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, false
	}
	return bits, true
}

// RoundWidth rounds a source integer width up to the next supported width
// Example: 24 -> 32, 112 -> 128, 224 -> 256
func RoundWidth(bits int) int {
	for _, w := range IntegerWidths {
		if bits <= w {
			return w
		}
	}
	return 256
}

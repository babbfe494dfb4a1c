package ast

import (
	"fmt"
	"strings"
)

// TypeKind is the shape of a source type
type TypeKind int

const (
	KindUint TypeKind = iota
	KindInt
	KindBool
	KindAddress
	KindFixedBytes
	KindBytes
	KindString
	KindArray
	KindMapping
	KindUser // struct, enum, contract or interface, resolved by name
)

// TypeName represents a resolved source type
// Example: "uint256", "bytes32", "mapping(address => mapping(address => uint256))", "Position[]"
type TypeName struct {
	Pos     Position
	Kind    TypeKind
	Bits    int  // KindUint, KindInt
	Size    int  // KindFixedBytes
	Payable bool // KindAddress
	Elem    *TypeName
	Length  int // KindArray; 0 means dynamic
	Key     *TypeName
	Value   *TypeName
	Name    string // KindUser
}

func Uint(bits int) *TypeName            { return &TypeName{Kind: KindUint, Bits: bits} }
func Int(bits int) *TypeName             { return &TypeName{Kind: KindInt, Bits: bits} }
func Bool() *TypeName                    { return &TypeName{Kind: KindBool} }
func Address() *TypeName                 { return &TypeName{Kind: KindAddress} }
func FixedBytes(size int) *TypeName      { return &TypeName{Kind: KindFixedBytes, Size: size} }
func Bytes() *TypeName                   { return &TypeName{Kind: KindBytes} }
func String() *TypeName                  { return &TypeName{Kind: KindString} }
func Array(elem *TypeName) *TypeName     { return &TypeName{Kind: KindArray, Elem: elem} }
func Named(name string) *TypeName        { return &TypeName{Kind: KindUser, Name: name} }
func Mapping(k, v *TypeName) *TypeName   { return &TypeName{Kind: KindMapping, Key: k, Value: v} }
func FixedArray(elem *TypeName, n int) *TypeName {
	return &TypeName{Kind: KindArray, Elem: elem, Length: n}
}

// IsInteger reports whether the type is a signed or unsigned integer
func (t *TypeName) IsInteger() bool {
	return t != nil && (t.Kind == KindUint || t.Kind == KindInt)
}

// MappingDepth counts the nested mapping levels, so that
// "mapping(a => mapping(b => c))" has depth 2.
func (t *TypeName) MappingDepth() int {
	depth := 0
	for cur := t; cur != nil && cur.Kind == KindMapping; cur = cur.Value {
		depth++
	}
	return depth
}

// MappingKeys returns the key types of a (possibly nested) mapping in order
func (t *TypeName) MappingKeys() []*TypeName {
	var keys []*TypeName
	for cur := t; cur != nil && cur.Kind == KindMapping; cur = cur.Value {
		keys = append(keys, cur.Key)
	}
	return keys
}

// MappingValue returns the innermost value type of a nested mapping
func (t *TypeName) MappingValue() *TypeName {
	cur := t
	for cur != nil && cur.Kind == KindMapping {
		cur = cur.Value
	}
	return cur
}

// String returns the canonical source spelling of the type
func (t *TypeName) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindUint:
		return fmt.Sprintf("uint%d", t.Bits)
	case KindInt:
		return fmt.Sprintf("int%d", t.Bits)
	case KindBool:
		return "bool"
	case KindAddress:
		return "address"
	case KindFixedBytes:
		return fmt.Sprintf("bytes%d", t.Size)
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		if t.Length > 0 {
			return fmt.Sprintf("%s[%d]", t.Elem, t.Length)
		}
		return t.Elem.String() + "[]"
	case KindMapping:
		return fmt.Sprintf("mapping(%s => %s)", t.Key, t.Value)
	case KindUser:
		return t.Name
	default:
		return "unknown"
	}
}

// Signature joins parameter types the way function signatures spell them
func Signature(name string, params []*Parameter) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type.String()
	}
	return name + "(" + strings.Join(types, ",") + ")"
}

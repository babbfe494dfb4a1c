package ir

import (
	"fmt"
	"strings"
)

// TypeKind is the discriminator of a target type
type TypeKind string

const (
	KindInt        TypeKind = "int"
	KindBool       TypeKind = "bool"
	KindAccountID  TypeKind = "account_id"
	KindFixedBytes TypeKind = "fixed_bytes"
	KindBytes      TypeKind = "bytes"
	KindString     TypeKind = "string"
	KindVec        TypeKind = "vec"
	KindArray      TypeKind = "array"
	KindMapping    TypeKind = "mapping"
	KindStruct     TypeKind = "struct"
	KindEnum       TypeKind = "enum"
	KindRef        TypeKind = "ref"
	KindTuple      TypeKind = "tuple"
	KindUnit       TypeKind = "unit"
	KindOption     TypeKind = "option"
	KindResult     TypeKind = "result"
	KindNamed      TypeKind = "named"
)

// Type is a target semantic type. It is a tagged record rather than an
// interface so the emitter can decode it from any serialization.
type Type struct {
	Kind     TypeKind `json:"kind"`
	Bits     int      `json:"bits,omitempty"`
	Signed   bool     `json:"signed,omitempty"`
	Size     int      `json:"size,omitempty"`
	Elem     *Type    `json:"elem,omitempty"`
	Key      *Type    `json:"key,omitempty"`
	Value    *Type    `json:"value,omitempty"`
	Name     string   `json:"name,omitempty"`
	Fields   []*Field `json:"fields,omitempty"`
	Variants []string `json:"variants,omitempty"`
	Elements []*Type  `json:"elements,omitempty"`
}

// Field is a named member of a struct type
type Field struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

func Int(bits int, signed bool) *Type { return &Type{Kind: KindInt, Bits: bits, Signed: signed} }
func Bool() *Type                     { return &Type{Kind: KindBool} }
func AccountID() *Type                { return &Type{Kind: KindAccountID} }
func FixedBytes(size int) *Type       { return &Type{Kind: KindFixedBytes, Size: size} }
func Bytes() *Type                    { return &Type{Kind: KindBytes} }
func String() *Type                   { return &Type{Kind: KindString} }
func Vec(elem *Type) *Type            { return &Type{Kind: KindVec, Elem: elem} }
func Array(elem *Type, n int) *Type   { return &Type{Kind: KindArray, Elem: elem, Size: n} }
func Mapping(k, v *Type) *Type        { return &Type{Kind: KindMapping, Key: k, Value: v} }
func Ref(iface string) *Type          { return &Type{Kind: KindRef, Name: iface} }
func Tuple(elems ...*Type) *Type      { return &Type{Kind: KindTuple, Elements: elems} }
func Unit() *Type                     { return &Type{Kind: KindUnit} }
func Option(elem *Type) *Type         { return &Type{Kind: KindOption, Elem: elem} }
func Named(name string) *Type         { return &Type{Kind: KindNamed, Name: name} }

// Result wraps ok in the shared outcome type carrying the single ErrorKind
func Result(ok *Type) *Type { return &Type{Kind: KindResult, Elem: ok} }

// IsInteger reports whether t is a fixed-width integer
func (t *Type) IsInteger() bool { return t != nil && t.Kind == KindInt }

// String renders the type in target surface syntax
func (t *Type) String() string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case KindInt:
		if t.Signed {
			return fmt.Sprintf("i%d", t.Bits)
		}
		return fmt.Sprintf("u%d", t.Bits)
	case KindBool:
		return "bool"
	case KindAccountID:
		return "AccountId"
	case KindFixedBytes:
		return fmt.Sprintf("[u8; %d]", t.Size)
	case KindBytes:
		return "Vec<u8>"
	case KindString:
		return "String"
	case KindVec:
		return fmt.Sprintf("Vec<%s>", t.Elem)
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Size)
	case KindMapping:
		return fmt.Sprintf("Mapping<%s, %s>", t.Key, t.Value)
	case KindStruct, KindEnum, KindNamed:
		return t.Name
	case KindRef:
		return t.Name + "Ref"
	case KindTuple:
		parts := make([]string, len(t.Elements))
		for i, e := range t.Elements {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindUnit:
		return "()"
	case KindOption:
		return fmt.Sprintf("Option<%s>", t.Elem)
	case KindResult:
		return fmt.Sprintf("Result<%s, Error>", t.Elem)
	default:
		return "?"
	}
}

// Package typemap converts source types into target semantic types.
package typemap

import (
	"github.com/tliron/commonlog"
	"sol2ink/internal/ast"
	"sol2ink/internal/builtins"
	"sol2ink/internal/ir"
)

var log = commonlog.GetLogger("sol2ink.typemap")

// Narrowing records a source integer wider than the target's native width
type Narrowing struct {
	Source string
	Target string
	Pos    ast.Position
}

// Unresolved records a user type name that names nothing in the unit
type Unresolved struct {
	Name string
	Pos  ast.Position
}

// Mapper maps source types for one contract translation. It is total: every
// input yields a target type, and lossy mappings are recorded instead of
// failing. A Mapper is not safe for concurrent use.
type Mapper struct {
	unit        *ast.SourceUnit
	nativeWidth int

	userTypes  map[string]*ir.Type
	order      []*ir.Type
	resolving  map[string]bool
	narrowings []Narrowing
	unresolved []Unresolved
	seen       map[string]bool
}

// New creates a mapper resolving user types against unit
func New(unit *ast.SourceUnit, nativeWidth int) *Mapper {
	if unit == nil {
		unit = &ast.SourceUnit{}
	}
	return &Mapper{
		unit:        unit,
		nativeWidth: nativeWidth,
		userTypes:   make(map[string]*ir.Type),
		resolving:   make(map[string]bool),
		seen:        make(map[string]bool),
	}
}

// Map converts a source type
func (m *Mapper) Map(t *ast.TypeName) *ir.Type {
	if t == nil {
		return ir.Unit()
	}
	switch t.Kind {
	case ast.KindUint, ast.KindInt:
		return m.integer(t)
	case ast.KindBool:
		return ir.Bool()
	case ast.KindAddress:
		return ir.AccountID()
	case ast.KindFixedBytes:
		return ir.FixedBytes(t.Size)
	case ast.KindBytes:
		return ir.Bytes()
	case ast.KindString:
		return ir.String()
	case ast.KindArray:
		if t.Length > 0 {
			return ir.Array(m.Map(t.Elem), t.Length)
		}
		return ir.Vec(m.Map(t.Elem))
	case ast.KindMapping:
		return m.mapping(t)
	case ast.KindUser:
		return m.user(t)
	default:
		return ir.Named(t.String())
	}
}

// MapParams converts parameters in order
func (m *Mapper) MapParams(params []*ast.Parameter) []*ir.Param {
	out := make([]*ir.Param, len(params))
	for i, p := range params {
		out[i] = &ir.Param{Name: p.Name, Type: m.Map(p.Type)}
	}
	return out
}

// MapReturns converts a return list: none is unit, one is the type itself,
// more become a tuple
func (m *Mapper) MapReturns(params []*ast.Parameter) *ir.Type {
	switch len(params) {
	case 0:
		return ir.Unit()
	case 1:
		return m.Map(params[0].Type)
	default:
		elems := make([]*ir.Type, len(params))
		for i, p := range params {
			elems[i] = m.Map(p.Type)
		}
		return ir.Tuple(elems...)
	}
}

// Narrowings returns the recorded narrowings in the order they were found
func (m *Mapper) Narrowings() []Narrowing {
	return m.narrowings
}

// Unresolved returns the type names that resolved to nothing, in the order
// they were found
func (m *Mapper) Unresolved() []Unresolved {
	return m.unresolved
}

// UserTypes returns the struct and enum types mapped so far, in first-use order
func (m *Mapper) UserTypes() []*ir.Type {
	return m.order
}

// NativeWidth is the widest target integer
func (m *Mapper) NativeWidth() int {
	return m.nativeWidth
}

func (m *Mapper) integer(t *ast.TypeName) *ir.Type {
	bits := t.Bits
	if bits == 0 {
		bits = 256
	}
	width := builtins.RoundWidth(bits)
	signed := t.Kind == ast.KindInt
	if width > m.nativeWidth {
		target := ir.Int(m.nativeWidth, signed)
		key := t.String() + "@" + t.Pos.String()
		if !m.seen[key] {
			m.seen[key] = true
			m.narrowings = append(m.narrowings, Narrowing{Source: t.String(), Target: target.String(), Pos: t.Pos})
			log.Debugf("narrowing %s to %s at %s", t, target, t.Pos)
		}
		return target
	}
	return ir.Int(width, signed)
}

// mapping flattens nested mappings into one handle keyed by a tuple
func (m *Mapper) mapping(t *ast.TypeName) *ir.Type {
	keys := t.MappingKeys()
	value := m.Map(t.MappingValue())
	if len(keys) == 1 {
		return ir.Mapping(m.Map(keys[0]), value)
	}
	elems := make([]*ir.Type, len(keys))
	for i, k := range keys {
		elems[i] = m.Map(k)
	}
	return ir.Mapping(ir.Tuple(elems...), value)
}

func (m *Mapper) user(tn *ast.TypeName) *ir.Type {
	name := tn.Name
	if t, ok := m.userTypes[name]; ok {
		return t
	}
	if m.resolving[name] {
		// Self-referential structs can only be reached through a mapping
		// or a vector; refer to them by name.
		return ir.Named(name)
	}

	if s := m.unit.Struct(name); s != nil {
		m.resolving[name] = true
		fields := make([]*ir.Field, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = &ir.Field{Name: f.Name, Type: m.Map(f.Type)}
		}
		delete(m.resolving, name)
		t := &ir.Type{Kind: ir.KindStruct, Name: name, Fields: fields}
		m.remember(name, t)
		return t
	}
	if e := m.unit.Enum(name); e != nil {
		t := &ir.Type{Kind: ir.KindEnum, Name: name, Variants: append([]string(nil), e.Values...)}
		m.remember(name, t)
		return t
	}
	if c := m.unit.Contract(name); c != nil {
		return ir.Ref(name)
	}
	key := "?" + name + "@" + tn.Pos.String()
	if !m.seen[key] {
		m.seen[key] = true
		m.unresolved = append(m.unresolved, Unresolved{Name: name, Pos: tn.Pos})
		log.Debugf("unresolved type %s at %s", name, tn.Pos)
	}
	return ir.Named(name)
}

func (m *Mapper) remember(name string, t *ir.Type) {
	m.userTypes[name] = t
	m.order = append(m.order, t)
}

// ContainsMapping reports whether a storage handle is reachable inside t
func ContainsMapping(t *ir.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case ir.KindMapping:
		return true
	case ir.KindVec, ir.KindArray, ir.KindOption, ir.KindResult:
		return ContainsMapping(t.Elem)
	case ir.KindStruct:
		for _, f := range t.Fields {
			if ContainsMapping(f.Type) {
				return true
			}
		}
	case ir.KindTuple:
		for _, e := range t.Elements {
			if ContainsMapping(e) {
				return true
			}
		}
	}
	return false
}

// StructFieldOrder returns the declared field names of a struct type
func StructFieldOrder(t *ir.Type) []string {
	if t == nil || t.Kind != ir.KindStruct {
		return nil
	}
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldType returns the type of a struct member
func FieldType(t *ir.Type, name string) *ir.Type {
	if t == nil {
		return nil
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

package abi

import (
	"fmt"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"sol2ink/internal/ast"
)

// Argument describes a source type the way the source ABI encodes it.
// Structs become tuples, enums uint8 and contract references addresses.
func Argument(name string, t *ast.TypeName, unit *ast.SourceUnit) (gethabi.ArgumentMarshaling, error) {
	typ, comps, err := abiType(t, unit, map[string]bool{})
	if err != nil {
		return gethabi.ArgumentMarshaling{}, err
	}
	arg := gethabi.ArgumentMarshaling{Name: name, Type: typ, Components: comps}
	if t.Kind == ast.KindUser {
		arg.InternalType = internalType(t, unit)
	}
	return arg, nil
}

// Arguments converts a parameter list into typed ABI arguments
func Arguments(params []*ast.Parameter, unit *ast.SourceUnit) (gethabi.Arguments, []gethabi.ArgumentMarshaling, error) {
	args := make(gethabi.Arguments, 0, len(params))
	marshal := make([]gethabi.ArgumentMarshaling, 0, len(params))
	for _, p := range params {
		m, err := Argument(p.Name, p.Type, unit)
		if err != nil {
			return nil, nil, err
		}
		typ, err := gethabi.NewType(m.Type, m.InternalType, m.Components)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, gethabi.Argument{Name: p.Name, Type: typ})
		marshal = append(marshal, m)
	}
	return args, marshal, nil
}

func abiType(t *ast.TypeName, unit *ast.SourceUnit, visiting map[string]bool) (string, []gethabi.ArgumentMarshaling, error) {
	switch t.Kind {
	case ast.KindUint:
		return fmt.Sprintf("uint%d", bitsOf(t)), nil, nil
	case ast.KindInt:
		return fmt.Sprintf("int%d", bitsOf(t)), nil, nil
	case ast.KindBool:
		return "bool", nil, nil
	case ast.KindAddress:
		return "address", nil, nil
	case ast.KindFixedBytes:
		return fmt.Sprintf("bytes%d", t.Size), nil, nil
	case ast.KindBytes:
		return "bytes", nil, nil
	case ast.KindString:
		return "string", nil, nil
	case ast.KindArray:
		elem, comps, err := abiType(t.Elem, unit, visiting)
		if err != nil {
			return "", nil, err
		}
		if t.Length > 0 {
			return fmt.Sprintf("%s[%d]", elem, t.Length), comps, nil
		}
		return elem + "[]", comps, nil
	case ast.KindMapping:
		return "", nil, fmt.Errorf("mapping %s has no ABI encoding", t)
	case ast.KindUser:
		if s := unit.Struct(t.Name); s != nil {
			if visiting[t.Name] {
				return "", nil, fmt.Errorf("recursive struct %s has no ABI encoding", t.Name)
			}
			visiting[t.Name] = true
			defer delete(visiting, t.Name)
			comps := make([]gethabi.ArgumentMarshaling, len(s.Fields))
			for i, f := range s.Fields {
				typ, sub, err := abiType(f.Type, unit, visiting)
				if err != nil {
					return "", nil, err
				}
				comps[i] = gethabi.ArgumentMarshaling{Name: f.Name, Type: typ, Components: sub}
			}
			return "tuple", comps, nil
		}
		if unit.Enum(t.Name) != nil {
			return "uint8", nil, nil
		}
		if unit.Contract(t.Name) != nil {
			return "address", nil, nil
		}
		return "", nil, fmt.Errorf("unknown type %s", t.Name)
	default:
		return "", nil, fmt.Errorf("unsupported type %s", t)
	}
}

func internalType(t *ast.TypeName, unit *ast.SourceUnit) string {
	switch {
	case unit.Struct(t.Name) != nil:
		return "struct " + t.Name
	case unit.Enum(t.Name) != nil:
		return "enum " + t.Name
	default:
		return "contract " + t.Name
	}
}

func bitsOf(t *ast.TypeName) int {
	if t.Bits == 0 {
		return 256
	}
	return t.Bits
}

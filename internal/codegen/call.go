package codegen

import (
	"sol2ink/internal/abi"
	"sol2ink/internal/ast"
	"sol2ink/internal/builtins"
	"sol2ink/internal/ir"
	"sol2ink/internal/mathlib"
)

// Builtin hashing and encoding functions, lowered to runtime helpers
var hashHelpers = map[string]struct {
	helper string
	result func() *ir.Type
}{
	"keccak256":        {"keccak256", func() *ir.Type { return ir.FixedBytes(32) }},
	"sha256":           {"sha256", func() *ir.Type { return ir.FixedBytes(32) }},
	"abi.encode":       {"abi_encode", ir.Bytes},
	"abi.encodePacked": {"abi_encode_packed", ir.Bytes},
}

func (f *funcCtx) call(e *ast.CallExpr, want *ir.Type) ir.Expr {
	switch callee := e.Callee.(type) {
	case *ast.Identifier:
		return f.callIdent(e, callee, want)
	case *ast.MemberExpr:
		return f.callMember(e, callee)
	}
	return f.b.unsupported("call of computed function", e.Pos)
}

func (f *funcCtx) callIdent(e *ast.CallExpr, id *ast.Identifier, want *ir.Type) ir.Expr {
	name := id.Name
	if _, local := f.local(name); local {
		return f.b.unsupported("call through local '"+name+"'", e.Pos)
	}

	if name == "payable" && len(e.Args) == 1 {
		return f.expr(e.Args[0], ir.AccountID())
	}
	if t, ok := builtins.ElementaryType(name); ok {
		return f.conversion(e, t)
	}
	if h, ok := hashHelpers[name]; ok {
		return f.helper(h.helper, f.args(e.Args, nil), h.result())
	}
	if s := f.b.unit.Struct(name); s != nil {
		return f.structLit(e, s)
	}
	if c := f.b.unit.Contract(name); c != nil && c.Kind != ast.KindLibrary {
		if len(e.Args) != 1 {
			return f.b.unsupported("conversion to '"+name+"'", e.Pos)
		}
		t := f.b.mapper.Map(ast.Named(name))
		addr := f.expr(e.Args[0], ir.AccountID())
		return &ir.Try{Value: &ir.RefFrom{Address: addr, Type: ir.Result(t)}, Type: t}
	}

	def := f.resolve(f.b.functions[name], len(e.Args))
	if def == nil {
		return f.b.unsupported("call of '"+name+"'", e.Pos)
	}
	args := f.args(e.Args, def.Params)
	ret := f.b.mapper.MapReturns(def.Returns)
	switch {
	case f.library != nil:
		return &ir.Try{Value: &ir.LibraryCall{Library: f.library.Name, Function: name, Args: args, Type: ir.Result(ret)}, Type: ret}
	case f.b.isHook(name):
		return &ir.Try{Value: &ir.HookCall{Hook: name, Args: args, Type: ir.Result(ret)}, Type: ret}
	default:
		return &ir.Try{Value: &ir.Call{Function: name, Args: args, Type: ir.Result(ret)}, Type: ret}
	}
}

// resolve picks the overload of a function taking argc arguments
func (f *funcCtx) resolve(candidates []*ast.ResolvedFunction, argc int) *ast.FunctionDefinition {
	for _, rf := range candidates {
		if len(rf.Def.Params) == argc {
			return rf.Def
		}
	}
	return nil
}

// args lowers call arguments against the callee's parameters, when known
func (f *funcCtx) args(list []ast.Expr, params []*ast.Parameter) []ir.Expr {
	out := make([]ir.Expr, len(list))
	for i, a := range list {
		if i < len(params) {
			t := f.b.mapper.Map(params[i].Type)
			out[i] = f.coerce(f.expr(a, t), t)
			continue
		}
		out[i] = f.expr(a, nil)
	}
	return out
}

// conversion lowers an elementary type conversion such as uint128(x)
func (f *funcCtx) conversion(e *ast.CallExpr, to *ast.TypeName) ir.Expr {
	if len(e.Args) != 1 {
		return f.b.unsupported("conversion to "+to.String(), e.Pos)
	}
	t := f.b.mapper.Map(to)
	arg := e.Args[0]

	if to.Kind == ast.KindAddress {
		if n, ok := arg.(*ast.NumberLiteral); ok {
			if v, err := mathlib.Parse(n.Value); err == nil && v.IsZero() {
				return &ir.Default{Type: t}
			}
		}
		v := f.expr(arg, t)
		if v.ExprType().Kind == ir.KindAccountID {
			return v
		}
		return &ir.Cast{Value: v, Type: t}
	}

	v := f.expr(arg, t)
	vt := v.ExprType()
	if lit, ok := v.(*ir.Literal); ok && lit.Kind == ir.LitInt && t.IsInteger() {
		return f.coerce(lit, t)
	}
	if vt.Kind == t.Kind && vt.Bits == t.Bits && vt.Signed == t.Signed && vt.Size == t.Size {
		return v
	}
	return &ir.Cast{Value: v, Type: t, Narrowing: t.IsInteger() && vt.IsInteger() && t.Bits < vt.Bits}
}

// structLit builds a struct in declaration order, reordering named arguments
func (f *funcCtx) structLit(e *ast.CallExpr, s *ast.StructType) ir.Expr {
	t := f.b.mapper.Map(ast.Named(s.Name))
	if len(e.Args) != len(s.Fields) {
		return f.b.unsupported("struct '"+s.Name+"' with wrong field count", e.Pos)
	}
	byName := make(map[string]ast.Expr, len(e.Names))
	for i, n := range e.Names {
		byName[n] = e.Args[i]
	}

	lit := &ir.StructLit{Type: t}
	for i, fld := range s.Fields {
		arg := e.Args[i]
		if len(e.Names) > 0 {
			var ok bool
			if arg, ok = byName[fld.Name]; !ok {
				return f.b.unsupported("struct '"+s.Name+"' without field '"+fld.Name+"'", e.Pos)
			}
		}
		ft := f.b.mapper.Map(fld.Type)
		lit.Fields = append(lit.Fields, &ir.FieldInit{Name: fld.Name, Value: f.coerce(f.expr(arg, ft), ft)})
	}
	return lit
}

func (f *funcCtx) callMember(e *ast.CallExpr, m *ast.MemberExpr) ir.Expr {
	if id, ok := m.Target.(*ast.Identifier); ok {
		if _, local := f.local(id.Name); !local {
			if h, ok := hashHelpers[id.Name+"."+m.Member]; ok {
				return f.helper(h.helper, f.args(e.Args, nil), h.result())
			}
			if lib := f.b.unit.Contract(id.Name); lib != nil && lib.Kind == ast.KindLibrary {
				return f.libraryCall(e, lib.Name, m.Member, nil)
			}
			if mathlib.IsHelperLibrary(id.Name) && f.b.unit.Contract(id.Name) == nil {
				return f.libraryCall(e, id.Name, m.Member, nil)
			}
		}
	}

	recv := f.expr(m.Target, nil)
	rt := recv.ExprType()

	if lib := f.usingFor(rt, m.Member); lib != "" {
		return f.libraryCall(e, lib, m.Member, recv)
	}

	switch rt.Kind {
	case ir.KindAccountID:
		if m.Member == "transfer" && len(e.Args) == 1 {
			amount := f.expr(e.Args[0], f.envType(ast.Uint(256)))
			return &ir.Try{Value: &ir.Transfer{To: recv, Amount: amount, Type: ir.Result(ir.Unit())}, Type: ir.Unit()}
		}
	case ir.KindRef:
		return f.external(e, recv, rt.Name, m.Member)
	}
	return f.b.unsupported("call of '"+m.Member+"' on "+rt.String(), e.Pos)
}

// usingFor finds the library attached to t that defines member
func (f *funcCtx) usingFor(t *ir.Type, member string) string {
	for _, u := range f.b.using {
		if u.Type != nil && !sameType(f.b.mapper.Map(u.Type), t) {
			continue
		}
		if lib := f.b.unit.Contract(u.Library); lib != nil {
			for _, fn := range lib.Functions {
				if fn.Name == member {
					return u.Library
				}
			}
			continue
		}
		if _, ok := mathlib.LookupHelper(u.Library, member); ok {
			return u.Library
		}
	}
	return ""
}

func sameType(a, b *ir.Type) bool {
	return a.Kind == b.Kind && a.Bits == b.Bits && a.Signed == b.Signed && a.Name == b.Name && a.Size == b.Size
}

// libraryCall lowers L.fn(args), or recv.fn(args) with recv bound to the
// first parameter. Libraries with runtime equivalents become helper calls.
func (f *funcCtx) libraryCall(e *ast.CallExpr, library, name string, recv ir.Expr) ir.Expr {
	if h, ok := mathlib.LookupHelper(library, name); ok {
		var args []ir.Expr
		if recv != nil {
			args = append(args, recv)
		}
		args = append(args, f.args(e.Args, nil)...)
		if len(args) != h.Arity {
			return f.b.unsupported(library+"."+name+" with wrong argument count", e.Pos)
		}
		// fixed-width helpers go through the mapper so that widths past
		// the native one are reported as narrowings
		operand := args[0].ExprType()
		switch {
		case h.Bits != 0:
			operand = f.b.mapper.Map(&ast.TypeName{Kind: ast.KindUint, Bits: h.Bits, Pos: e.Pos})
		case !operand.IsInteger():
			operand = ir.Int(min(builtins.RoundWidth(8), f.b.mapper.NativeWidth()), false)
		}
		for i := range args {
			args[i] = f.coerce(args[i], operand)
		}
		result := operand
		if h.Result != 0 {
			result = f.b.mapper.Map(&ast.TypeName{Kind: ast.KindUint, Bits: h.Result, Pos: e.Pos})
		}
		return f.helper(h.Name, args, result)
	}

	lib := f.b.unit.Contract(library)
	if lib == nil {
		return f.b.unsupported("library '"+library+"'", e.Pos)
	}
	argc := len(e.Args)
	if recv != nil {
		argc++
	}
	var def *ast.FunctionDefinition
	for _, fn := range lib.Functions {
		if fn.Name == name && len(fn.Params) == argc {
			def = fn
			break
		}
	}
	if def == nil {
		return f.b.unsupported("call of '"+library+"."+name+"'", e.Pos)
	}

	var args []ir.Expr
	params := def.Params
	if recv != nil {
		args = append(args, recv)
		params = params[1:]
	}
	args = append(args, f.args(e.Args, params)...)
	ret := f.b.mapper.MapReturns(def.Returns)
	return &ir.Try{Value: &ir.LibraryCall{Library: library, Function: name, Args: args, Type: ir.Result(ret)}, Type: ret}
}

// helper calls a runtime helper and records that the program needs it
func (f *funcCtx) helper(name string, args []ir.Expr, result *ir.Type) ir.Expr {
	f.b.helpers[name] = true
	return &ir.Try{Value: &ir.HelperCall{Helper: name, Args: args, Type: ir.Result(result)}, Type: result}
}

// external calls a message of another contract through its reference
// handle, keeping the source selector
func (f *funcCtx) external(e *ast.CallExpr, handle ir.Expr, iface, name string) ir.Expr {
	c := f.b.unit.Contract(iface)
	if c == nil {
		return f.b.unsupported("call into unknown contract '"+iface+"'", e.Pos)
	}
	bases, _ := f.b.unit.ResolveBases(c)

	var def *ast.FunctionDefinition
	for _, rf := range ast.FlattenFunctions(c, bases) {
		if rf.Def.Name == name && len(rf.Def.Params) == len(e.Args) && rf.Def.Visibility.Externally() {
			def = rf.Def
			break
		}
	}
	if def == nil {
		return f.b.unsupported("message '"+iface+"."+name+"'", e.Pos)
	}

	ret := f.b.mapper.MapReturns(def.Returns)
	call := &ir.ExternalCall{
		Handle:    handle,
		Interface: iface,
		Message:   name,
		Selector:  abi.Selector(name, def.Params, f.b.unit),
		Args:      f.args(e.Args, def.Params),
		Type:      ir.Result(ret),
	}
	return &ir.Try{Value: call, Type: ret}
}

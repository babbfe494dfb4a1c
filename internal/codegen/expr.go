package codegen

import (
	"github.com/holiman/uint256"
	"sol2ink/internal/ast"
	"sol2ink/internal/builtins"
	"sol2ink/internal/errors"
	"sol2ink/internal/ir"
	"sol2ink/internal/mathlib"
)

var arithmetic = map[string]ir.ArithOp{
	"+": ir.OpAdd, "-": ir.OpSub, "*": ir.OpMul, "/": ir.OpDiv, "%": ir.OpMod, "**": ir.OpPow,
}

var comparisons = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true, "&&": true, "||": true,
}

// expr lowers an expression. want is the expected type when the context
// fixes one; it only steers the typing of literals.
func (f *funcCtx) expr(e ast.Expr, want *ir.Type) ir.Expr {
	switch e := e.(type) {
	case *ast.Identifier:
		return f.ident(e)

	case *ast.NumberLiteral:
		return f.number(e, want)

	case *ast.StringLiteral:
		t := ir.String()
		if want != nil && (want.Kind == ir.KindFixedBytes || want.Kind == ir.KindBytes) {
			t = want
		}
		return &ir.Literal{Kind: ir.LitString, Value: e.Value, Type: t}

	case *ast.BoolLiteral:
		v := "false"
		if e.Value {
			v = "true"
		}
		return &ir.Literal{Kind: ir.LitBool, Value: v, Type: ir.Bool()}

	case *ast.BinaryExpr:
		l, r := f.operands(e.Left, e.Right, want, comparisons[e.Op])
		return f.binary(e.Op, l, r, e.Pos)

	case *ast.UnaryExpr:
		switch e.Op {
		case "!":
			return &ir.Unary{Op: "!", Operand: f.expr(e.Operand, ir.Bool()), Type: ir.Bool()}
		case "-", "~":
			operand := f.expr(e.Operand, want)
			return &ir.Unary{Op: e.Op, Operand: operand, Type: operand.ExprType()}
		default:
			return f.b.unsupported("operator '"+e.Op+"' in expression", e.Pos)
		}

	case *ast.ConditionalExpr:
		cond := f.expr(e.Cond, ir.Bool())
		then := f.expr(e.Then, want)
		els := f.coerce(f.expr(e.Else, then.ExprType()), then.ExprType())
		return &ir.Conditional{Cond: cond, Then: then, Else: els, Type: then.ExprType()}

	case *ast.MemberExpr:
		return f.member(e)

	case *ast.IndexExpr:
		return f.index(e)

	case *ast.CallExpr:
		return f.call(e, want)

	default:
		return f.b.unsupported("expression", e.NodePos())
	}
}

func (f *funcCtx) ident(e *ast.Identifier) ir.Expr {
	if bd, ok := f.lookup(e.Name); ok {
		return &ir.Local{Name: bd.name, Type: bd.typ}
	}
	if g, ok := builtins.LookupEnvIdent(e.Name); ok {
		return &ir.Env{Accessor: string(g.Accessor), Type: f.envType(g.Type)}
	}
	if v, ok := f.b.stateVars[e.Name]; ok && f.library == nil {
		if v.Constant {
			return &ir.ConstRef{Name: v.Name, Type: f.b.mapper.Map(v.Type)}
		}
		if f.isField(v.Name) {
			field := f.b.storage.Field(v.Name)
			return &ir.FieldRead{Field: field.Name, Type: field.Type}
		}
	}
	if f.library != nil {
		for _, v := range f.library.StateVariables {
			if v.Name == e.Name && v.Constant {
				return &ir.ConstRef{Name: v.Name, Type: f.b.mapper.Map(v.Type)}
			}
		}
	}
	return f.b.unsupported("identifier '"+e.Name+"'", e.Pos)
}

// envType maps the type of an environment value. The target reports these
// natively, so no narrowing is recorded.
func (f *funcCtx) envType(t *ast.TypeName) *ir.Type {
	if t.IsInteger() {
		return ir.Int(min(builtins.RoundWidth(t.Bits), f.b.mapper.NativeWidth()), t.Kind == ast.KindInt)
	}
	return f.b.mapper.Map(t)
}

// defaultInt is the type of a literal whose context fixes none
func (f *funcCtx) defaultInt() *ir.Type {
	return ir.Int(min(256, f.b.mapper.NativeWidth()), false)
}

func (f *funcCtx) number(e *ast.NumberLiteral, want *ir.Type) ir.Expr {
	v, err := mathlib.Parse(e.Value)
	if err != nil {
		return f.b.unsupported(err.Error(), e.Pos)
	}
	t := want
	if !t.IsInteger() {
		t = f.defaultInt()
	}
	if !fits(v, t) {
		f.b.report(errors.ConstantOverflow(e.Value, t.String(), "literal out of range", e.Pos))
	}
	return &ir.Literal{Kind: ir.LitInt, Value: v.Dec(), Type: t}
}

func fits(v *uint256.Int, t *ir.Type) bool {
	bits := t.Bits
	if t.Signed {
		bits--
	}
	return mathlib.FitsIn(v, bits)
}

func isNumber(e ast.Expr) bool {
	_, ok := e.(*ast.NumberLiteral)
	return ok
}

// operands lowers both sides of a binary operator so that a literal takes
// the type of the other side
func (f *funcCtx) operands(left, right ast.Expr, want *ir.Type, boolean bool) (ir.Expr, ir.Expr) {
	if boolean {
		want = nil
	}
	if isNumber(left) && !isNumber(right) {
		r := f.expr(right, want)
		return f.expr(left, r.ExprType()), r
	}
	l := f.expr(left, want)
	return l, f.expr(right, l.ExprType())
}

// binary builds a binary operation. Arithmetic is checked unless the scope
// is unchecked or the library is modular; literal operands are folded.
func (f *funcCtx) binary(op string, l, r ir.Expr, pos ast.Position) ir.Expr {
	if comparisons[op] {
		return &ir.Binary{Op: op, Left: l, Right: r, Type: ir.Bool()}
	}
	t := l.ExprType()
	if !t.IsInteger() && r.ExprType().IsInteger() {
		t = r.ExprType()
	}
	arith, ok := arithmetic[op]
	if !ok {
		return &ir.Binary{Op: op, Left: l, Right: r, Type: t}
	}
	if op != "**" {
		r = f.coerce(r, t)
	}
	if folded, ok := f.fold(arith, l, r, t, pos); ok {
		return folded
	}
	if f.unchecked || f.modular {
		return &ir.Wrapping{Op: arith, Left: l, Right: r, Type: t}
	}
	return &ir.Try{Value: &ir.Checked{Op: arith, Left: l, Right: r, Type: t}, Type: t}
}

// fold evaluates arithmetic over two unsigned integer literals with the
// exact runtime semantics. A failing fold is a compile-time overflow.
func (f *funcCtx) fold(op ir.ArithOp, l, r ir.Expr, t *ir.Type, pos ast.Position) (ir.Expr, bool) {
	ll, ok1 := l.(*ir.Literal)
	rl, ok2 := r.(*ir.Literal)
	if !ok1 || !ok2 || ll.Kind != ir.LitInt || rl.Kind != ir.LitInt || !t.IsInteger() || t.Signed {
		return nil, false
	}
	x, err1 := uint256.FromDecimal(ll.Value)
	y, err2 := uint256.FromDecimal(rl.Value)
	if err1 != nil || err2 != nil {
		return nil, false
	}
	z, err := mathlib.Apply(op, x, y, t.Bits)
	if err != nil {
		if f.unchecked || f.modular {
			return nil, false
		}
		f.b.report(errors.ConstantOverflow(ll.Value+" "+string(op)+" "+rl.Value, t.String(), err.Error(), pos))
		return &ir.Literal{Kind: ir.LitInt, Value: "0", Type: t}, true
	}
	return &ir.Literal{Kind: ir.LitInt, Value: z.Dec(), Type: t}, true
}

// coerce converts e to t where the source converts implicitly: literals
// are retyped and integers widened.
func (f *funcCtx) coerce(e ir.Expr, t *ir.Type) ir.Expr {
	if t == nil || !t.IsInteger() {
		return e
	}
	et := e.ExprType()
	if !et.IsInteger() || (et.Bits == t.Bits && et.Signed == t.Signed) {
		return e
	}
	if lit, ok := e.(*ir.Literal); ok && lit.Kind == ir.LitInt {
		return &ir.Literal{Kind: ir.LitInt, Value: lit.Value, Type: t}
	}
	return &ir.Cast{Value: e, Type: t, Narrowing: t.Bits < et.Bits}
}

func (f *funcCtx) member(e *ast.MemberExpr) ir.Expr {
	if id, ok := e.Target.(*ast.Identifier); ok {
		if _, local := f.local(id.Name); !local {
			if g, ok := builtins.LookupEnv(id.Name, e.Member); ok {
				return &ir.Env{Accessor: string(g.Accessor), Type: f.envType(g.Type)}
			}
			if en := f.b.unit.Enum(id.Name); en != nil {
				return &ir.EnumVariant{Enum: en.Name, Variant: e.Member, Type: f.b.mapper.Map(ast.Named(en.Name))}
			}
			if lib := f.b.unit.Contract(id.Name); lib != nil {
				for _, v := range lib.StateVariables {
					if v.Name == e.Member && v.Constant {
						return &ir.ConstRef{Name: lib.Name + "::" + v.Name, Type: f.b.mapper.Map(v.Type)}
					}
				}
			}
		}
	}

	target := f.expr(e.Target, nil)
	tt := target.ExprType()
	switch {
	case e.Member == "length" && (tt.Kind == ir.KindVec || tt.Kind == ir.KindArray || tt.Kind == ir.KindBytes || tt.Kind == ir.KindString):
		return &ir.Len{Target: target, Type: f.defaultInt()}
	case e.Member == "balance" && isSelf(target):
		return &ir.Env{Accessor: string(builtins.Balance), Type: f.envType(ast.Uint(256))}
	case tt.Kind == ir.KindStruct:
		for _, fld := range tt.Fields {
			if fld.Name == e.Member {
				return &ir.FieldAccess{Target: target, Field: e.Member, Type: fld.Type}
			}
		}
	case tt.Kind == ir.KindNamed:
		if s := f.b.unit.Struct(tt.Name); s != nil {
			full := f.b.mapper.Map(ast.Named(s.Name))
			for _, fld := range full.Fields {
				if fld.Name == e.Member {
					return &ir.FieldAccess{Target: target, Field: e.Member, Type: fld.Type}
				}
			}
		}
	}
	return f.b.unsupported("member '"+e.Member+"' of "+tt.String(), e.Pos)
}

func isSelf(e ir.Expr) bool {
	env, ok := e.(*ir.Env)
	return ok && env.Accessor == string(builtins.AccountID)
}

func (f *funcCtx) index(e *ast.IndexExpr) ir.Expr {
	if name, keys, ok := f.mappingChain(e); ok {
		field := f.b.storage.Field(name)
		return &ir.MappingGet{Field: name, Key: tupleKey(keys), Type: field.Type.Value}
	}
	target := f.expr(e.Target, nil)
	tt := target.ExprType()
	switch tt.Kind {
	case ir.KindVec, ir.KindArray:
		return &ir.Index{Target: target, Index: f.expr(e.Index, f.defaultInt()), Type: tt.Elem}
	case ir.KindBytes:
		return &ir.Index{Target: target, Index: f.expr(e.Index, f.defaultInt()), Type: ir.FixedBytes(1)}
	case ir.KindMapping:
		return f.b.unsupported("partial index into nested mapping", e.Pos)
	}
	return f.b.unsupported("index into "+tt.String(), e.Pos)
}

// mappingChain recognizes m[k1]...[kn] where m is a mapping field of depth
// n, returning the field and the lowered keys in order
func (f *funcCtx) mappingChain(e *ast.IndexExpr) (string, []ir.Expr, bool) {
	var idx []ast.Expr
	var cur ast.Expr = e
	for {
		ie, ok := cur.(*ast.IndexExpr)
		if !ok {
			break
		}
		idx = append([]ast.Expr{ie.Index}, idx...)
		cur = ie.Target
	}
	id, ok := cur.(*ast.Identifier)
	if !ok || f.library != nil {
		return "", nil, false
	}
	if _, local := f.local(id.Name); local {
		return "", nil, false
	}
	v, ok := f.b.stateVars[id.Name]
	if !ok || v.Type.Kind != ast.KindMapping || v.Type.MappingDepth() != len(idx) || !f.isField(id.Name) {
		return "", nil, false
	}
	field := f.b.storage.Field(id.Name)

	var keyTypes []*ir.Type
	if k := field.Type.Key; k.Kind == ir.KindTuple && len(idx) > 1 {
		keyTypes = k.Elements
	} else {
		keyTypes = []*ir.Type{k}
	}
	keys := make([]ir.Expr, len(idx))
	for i, k := range idx {
		keys[i] = f.coerce(f.expr(k, keyTypes[i]), keyTypes[i])
	}
	return id.Name, keys, true
}

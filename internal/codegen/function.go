package codegen

import (
	"fmt"

	"sol2ink/internal/ast"
	"sol2ink/internal/ir"
)

// returnLocal captures the outcome of a body wrapped in modifiers
const returnLocal = "__ret"

// binding is a local in scope: its type and the name it is emitted under
type binding struct {
	typ  *ir.Type
	name string
}

type scope map[string]binding

// funcCtx is the lowering state of one body
type funcCtx struct {
	b       *Builder
	scopes  []scope
	library *ast.ContractDefinition

	unchecked bool
	modular   bool

	returns []*ast.Parameter
	retType *ir.Type

	// Modifier expansion. params is the scope of the function's own
	// parameters and named returns; placeholder lowers the next level
	// for "_"; exit is the label a return leaves, empty at the outermost
	// level.
	params      scope
	placeholder func() []ir.Stmt
	exit        string
	inModifier  bool
	prefix      string
	retVar      string
	labels      int
	used        map[string]int
}

func (b *Builder) newFunc(returns []*ast.Parameter) *funcCtx {
	f := &funcCtx{b: b, scopes: []scope{{}}, returns: returns, used: make(map[string]int)}
	f.retType = b.mapper.MapReturns(returns)
	f.params = f.scopes[0]
	return f
}

func (f *funcCtx) push() { f.scopes = append(f.scopes, scope{}) }
func (f *funcCtx) pop()  { f.scopes = f.scopes[:len(f.scopes)-1] }

// declare binds a local and returns the name it is emitted under. Locals
// of a modifier are prefixed with its name so they never shadow the
// function's own.
func (f *funcCtx) declare(name string, t *ir.Type) string {
	target := name
	if f.prefix != "" {
		target = f.fresh(f.prefix + "_" + name)
	}
	f.scopes[len(f.scopes)-1][name] = binding{typ: t, name: target}
	return target
}

func (f *funcCtx) lookup(name string) (binding, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if bd, ok := f.scopes[i][name]; ok {
			return bd, true
		}
	}
	return binding{}, false
}

func (f *funcCtx) local(name string) (*ir.Type, bool) {
	bd, ok := f.lookup(name)
	return bd.typ, ok
}

func (f *funcCtx) fresh(name string) string {
	n := f.used[name]
	f.used[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s_%d", name, n)
}

// function lowers one source function with its modifiers expanded
func (b *Builder) function(def *ast.FunctionDefinition, declarer string, kind ir.FunctionKind) *ir.Function {
	out := &ir.Function{
		Name:     def.Name,
		Source:   ast.Signature(def.Name, def.Params),
		Kind:     kind,
		Declarer: declarer,
		Params:   b.mapper.MapParams(def.Params),
		Returns:  b.mapper.MapReturns(def.Returns),
		Mutates:  !def.Mutability.ReadOnly(),
	}
	f := b.newFunc(def.Returns)
	out.Body = f.body(def.Params, def.Body, b.modifierChain(def))
	return out
}

// body lowers a complete body: parameters and named returns are bound, and
// a body that can fall off its end gets the implicit return.
func (f *funcCtx) body(params []*ast.Parameter, block *ast.Block, mods []invocation) []ir.Stmt {
	for _, p := range params {
		f.declare(p.Name, f.b.mapper.Map(p.Type))
	}

	var out []ir.Stmt
	for _, r := range f.returns {
		if r.Name == "" {
			continue
		}
		t := f.b.mapper.Map(r.Type)
		f.declare(r.Name, t)
		out = append(out, &ir.Let{Name: r.Name, Type: t, Value: &ir.Default{Type: t}})
	}
	if block == nil {
		return append(out, &ir.Return{Value: f.implicitReturn()})
	}

	if len(mods) > 0 && f.retType.Kind != ir.KindUnit {
		f.retVar = returnLocal
		out = append(out, &ir.Let{Name: f.retVar, Type: f.retType, Value: &ir.Default{Type: f.retType}})
	}
	out = append(out, f.modified(block, mods)...)
	if terminates(out) {
		return out
	}
	if len(mods) > 0 {
		return append(out, &ir.Return{Value: f.captured()})
	}
	return append(out, &ir.Return{Value: f.implicitReturn()})
}

// implicitReturn is the value of a bare return or of falling off the end
func (f *funcCtx) implicitReturn() ir.Expr {
	if len(f.returns) == 0 {
		return nil
	}
	vals := make([]ir.Expr, len(f.returns))
	for i, r := range f.returns {
		t := f.b.mapper.Map(r.Type)
		if r.Name == "" {
			vals[i] = &ir.Default{Type: t}
		} else {
			vals[i] = &ir.Local{Name: r.Name, Type: t}
		}
	}
	if len(vals) == 1 {
		return vals[0]
	}
	return &ir.TupleExpr{Elements: vals, Type: f.retType}
}

// captured is the outcome recorded by the innermost body, if any
func (f *funcCtx) captured() ir.Expr {
	if f.retVar == "" {
		return nil
	}
	return &ir.Local{Name: f.retVar, Type: f.retType}
}

func terminates(stmts []ir.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch s := stmts[len(stmts)-1].(type) {
	case *ir.Return, *ir.Fail, *ir.Break:
		return true
	case *ir.If:
		return len(s.Else) > 0 && terminates(s.Then) && terminates(s.Else)
	}
	return false
}

// invocation is a modifier applied to a function
type invocation struct {
	def  *ast.ModifierDefinition
	call *ast.ModifierInvocation
}

// modifierChain resolves the modifier invocations of def, outermost first.
// Invocations naming a base contract are constructor arguments and are
// skipped here.
func (b *Builder) modifierChain(def *ast.FunctionDefinition) []invocation {
	var out []invocation
	for _, inv := range def.Modifiers {
		if b.unit.Contract(inv.Name) != nil {
			continue
		}
		mod, ok := b.modifiers[inv.Name]
		if !ok || mod.Body == nil {
			b.unsupported("modifier '"+inv.Name+"'", inv.Pos)
			continue
		}
		out = append(out, invocation{def: mod, call: inv})
	}
	return out
}

// modified lowers block wrapped in mods. Each "_" runs the next level
// inside a labelled block: a return there records the outcome and leaves
// the block, so the code after "_" still runs.
func (f *funcCtx) modified(block *ast.Block, mods []invocation) []ir.Stmt {
	if len(mods) == 0 {
		return f.stmts(block.Stmts)
	}
	f.inModifier = true
	defer func() { f.inModifier = false }()
	return f.level(block, mods, 0)
}

// level lowers modifier i of mods, or the body itself past the last one
func (f *funcCtx) level(block *ast.Block, mods []invocation, i int) []ir.Stmt {
	if i == len(mods) {
		return f.stmts(block.Stmts)
	}
	m := mods[i]

	// arguments are evaluated where the modifier is applied
	args := make([]ir.Expr, len(m.def.Params))
	types := make([]*ir.Type, len(m.def.Params))
	for j, p := range m.def.Params {
		types[j] = f.b.mapper.Map(p.Type)
		if j < len(m.call.Args) {
			args[j] = f.coerce(f.expr(m.call.Args[j], types[j]), types[j])
		} else {
			args[j] = &ir.Default{Type: types[j]}
		}
	}

	saved := *f
	f.scopes = []scope{{}}
	f.prefix = m.def.Name
	f.unchecked = false
	defer func() {
		f.scopes, f.prefix, f.unchecked = saved.scopes, saved.prefix, saved.unchecked
		f.placeholder = saved.placeholder
	}()

	var out []ir.Stmt
	for j, p := range m.def.Params {
		out = append(out, &ir.Let{Name: f.declare(p.Name, types[j]), Type: types[j], Value: args[j]})
	}
	f.placeholder = func() []ir.Stmt { return f.inner(block, mods, i+1) }
	return append(out, f.stmts(m.def.Body.Stmts)...)
}

// inner lowers the level that a placeholder stands for. It sees only the
// function's parameters, never the locals of the enclosing modifier.
func (f *funcCtx) inner(block *ast.Block, mods []invocation, i int) []ir.Stmt {
	label := fmt.Sprintf("body%d", f.labels)
	f.labels++

	saved := *f
	f.scopes = []scope{f.params, {}}
	f.prefix = ""
	f.unchecked = false
	f.exit = label
	f.inModifier = i < len(mods)
	f.placeholder = nil
	defer func() {
		f.scopes, f.prefix, f.unchecked = saved.scopes, saved.prefix, saved.unchecked
		f.exit, f.inModifier, f.placeholder = saved.exit, saved.inModifier, saved.placeholder
	}()

	body := f.level(block, mods, i)
	if i == len(mods) && f.retVar != "" && !terminates(body) {
		body = append(body, &ir.Assign{Target: f.captured(), Value: f.implicitReturn()})
	}
	return []ir.Stmt{&ir.Labeled{Label: label, Body: body}}
}

// ret lowers a return statement. Inside an expanded placeholder it records
// the outcome and leaves the placeholder; in a modifier it ends the level.
func (f *funcCtx) ret(s *ast.ReturnStmt) []ir.Stmt {
	var value ir.Expr
	switch {
	case s.Value != nil:
		value = f.coerce(f.expr(s.Value, f.retType), f.retType)
	case !f.inModifier:
		value = f.implicitReturn()
	}

	if f.exit == "" {
		if f.inModifier {
			return []ir.Stmt{&ir.Return{Value: f.captured()}}
		}
		return []ir.Stmt{&ir.Return{Value: value}}
	}
	var out []ir.Stmt
	if value != nil && f.retVar != "" && !f.inModifier {
		out = append(out, &ir.Assign{Target: f.captured(), Value: value})
	}
	return append(out, &ir.Break{Label: f.exit})
}

package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sol2ink/internal/abi"
	"sol2ink/internal/ast"
	"sol2ink/internal/errors"
	"sol2ink/internal/events"
	"sol2ink/internal/ir"
	"sol2ink/internal/layout"
	"sol2ink/internal/typemap"
)

// AST shorthands

func id(name string) *ast.Identifier      { return &ast.Identifier{Name: name} }
func num(v string) *ast.NumberLiteral     { return &ast.NumberLiteral{Value: v} }
func str(v string) *ast.StringLiteral     { return &ast.StringLiteral{Value: v} }
func sel(t ast.Expr, m string) *ast.MemberExpr { return &ast.MemberExpr{Target: t, Member: m} }
func idx(t, i ast.Expr) *ast.IndexExpr    { return &ast.IndexExpr{Target: t, Index: i} }

func bin(op string, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func call(callee ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: callee, Args: args}
}

func assign(target ast.Expr, op string, value ast.Expr) *ast.AssignStmt {
	return &ast.AssignStmt{Target: target, Op: op, Value: value}
}

func do(e ast.Expr) *ast.ExprStmt       { return &ast.ExprStmt{Expr: e} }
func ret(e ast.Expr) *ast.ReturnStmt    { return &ast.ReturnStmt{Value: e} }
func block(s ...ast.Stmt) *ast.Block    { return &ast.Block{Stmts: s} }
func param(name string, t *ast.TypeName) *ast.Parameter { return &ast.Parameter{Name: name, Type: t} }
func params(p ...*ast.Parameter) []*ast.Parameter       { return p }

func function(name string, vis ast.Visibility, ps, rs []*ast.Parameter, body ...ast.Stmt) *ast.FunctionDefinition {
	return &ast.FunctionDefinition{Name: name, Visibility: vis, Params: ps, Returns: rs, Body: block(body...)}
}

func stateVar(name string, t *ast.TypeName) *ast.StateVariable {
	return &ast.StateVariable{Name: name, Type: t}
}

type translated struct {
	impl    *ir.Implementation
	builder *Builder
	diags   []errors.CompilerError
}

func translate(t *testing.T, unit *ast.SourceUnit, name string) translated {
	t.Helper()
	c := unit.Contract(name)
	require.NotNil(t, c)
	bases, missing := unit.ResolveBases(c)
	require.Empty(t, missing)

	m := typemap.New(unit, 128)
	storage, diags := layout.Build(c, bases, m, layout.Options{ReservedField: "_reserved"})
	require.Empty(t, diags)
	iface, diags := abi.Generate(c, bases, unit, m)
	require.False(t, errors.HasErrors(diags), "%v", diags)
	evs, _, _ := events.Generate(c, bases, unit, m, events.Options{MaxTopics: 4, HookPrefix: "_"})

	b := New(unit, c, bases, m, Options{HookPrefix: "_"})
	impl := b.Implementation(storage, iface, evs)
	return translated{impl: impl, builder: b, diags: b.Diagnostics()}
}

func (tr translated) message(t *testing.T, name string) *ir.Function {
	t.Helper()
	for _, fn := range tr.impl.Messages {
		if fn.Name == name {
			return fn
		}
	}
	require.Failf(t, "missing message", "%s", name)
	return nil
}

func vault() *ast.SourceUnit {
	position := &ast.StructType{Name: "Position", Fields: []*ast.StructField{
		{Name: "owner", Type: ast.Address()},
		{Name: "amount", Type: ast.Uint(256)},
	}}
	token := &ast.ContractDefinition{Name: "IERC20", Kind: ast.KindInterface, Functions: []*ast.FunctionDefinition{
		{Name: "transfer", Visibility: ast.External,
			Params:  params(param("to", ast.Address()), param("value", ast.Uint(256))),
			Returns: params(param("", ast.Bool()))},
	}}
	transferEvent := &ast.EventDefinition{Name: "Transfer", Params: []*ast.EventParam{
		{Name: "from", Type: ast.Address(), Indexed: true},
		{Name: "to", Type: ast.Address(), Indexed: true},
		{Name: "value", Type: ast.Uint(256)},
	}}

	v := &ast.ContractDefinition{
		Name:    "Vault",
		Structs: []*ast.StructType{position},
		Events:  []*ast.EventDefinition{transferEvent},
		StateVariables: []*ast.StateVariable{
			stateVar("owner", ast.Address()),
			stateVar("token", ast.Named("IERC20")),
			stateVar("balances", ast.Mapping(ast.Address(), ast.Uint(256))),
			stateVar("allowance", ast.Mapping(ast.Address(), ast.Mapping(ast.Address(), ast.Uint(256)))),
			stateVar("last", ast.Named("Position")),
			stateVar("items", ast.Array(ast.Uint(256))),
		},
		Modifiers: []*ast.ModifierDefinition{{
			Name: "onlyOwner",
			Body: block(
				do(call(id("require"), bin("==", sel(id("msg"), "sender"), id("owner")), str("not owner"))),
				&ast.PlaceholderStmt{},
			),
		}},
		Functions: []*ast.FunctionDefinition{
			function("add", ast.External, params(param("a", ast.Uint(256)), param("b", ast.Uint(256))), params(param("", ast.Uint(256))),
				ret(bin("+", id("a"), id("b")))),
			function("addUnchecked", ast.External, params(param("a", ast.Uint(256)), param("b", ast.Uint(256))), params(param("", ast.Uint(256))),
				&ast.Block{Unchecked: true, Stmts: []ast.Stmt{ret(bin("+", id("a"), id("b")))}}),
			function("withdraw", ast.External, params(param("to", ast.Address()), param("amount", ast.Uint(256))), nil,
				assign(idx(id("balances"), sel(id("msg"), "sender")), "=", num("0")),
				do(call(sel(id("token"), "transfer"), id("to"), id("amount"))),
				&ast.EmitStmt{Event: "Transfer", Args: []ast.Expr{sel(id("msg"), "sender"), id("to"), id("amount")}},
			),
			{Name: "setOwner", Visibility: ast.External,
				Params:    params(param("next", ast.Address())),
				Modifiers: []*ast.ModifierInvocation{{Name: "onlyOwner"}},
				Body:      block(assign(id("owner"), "=", id("next")))},
			function("approve", ast.External, params(param("spender", ast.Address()), param("value", ast.Uint(256))), nil,
				assign(idx(idx(id("allowance"), sel(id("msg"), "sender")), id("spender")), "=", id("value"))),
			function("open", ast.External, params(param("amount", ast.Uint(256))), nil,
				assign(id("last"), "=", &ast.CallExpr{
					Callee: id("Position"),
					Args:   []ast.Expr{id("amount"), sel(id("msg"), "sender")},
					Names:  []string{"amount", "owner"},
				})),
			function("folded", ast.External, nil, params(param("total", ast.Uint(256))),
				assign(id("total"), "=", bin("*", num("2"), num("1e3")))),
			function("setItem", ast.External, params(param("i", ast.Uint(256))), nil,
				assign(idx(id("items"), id("i")), "=", num("1"))),
			function("_credit", ast.Internal, params(param("who", ast.Address()), param("amount", ast.Uint(256))), nil,
				assign(idx(id("balances"), id("who")), "+=", id("amount"))),
			function("deposit", ast.External, nil, nil,
				do(call(id("_credit"), sel(id("msg"), "sender"), sel(id("msg"), "value")))),
		},
	}
	return &ast.SourceUnit{Contracts: []*ast.ContractDefinition{token, v}}
}

func TestArithmeticIsCheckedByDefault(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	body := tr.message(t, "add").Body
	require.Len(t, body, 1)
	r := body[0].(*ir.Return)
	try, ok := r.Value.(*ir.Try)
	require.True(t, ok, "got %T", r.Value)
	checked, ok := try.Value.(*ir.Checked)
	require.True(t, ok)
	assert.Equal(t, ir.OpAdd, checked.Op)
	assert.Equal(t, "u128", checked.Type.String())
}

func TestUncheckedBlockWraps(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	r := tr.message(t, "addUnchecked").Body[0].(*ir.Return)
	w, ok := r.Value.(*ir.Wrapping)
	require.True(t, ok, "got %T", r.Value)
	assert.Equal(t, ir.OpAdd, w.Op)
}

func TestStorageWriteStaysBeforeExternalCall(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	body := tr.message(t, "withdraw").Body
	require.GreaterOrEqual(t, len(body), 3)

	insert, ok := body[0].(*ir.MappingInsert)
	require.True(t, ok, "got %T", body[0])
	assert.Equal(t, "balances", insert.Field)

	eval := body[1].(*ir.Eval)
	ext, ok := eval.Expr.(*ir.Try).Value.(*ir.ExternalCall)
	require.True(t, ok)
	assert.Equal(t, "IERC20", ext.Interface)
	assert.Equal(t, "transfer", ext.Message)
	assert.Equal(t, "0xa9059cbb", ext.Selector)
}

func TestEmitGoesThroughHook(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	body := tr.message(t, "withdraw").Body
	hookCall, ok := body[2].(*ir.Eval).Expr.(*ir.Try).Value.(*ir.HookCall)
	require.True(t, ok)
	assert.Equal(t, "_emit_Transfer", hookCall.Hook)
	assert.Len(t, hookCall.Args, 3)

	hook := tr.impl.Hook("_emit_Transfer")
	require.NotNil(t, hook)
	assert.Equal(t, ir.FuncEmitHook, hook.Kind)
	assert.True(t, hook.Overridable)
}

func TestModifierIsInlinedBeforeBody(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	body := tr.message(t, "setOwner").Body
	require.Len(t, body, 3)

	guard, ok := body[0].(*ir.If)
	require.True(t, ok)
	not := guard.Cond.(*ir.Unary)
	assert.Equal(t, "!", not.Op)
	fail := guard.Then[0].(*ir.Fail)
	assert.Equal(t, "not owner", fail.Reason.(*ir.Literal).Value)

	inner, ok := body[1].(*ir.Labeled)
	require.True(t, ok, "got %T", body[1])
	write := inner.Body[0].(*ir.StorageWrite)
	assert.Equal(t, "owner", write.Field)
	assert.IsType(t, &ir.Return{}, body[2])
}

func lockedUnit() *ast.SourceUnit {
	c := &ast.ContractDefinition{
		Name: "Guarded",
		StateVariables: []*ast.StateVariable{
			stateVar("locked", ast.Bool()),
			stateVar("owner", ast.Address()),
			stateVar("bal", ast.Mapping(ast.Address(), ast.Uint(256))),
		},
		Modifiers: []*ast.ModifierDefinition{
			{
				Name: "nonReentrant",
				Body: block(
					do(call(id("require"), &ast.UnaryExpr{Op: "!", Operand: id("locked")}, str("locked"))),
					assign(id("locked"), "=", &ast.BoolLiteral{Value: true}),
					&ast.PlaceholderStmt{},
					assign(id("locked"), "=", &ast.BoolLiteral{Value: false}),
				),
			},
			{
				Name:   "only",
				Params: params(param("account", ast.Address())),
				Body: block(
					do(call(id("require"), bin("==", sel(id("msg"), "sender"), id("account")), str("denied"))),
					&ast.PlaceholderStmt{},
				),
			},
		},
		Functions: []*ast.FunctionDefinition{
			{Name: "f", Visibility: ast.Public,
				Returns:   params(param("", ast.Uint(256))),
				Modifiers: []*ast.ModifierInvocation{{Name: "nonReentrant"}},
				Body:      block(ret(num("1")))},
			{Name: "credit", Visibility: ast.Public,
				Params:    params(param("account", ast.Address())),
				Modifiers: []*ast.ModifierInvocation{{Name: "only", Args: []ast.Expr{id("owner")}}},
				Body:      block(assign(idx(id("bal"), id("account")), "=", num("1")))},
			{Name: "g", Visibility: ast.Public,
				Returns:   params(param("", ast.Uint(256))),
				Modifiers: []*ast.ModifierInvocation{{Name: "nonReentrant"}, {Name: "only", Args: []ast.Expr{id("owner")}}},
				Body:      block(ret(num("2")))},
		},
	}
	return &ast.SourceUnit{Contracts: []*ast.ContractDefinition{c}}
}

func TestReturnInModifiedBodyRunsModifierTail(t *testing.T) {
	tr := translate(t, lockedUnit(), "Guarded")
	require.Empty(t, tr.diags)

	body := tr.message(t, "f").Body
	require.Len(t, body, 6)

	captured := body[0].(*ir.Let)
	assert.Equal(t, "u128", captured.Type.String())
	assert.IsType(t, &ir.If{}, body[1])
	assert.Equal(t, "locked", body[2].(*ir.StorageWrite).Field)

	inner := body[3].(*ir.Labeled)
	require.Len(t, inner.Body, 2)
	set := inner.Body[0].(*ir.Assign)
	assert.Equal(t, captured.Name, set.Target.(*ir.Local).Name)
	assert.Equal(t, "1", set.Value.(*ir.Literal).Value)
	assert.Equal(t, inner.Label, inner.Body[1].(*ir.Break).Label)

	// the unlock after the placeholder is reached
	unlock := body[4].(*ir.StorageWrite)
	assert.Equal(t, "locked", unlock.Field)
	assert.Equal(t, "false", unlock.Value.(*ir.Literal).Value)

	r := body[5].(*ir.Return)
	assert.Equal(t, captured.Name, r.Value.(*ir.Local).Name)
}

func TestModifierParameterKeepsFunctionParameter(t *testing.T) {
	tr := translate(t, lockedUnit(), "Guarded")
	require.Empty(t, tr.diags)

	body := tr.message(t, "credit").Body
	require.Len(t, body, 4)

	bound := body[0].(*ir.Let)
	assert.NotEqual(t, "account", bound.Name)
	assert.Equal(t, "owner", bound.Value.(*ir.FieldRead).Field)

	guard := body[1].(*ir.If)
	cmp := guard.Cond.(*ir.Unary).Operand.(*ir.Binary)
	assert.Equal(t, bound.Name, cmp.Right.(*ir.Local).Name)

	insert := body[2].(*ir.Labeled).Body[0].(*ir.MappingInsert)
	assert.Equal(t, "bal", insert.Field)
	assert.Equal(t, "account", insert.Key.(*ir.Local).Name)
}

func TestNestedModifiersLeaveInnermostPlaceholder(t *testing.T) {
	tr := translate(t, lockedUnit(), "Guarded")
	require.Empty(t, tr.diags)

	body := tr.message(t, "g").Body
	var outer *ir.Labeled
	for _, s := range body {
		if l, ok := s.(*ir.Labeled); ok {
			outer = l
		}
	}
	require.NotNil(t, outer)

	var inner *ir.Labeled
	for _, s := range outer.Body {
		if l, ok := s.(*ir.Labeled); ok {
			inner = l
		}
	}
	require.NotNil(t, inner)
	assert.NotEqual(t, outer.Label, inner.Label)

	leave := inner.Body[len(inner.Body)-1].(*ir.Break)
	assert.Equal(t, inner.Label, leave.Label)

	// the outer modifier's unlock follows its placeholder
	last := body[len(body)-2].(*ir.StorageWrite)
	assert.Equal(t, "locked", last.Field)
	assert.IsType(t, &ir.Return{}, body[len(body)-1])
}

func TestNestedMappingWriteUsesTupleKey(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	insert := tr.message(t, "approve").Body[0].(*ir.MappingInsert)
	assert.Equal(t, "allowance", insert.Field)
	key, ok := insert.Key.(*ir.TupleExpr)
	require.True(t, ok)
	require.Len(t, key.Elements, 2)
	assert.Equal(t, "caller", key.Elements[0].(*ir.Env).Accessor)
	assert.Equal(t, "spender", key.Elements[1].(*ir.Local).Name)
}

func TestStructLiteralFollowsDeclarationOrder(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	write := tr.message(t, "open").Body[0].(*ir.StorageWrite)
	lit, ok := write.Value.(*ir.StructLit)
	require.True(t, ok)
	require.Len(t, lit.Fields, 2)
	assert.Equal(t, "owner", lit.Fields[0].Name)
	assert.Equal(t, "amount", lit.Fields[1].Name)
	assert.IsType(t, &ir.Env{}, lit.Fields[0].Value)
}

func TestLiteralArithmeticIsFolded(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	body := tr.message(t, "folded").Body
	assign := body[1].(*ir.Assign)
	lit, ok := assign.Value.(*ir.Literal)
	require.True(t, ok, "got %T", assign.Value)
	assert.Equal(t, "2000", lit.Value)

	// the named return is returned implicitly
	r := body[len(body)-1].(*ir.Return)
	assert.Equal(t, "total", r.Value.(*ir.Local).Name)
}

func TestStorageSequenceWriteIsUnsupported(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	require.True(t, errors.HasErrors(tr.diags))
	found := false
	for _, d := range tr.diags {
		if d.Code == errors.ErrorUnsupportedNode {
			found = true
			assert.Contains(t, d.Message, "items")
		}
	}
	assert.True(t, found)
}

func TestPrefixedInternalFunctionIsHook(t *testing.T) {
	tr := translate(t, vault(), "Vault")

	credit := tr.impl.Hook("_credit")
	require.NotNil(t, credit)
	assert.Equal(t, ir.FuncInternal, credit.Kind)
	assert.True(t, credit.Overridable)

	eval := tr.message(t, "deposit").Body[0].(*ir.Eval)
	hc, ok := eval.Expr.(*ir.Try).Value.(*ir.HookCall)
	require.True(t, ok)
	assert.Equal(t, "_credit", hc.Hook)

	insert := credit.Body[0].(*ir.MappingInsert)
	_, checked := insert.Value.(*ir.Try)
	assert.True(t, checked, "compound assignment stays checked")
}

func TestFoldingOverflowIsReported(t *testing.T) {
	c := &ast.ContractDefinition{
		Name: "Tiny",
		StateVariables: []*ast.StateVariable{
			{Name: "LIMIT", Type: ast.Uint(8), Constant: true, Value: bin("+", num("200"), num("100"))},
		},
	}
	unit := &ast.SourceUnit{Contracts: []*ast.ContractDefinition{c}}
	b := New(unit, c, nil, typemap.New(unit, 128), Options{})

	consts := b.Constants()
	require.Len(t, consts, 1)
	require.Len(t, b.Diagnostics(), 1)
	assert.Equal(t, errors.ErrorNumericOverflow, b.Diagnostics()[0].Code)
}

func TestConstructorOrder(t *testing.T) {
	base := &ast.ContractDefinition{
		Name:           "Base",
		StateVariables: []*ast.StateVariable{stateVar("total", ast.Uint(256))},
		Functions: []*ast.FunctionDefinition{{
			Name: "constructor", Kind: ast.Constructor,
			Params: params(param("x", ast.Uint(256))),
			Body:   block(assign(id("total"), "=", id("x"))),
		}},
	}
	derived := &ast.ContractDefinition{
		Name:  "Derived",
		Bases: []string{"Base"},
		StateVariables: []*ast.StateVariable{
			{Name: "fee", Type: ast.Uint(256), Value: num("3")},
		},
		Functions: []*ast.FunctionDefinition{{
			Name: "constructor", Kind: ast.Constructor,
			Params:    params(param("supply", ast.Uint(256))),
			Modifiers: []*ast.ModifierInvocation{{Name: "Base", Args: []ast.Expr{id("supply")}}},
			Body:      block(assign(id("fee"), "=", num("5"))),
		}},
	}
	unit := &ast.SourceUnit{Contracts: []*ast.ContractDefinition{base, derived}}
	tr := translate(t, unit, "Derived")
	require.Empty(t, tr.diags)

	ctor := tr.impl.Constructor
	assert.Equal(t, "new", ctor.Name)
	assert.Equal(t, "constructor(uint256)", ctor.Source)
	require.Len(t, ctor.Body, 5)

	// the base is fully constructed before the derived initializers run
	assert.Equal(t, "DerivedData", ctor.Body[0].(*ir.InitStorage).Aggregate)
	baseCall := ctor.Body[1].(*ir.Eval).Expr.(*ir.Try).Value.(*ir.Call)
	assert.Equal(t, "_init_Base", baseCall.Function)
	assert.Equal(t, "supply", baseCall.Args[0].(*ir.Local).Name)
	assert.Equal(t, "fee", ctor.Body[2].(*ir.StorageWrite).Field)
	assert.Equal(t, "3", ctor.Body[2].(*ir.StorageWrite).Value.(*ir.Literal).Value)
	assert.Equal(t, "5", ctor.Body[3].(*ir.StorageWrite).Value.(*ir.Literal).Value)
	assert.IsType(t, &ir.Return{}, ctor.Body[4])

	init := tr.impl.Hook("_init_Base")
	require.NotNil(t, init)
	assert.Equal(t, ir.FuncBaseInit, init.Kind)
	assert.False(t, init.Overridable)
}

func TestDerivedInitializerSeesBaseConstructor(t *testing.T) {
	a := &ast.ContractDefinition{
		Name:           "A",
		StateVariables: []*ast.StateVariable{stateVar("a", ast.Uint(256))},
		Functions: []*ast.FunctionDefinition{{
			Name: "constructor", Kind: ast.Constructor,
			Body: block(assign(id("a"), "=", num("5"))),
		}},
	}
	b := &ast.ContractDefinition{
		Name:  "B",
		Bases: []string{"A"},
		StateVariables: []*ast.StateVariable{
			{Name: "b", Type: ast.Uint(256), Value: bin("+", id("a"), num("1"))},
		},
	}
	tr := translate(t, &ast.SourceUnit{Contracts: []*ast.ContractDefinition{a, b}}, "B")
	require.Empty(t, tr.diags)

	body := tr.impl.Constructor.Body
	require.Len(t, body, 4)
	assert.Equal(t, "_init_A", body[1].(*ir.Eval).Expr.(*ir.Try).Value.(*ir.Call).Function)
	write := body[2].(*ir.StorageWrite)
	assert.Equal(t, "b", write.Field)
	_, reads := write.Value.(*ir.Try)
	assert.True(t, reads, "b is computed with checked arithmetic over a")
}

func TestSafeMathBecomesHelper(t *testing.T) {
	c := &ast.ContractDefinition{
		Name:  "Pool",
		Using: []*ast.UsingDirective{{Library: "SafeMath", Type: ast.Uint(256)}},
		Functions: []*ast.FunctionDefinition{
			function("sum", ast.External, params(param("a", ast.Uint(256)), param("b", ast.Uint(256))), params(param("", ast.Uint(256))),
				ret(call(sel(id("a"), "add"), id("b")))),
		},
	}
	unit := &ast.SourceUnit{Contracts: []*ast.ContractDefinition{c}}
	tr := translate(t, unit, "Pool")
	require.Empty(t, tr.diags)

	r := tr.message(t, "sum").Body[0].(*ir.Return)
	hc := r.Value.(*ir.Try).Value.(*ir.HelperCall)
	assert.Equal(t, "checked_add", hc.Helper)
	assert.Len(t, hc.Args, 2)
	assert.Equal(t, []string{"checked_add"}, tr.builder.Helpers())
}

func TestModularLibraryWraps(t *testing.T) {
	lib := &ast.ContractDefinition{
		Name: "Ring",
		Kind: ast.KindLibrary,
		Functions: []*ast.FunctionDefinition{
			function("next", ast.Internal, params(param("x", ast.Uint(32))), params(param("", ast.Uint(32))),
				ret(bin("+", id("x"), num("1")))),
			function("twice", ast.Internal, params(param("x", ast.Uint(32))), params(param("", ast.Uint(32))),
				ret(call(id("next"), call(id("next"), id("x"))))),
		},
	}
	unit := &ast.SourceUnit{Contracts: []*ast.ContractDefinition{lib}}

	for _, modular := range []bool{true, false} {
		b := New(unit, lib, nil, typemap.New(unit, 128), Options{Modular: func(string) bool { return modular }})
		out, _ := b.Library(lib)
		require.Len(t, out.Functions, 2)
		require.Empty(t, b.Diagnostics())

		next := out.Functions[0]
		assert.Equal(t, modular, next.Modular)
		assert.False(t, next.StorageBound)
		r := next.Body[0].(*ir.Return)
		if modular {
			assert.IsType(t, &ir.Wrapping{}, r.Value)
		} else {
			assert.IsType(t, &ir.Try{}, r.Value)
		}

		twice := out.Functions[1].Body[0].(*ir.Return)
		lc := twice.Value.(*ir.Try).Value.(*ir.LibraryCall)
		assert.Equal(t, "Ring", lc.Library)
		assert.Equal(t, "next", lc.Function)
	}
}

func TestStorageBoundLibrary(t *testing.T) {
	position := &ast.StructType{Name: "Position", Fields: []*ast.StructField{{Name: "amount", Type: ast.Uint(256)}}}
	lib := &ast.ContractDefinition{
		Name:    "Positions",
		Kind:    ast.KindLibrary,
		Structs: []*ast.StructType{position},
		Functions: []*ast.FunctionDefinition{{
			Name:       "grow",
			Visibility: ast.Internal,
			Params: []*ast.Parameter{
				{Name: "self", Type: ast.Named("Position"), Location: ast.Storage},
				param("by", ast.Uint(256)),
			},
			Body: block(assign(sel(id("self"), "amount"), "+=", id("by"))),
		}},
	}
	unit := &ast.SourceUnit{Contracts: []*ast.ContractDefinition{lib}}
	b := New(unit, lib, nil, typemap.New(unit, 128), Options{})
	out, _ := b.Library(lib)
	require.Empty(t, b.Diagnostics())

	grow := out.Functions[0]
	assert.True(t, grow.StorageBound)
	assert.True(t, grow.Mutates)
	a := grow.Body[0].(*ir.Assign)
	assert.Equal(t, "amount", a.Target.(*ir.FieldAccess).Field)
}

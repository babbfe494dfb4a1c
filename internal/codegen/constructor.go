package codegen

import (
	"sol2ink/internal/ast"
	"sol2ink/internal/ir"
)

// BaseInitName is the internal entry running the constructor body of base
func BaseInitName(base string) string {
	return "_init_" + base
}

// constructor builds the initialization routine. The aggregate is
// default-initialized; then, for each contract of the chain in
// linearization order, its state initializers run followed by its
// constructor: a base's through its internal init entry, the contract's
// own inline.
func (b *Builder) constructor() (*ir.Function, []*ir.Function) {
	own := ast.ConstructorOf(b.contract)
	ctor := &ir.Function{
		Name:     "new",
		Source:   "constructor()",
		Kind:     ir.FuncConstructor,
		Declarer: b.contract.Name,
		Returns:  ir.Unit(),
		Mutates:  true,
	}

	f := b.newFunc(nil)
	var params []*ast.Parameter
	if own != nil {
		params = own.Params
		ctor.Source = ast.Signature("constructor", params)
		ctor.Params = b.mapper.MapParams(params)
	}
	for _, p := range params {
		f.declare(p.Name, b.mapper.Map(p.Type))
	}

	body := []ir.Stmt{&ir.InitStorage{Aggregate: b.storage.Name}}
	var inits []*ir.Function
	for _, contract := range b.chain() {
		body = append(body, f.initializers(contract)...)

		if contract == b.contract {
			if own != nil && own.Body != nil {
				body = append(body, f.modified(own.Body, b.modifierChain(own))...)
			}
			continue
		}
		def := ast.ConstructorOf(contract)
		if def == nil || def.Body == nil {
			continue
		}
		inits = append(inits, b.baseInit(contract, def))
		args := f.args(b.baseArgs(contract.Name, own), def.Params)
		call := &ir.Call{Function: BaseInitName(contract.Name), Args: args, Type: ir.Result(ir.Unit())}
		body = append(body, &ir.Eval{Expr: &ir.Try{Value: call, Type: ir.Unit()}})
	}

	if !terminates(body) {
		body = append(body, &ir.Return{})
	}
	ctor.Body = body
	return ctor, inits
}

// initializers writes the declared initial values of contract's fields
func (f *funcCtx) initializers(contract *ast.ContractDefinition) []ir.Stmt {
	var out []ir.Stmt
	for _, v := range contract.StateVariables {
		if v.Constant || v.Value == nil || !f.isField(v.Name) {
			continue
		}
		field := f.b.storage.Field(v.Name)
		out = append(out, &ir.StorageWrite{Field: field.Name, Value: f.coerce(f.expr(v.Value, field.Type), field.Type)})
	}
	return out
}

// baseInit lowers the constructor body of a base into its internal entry
func (b *Builder) baseInit(base *ast.ContractDefinition, def *ast.FunctionDefinition) *ir.Function {
	out := &ir.Function{
		Name:     BaseInitName(base.Name),
		Source:   ast.Signature("constructor", def.Params),
		Kind:     ir.FuncBaseInit,
		Declarer: base.Name,
		Params:   b.mapper.MapParams(def.Params),
		Returns:  ir.Unit(),
		Mutates:  true,
	}
	f := b.newFunc(nil)
	out.Body = f.body(def.Params, def.Body, b.modifierChain(def))
	return out
}

// baseArgs finds the constructor arguments the chain supplies for base,
// either in an inheritance list or as a modifier on a constructor
func (b *Builder) baseArgs(base string, own *ast.FunctionDefinition) []ast.Expr {
	if own != nil {
		for _, inv := range own.Modifiers {
			if inv.Name == base {
				return inv.Args
			}
		}
	}
	for _, contract := range b.chain() {
		for _, arg := range contract.BaseArgs {
			if arg.Name == base && len(arg.Args) > 0 {
				return arg.Args
			}
		}
	}
	return nil
}

// Package codegen generates the executable bodies of a contract: messages,
// internal hooks, the constructor and library functions. Bodies are generic
// over any host that owns the contract's storage aggregate.
package codegen

import (
	"sort"

	"github.com/tliron/commonlog"
	"sol2ink/internal/abi"
	"sol2ink/internal/ast"
	"sol2ink/internal/errors"
	"sol2ink/internal/events"
	"sol2ink/internal/ir"
	"sol2ink/internal/typemap"
)

var log = commonlog.GetLogger("sol2ink.codegen")

// Options configures body generation
type Options struct {
	HookPrefix string

	// Modular reports whether arithmetic inside a library wraps
	Modular func(library string) bool
}

// Builder lowers the bodies of one contract, or of one library. It
// collects diagnostics instead of stopping at the first problem.
type Builder struct {
	unit     *ast.SourceUnit
	contract *ast.ContractDefinition
	bases    []*ast.ContractDefinition
	mapper   *typemap.Mapper
	opts     Options

	storage *ir.StorageAggregate
	events  map[string]*ir.Event

	functions map[string][]*ast.ResolvedFunction
	stateVars map[string]*ast.StateVariable
	modifiers map[string]*ast.ModifierDefinition
	using     []*ast.UsingDirective

	helpers map[string]bool
	diags   []errors.CompilerError
}

// New creates a builder for c, whose linearized bases are given most-base-first
func New(unit *ast.SourceUnit, c *ast.ContractDefinition, bases []*ast.ContractDefinition, m *typemap.Mapper, opts Options) *Builder {
	if opts.Modular == nil {
		opts.Modular = func(string) bool { return false }
	}
	b := &Builder{
		unit:      unit,
		contract:  c,
		bases:     bases,
		mapper:    m,
		opts:      opts,
		events:    make(map[string]*ir.Event),
		functions: make(map[string][]*ast.ResolvedFunction),
		stateVars: make(map[string]*ast.StateVariable),
		modifiers: ast.FlattenModifiers(c, bases),
		helpers:   make(map[string]bool),
	}
	for _, rf := range ast.FlattenFunctions(c, bases) {
		b.functions[rf.Def.Name] = append(b.functions[rf.Def.Name], rf)
	}
	for _, contract := range b.chain() {
		for _, v := range contract.StateVariables {
			b.stateVars[v.Name] = v
		}
		b.using = append(b.using, contract.Using...)
	}
	return b
}

// Diagnostics returns everything reported so far
func (b *Builder) Diagnostics() []errors.CompilerError {
	return b.diags
}

// Helpers lists the runtime helpers referenced by generated bodies
func (b *Builder) Helpers() []string {
	out := make([]string, 0, len(b.helpers))
	for h := range b.helpers {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Implementation generates every body bound to storage. Message order
// follows the interface; internal entries are the internal functions in
// flattened order, then one emit hook per event, then the base
// constructors in linearization order.
func (b *Builder) Implementation(storage *ir.StorageAggregate, iface *abi.Interface, evs []*ir.Event) *ir.Implementation {
	b.storage = storage
	for _, ev := range evs {
		b.events[ev.Name] = ev
	}

	impl := &ir.Implementation{
		Contract:   b.contract.Name,
		StorageKey: storage.Key,
		Capability: storage.Name,
	}

	for _, entry := range iface.Entries {
		if entry.Variable != nil {
			impl.Messages = append(impl.Messages, b.getter(entry))
			continue
		}
		fn := b.function(entry.Function, entry.Declarer, ir.FuncMessage)
		fn.Mutates = entry.Message.Mutates
		impl.Messages = append(impl.Messages, fn)
	}

	for _, rf := range ast.FlattenFunctions(b.contract, b.bases) {
		if rf.Def.Visibility.Externally() {
			continue
		}
		fn := b.function(rf.Def, rf.Declarer, ir.FuncInternal)
		fn.Overridable = b.isHook(rf.Def.Name)
		impl.Internal = append(impl.Internal, fn)
	}
	for _, ev := range evs {
		impl.Internal = append(impl.Internal, events.Hook(ev))
	}

	ctor, inits := b.constructor()
	impl.Constructor = ctor
	impl.Internal = append(impl.Internal, inits...)

	log.Debugf("%s: %d messages, %d internal", b.contract.Name, len(impl.Messages), len(impl.Internal))
	return impl
}

// Constants lowers the constant state variables of the chain
func (b *Builder) Constants() []*ir.Constant {
	var out []*ir.Constant
	for _, contract := range b.chain() {
		for _, v := range contract.StateVariables {
			if !v.Constant {
				continue
			}
			f := b.newFunc(nil)
			t := b.mapper.Map(v.Type)
			var value ir.Expr = &ir.Default{Type: t}
			if v.Value != nil {
				value = f.expr(v.Value, t)
			}
			out = append(out, &ir.Constant{Name: v.Name, Type: t, Value: value})
		}
	}
	return out
}

func (b *Builder) isHook(name string) bool {
	p := b.opts.HookPrefix
	return p != "" && len(name) > len(p) && name[:len(p)] == p
}

func (b *Builder) chain() []*ast.ContractDefinition {
	return append(append([]*ast.ContractDefinition{}, b.bases...), b.contract)
}

func (b *Builder) unsupported(what string, pos ast.Position) ir.Expr {
	b.diags = append(b.diags, errors.Unsupported(what, pos))
	return &ir.Default{Type: ir.Unit()}
}

func (b *Builder) report(d errors.CompilerError) {
	b.diags = append(b.diags, d)
}

// getter reads the state variable behind a public accessor
func (b *Builder) getter(entry *abi.Entry) *ir.Function {
	v := entry.Variable
	msg := entry.Message
	fn := &ir.Function{
		Name:     msg.Name,
		Source:   msg.SourceSignature,
		Kind:     ir.FuncGetter,
		Declarer: entry.Declarer,
		Params:   msg.Params,
		Returns:  msg.Returns.Elem,
	}

	if v.Constant {
		fn.Body = []ir.Stmt{&ir.Return{Value: &ir.ConstRef{Name: v.Name, Type: b.mapper.Map(v.Type)}}}
		return fn
	}

	field := b.storage.Field(v.Name)
	var value ir.Expr = &ir.FieldRead{Field: field.Name, Type: field.Type}
	params := msg.Params
	if field.Type.Kind == ir.KindMapping {
		depth := v.Type.MappingDepth()
		keys := make([]ir.Expr, depth)
		for i := 0; i < depth; i++ {
			keys[i] = &ir.Local{Name: params[i].Name, Type: params[i].Type}
		}
		value = &ir.MappingGet{Field: field.Name, Key: tupleKey(keys), Type: field.Type.Value}
		params = params[depth:]
	}
	for _, p := range params {
		elem := value.ExprType().Elem
		value = &ir.Index{Target: value, Index: &ir.Local{Name: p.Name, Type: p.Type}, Type: elem}
	}
	fn.Body = []ir.Stmt{&ir.Return{Value: value}}
	return fn
}

func tupleKey(keys []ir.Expr) ir.Expr {
	if len(keys) == 1 {
		return keys[0]
	}
	types := make([]*ir.Type, len(keys))
	for i, k := range keys {
		types[i] = k.ExprType()
	}
	return &ir.TupleExpr{Elements: keys, Type: ir.Tuple(types...)}
}

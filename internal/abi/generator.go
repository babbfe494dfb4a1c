// Package abi generates the public message interface of a contract.
package abi

import (
	"fmt"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tliron/commonlog"
	"sol2ink/internal/ast"
	"sol2ink/internal/errors"
	"sol2ink/internal/ir"
	"sol2ink/internal/typemap"
)

var log = commonlog.GetLogger("sol2ink.abi")

// Entry is one generated message together with its source ABI description
type Entry struct {
	Message    *ir.MessageSignature
	Function   *ast.FunctionDefinition // nil for getters
	Variable   *ast.StateVariable      // set for getters
	Declarer   string
	Inputs     []gethabi.ArgumentMarshaling
	Outputs    []gethabi.ArgumentMarshaling
	Mutability string
}

// Interface is the generated interface plus the per-message ABI data
type Interface struct {
	Definition *ir.InterfaceDefinition
	Entries    []*Entry
}

// Generate produces one message per externally visible function in
// declaration order, then one read-only getter per public state variable.
// Overloaded names and storage handles in signatures are structural errors.
func Generate(c *ast.ContractDefinition, bases []*ast.ContractDefinition, unit *ast.SourceUnit, m *typemap.Mapper) (*Interface, []errors.CompilerError) {
	g := &generator{
		contract: c,
		unit:     unit,
		mapper:   m,
		byName:   make(map[string][]string),
		namePos:  make(map[string]ast.Position),
	}

	for _, rf := range ast.FlattenFunctions(c, bases) {
		if !rf.Def.Visibility.Externally() {
			continue
		}
		g.function(rf)
	}
	for _, contract := range append(append([]*ast.ContractDefinition{}, bases...), c) {
		for _, v := range contract.StateVariables {
			if v.Visibility == ast.Public {
				g.getter(v, contract.Name)
			}
		}
	}

	for _, name := range g.order {
		if sigs := g.byName[name]; len(sigs) > 1 {
			g.diags = append(g.diags, errors.Overloaded(c.Name, name, sigs, g.namePos[name]))
		}
	}
	if errors.HasErrors(g.diags) {
		return nil, g.diags
	}

	def := &ir.InterfaceDefinition{Name: c.Name, RefHandle: ir.Ref(c.Name)}
	for _, e := range g.entries {
		def.Messages = append(def.Messages, e.Message)
	}
	log.Debugf("%s: %d messages", c.Name, len(def.Messages))
	return &Interface{Definition: def, Entries: g.entries}, g.diags
}

type generator struct {
	contract *ast.ContractDefinition
	unit     *ast.SourceUnit
	mapper   *typemap.Mapper

	entries []*Entry
	diags   []errors.CompilerError
	byName  map[string][]string
	namePos map[string]ast.Position
	order   []string
}

func (g *generator) function(rf *ast.ResolvedFunction) {
	fn := rf.Def
	params := g.mapper.MapParams(fn.Params)
	returns := g.mapper.MapReturns(fn.Returns)

	ok := true
	for i, p := range params {
		if typemap.ContainsMapping(p.Type) {
			g.diags = append(g.diags, errors.InvalidMessageType(fn.Name, fn.Params[i].Name, p.Type.String(), fn.Params[i].Pos))
			ok = false
		}
	}
	if typemap.ContainsMapping(returns) {
		g.diags = append(g.diags, errors.InvalidMessageType(fn.Name, "return value", returns.String(), fn.Pos))
		ok = false
	}
	if !ok {
		return
	}

	entry := &Entry{
		Function:   fn,
		Declarer:   rf.Declarer,
		Mutability: fn.Mutability.String(),
		Message: &ir.MessageSignature{
			Name:            fn.Name,
			Params:          params,
			Returns:         ir.Result(returns),
			Mutates:         !fn.Mutability.ReadOnly(),
			Payable:         fn.Mutability == ast.Payable,
			SourceSignature: ast.Signature(fn.Name, fn.Params),
		},
	}
	g.selector(entry, fn.Name, fn.Params, fn.Returns)
	g.add(entry, fn.Pos)
}

// getter mirrors the accessor the source compiler generates: mapping keys
// and array indices become parameters, the innermost value is returned.
func (g *generator) getter(v *ast.StateVariable, declarer string) {
	var inputs []*ast.Parameter
	cur := v.Type
	for {
		if cur.Kind == ast.KindMapping {
			inputs = append(inputs, &ast.Parameter{Pos: v.Pos, Name: fmt.Sprintf("key%d", len(inputs)), Type: cur.Key})
			cur = cur.Value
			continue
		}
		if cur.Kind == ast.KindArray {
			inputs = append(inputs, &ast.Parameter{Pos: v.Pos, Name: fmt.Sprintf("index%d", len(inputs)), Type: ast.Uint(256)})
			cur = cur.Elem
			continue
		}
		break
	}
	outputs := []*ast.Parameter{{Pos: v.Pos, Type: cur}}

	entry := &Entry{
		Variable:   v,
		Declarer:   declarer,
		Mutability: ast.View.String(),
		Message: &ir.MessageSignature{
			Name:            v.Name,
			Params:          g.mapper.MapParams(inputs),
			Returns:         ir.Result(g.mapper.Map(cur)),
			Mutates:         false,
			Getter:          true,
			SourceSignature: ast.Signature(v.Name, inputs),
		},
	}
	g.selector(entry, v.Name, inputs, outputs)
	g.add(entry, v.Pos)
}

func (g *generator) add(e *Entry, pos ast.Position) {
	name := e.Message.Name
	if _, ok := g.byName[name]; !ok {
		g.order = append(g.order, name)
		g.namePos[name] = pos
	}
	g.byName[name] = append(g.byName[name], e.Message.SourceSignature)
	g.entries = append(g.entries, e)
}

// selector derives the source-compatible selector through the ABI method
// machinery, so struct parameters are hashed in their tuple form.
func (g *generator) selector(e *Entry, name string, params, returns []*ast.Parameter) {
	inputs, inMarshal, err := Arguments(params, g.unit)
	if err == nil {
		var outputs gethabi.Arguments
		var outMarshal []gethabi.ArgumentMarshaling
		outputs, outMarshal, err = Arguments(returns, g.unit)
		if err == nil {
			method := gethabi.NewMethod(name, name, gethabi.Function, e.Mutability,
				e.Mutability == "view" || e.Mutability == "pure", e.Mutability == "payable", inputs, outputs)
			e.Message.Selector = hexutil.Encode(method.ID)
			e.Message.SourceSignature = method.Sig
			e.Inputs, e.Outputs = inMarshal, outMarshal
			return
		}
	}
	log.Debugf("%s: no ABI encoding (%s), hashing the declared signature", name, err)
	e.Message.Selector = hexutil.Encode(crypto.Keccak256([]byte(e.Message.SourceSignature))[:4])
}

// Selector returns the source selector of name(params) as 0x-prefixed hex
func Selector(name string, params []*ast.Parameter, unit *ast.SourceUnit) string {
	inputs, _, err := Arguments(params, unit)
	if err != nil {
		return hexutil.Encode(crypto.Keccak256([]byte(ast.Signature(name, params)))[:4])
	}
	method := gethabi.NewMethod(name, name, gethabi.Function, "", false, false, inputs, nil)
	return hexutil.Encode(method.ID)
}

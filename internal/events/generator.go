// Package events turns event declarations into target event types and the
// internal hooks that emit them.
package events

import (
	"fmt"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tliron/commonlog"
	"sol2ink/internal/abi"
	"sol2ink/internal/ast"
	"sol2ink/internal/errors"
	"sol2ink/internal/ir"
	"sol2ink/internal/typemap"
)

var log = commonlog.GetLogger("sol2ink.events")

// Options configures event generation
type Options struct {
	MaxTopics  int
	HookPrefix string
}

// HookName is the internal function that emits event
func HookName(prefix, event string) string {
	return prefix + "emit_" + event
}

// Generate produces one event type per declaration visible in c, base
// declarations first. Indexed fields keep their position and become topics.
func Generate(c *ast.ContractDefinition, bases []*ast.ContractDefinition, unit *ast.SourceUnit, m *typemap.Mapper, opts Options) ([]*ir.Event, []abi.EventABI, []errors.CompilerError) {
	var (
		out   []*ir.Event
		descs []abi.EventABI
		diags []errors.CompilerError
	)

	for _, def := range ast.FlattenEvents(c, bases) {
		ev := &ir.Event{
			Name:      def.Name,
			Anonymous: def.Anonymous,
			Hook:      HookName(opts.HookPrefix, def.Name),
		}
		params := make([]*ast.Parameter, len(def.Params))
		for i, p := range def.Params {
			name := p.Name
			if name == "" {
				name = fmt.Sprintf("field%d", i)
			}
			ev.Fields = append(ev.Fields, &ir.EventField{Name: name, Type: m.Map(p.Type), Topic: p.Indexed})
			params[i] = &ast.Parameter{Pos: p.Pos, Name: name, Type: p.Type}
		}

		desc := abi.EventABI{Name: def.Name, Anonymous: def.Anonymous}
		args, marshal, err := abi.Arguments(params, unit)
		if err == nil {
			for i := range args {
				args[i].Indexed = def.Params[i].Indexed
				marshal[i].Indexed = def.Params[i].Indexed
			}
			event := gethabi.NewEvent(def.Name, def.Name, def.Anonymous, args)
			ev.Signature = event.Sig
			ev.Topic = event.ID.Hex()
			desc.Inputs = marshal
			descs = append(descs, desc)
		} else {
			log.Debugf("%s: no ABI encoding (%s)", def.Name, err)
			ev.Signature = ast.Signature(def.Name, params)
			ev.Topic = fmt.Sprintf("0x%x", crypto.Keccak256([]byte(ev.Signature)))
		}
		if def.Anonymous {
			ev.Topic = ""
		}

		topics := ev.Topics()
		if !def.Anonymous {
			topics++
		}
		if opts.MaxTopics > 0 && topics > opts.MaxTopics {
			diags = append(diags, errors.TopicLimit(def.Name, topics, opts.MaxTopics, def.Pos))
		}

		out = append(out, ev)
	}
	log.Debugf("%s: %d events", c.Name, len(out))
	return out, descs, diags
}

// Hook builds the overridable internal function that emits ev. Call sites
// never emit directly; they call this hook.
func Hook(ev *ir.Event) *ir.Function {
	params := make([]*ir.Param, len(ev.Fields))
	args := make([]ir.Expr, len(ev.Fields))
	for i, f := range ev.Fields {
		params[i] = &ir.Param{Name: f.Name, Type: f.Type}
		args[i] = &ir.Local{Name: f.Name, Type: f.Type}
	}
	return &ir.Function{
		Name:        ev.Hook,
		Source:      ev.Name,
		Kind:        ir.FuncEmitHook,
		Params:      params,
		Returns:     ir.Unit(),
		Mutates:     false,
		Overridable: true,
		Body: []ir.Stmt{
			&ir.EmitEvent{Event: ev.Name, Args: args},
			&ir.Return{},
		},
	}
}

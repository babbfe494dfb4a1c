package codegen

import (
	"sol2ink/internal/ast"
	"sol2ink/internal/ir"
)

// Library translates a source library into free functions. A function
// taking a storage reference operates on the caller's storage; arithmetic
// wraps only when the library is configured as modular.
func (b *Builder) Library(lib *ast.ContractDefinition) (*ir.Library, []*ir.Constant) {
	out := &ir.Library{Name: lib.Name}
	modular := b.opts.Modular(lib.Name)

	for _, def := range lib.Functions {
		if def.Kind != ast.OrdinaryFunction || def.Body == nil {
			continue
		}
		bound := storageBound(def)
		fn := &ir.Function{
			Name:         def.Name,
			Source:       ast.Signature(def.Name, def.Params),
			Kind:         ir.FuncLibrary,
			Declarer:     lib.Name,
			Params:       b.mapper.MapParams(def.Params),
			Returns:      b.mapper.MapReturns(def.Returns),
			Mutates:      bound && !def.Mutability.ReadOnly(),
			StorageBound: bound,
			Modular:      modular,
		}
		f := b.newFunc(def.Returns)
		f.library = lib
		f.modular = modular
		fn.Body = f.body(def.Params, def.Body, b.modifierChain(def))
		out.Functions = append(out.Functions, fn)
	}

	log.Debugf("library %s: %d functions (modular=%t)", lib.Name, len(out.Functions), modular)
	return out, b.Constants()
}

func storageBound(def *ast.FunctionDefinition) bool {
	for _, p := range def.Params {
		if p.Location == ast.Storage {
			return true
		}
	}
	return false
}

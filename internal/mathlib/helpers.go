package mathlib

import "sort"

// Helper describes a runtime function the generated code links against.
// Calls into well-known source libraries are lowered to these instead of
// being translated body by body.
type Helper struct {
	Name  string
	Arity int
	// Bits is the operand width the helper is instantiated at; zero means
	// the width of the call site's operands.
	Bits int
	// Result is the width of the returned value when it differs from Bits
	Result int
}

var helpers = map[string]map[string]Helper{
	"SafeMath": {
		"add": {Name: "checked_add", Arity: 2},
		"sub": {Name: "checked_sub", Arity: 2},
		"mul": {Name: "checked_mul", Arity: 2},
		"div": {Name: "checked_div", Arity: 2},
		"mod": {Name: "checked_rem", Arity: 2},
	},
	"Math": {
		"sqrt": {Name: "sqrt", Arity: 1},
		"min":  {Name: "min", Arity: 2},
		"max":  {Name: "max", Arity: 2},
	},
	"UQ112x112": {
		"encode": {Name: "uq112x112_encode", Arity: 1, Bits: Q112Bits, Result: Q112Storage},
		"uqdiv":  {Name: "uq112x112_uqdiv", Arity: 2, Bits: Q112Storage, Result: Q112Storage},
	},
}

// LookupHelper returns the runtime helper for library.function
func LookupHelper(library, function string) (Helper, bool) {
	fns, ok := helpers[library]
	if !ok {
		return Helper{}, false
	}
	h, ok := fns[function]
	return h, ok
}

// IsHelperLibrary reports whether every function of library is provided by
// the runtime
func IsHelperLibrary(library string) bool {
	_, ok := helpers[library]
	return ok
}

// HelperLibraries lists the libraries backed by runtime helpers
func HelperLibraries() []string {
	names := make([]string, 0, len(helpers))
	for name := range helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

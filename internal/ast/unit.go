package ast

import "fmt"

// Contract looks up a contract, interface or library by name
func (u *SourceUnit) Contract(name string) *ContractDefinition {
	for _, c := range u.Contracts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Struct looks up a struct declared at file level or inside any contract
func (u *SourceUnit) Struct(name string) *StructType {
	for _, s := range u.Structs {
		if s.Name == name {
			return s
		}
	}
	for _, c := range u.Contracts {
		for _, s := range c.Structs {
			if s.Name == name {
				return s
			}
		}
	}
	return nil
}

// Enum looks up an enum declared at file level or inside any contract
func (u *SourceUnit) Enum(name string) *EnumType {
	for _, e := range u.Enums {
		if e.Name == name {
			return e
		}
	}
	for _, c := range u.Contracts {
		for _, e := range c.Enums {
			if e.Name == name {
				return e
			}
		}
	}
	return nil
}

// ResolveBases returns the definitions of c.Bases in order. Names that
// cannot be found are returned in missing.
func (u *SourceUnit) ResolveBases(c *ContractDefinition) (bases []*ContractDefinition, missing []string) {
	for _, name := range c.Bases {
		base := u.Contract(name)
		if base == nil {
			missing = append(missing, name)
			continue
		}
		bases = append(bases, base)
	}
	return bases, missing
}

// ResolvedFunction is a function visible in a contract after inheritance,
// along with the contract whose definition wins.
type ResolvedFunction struct {
	Def      *FunctionDefinition
	Declarer string
}

// FlattenFunctions merges the ordinary functions of the chain base-first.
// An override keeps the position of the first declaration so regenerated
// output stays diffable; the most derived body wins.
func FlattenFunctions(c *ContractDefinition, bases []*ContractDefinition) []*ResolvedFunction {
	var out []*ResolvedFunction
	index := make(map[string]int)

	for _, contract := range chain(c, bases) {
		for _, fn := range contract.Functions {
			if fn.Kind != OrdinaryFunction {
				continue
			}
			key := Signature(fn.Name, fn.Params)
			if i, ok := index[key]; ok {
				if fn.Body != nil || out[i].Def.Body == nil {
					out[i] = &ResolvedFunction{Def: fn, Declarer: contract.Name}
				}
				continue
			}
			index[key] = len(out)
			out = append(out, &ResolvedFunction{Def: fn, Declarer: contract.Name})
		}
	}
	return out
}

// FlattenModifiers merges modifiers base-first; derived definitions win
func FlattenModifiers(c *ContractDefinition, bases []*ContractDefinition) map[string]*ModifierDefinition {
	out := make(map[string]*ModifierDefinition)
	for _, contract := range chain(c, bases) {
		for _, m := range contract.Modifiers {
			out[m.Name] = m
		}
	}
	return out
}

// FlattenEvents collects events declared along the chain, first declaration wins
func FlattenEvents(c *ContractDefinition, bases []*ContractDefinition) []*EventDefinition {
	var out []*EventDefinition
	seen := make(map[string]bool)
	for _, contract := range chain(c, bases) {
		for _, e := range contract.Events {
			if seen[e.Name] {
				continue
			}
			seen[e.Name] = true
			out = append(out, e)
		}
	}
	return out
}

// ConstructorOf returns the constructor of a contract, if it declares one
func ConstructorOf(c *ContractDefinition) *FunctionDefinition {
	for _, fn := range c.Functions {
		if fn.Kind == Constructor {
			return fn
		}
	}
	return nil
}

func chain(c *ContractDefinition, bases []*ContractDefinition) []*ContractDefinition {
	out := make([]*ContractDefinition, 0, len(bases)+1)
	out = append(out, bases...)
	return append(out, c)
}

// Linearize computes the C3 linearization of a contract given the direct
// bases of every contract as written in its "is" list. The result is
// most-base-first and excludes the contract itself.
func Linearize(name string, direct map[string][]string) ([]string, error) {
	memo := make(map[string][]string)
	visiting := make(map[string]bool)
	full, err := linearize(name, direct, memo, visiting)
	if err != nil {
		return nil, err
	}

	// full is most-derived-first and starts with name itself
	out := make([]string, 0, len(full)-1)
	for i := len(full) - 1; i >= 1; i-- {
		out = append(out, full[i])
	}
	return out, nil
}

func linearize(name string, direct map[string][]string, memo map[string][]string, visiting map[string]bool) ([]string, error) {
	if l, ok := memo[name]; ok {
		return l, nil
	}
	if visiting[name] {
		return nil, fmt.Errorf("cyclic inheritance through '%s'", name)
	}
	bases, ok := direct[name]
	if !ok {
		return nil, fmt.Errorf("unknown base contract '%s'", name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	// "is A, B" lists bases most-base-like first; C3 merges them reversed
	var seqs [][]string
	reversed := make([]string, 0, len(bases))
	for i := len(bases) - 1; i >= 0; i-- {
		l, err := linearize(bases[i], direct, memo, visiting)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, append([]string(nil), l...))
		reversed = append(reversed, bases[i])
	}
	seqs = append(seqs, reversed)

	result := []string{name}
	for {
		seqs = dropEmpty(seqs)
		if len(seqs) == 0 {
			break
		}
		head := ""
		for _, seq := range seqs {
			if !inTail(seq[0], seqs) {
				head = seq[0]
				break
			}
		}
		if head == "" {
			return nil, fmt.Errorf("linearization of inheritance graph impossible for '%s'", name)
		}
		result = append(result, head)
		for i, seq := range seqs {
			if seq[0] == head {
				seqs[i] = seq[1:]
			}
		}
	}

	memo[name] = result
	return result, nil
}

func inTail(name string, seqs [][]string) bool {
	for _, seq := range seqs {
		for _, n := range seq[1:] {
			if n == name {
				return true
			}
		}
	}
	return false
}

func dropEmpty(seqs [][]string) [][]string {
	out := seqs[:0]
	for _, s := range seqs {
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return out
}

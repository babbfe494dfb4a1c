// Package pipeline runs the translation stages for the contracts of a
// source unit: type mapping, storage layout, interface, events and bodies.
package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"sol2ink/internal/abi"
	"sol2ink/internal/ast"
	"sol2ink/internal/codegen"
	"sol2ink/internal/config"
	sterrors "sol2ink/internal/errors"
	"sol2ink/internal/events"
	"sol2ink/internal/ir"
	"sol2ink/internal/layout"
	"sol2ink/internal/layoutlock"
	"sol2ink/internal/typemap"
)

var log = commonlog.GetLogger("sol2ink.pipeline")

// Result is the translation of one contract. Program is nil when the
// contract could not be translated; Diagnostics then explains why.
type Result struct {
	Contract    string
	Program     *ir.Program
	Interface   *abi.Interface
	EventABI    []abi.EventABI
	Diagnostics []sterrors.CompilerError
}

// Translator translates contracts under one configuration. It is safe for
// concurrent use.
type Translator struct {
	cfg  *config.ProjectConfig
	lock *layoutlock.Lock
}

// New creates a translator, opening the layout lock when one is configured
func New(cfg *config.ProjectConfig) (*Translator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Translator{cfg: cfg}
	if cfg.Layout.LockFile != "" {
		lock, err := layoutlock.Open(cfg.Layout.LockFile)
		if err != nil {
			return nil, err
		}
		t.lock = lock
	}
	return t, nil
}

// Close releases the layout lock
func (t *Translator) Close() error {
	if t.lock == nil {
		return nil
	}
	return t.lock.Close()
}

// Translate translates the named contract, interface or library of unit.
// Structural errors abort the contract: the result then carries no program
// and the returned error is a *errors.TranslationError.
func (t *Translator) Translate(unit *ast.SourceUnit, name string) (*Result, error) {
	c := unit.Contract(name)
	if c == nil {
		return nil, errors.Errorf("no contract named %s", name)
	}
	res := &Result{Contract: name}

	bases, missing := unit.ResolveBases(c)
	if len(missing) > 0 {
		for _, base := range missing {
			d := sterrors.UnresolvedBase(c.Name, base, c.Pos, contractNames(unit))
			d.Contract = name
			res.Diagnostics = append(res.Diagnostics, d)
		}
		return res, &sterrors.TranslationError{Contract: name, Diagnostics: res.Diagnostics}
	}

	m := typemap.New(unit, t.cfg.Target.NativeIntWidth)
	prog := &ir.Program{
		Contract: c.Name,
		Kind:     c.Kind.String(),
		Error:    &ir.ErrorKind{Name: t.cfg.Target.ErrorName, Variant: t.cfg.Target.ErrorVariant, Payload: ir.String()},
	}

	var diags []sterrors.CompilerError
	switch c.Kind {
	case ast.KindLibrary:
		diags = t.library(unit, c, m, prog)
	case ast.KindInterface:
		diags = t.iface(unit, c, bases, m, prog, res)
	default:
		var err error
		if diags, err = t.contract(unit, c, bases, m, prog, res); err != nil {
			return nil, err
		}
	}

	for _, u := range m.Unresolved() {
		diags = append(diags, sterrors.UnresolvedType(u.Name, u.Pos, typeNames(unit)))
	}
	for _, n := range m.Narrowings() {
		diags = append(diags, sterrors.Narrowing(n.Source, n.Target, n.Pos, t.cfg.StrictNarrowing()))
	}
	for i := range diags {
		diags[i].Contract = name
	}
	res.Diagnostics = diags

	if sterrors.HasErrors(diags) {
		log.Infof("%s: not translated (%d diagnostics)", name, len(diags))
		res.Interface, res.EventABI = nil, nil
		return res, &sterrors.TranslationError{Contract: name, Diagnostics: diags}
	}

	if t.lock != nil && prog.Storage != nil {
		if err := t.lock.Put(prog.Storage); err != nil {
			return res, err
		}
	}
	prog.Types = m.UserTypes()
	res.Program = prog
	log.Infof("%s: translated %s", name, prog.Kind)
	return res, nil
}

func (t *Translator) options() codegen.Options {
	return codegen.Options{HookPrefix: t.cfg.Target.HookPrefix, Modular: t.cfg.IsModular}
}

func (t *Translator) library(unit *ast.SourceUnit, c *ast.ContractDefinition, m *typemap.Mapper, prog *ir.Program) []sterrors.CompilerError {
	b := codegen.New(unit, c, nil, m, t.options())
	lib, consts := b.Library(c)
	prog.Libraries = []*ir.Library{lib}
	prog.Constants = consts
	prog.Helpers = b.Helpers()
	return b.Diagnostics()
}

func (t *Translator) iface(unit *ast.SourceUnit, c *ast.ContractDefinition, bases []*ast.ContractDefinition, m *typemap.Mapper, prog *ir.Program, res *Result) []sterrors.CompilerError {
	iface, diags := abi.Generate(c, bases, unit, m)
	evs, descs, evDiags := events.Generate(c, bases, unit, m, t.eventOptions())
	prog.Interface = iface.Definition
	prog.Events = evs
	res.Interface, res.EventABI = iface, descs
	return append(diags, evDiags...)
}

func (t *Translator) eventOptions() events.Options {
	return events.Options{MaxTopics: t.cfg.Target.MaxEventTopics, HookPrefix: t.cfg.Target.HookPrefix}
}

// contract translates a deployable contract. The error is set only when the
// layout lock cannot be read; the recorded layout is then left untouched.
func (t *Translator) contract(unit *ast.SourceUnit, c *ast.ContractDefinition, bases []*ast.ContractDefinition, m *typemap.Mapper, prog *ir.Program, res *Result) ([]sterrors.CompilerError, error) {
	storage, diags := layout.Build(c, bases, m, layout.Options{ReservedField: t.cfg.Target.ReservedField})
	if storage == nil {
		return diags, nil
	}
	if t.lock != nil {
		drift, err := t.lock.Check(storage, c.Pos)
		if err != nil {
			return nil, errors.Wrapf(err, "checking layout lock of %s", c.Name)
		}
		diags = append(diags, drift...)
	}

	iface, ifaceDiags := abi.Generate(c, bases, unit, m)
	evs, descs, evDiags := events.Generate(c, bases, unit, m, t.eventOptions())
	diags = append(append(diags, ifaceDiags...), evDiags...)
	if sterrors.HasErrors(diags) {
		return diags, nil
	}

	b := codegen.New(unit, c, bases, m, t.options())
	prog.Storage = storage
	prog.Interface = iface.Definition
	prog.Events = evs
	prog.Implementation = b.Implementation(storage, iface, evs)
	prog.Constants = b.Constants()
	prog.Helpers = b.Helpers()
	res.Interface, res.EventABI = iface, descs
	return append(diags, b.Diagnostics()...), nil
}

// TranslateAll translates every contract, interface and library of unit
// in parallel. Results follow declaration order. Per-contract failures are
// reported in the results; the error is only set for failures of the run
// itself.
func (t *Translator) TranslateAll(ctx context.Context, unit *ast.SourceUnit) ([]*Result, error) {
	results := make([]*Result, len(unit.Contracts))
	var mu sync.Mutex
	failed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.WorkerCount())
	for i, c := range unit.Contracts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := t.Translate(unit, c.Name)
			var te *sterrors.TranslationError
			if err != nil && !errors.As(err, &te) {
				return errors.Wrapf(err, "translating %s", c.Name)
			}
			if te != nil {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Infof("translated %d of %d contracts", len(results)-failed, len(results))
	return results, nil
}

// typeNames lists every struct, enum and contract name of unit
func typeNames(unit *ast.SourceUnit) []string {
	var names []string
	for _, s := range unit.Structs {
		names = append(names, s.Name)
	}
	for _, e := range unit.Enums {
		names = append(names, e.Name)
	}
	for _, c := range unit.Contracts {
		for _, s := range c.Structs {
			names = append(names, s.Name)
		}
		for _, e := range c.Enums {
			names = append(names, e.Name)
		}
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func contractNames(unit *ast.SourceUnit) []string {
	names := make([]string, len(unit.Contracts))
	for i, c := range unit.Contracts {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

package grammar

import (
	"strconv"
	"strings"

	"sol2ink/internal/ast"
	"sol2ink/internal/builtins"
	sterrors "sol2ink/internal/errors"
)

// Binding strength of binary operators, higher binds tighter
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"|":  5,
	"^":  6,
	"&":  7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

// Number suffixes and their multipliers
var units = map[string]string{
	"wei":     "1",
	"gwei":    "1000000000",
	"ether":   "1000000000000000000",
	"seconds": "1",
	"minutes": "60",
	"hours":   "3600",
	"days":    "86400",
	"weeks":   "604800",
}

// lowerer turns the parse tree into the AST, collecting diagnostics
type lowerer struct {
	filename string
	diags    []sterrors.CompilerError
}

func (l *lowerer) file(f *File) *ast.SourceUnit {
	unit := &ast.SourceUnit{Filename: l.filename}
	direct := make(map[string][]string)
	var order []*ast.ContractDefinition

	for _, el := range f.Elements {
		switch {
		case el.Contract != nil:
			c := l.contract(el.Contract)
			names := make([]string, len(el.Contract.Bases))
			for i, b := range el.Contract.Bases {
				names[i] = b.Path[len(b.Path)-1]
			}
			direct[c.Name] = names
			order = append(order, c)
			unit.Contracts = append(unit.Contracts, c)
		case el.Struct != nil:
			unit.Structs = append(unit.Structs, l.structType(el.Struct))
		case el.Enum != nil:
			unit.Enums = append(unit.Enums, l.enum(el.Enum))
		}
	}

	for _, c := range order {
		c.Bases = l.linearize(c, direct)
	}
	return unit
}

// linearize computes the most-base-first chain of c. Unknown bases stay in
// the chain so that translating c reports them.
func (l *lowerer) linearize(c *ast.ContractDefinition, direct map[string][]string) []string {
	if unknown := unknownBases(c.Name, direct); len(unknown) > 0 {
		return append(append([]string(nil), direct[c.Name]...), unknown...)
	}
	chain, err := ast.Linearize(c.Name, direct)
	if err != nil {
		l.diags = append(l.diags, sterrors.NewDiagnostic(sterrors.ErrorUnresolvedBase, err.Error(), c.Pos).
			WithLength(len(c.Name)).
			Build())
		return direct[c.Name]
	}
	return chain
}

// unknownBases lists the names reachable from name that are not declared
func unknownBases(name string, direct map[string][]string) []string {
	var out []string
	seen := map[string]bool{name: true}
	stack := append([]string(nil), direct[name]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n] {
			continue
		}
		seen[n] = true
		bases, ok := direct[n]
		if !ok {
			out = append(out, n)
			continue
		}
		stack = append(stack, bases...)
	}
	return out
}

func (l *lowerer) contract(g *Contract) *ast.ContractDefinition {
	c := &ast.ContractDefinition{
		Pos:      position(g.Pos),
		Name:     g.Name,
		Abstract: g.Abstract,
	}
	switch g.Kind {
	case "interface":
		c.Kind = ast.KindInterface
	case "library":
		c.Kind = ast.KindLibrary
	}

	for _, b := range g.Bases {
		if len(b.Args) > 0 {
			c.BaseArgs = append(c.BaseArgs, &ast.BaseSpecifier{
				Pos:  position(b.Pos),
				Name: b.Path[len(b.Path)-1],
				Args: l.exprs(b.Args),
			})
		}
	}

	for _, p := range g.Parts {
		switch {
		case p.Using != nil:
			u := &ast.UsingDirective{Pos: position(p.Using.Pos), Library: p.Using.Library[len(p.Using.Library)-1]}
			if !p.Using.Star && p.Using.Type != nil {
				u.Type = l.typeName(p.Using.Type)
			}
			c.Using = append(c.Using, u)
		case p.Struct != nil:
			c.Structs = append(c.Structs, l.structType(p.Struct))
		case p.Enum != nil:
			c.Enums = append(c.Enums, l.enum(p.Enum))
		case p.Event != nil:
			c.Events = append(c.Events, l.event(p.Event))
		case p.Modifier != nil:
			c.Modifiers = append(c.Modifiers, &ast.ModifierDefinition{
				Pos:    position(p.Modifier.Pos),
				Name:   p.Modifier.Name,
				Params: l.params(p.Modifier.Params),
				Body:   l.block(p.Modifier.Body),
			})
		case p.Function != nil:
			c.Functions = append(c.Functions, l.function(p.Function, c.Kind))
		case p.Variable != nil:
			c.StateVariables = append(c.StateVariables, l.stateVar(p.Variable))
		}
	}
	return c
}

func (l *lowerer) structType(g *Struct) *ast.StructType {
	s := &ast.StructType{Pos: position(g.Pos), Name: g.Name}
	for _, f := range g.Fields {
		s.Fields = append(s.Fields, &ast.StructField{Pos: position(f.Pos), Name: f.Name, Type: l.typeName(f.Type)})
	}
	return s
}

func (l *lowerer) enum(g *Enum) *ast.EnumType {
	return &ast.EnumType{Pos: position(g.Pos), Name: g.Name, Values: g.Values}
}

func (l *lowerer) event(g *Event) *ast.EventDefinition {
	e := &ast.EventDefinition{Pos: position(g.Pos), Name: g.Name, Anonymous: g.Anonymous}
	for _, p := range g.Params {
		e.Params = append(e.Params, &ast.EventParam{
			Pos:     position(p.Pos),
			Name:    p.Name,
			Type:    l.typeName(p.Type),
			Indexed: p.Indexed,
		})
	}
	return e
}

func (l *lowerer) function(g *Function, kind ast.ContractKind) *ast.FunctionDefinition {
	fn := &ast.FunctionDefinition{
		Pos:        position(g.Pos),
		Name:       g.Name,
		Visibility: ast.Public,
		Params:     l.params(g.Params),
		Returns:    l.params(g.Returns),
		Body:       l.block(g.Body),
	}
	switch g.Kind {
	case "constructor":
		fn.Kind = ast.Constructor
		fn.Name = "constructor"
	case "fallback":
		fn.Kind = ast.Fallback
		fn.Name = "fallback"
	case "receive":
		fn.Kind = ast.Receive
		fn.Name = "receive"
	}
	if kind == ast.KindInterface {
		fn.Visibility = ast.External
	}
	if kind == ast.KindLibrary {
		fn.Visibility = ast.Internal
	}

	for _, a := range g.Attrs {
		switch {
		case a.Override != nil:
			fn.Override = true
		case a.Modifier != nil:
			fn.Modifiers = append(fn.Modifiers, &ast.ModifierInvocation{
				Pos:  position(a.Modifier.Pos),
				Name: a.Modifier.Name,
				Args: l.exprs(a.Modifier.Args),
			})
		default:
			switch a.Keyword {
			case "public":
				fn.Visibility = ast.Public
			case "private":
				fn.Visibility = ast.Private
			case "internal":
				fn.Visibility = ast.Internal
			case "external":
				fn.Visibility = ast.External
			case "pure":
				fn.Mutability = ast.Pure
			case "view":
				fn.Mutability = ast.View
			case "payable":
				fn.Mutability = ast.Payable
			case "virtual":
				fn.Virtual = true
			}
		}
	}
	return fn
}

func (l *lowerer) stateVar(g *StateVar) *ast.StateVariable {
	v := &ast.StateVariable{
		Pos:        position(g.Pos),
		Name:       g.Name,
		Type:       l.typeName(g.Type),
		Visibility: ast.Internal,
	}
	if g.Value != nil {
		v.Value = l.expr(g.Value)
	}
	for _, a := range g.Attrs {
		switch a {
		case "public":
			v.Visibility = ast.Public
		case "private":
			v.Visibility = ast.Private
		case "constant":
			v.Constant = true
		case "immutable":
			v.Immutable = true
		}
	}
	return v
}

func (l *lowerer) params(list []*Param) []*ast.Parameter {
	var out []*ast.Parameter
	for _, p := range list {
		param := &ast.Parameter{Pos: position(p.Pos), Name: p.Name, Type: l.typeName(p.Type)}
		switch p.Location {
		case "memory":
			param.Location = ast.Memory
		case "storage":
			param.Location = ast.Storage
		case "calldata":
			param.Location = ast.Calldata
		}
		out = append(out, param)
	}
	return out
}

func (l *lowerer) typeName(g *TypeName) *ast.TypeName {
	var t *ast.TypeName
	if m := g.Base.Mapping; m != nil {
		t = ast.Mapping(l.typeName(m.Key), l.typeName(m.Value))
	} else {
		name := g.Base.Path[len(g.Base.Path)-1]
		if len(g.Base.Path) > 1 {
			t = ast.Named(name)
		} else if el, ok := builtins.ElementaryType(name); ok {
			t = el
		} else {
			t = ast.Named(name)
		}
	}
	for _, d := range g.Dims {
		if d.Length == "" {
			t = ast.Array(t)
			continue
		}
		n, err := strconv.ParseInt(strings.ReplaceAll(d.Length, "_", ""), 0, 32)
		if err != nil || n <= 0 {
			l.diags = append(l.diags, sterrors.SyntaxError("invalid array length "+d.Length, position(g.Pos)))
			n = 1
		}
		t = ast.FixedArray(t, int(n))
	}
	t.Pos = position(g.Pos)
	return t
}

func (l *lowerer) block(g *Block) *ast.Block {
	if g == nil {
		return nil
	}
	b := &ast.Block{Pos: position(g.Pos)}
	for _, s := range g.Stmts {
		b.Stmts = append(b.Stmts, l.stmt(s))
	}
	return b
}

func (l *lowerer) stmt(g *Statement) ast.Stmt {
	pos := position(g.Pos)
	switch {
	case g.Block != nil:
		return l.block(g.Block)
	case g.Unchecked != nil:
		b := l.block(g.Unchecked)
		b.Unchecked = true
		return b
	case g.If != nil:
		s := &ast.IfStmt{Pos: pos, Cond: l.expr(g.If.Cond), Then: l.stmt(g.If.Then)}
		if g.If.Else != nil {
			s.Else = l.stmt(g.If.Else)
		}
		return s
	case g.While != nil:
		return &ast.WhileStmt{Pos: pos, Cond: l.expr(g.While.Cond), Body: l.stmt(g.While.Body)}
	case g.For != nil:
		s := &ast.ForStmt{Pos: pos, Body: l.stmt(g.For.Body)}
		if init := g.For.Init; init != nil {
			if init.VarDecl != nil {
				s.Init = l.varDecl(init.VarDecl)
			} else {
				s.Init = l.simple(init.Expr.Simple)
			}
		}
		if g.For.Cond != nil {
			s.Cond = l.expr(g.For.Cond)
		}
		if g.For.Post != nil {
			s.Post = l.simple(g.For.Post)
		}
		return s
	case g.Return != nil:
		s := &ast.ReturnStmt{Pos: pos}
		if g.Return.Value != nil {
			s.Value = l.expr(g.Return.Value)
		}
		return s
	case g.Emit != nil:
		return &ast.EmitStmt{Pos: pos, Event: g.Emit.Event[len(g.Emit.Event)-1], Args: l.exprs(g.Emit.Args)}
	case g.Revert != nil:
		s := &ast.RevertStmt{Pos: pos}
		if g.Revert.Reason != nil {
			s.Reason = l.expr(g.Revert.Reason)
		}
		return s
	case g.Placeholder != nil:
		return &ast.PlaceholderStmt{Pos: pos}
	case g.VarDecl != nil:
		return l.varDecl(g.VarDecl)
	default:
		return l.simple(g.Expr.Simple)
	}
}

func (l *lowerer) varDecl(g *VarDecl) *ast.VarDeclStmt {
	s := &ast.VarDeclStmt{Pos: position(g.Pos), Name: g.Name, Type: l.typeName(g.Type)}
	if g.Value != nil {
		s.Value = l.expr(g.Value)
	}
	return s
}

// simple lowers expression statements; increments become compound
// assignments
func (l *lowerer) simple(g *SimpleStatement) ast.Stmt {
	pos := position(g.Pos)
	target := l.expr(g.Target)
	switch {
	case g.Assign != nil:
		return &ast.AssignStmt{Pos: pos, Target: target, Op: g.Assign.Op, Value: l.expr(g.Assign.Value)}
	case g.Step != "":
		return step(pos, target, g.Step)
	}
	if u, ok := target.(*ast.UnaryExpr); ok && (u.Op == "++" || u.Op == "--") {
		return step(pos, u.Operand, u.Op)
	}
	return &ast.ExprStmt{Pos: pos, Expr: target}
}

func step(pos ast.Position, target ast.Expr, op string) *ast.AssignStmt {
	return &ast.AssignStmt{Pos: pos, Target: target, Op: op[:1] + "=", Value: &ast.NumberLiteral{Pos: pos, Value: "1"}}
}

func (l *lowerer) exprs(list []*Expr) []ast.Expr {
	var out []ast.Expr
	for _, e := range list {
		out = append(out, l.expr(e))
	}
	return out
}

func (l *lowerer) expr(g *Expr) ast.Expr {
	cond := l.binary(g.Binary)
	if g.Ternary == nil {
		return cond
	}
	return &ast.ConditionalExpr{
		Pos:  position(g.Pos),
		Cond: cond,
		Then: l.expr(g.Ternary.Then),
		Else: l.expr(g.Ternary.Else),
	}
}

// binary applies operator precedence to the flat operand list by
// precedence climbing. "**" is right-associative.
func (l *lowerer) binary(g *BinaryExpr) ast.Expr {
	operands := []ast.Expr{l.unary(g.Left)}
	for _, op := range g.Ops {
		operands = append(operands, l.unary(op.Right))
	}
	i := 0
	return l.climb(g.Ops, operands, &i, 0)
}

func (l *lowerer) climb(ops []*BinOp, operands []ast.Expr, i *int, min int) ast.Expr {
	left := operands[*i]
	for *i < len(ops) {
		op := ops[*i]
		prec := precedence[op.Operator]
		if prec < min {
			break
		}
		*i++
		next := prec + 1
		if op.Operator == "**" {
			next = prec
		}
		right := l.climb(ops, operands, i, next)
		left = &ast.BinaryExpr{Pos: position(op.Pos), Op: op.Operator, Left: left, Right: right}
	}
	return left
}

func (l *lowerer) unary(g *UnaryExpr) ast.Expr {
	e := l.postfix(g.Value)
	for i := len(g.Operators) - 1; i >= 0; i-- {
		e = &ast.UnaryExpr{Pos: position(g.Pos), Op: g.Operators[i], Operand: e}
	}
	return e
}

func (l *lowerer) postfix(g *PostfixExpr) ast.Expr {
	e := l.primary(g.Primary)
	for _, s := range g.Suffix {
		pos := position(s.Pos)
		switch {
		case s.Member != "":
			e = &ast.MemberExpr{Pos: pos, Target: e, Member: s.Member}
		case s.Index != nil:
			e = &ast.IndexExpr{Pos: pos, Target: e, Index: l.expr(s.Index)}
		case s.Call != nil:
			call := &ast.CallExpr{Pos: pos, Callee: e}
			if s.Call.Named != nil {
				for _, a := range s.Call.Named.Args {
					call.Names = append(call.Names, a.Name)
					call.Args = append(call.Args, l.expr(a.Value))
				}
			} else {
				call.Args = l.exprs(s.Call.Args)
			}
			e = call
		}
	}
	return e
}

func (l *lowerer) primary(g *PrimaryExpr) ast.Expr {
	pos := position(g.Pos)
	switch {
	case g.Number != nil:
		n := &ast.NumberLiteral{Pos: pos, Value: g.Number.Value}
		if g.Number.Unit == "" || units[g.Number.Unit] == "1" {
			return n
		}
		return &ast.BinaryExpr{Pos: pos, Op: "*", Left: n, Right: &ast.NumberLiteral{Pos: pos, Value: units[g.Number.Unit]}}
	case len(g.Strings) > 0:
		var sb strings.Builder
		for _, s := range g.Strings {
			sb.WriteString(unquote(s))
		}
		return &ast.StringLiteral{Pos: pos, Value: sb.String()}
	case g.Bool != "":
		return &ast.BoolLiteral{Pos: pos, Value: g.Bool == "true"}
	case g.Paren != nil:
		return l.expr(g.Paren)
	default:
		return &ast.Identifier{Pos: pos, Name: g.Ident}
	}
}

// unquote strips the quotes of a single- or double-quoted literal and
// resolves its escapes
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	body := s[1 : len(s)-1]
	if s[0] == '\'' {
		body = strings.ReplaceAll(body, `\'`, `'`)
		body = strings.ReplaceAll(body, `"`, `\"`)
	}
	if v, err := strconv.Unquote(`"` + body + `"`); err == nil {
		return v
	}
	return body
}

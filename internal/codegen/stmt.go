package codegen

import (
	"sol2ink/internal/ast"
	"sol2ink/internal/ir"
)

// Reasons used when the source gives none
const (
	reasonRequire = ""
	reasonAssert  = "assertion failed"
	reasonRevert  = ""
)

func (f *funcCtx) stmts(list []ast.Stmt) []ir.Stmt {
	var out []ir.Stmt
	for _, s := range list {
		out = append(out, f.stmt(s)...)
	}
	return out
}

// stmt lowers one statement. Source order is kept exactly: in particular no
// storage write is ever moved across an external call.
func (f *funcCtx) stmt(s ast.Stmt) []ir.Stmt {
	switch s := s.(type) {
	case *ast.Block:
		return f.block(s)

	case *ast.VarDeclStmt:
		t := f.b.mapper.Map(s.Type)
		var value ir.Expr = &ir.Default{Type: t}
		if s.Value != nil {
			value = f.coerce(f.expr(s.Value, t), t)
		}
		return []ir.Stmt{&ir.Let{Name: f.declare(s.Name, t), Type: t, Value: value}}

	case *ast.AssignStmt:
		return f.assign(s)

	case *ast.ExprStmt:
		return f.exprStmt(s)

	case *ast.IfStmt:
		out := &ir.If{Cond: f.expr(s.Cond, ir.Bool())}
		out.Then = f.nested(s.Then)
		if s.Else != nil {
			out.Else = f.nested(s.Else)
		}
		return []ir.Stmt{out}

	case *ast.WhileStmt:
		return []ir.Stmt{&ir.While{Cond: f.expr(s.Cond, ir.Bool()), Body: f.nested(s.Body)}}

	case *ast.ForStmt:
		f.push()
		defer f.pop()
		var out []ir.Stmt
		if s.Init != nil {
			out = append(out, f.stmt(s.Init)...)
		}
		var cond ir.Expr = &ir.Literal{Kind: ir.LitBool, Value: "true", Type: ir.Bool()}
		if s.Cond != nil {
			cond = f.expr(s.Cond, ir.Bool())
		}
		body := f.nested(s.Body)
		if s.Post != nil {
			body = append(body, f.stmt(s.Post)...)
		}
		return append(out, &ir.While{Cond: cond, Body: body})

	case *ast.ReturnStmt:
		return f.ret(s)

	case *ast.EmitStmt:
		return []ir.Stmt{f.emit(s)}

	case *ast.RevertStmt:
		return []ir.Stmt{f.fail(s.Reason, reasonRevert)}

	case *ast.PlaceholderStmt:
		if f.placeholder == nil {
			f.b.unsupported("placeholder outside of a modifier", s.Pos)
			return nil
		}
		return f.placeholder()

	default:
		f.b.unsupported("statement", s.NodePos())
		return nil
	}
}

func (f *funcCtx) block(b *ast.Block) []ir.Stmt {
	f.push()
	defer f.pop()
	saved := f.unchecked
	if b.Unchecked {
		f.unchecked = true
	}
	defer func() { f.unchecked = saved }()
	return f.stmts(b.Stmts)
}

// nested lowers the body of a branch or loop in its own scope
func (f *funcCtx) nested(s ast.Stmt) []ir.Stmt {
	if b, ok := s.(*ast.Block); ok {
		return f.block(b)
	}
	f.push()
	defer f.pop()
	return f.stmt(s)
}

func (f *funcCtx) fail(reason ast.Expr, fallback string) ir.Stmt {
	if reason == nil {
		return &ir.Fail{Reason: &ir.Literal{Kind: ir.LitString, Value: fallback, Type: ir.String()}}
	}
	return &ir.Fail{Reason: f.expr(reason, ir.String())}
}

// guard lowers require and assert into an early failure
func (f *funcCtx) guard(call *ast.CallExpr, fallback string) ir.Stmt {
	if len(call.Args) == 0 {
		f.b.unsupported("condition without an argument", call.Pos)
		return &ir.Eval{Expr: &ir.Default{Type: ir.Unit()}}
	}
	cond := f.expr(call.Args[0], ir.Bool())
	var reason ast.Expr
	if len(call.Args) > 1 {
		reason = call.Args[1]
	}
	return &ir.If{
		Cond: &ir.Unary{Op: "!", Operand: cond, Type: ir.Bool()},
		Then: []ir.Stmt{f.fail(reason, fallback)},
	}
}

func (f *funcCtx) exprStmt(s *ast.ExprStmt) []ir.Stmt {
	switch e := s.Expr.(type) {
	case *ast.CallExpr:
		if id, ok := e.Callee.(*ast.Identifier); ok {
			switch id.Name {
			case "require":
				return []ir.Stmt{f.guard(e, reasonRequire)}
			case "assert":
				return []ir.Stmt{f.guard(e, reasonAssert)}
			case "revert":
				var reason ast.Expr
				if len(e.Args) > 0 {
					reason = e.Args[0]
				}
				return []ir.Stmt{f.fail(reason, reasonRevert)}
			}
		}
	case *ast.UnaryExpr:
		if e.Op == "delete" {
			target := f.expr(e.Operand, nil)
			return f.write(e.Operand, &ir.Default{Type: target.ExprType()})
		}
	}
	return []ir.Stmt{&ir.Eval{Expr: f.expr(s.Expr, nil)}}
}

// emit routes event emission through the event's hook
func (f *funcCtx) emit(s *ast.EmitStmt) ir.Stmt {
	ev, ok := f.b.events[s.Event]
	if !ok {
		return &ir.Eval{Expr: f.b.unsupported("event '"+s.Event+"'", s.Pos)}
	}
	if len(s.Args) != len(ev.Fields) {
		return &ir.Eval{Expr: f.b.unsupported("emit with wrong argument count", s.Pos)}
	}
	args := make([]ir.Expr, len(s.Args))
	for i, a := range s.Args {
		args[i] = f.coerce(f.expr(a, ev.Fields[i].Type), ev.Fields[i].Type)
	}
	call := &ir.HookCall{Hook: ev.Hook, Args: args, Type: ir.Result(ir.Unit())}
	return &ir.Eval{Expr: &ir.Try{Value: call, Type: ir.Unit()}}
}

var compound = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
	"|=": "|", "&=": "&", "^=": "^", "<<=": "<<", ">>=": ">>",
}

func (f *funcCtx) assign(s *ast.AssignStmt) []ir.Stmt {
	current := f.expr(s.Target, nil)
	t := current.ExprType()

	var value ir.Expr
	if op, ok := compound[s.Op]; ok {
		value = f.binary(op, current, f.expr(s.Value, t), s.Pos)
	} else {
		value = f.coerce(f.expr(s.Value, t), t)
	}
	return f.write(s.Target, value)
}

// write stores value into an assignable source expression
func (f *funcCtx) write(target ast.Expr, value ir.Expr) []ir.Stmt {
	root, path, keys := f.place(target)
	if root == "" {
		// a local, or a member or element of one
		return []ir.Stmt{&ir.Assign{Target: f.expr(target, nil), Value: value}}
	}

	field := f.b.storage.Field(root)
	if field == nil {
		f.b.unsupported("assignment to '"+root+"'", target.NodePos())
		return nil
	}
	if len(keys) > 0 {
		return []ir.Stmt{&ir.MappingInsert{Field: root, Key: tupleKey(keys), Path: path, Value: value}}
	}
	return []ir.Stmt{&ir.StorageWrite{Field: root, Path: path, Value: value}}
}

// place decomposes an assignment target rooted at a storage field into the
// field name, the member path and the mapping keys. Targets rooted at a
// local return an empty root.
func (f *funcCtx) place(target ast.Expr) (root string, path []string, keys []ir.Expr) {
	switch e := target.(type) {
	case *ast.Identifier:
		if _, ok := f.local(e.Name); ok {
			return "", nil, nil
		}
		if f.isField(e.Name) {
			return e.Name, nil, nil
		}
		return "", nil, nil

	case *ast.MemberExpr:
		root, path, keys = f.place(e.Target)
		if root == "" {
			return "", nil, nil
		}
		return root, append(path, e.Member), keys

	case *ast.IndexExpr:
		if name, idx, ok := f.mappingChain(e); ok {
			return name, nil, idx
		}
		if r, _, _ := f.place(e.Target); r != "" {
			f.b.unsupported("element write into storage sequence '"+r+"'", e.Pos)
		}
		return "", nil, nil
	}
	return "", nil, nil
}

func (f *funcCtx) isField(name string) bool {
	if f.b.storage == nil {
		return false
	}
	return f.b.storage.Field(name) != nil
}

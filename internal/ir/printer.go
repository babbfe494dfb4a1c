package ir

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for translated programs
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new program printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the string representation of a translated program
func Print(program *Program) string {
	p := NewPrinter()
	p.printProgram(program)
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

// printProgram prints the entire program
func (p *Printer) printProgram(program *Program) {
	p.writeLine("%s %s (sol2ink)", strings.ToUpper(program.Kind), program.Contract)
	p.writeLine("")

	if program.Error != nil {
		p.writeLine("ERROR %s::%s(%s)", program.Error.Name, program.Error.Variant, program.Error.Payload)
		p.writeLine("")
	}

	if s := program.Storage; s != nil {
		p.writeLine("STORAGE %s key=0x%08x:", s.Name, s.Key)
		p.indent++
		for _, f := range s.Fields {
			p.writeLine("[%d] %-16s : %-28s ; %s (%s)", f.Index, f.Name, f.Type, f.Source, f.Declarer)
		}
		if s.Reserved != nil {
			p.writeLine("[%d] %-16s : %s", s.Reserved.Index, s.Reserved.Name, s.Reserved.Type)
		}
		p.indent--
		p.writeLine("")
	}

	for _, c := range program.Constants {
		p.writeLine("CONST %s: %s = %s", c.Name, c.Type, ExprString(c.Value))
	}
	if len(program.Constants) > 0 {
		p.writeLine("")
	}

	if iface := program.Interface; iface != nil {
		p.writeLine("INTERFACE %s (handle %s):", iface.Name, iface.RefHandle)
		p.indent++
		for _, m := range iface.Messages {
			receiver := "&self"
			if m.Mutates {
				receiver = "&mut self"
			}
			p.writeLine("%s %s(%s) -> %s ; %s",
				m.Selector, m.Name, paramList(receiver, m.Params), m.Returns, m.SourceSignature)
		}
		p.indent--
		p.writeLine("")
	}

	if len(program.Events) > 0 {
		p.writeLine("EVENTS:")
		p.indent++
		for _, e := range program.Events {
			fields := make([]string, len(e.Fields))
			for i, f := range e.Fields {
				if f.Topic {
					fields[i] = fmt.Sprintf("#[topic] %s: %s", f.Name, f.Type)
				} else {
					fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
				}
			}
			p.writeLine("%s { %s } via %s ; %s", e.Name, strings.Join(fields, ", "), e.Hook, e.Signature)
		}
		p.indent--
		p.writeLine("")
	}

	if len(program.Helpers) > 0 {
		p.writeLine("HELPERS: %s", strings.Join(program.Helpers, ", "))
		p.writeLine("")
	}

	if impl := program.Implementation; impl != nil {
		p.writeLine("IMPL %s for T: %s", impl.Contract, impl.Capability)
		p.indent++
		if impl.Constructor != nil {
			p.printFunction(impl.Constructor)
		}
		for _, fn := range impl.Messages {
			p.printFunction(fn)
		}
		p.indent--
		p.writeLine("")
		p.writeLine("INTERNAL %s for T: %s", impl.Contract, impl.Capability)
		p.indent++
		for _, fn := range impl.Internal {
			p.printFunction(fn)
		}
		p.indent--
		p.writeLine("")
	}

	for _, lib := range program.Libraries {
		p.writeLine("LIBRARY %s:", lib.Name)
		p.indent++
		for _, fn := range lib.Functions {
			p.printFunction(fn)
		}
		p.indent--
		p.writeLine("")
	}
}

func (p *Printer) printFunction(fn *Function) {
	var tags []string
	if fn.Overridable {
		tags = append(tags, "overridable")
	}
	if fn.StorageBound {
		tags = append(tags, "storage-bound")
	}
	if fn.Modular {
		tags = append(tags, "modular")
	}
	suffix := ""
	if len(tags) > 0 {
		suffix = " #[" + strings.Join(tags, ", ") + "]"
	}

	receiver := "&self"
	if fn.Mutates {
		receiver = "&mut self"
	}
	if fn.Kind == FuncLibrary && !fn.StorageBound {
		receiver = ""
	}
	// every generated body can fail with the shared error
	p.writeLine("fn %s(%s) -> %s {%s", fn.Name, paramList(receiver, fn.Params), Result(fn.Returns), suffix)
	p.indent++
	p.printStmts(fn.Body)
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printStmts(stmts []Stmt) {
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *Printer) printStmt(s Stmt) {
	switch s := s.(type) {
	case *InitStorage:
		p.writeLine("init %s::default();", s.Aggregate)
	case *Let:
		p.writeLine("let mut %s: %s = %s;", s.Name, s.Type, ExprString(s.Value))
	case *Assign:
		p.writeLine("%s = %s;", ExprString(s.Target), ExprString(s.Value))
	case *StorageWrite:
		p.writeLine("self.data().%s = %s;", strings.Join(append([]string{s.Field}, s.Path...), "."), ExprString(s.Value))
	case *MappingInsert:
		if len(s.Path) > 0 {
			p.writeLine("self.data().%s.update(%s, .%s = %s);", s.Field, ExprString(s.Key), strings.Join(s.Path, "."), ExprString(s.Value))
		} else {
			p.writeLine("self.data().%s.insert(%s, %s);", s.Field, ExprString(s.Key), ExprString(s.Value))
		}
	case *Eval:
		p.writeLine("%s;", ExprString(s.Expr))
	case *If:
		p.writeLine("if %s {", ExprString(s.Cond))
		p.indent++
		p.printStmts(s.Then)
		p.indent--
		if len(s.Else) > 0 {
			p.writeLine("} else {")
			p.indent++
			p.printStmts(s.Else)
			p.indent--
		}
		p.writeLine("}")
	case *While:
		p.writeLine("while %s {", ExprString(s.Cond))
		p.indent++
		p.printStmts(s.Body)
		p.indent--
		p.writeLine("}")
	case *Return:
		if s.Value == nil {
			p.writeLine("return Ok(());")
		} else {
			p.writeLine("return Ok(%s);", ExprString(s.Value))
		}
	case *Labeled:
		p.writeLine("'%s: {", s.Label)
		p.indent++
		p.printStmts(s.Body)
		p.indent--
		p.writeLine("}")
	case *Break:
		p.writeLine("break '%s;", s.Label)
	case *Fail:
		p.writeLine("return Err(Error::Custom(%s));", ExprString(s.Reason))
	case *EmitEvent:
		p.writeLine("emit %s(%s);", s.Event, exprList(s.Args))
	default:
		p.writeLine("<unknown statement %T>", s)
	}
}

// ExprString renders an expression in target pseudo-syntax
func ExprString(e Expr) string {
	switch e := e.(type) {
	case nil:
		return "()"
	case *Local:
		return e.Name
	case *Literal:
		if e.Kind == LitString {
			return fmt.Sprintf("%q", e.Value)
		}
		return e.Value
	case *ConstRef:
		return e.Name
	case *FieldRead:
		return "self.data()." + e.Field
	case *MappingGet:
		return fmt.Sprintf("self.data().%s.get(%s).unwrap_or_default()", e.Field, ExprString(e.Key))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", ExprString(e.Left), e.Op, ExprString(e.Right))
	case *Checked:
		return fmt.Sprintf("%s.checked_%s(%s)", ExprString(e.Left), e.Op, ExprString(e.Right))
	case *Wrapping:
		return fmt.Sprintf("%s.wrapping_%s(%s)", ExprString(e.Left), e.Op, ExprString(e.Right))
	case *Unary:
		return e.Op + ExprString(e.Operand)
	case *Call:
		return fmt.Sprintf("self.%s(%s)", e.Function, exprList(e.Args))
	case *HookCall:
		return fmt.Sprintf("self.%s(%s)", e.Hook, exprList(e.Args))
	case *ExternalCall:
		return fmt.Sprintf("%s::%s(&%s, %s)", e.Interface, e.Message, ExprString(e.Handle), exprList(e.Args))
	case *LibraryCall:
		return fmt.Sprintf("%s::%s(%s)", e.Library, e.Function, exprList(e.Args))
	case *HelperCall:
		return fmt.Sprintf("%s(%s)", e.Helper, exprList(e.Args))
	case *Env:
		return fmt.Sprintf("env().%s()", e.Accessor)
	case *Transfer:
		return fmt.Sprintf("env().transfer(%s, %s)", ExprString(e.To), ExprString(e.Amount))
	case *StructLit:
		fields := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = fmt.Sprintf("%s: %s", f.Name, ExprString(f.Value))
		}
		return fmt.Sprintf("%s { %s }", e.Type, strings.Join(fields, ", "))
	case *EnumVariant:
		return e.Enum + "::" + e.Variant
	case *FieldAccess:
		return ExprString(e.Target) + "." + e.Field
	case *Index:
		return fmt.Sprintf("%s[%s]", ExprString(e.Target), ExprString(e.Index))
	case *Len:
		return ExprString(e.Target) + ".len()"
	case *Cast:
		return fmt.Sprintf("(%s as %s)", ExprString(e.Value), e.Type)
	case *RefFrom:
		return fmt.Sprintf("%s::from(%s)", e.Type, ExprString(e.Address))
	case *Try:
		return ExprString(e.Value) + "?"
	case *Conditional:
		return fmt.Sprintf("if %s { %s } else { %s }", ExprString(e.Cond), ExprString(e.Then), ExprString(e.Else))
	case *TupleExpr:
		return "(" + exprList(e.Elements) + ")"
	case *Default:
		return fmt.Sprintf("%s::default()", e.Type)
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func exprList(args []Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = ExprString(a)
	}
	return strings.Join(parts, ", ")
}

func paramList(receiver string, params []*Param) string {
	parts := make([]string, 0, len(params)+1)
	if receiver != "" {
		parts = append(parts, receiver)
	}
	for _, prm := range params {
		parts = append(parts, fmt.Sprintf("%s: %s", prm.Name, prm.Type))
	}
	return strings.Join(parts, ", ")
}

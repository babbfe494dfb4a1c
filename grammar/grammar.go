package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type File struct {
	Elements []*Element `parser:"@@*"`
}

type Element struct {
	Directive *Directive `parser:"  @@"`
	Contract  *Contract  `parser:"| @@"`
	Struct    *Struct    `parser:"| @@"`
	Enum      *Enum      `parser:"| @@"`
}

// Directive is a pragma or import; both are skipped
type Directive struct {
	Kind string   `parser:"@(\"pragma\" | \"import\")"`
	Rest []string `parser:"{ @~\";\" } \";\""`
}

type Contract struct {
	Pos      lexer.Position
	Abstract bool       `parser:"[ @\"abstract\" ]"`
	Kind     string     `parser:"@(\"contract\" | \"interface\" | \"library\")"`
	Name     string     `parser:"@Ident"`
	Bases    []*Inherit `parser:"[ \"is\" @@ { \",\" @@ } ]"`
	Parts    []*Part    `parser:"\"{\" @@* \"}\""`
}

type Inherit struct {
	Pos  lexer.Position
	Path []string `parser:"@Ident { \".\" @Ident }"`
	Args []*Expr  `parser:"[ \"(\" [ @@ { \",\" @@ } ] \")\" ]"`
}

type Part struct {
	Using    *Using    `parser:"  @@"`
	Struct   *Struct   `parser:"| @@"`
	Enum     *Enum     `parser:"| @@"`
	Event    *Event    `parser:"| @@"`
	Modifier *Modifier `parser:"| @@"`
	Function *Function `parser:"| @@"`
	Variable *StateVar `parser:"| @@"`
}

type Using struct {
	Pos     lexer.Position
	Library []string  `parser:"\"using\" @Ident { \".\" @Ident } \"for\""`
	Star    bool      `parser:"[ @\"*\" ]"`
	Type    *TypeName `parser:"[ @@ ] \";\""`
}

type Struct struct {
	Pos    lexer.Position
	Name   string         `parser:"\"struct\" @Ident \"{\""`
	Fields []*StructField `parser:"@@* \"}\""`
}

type StructField struct {
	Pos  lexer.Position
	Type *TypeName `parser:"@@"`
	Name string    `parser:"@Ident \";\""`
}

type Enum struct {
	Pos    lexer.Position
	Name   string   `parser:"\"enum\" @Ident \"{\""`
	Values []string `parser:"[ @Ident { \",\" @Ident } ] \"}\""`
}

type Event struct {
	Pos       lexer.Position
	Name      string        `parser:"\"event\" @Ident \"(\""`
	Params    []*EventParam `parser:"[ @@ { \",\" @@ } ] \")\""`
	Anonymous bool          `parser:"[ @\"anonymous\" ] \";\""`
}

type EventParam struct {
	Pos     lexer.Position
	Type    *TypeName `parser:"@@"`
	Indexed bool      `parser:"[ @\"indexed\" ]"`
	Name    string    `parser:"[ @Ident ]"`
}

type Modifier struct {
	Pos    lexer.Position
	Name   string   `parser:"\"modifier\" @Ident"`
	Params []*Param `parser:"[ \"(\" [ @@ { \",\" @@ } ] \")\" ]"`
	Attrs  []string `parser:"{ @(\"virtual\" | \"override\") }"`
	Body   *Block   `parser:"@@"`
}

type Function struct {
	Pos     lexer.Position
	Kind    string      `parser:"@(\"function\" | \"constructor\" | \"fallback\" | \"receive\")"`
	Name    string      `parser:"[ @Ident ]"`
	Params  []*Param    `parser:"\"(\" [ @@ { \",\" @@ } ] \")\""`
	Attrs   []*FuncAttr `parser:"@@*"`
	Returns []*Param    `parser:"[ \"returns\" \"(\" @@ { \",\" @@ } \")\" ]"`
	Body    *Block      `parser:"( \";\" | @@ )"`
}

type FuncAttr struct {
	Keyword  string        `parser:"  @(\"public\" | \"private\" | \"internal\" | \"external\" | \"pure\" | \"view\" | \"payable\" | \"virtual\")"`
	Override *Override     `parser:"| @@"`
	Modifier *ModifierCall `parser:"| @@"`
}

type Override struct {
	Bases []string `parser:"\"override\" [ \"(\" @Ident { \",\" @Ident } \")\" ]"`
}

type ModifierCall struct {
	Pos  lexer.Position
	Name string  `parser:"@Ident"`
	Args []*Expr `parser:"[ \"(\" [ @@ { \",\" @@ } ] \")\" ]"`
}

type Param struct {
	Pos      lexer.Position
	Type     *TypeName `parser:"@@"`
	Location string    `parser:"[ @(\"memory\" | \"storage\" | \"calldata\") ]"`
	Name     string    `parser:"[ @Ident ]"`
}

type StateVar struct {
	Pos   lexer.Position
	Type  *TypeName `parser:"@@"`
	Attrs []string  `parser:"{ @(\"public\" | \"private\" | \"internal\" | \"constant\" | \"immutable\" | \"override\") }"`
	Name  string    `parser:"@Ident"`
	Value *Expr     `parser:"[ \"=\" @@ ] \";\""`
}

type TypeName struct {
	Pos  lexer.Position
	Base *BaseType   `parser:"@@"`
	Dims []*ArrayDim `parser:"@@*"`
}

type BaseType struct {
	Mapping *MappingType `parser:"  @@"`
	Path    []string     `parser:"| @Ident { \".\" @Ident } [ \"payable\" ]"`
}

type MappingType struct {
	Key   *TypeName `parser:"\"mapping\" \"(\" @@ [ Ident ] \"=>\""`
	Value *TypeName `parser:"@@ [ Ident ] \")\""`
}

type ArrayDim struct {
	Length string `parser:"\"[\" [ @Number ] \"]\""`
}

type Block struct {
	Pos   lexer.Position
	Stmts []*Statement `parser:"\"{\" @@* \"}\""`
}

type Statement struct {
	Pos         lexer.Position
	Block       *Block         `parser:"  @@"`
	Unchecked   *Block         `parser:"| \"unchecked\" @@"`
	If          *IfStmt        `parser:"| @@"`
	While       *WhileStmt     `parser:"| @@"`
	For         *ForStmt       `parser:"| @@"`
	Return      *ReturnStmt    `parser:"| @@"`
	Emit        *EmitStmt      `parser:"| @@"`
	Revert      *RevertStmt    `parser:"| @@"`
	Placeholder *Placeholder   `parser:"| @@"`
	VarDecl     *VarDecl       `parser:"| @@"`
	Expr        *ExprStatement `parser:"| @@"`
}

type IfStmt struct {
	Cond *Expr      `parser:"\"if\" \"(\" @@ \")\""`
	Then *Statement `parser:"@@"`
	Else *Statement `parser:"[ \"else\" @@ ]"`
}

type WhileStmt struct {
	Cond *Expr      `parser:"\"while\" \"(\" @@ \")\""`
	Body *Statement `parser:"@@"`
}

type ForStmt struct {
	Init *ForInit         `parser:"\"for\" \"(\" ( @@ | \";\" )"`
	Cond *Expr            `parser:"[ @@ ] \";\""`
	Post *SimpleStatement `parser:"[ @@ ] \")\""`
	Body *Statement       `parser:"@@"`
}

type ForInit struct {
	VarDecl *VarDecl       `parser:"  @@"`
	Expr    *ExprStatement `parser:"| @@"`
}

type ReturnStmt struct {
	Value *Expr `parser:"\"return\" [ @@ ] \";\""`
}

type EmitStmt struct {
	Event []string `parser:"\"emit\" @Ident { \".\" @Ident }"`
	Args  []*Expr  `parser:"\"(\" [ @@ { \",\" @@ } ] \")\" \";\""`
}

type RevertStmt struct {
	Reason *Expr `parser:"\"revert\" [ \"(\" [ @@ ] \")\" ] \";\""`
}

type Placeholder struct {
	Underscore string `parser:"@\"_\" \";\""`
}

type VarDecl struct {
	Pos      lexer.Position
	Type     *TypeName `parser:"@@"`
	Location string    `parser:"[ @(\"memory\" | \"storage\" | \"calldata\") ]"`
	Name     string    `parser:"@Ident"`
	Value    *Expr     `parser:"[ \"=\" @@ ] \";\""`
}

type ExprStatement struct {
	Simple *SimpleStatement `parser:"@@ \";\""`
}

// SimpleStatement is an expression, an assignment or an increment
type SimpleStatement struct {
	Pos    lexer.Position
	Target *Expr       `parser:"@@"`
	Assign *AssignTail `parser:"[ @@ ]"`
	Step   string      `parser:"[ @(\"++\" | \"--\") ]"`
}

type AssignTail struct {
	Op    string `parser:"@(\"=\" | \"+=\" | \"-=\" | \"*=\" | \"/=\" | \"%=\" | \"|=\" | \"&=\" | \"^=\" | \"<<=\" | \">>=\")"`
	Value *Expr  `parser:"@@"`
}

type Expr struct {
	Pos     lexer.Position
	Binary  *BinaryExpr `parser:"@@"`
	Ternary *Ternary    `parser:"[ @@ ]"`
}

type Ternary struct {
	Then *Expr `parser:"\"?\" @@"`
	Else *Expr `parser:"\":\" @@"`
}

type BinaryExpr struct {
	Left *UnaryExpr `parser:"@@"`
	Ops  []*BinOp   `parser:"@@*"`
}

type BinOp struct {
	Pos      lexer.Position
	Operator string     `parser:"@(\"**\" | \"*\" | \"/\" | \"%\" | \"+\" | \"-\" | \"<<\" | \">>\" | \"&\" | \"^\" | \"|\" | \"<\" | \"<=\" | \">\" | \">=\" | \"==\" | \"!=\" | \"&&\" | \"||\")"`
	Right    *UnaryExpr `parser:"@@"`
}

type UnaryExpr struct {
	Pos       lexer.Position
	Operators []string     `parser:"{ @(\"!\" | \"-\" | \"~\" | \"delete\" | \"++\" | \"--\") }"`
	Value     *PostfixExpr `parser:"@@"`
}

type PostfixExpr struct {
	Primary *PrimaryExpr `parser:"@@"`
	Suffix  []*Suffix    `parser:"@@*"`
}

type Suffix struct {
	Pos    lexer.Position
	Member string    `parser:"  \".\" @Ident"`
	Index  *Expr     `parser:"| \"[\" @@ \"]\""`
	Call   *CallArgs `parser:"| @@"`
}

type CallArgs struct {
	Named *NamedArgs `parser:"\"(\" [ @@ ]"`
	Args  []*Expr    `parser:"[ @@ { \",\" @@ } ] \")\""`
}

type NamedArgs struct {
	Args []*NamedArg `parser:"\"{\" [ @@ { \",\" @@ } ] \"}\""`
}

type NamedArg struct {
	Name  string `parser:"@Ident \":\""`
	Value *Expr  `parser:"@@"`
}

type PrimaryExpr struct {
	Pos     lexer.Position
	Number  *NumberLit `parser:"  @@"`
	Strings []string   `parser:"| @String { @String }"`
	Bool    string     `parser:"| @(\"true\" | \"false\")"`
	Paren   *Expr      `parser:"| \"(\" @@ \")\""`
	Ident   string     `parser:"| @(Ident | \"payable\")"`
}

type NumberLit struct {
	Value string `parser:"@Number"`
	Unit  string `parser:"[ @(\"wei\" | \"gwei\" | \"ether\" | \"seconds\" | \"minutes\" | \"hours\" | \"days\" | \"weeks\") ]"`
}

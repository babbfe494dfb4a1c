package ast

// Stmt is any statement inside a function, modifier or constructor body
type Stmt interface {
	Node
	stmtNode()
}

// Expr is any expression
type Expr interface {
	Node
	exprNode()
}

// Block represents a braced statement list
// Example: "{ balance[to] += amount; }", "unchecked { i++; }"
type Block struct {
	Pos       Position
	Stmts     []Stmt
	Unchecked bool
}

// VarDeclStmt represents a local variable declaration
// Example: "uint256 fee = amount / 100;"
type VarDeclStmt struct {
	Pos   Position
	Name  string
	Type  *TypeName
	Value Expr // nil when declared without initializer
}

// AssignStmt represents plain and compound assignments, including ++ and --
// Example: "total = total + x;", "balances[to] += amount;"
type AssignStmt struct {
	Pos    Position
	Target Expr
	Op     string // "=", "+=", "-=", "*=", "/=", "%="
	Value  Expr
}

// ExprStmt represents an expression evaluated for its effect
// Example: "require(owner == msg.sender, \"not owner\");"
type ExprStmt struct {
	Pos  Position
	Expr Expr
}

// IfStmt represents a conditional
type IfStmt struct {
	Pos  Position
	Cond Expr
	Then Stmt
	Else Stmt // optional
}

// WhileStmt represents a while loop
type WhileStmt struct {
	Pos  Position
	Cond Expr
	Body Stmt
}

// ForStmt represents a for loop
// Example: "for (uint i = 0; i < n; i++) { ... }"
type ForStmt struct {
	Pos  Position
	Init Stmt // optional
	Cond Expr // optional
	Post Stmt // optional
	Body Stmt
}

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Pos   Position
	Value Expr // nil for a bare "return;"
}

// EmitStmt represents event emission
// Example: "emit Transfer(from, to, amount);"
type EmitStmt struct {
	Pos   Position
	Event string
	Args  []Expr
}

// RevertStmt represents an explicit revert
// Example: "revert(\"insufficient balance\");"
type RevertStmt struct {
	Pos    Position
	Reason Expr // optional
}

// PlaceholderStmt is the "_;" inside a modifier body
type PlaceholderStmt struct {
	Pos Position
}

func (*Block) stmtNode()           {}
func (*VarDeclStmt) stmtNode()     {}
func (*AssignStmt) stmtNode()      {}
func (*ExprStmt) stmtNode()        {}
func (*IfStmt) stmtNode()          {}
func (*WhileStmt) stmtNode()       {}
func (*ForStmt) stmtNode()         {}
func (*ReturnStmt) stmtNode()      {}
func (*EmitStmt) stmtNode()        {}
func (*RevertStmt) stmtNode()      {}
func (*PlaceholderStmt) stmtNode() {}

// Identifier references a local, parameter, state variable, function or type
type Identifier struct {
	Pos  Position
	Name string
}

// NumberLiteral holds the literal text, decimal or 0x-prefixed hex
type NumberLiteral struct {
	Pos   Position
	Value string
}

// StringLiteral holds an unquoted string literal
type StringLiteral struct {
	Pos   Position
	Value string
}

// BoolLiteral holds true or false
type BoolLiteral struct {
	Pos   Position
	Value bool
}

// BinaryExpr represents binary operations
// Example: "a + b", "balance >= amount", "x && y"
type BinaryExpr struct {
	Pos   Position
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr represents prefix operations
// Example: "!paused", "-x", "~mask"
type UnaryExpr struct {
	Pos     Position
	Op      string
	Operand Expr
}

// CallExpr represents function calls, type conversions and struct constructors.
// Names is set when the call uses named arguments: "S({a: 1, b: 2})".
type CallExpr struct {
	Pos    Position
	Callee Expr
	Args   []Expr
	Names  []string
}

// MemberExpr represents member access
// Example: "msg.sender", "token.transfer", "pos.amount"
type MemberExpr struct {
	Pos    Position
	Target Expr
	Member string
}

// IndexExpr represents mapping or array indexing
// Example: "balances[owner]", "allowance[owner][spender]"
type IndexExpr struct {
	Pos    Position
	Target Expr
	Index  Expr
}

// ConditionalExpr represents "cond ? a : b"
type ConditionalExpr struct {
	Pos  Position
	Cond Expr
	Then Expr
	Else Expr
}

func (*Identifier) exprNode()      {}
func (*NumberLiteral) exprNode()   {}
func (*StringLiteral) exprNode()   {}
func (*BoolLiteral) exprNode()     {}
func (*BinaryExpr) exprNode()      {}
func (*UnaryExpr) exprNode()       {}
func (*CallExpr) exprNode()        {}
func (*MemberExpr) exprNode()      {}
func (*IndexExpr) exprNode()       {}
func (*ConditionalExpr) exprNode() {}

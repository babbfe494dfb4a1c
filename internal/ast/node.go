package ast

import "fmt"

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// NodeType identifies the concrete kind of an AST node
type NodeType int

const (
	SOURCE_UNIT NodeType = iota
	CONTRACT
	STATE_VARIABLE
	FUNCTION
	MODIFIER
	EVENT
	STRUCT
	ENUM
	TYPE_NAME

	BLOCK
	VAR_DECL_STMT
	ASSIGN_STMT
	EXPR_STMT
	IF_STMT
	WHILE_STMT
	FOR_STMT
	RETURN_STMT
	EMIT_STMT
	REVERT_STMT
	PLACEHOLDER_STMT

	IDENTIFIER
	NUMBER_LITERAL
	STRING_LITERAL
	BOOL_LITERAL
	BINARY_EXPR
	UNARY_EXPR
	CALL_EXPR
	MEMBER_EXPR
	INDEX_EXPR
	CONDITIONAL_EXPR
)

// Node is implemented by every AST node
type Node interface {
	NodePos() Position
	NodeType() NodeType
}

func (*SourceUnit) NodeType() NodeType         { return SOURCE_UNIT }
func (*ContractDefinition) NodeType() NodeType { return CONTRACT }
func (*StateVariable) NodeType() NodeType      { return STATE_VARIABLE }
func (*FunctionDefinition) NodeType() NodeType { return FUNCTION }
func (*ModifierDefinition) NodeType() NodeType { return MODIFIER }
func (*EventDefinition) NodeType() NodeType    { return EVENT }
func (*StructType) NodeType() NodeType         { return STRUCT }
func (*EnumType) NodeType() NodeType           { return ENUM }
func (*TypeName) NodeType() NodeType           { return TYPE_NAME }

func (s *SourceUnit) NodePos() Position         { return Position{Filename: s.Filename, Line: 1, Column: 1} }
func (c *ContractDefinition) NodePos() Position { return c.Pos }
func (v *StateVariable) NodePos() Position      { return v.Pos }
func (f *FunctionDefinition) NodePos() Position { return f.Pos }
func (m *ModifierDefinition) NodePos() Position { return m.Pos }
func (e *EventDefinition) NodePos() Position    { return e.Pos }
func (s *StructType) NodePos() Position         { return s.Pos }
func (e *EnumType) NodePos() Position           { return e.Pos }
func (t *TypeName) NodePos() Position           { return t.Pos }

func (*Block) NodeType() NodeType           { return BLOCK }
func (*VarDeclStmt) NodeType() NodeType     { return VAR_DECL_STMT }
func (*AssignStmt) NodeType() NodeType      { return ASSIGN_STMT }
func (*ExprStmt) NodeType() NodeType        { return EXPR_STMT }
func (*IfStmt) NodeType() NodeType          { return IF_STMT }
func (*WhileStmt) NodeType() NodeType       { return WHILE_STMT }
func (*ForStmt) NodeType() NodeType         { return FOR_STMT }
func (*ReturnStmt) NodeType() NodeType      { return RETURN_STMT }
func (*EmitStmt) NodeType() NodeType        { return EMIT_STMT }
func (*RevertStmt) NodeType() NodeType      { return REVERT_STMT }
func (*PlaceholderStmt) NodeType() NodeType { return PLACEHOLDER_STMT }

func (b *Block) NodePos() Position           { return b.Pos }
func (s *VarDeclStmt) NodePos() Position     { return s.Pos }
func (s *AssignStmt) NodePos() Position      { return s.Pos }
func (s *ExprStmt) NodePos() Position        { return s.Pos }
func (s *IfStmt) NodePos() Position          { return s.Pos }
func (s *WhileStmt) NodePos() Position       { return s.Pos }
func (s *ForStmt) NodePos() Position         { return s.Pos }
func (s *ReturnStmt) NodePos() Position      { return s.Pos }
func (s *EmitStmt) NodePos() Position        { return s.Pos }
func (s *RevertStmt) NodePos() Position      { return s.Pos }
func (s *PlaceholderStmt) NodePos() Position { return s.Pos }

func (*Identifier) NodeType() NodeType      { return IDENTIFIER }
func (*NumberLiteral) NodeType() NodeType   { return NUMBER_LITERAL }
func (*StringLiteral) NodeType() NodeType   { return STRING_LITERAL }
func (*BoolLiteral) NodeType() NodeType     { return BOOL_LITERAL }
func (*BinaryExpr) NodeType() NodeType      { return BINARY_EXPR }
func (*UnaryExpr) NodeType() NodeType       { return UNARY_EXPR }
func (*CallExpr) NodeType() NodeType        { return CALL_EXPR }
func (*MemberExpr) NodeType() NodeType      { return MEMBER_EXPR }
func (*IndexExpr) NodeType() NodeType       { return INDEX_EXPR }
func (*ConditionalExpr) NodeType() NodeType { return CONDITIONAL_EXPR }

func (e *Identifier) NodePos() Position      { return e.Pos }
func (e *NumberLiteral) NodePos() Position   { return e.Pos }
func (e *StringLiteral) NodePos() Position   { return e.Pos }
func (e *BoolLiteral) NodePos() Position     { return e.Pos }
func (e *BinaryExpr) NodePos() Position      { return e.Pos }
func (e *UnaryExpr) NodePos() Position       { return e.Pos }
func (e *CallExpr) NodePos() Position        { return e.Pos }
func (e *MemberExpr) NodePos() Position      { return e.Pos }
func (e *IndexExpr) NodePos() Position       { return e.Pos }
func (e *ConditionalExpr) NodePos() Position { return e.Pos }

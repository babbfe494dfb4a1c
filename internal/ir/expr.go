package ir

// Expr is a target expression. Every expression knows its target type.
type Expr interface {
	ExprType() *Type
	exprNode()
}

// ArithOp is an arithmetic operator subject to overflow semantics
type ArithOp string

const (
	OpAdd ArithOp = "add"
	OpSub ArithOp = "sub"
	OpMul ArithOp = "mul"
	OpDiv ArithOp = "div"
	OpMod ArithOp = "rem"
	OpPow ArithOp = "pow"
)

// LitKind classifies literals
type LitKind string

const (
	LitInt    LitKind = "int"
	LitBool   LitKind = "bool"
	LitString LitKind = "string"
)

// Local reads a local variable or parameter
type Local struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// Literal is a constant value; integers are kept as decimal text
type Literal struct {
	Kind  LitKind `json:"lit"`
	Value string  `json:"value"`
	Type  *Type   `json:"type"`
}

// ConstRef reads a compile-time contract constant
type ConstRef struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// FieldRead reads a storage field of the bound aggregate
type FieldRead struct {
	Field string `json:"field"`
	Type  *Type  `json:"type"`
}

// MappingGet reads a key from a mapping-backed storage field, yielding the
// value type's default when the key is absent
type MappingGet struct {
	Field string `json:"field"`
	Key   Expr   `json:"key"`
	Type  *Type  `json:"type"`
}

// Binary is a non-arithmetic binary operation (comparison, logic, bitwise)
type Binary struct {
	Op    string `json:"op"`
	Left  Expr   `json:"left"`
	Right Expr   `json:"right"`
	Type  *Type  `json:"type"`
}

// Checked is overflow-checked arithmetic. It yields the outcome type and is
// always wrapped in Try by the generator.
type Checked struct {
	Op    ArithOp `json:"op"`
	Left  Expr    `json:"left"`
	Right Expr    `json:"right"`
	Type  *Type   `json:"type"`
}

// Wrapping is modular arithmetic, only produced for unchecked scopes and
// libraries flagged as modular
type Wrapping struct {
	Op    ArithOp `json:"op"`
	Left  Expr    `json:"left"`
	Right Expr    `json:"right"`
	Type  *Type   `json:"type"`
}

// Unary is a prefix operation
type Unary struct {
	Op      string `json:"op"`
	Operand Expr   `json:"operand"`
	Type    *Type  `json:"type"`
}

// Call invokes a message or internal function of the same contract
type Call struct {
	Function string `json:"function"`
	Args     []Expr `json:"args"`
	Type     *Type  `json:"type"`
}

// HookCall invokes an overridable internal hook
type HookCall struct {
	Hook string `json:"hook"`
	Args []Expr `json:"args"`
	Type *Type  `json:"type"`
}

// ExternalCall invokes a message on another contract through a reference
// handle. Control leaves local code here; the generator never moves storage
// writes across it.
type ExternalCall struct {
	Handle    Expr   `json:"handle"`
	Interface string `json:"interface"`
	Message   string `json:"message"`
	Selector  string `json:"selector,omitempty"`
	Args      []Expr `json:"args"`
	Type      *Type  `json:"type"`
}

// LibraryCall invokes a free function of a translated library
type LibraryCall struct {
	Library  string `json:"library"`
	Function string `json:"function"`
	Args     []Expr `json:"args"`
	Type     *Type  `json:"type"`
}

// HelperCall invokes a runtime arithmetic helper
type HelperCall struct {
	Helper string `json:"helper"`
	Args   []Expr `json:"args"`
	Type   *Type  `json:"type"`
}

// Env reads an execution-environment value such as the caller
type Env struct {
	Accessor string `json:"accessor"`
	Type     *Type  `json:"type"`
}

// Transfer sends native value to an account; it can fail
type Transfer struct {
	To     Expr  `json:"to"`
	Amount Expr  `json:"amount"`
	Type   *Type `json:"type"`
}

// FieldInit is one field of a struct literal
type FieldInit struct {
	Name  string `json:"name"`
	Value Expr   `json:"value"`
}

// StructLit constructs a struct; Fields follow target declaration order
type StructLit struct {
	Fields []*FieldInit `json:"fields"`
	Type   *Type        `json:"type"`
}

// EnumVariant is a unit variant of an enum
type EnumVariant struct {
	Enum    string `json:"enum"`
	Variant string `json:"variant"`
	Type    *Type  `json:"type"`
}

// FieldAccess reads a member of a struct value
type FieldAccess struct {
	Target Expr   `json:"target"`
	Field  string `json:"field"`
	Type   *Type  `json:"type"`
}

// Index reads an element of a vector or array
type Index struct {
	Target Expr  `json:"target"`
	Index  Expr  `json:"index"`
	Type   *Type `json:"type"`
}

// Len is the element count of a vector, array or byte string
type Len struct {
	Target Expr  `json:"target"`
	Type   *Type `json:"type"`
}

// Cast converts between target types; Narrowing marks a lossy conversion
type Cast struct {
	Value     Expr  `json:"value"`
	Type      *Type `json:"type"`
	Narrowing bool  `json:"narrowing,omitempty"`
}

// RefFrom builds a reference handle from an address-like value
type RefFrom struct {
	Address Expr  `json:"address"`
	Type    *Type `json:"type"`
}

// Try unwraps an outcome, returning its error from the enclosing body
type Try struct {
	Value Expr  `json:"value"`
	Type  *Type `json:"type"`
}

// Conditional is "if cond { then } else { else }" in expression position
type Conditional struct {
	Cond Expr  `json:"cond"`
	Then Expr  `json:"then"`
	Else Expr  `json:"else"`
	Type *Type `json:"type"`
}

// TupleExpr groups values, used for composite mapping keys
type TupleExpr struct {
	Elements []Expr `json:"elements"`
	Type     *Type  `json:"type"`
}

// Default is the default value of a type
type Default struct {
	Type *Type `json:"type"`
}

func (e *Local) ExprType() *Type        { return e.Type }
func (e *Literal) ExprType() *Type      { return e.Type }
func (e *ConstRef) ExprType() *Type     { return e.Type }
func (e *FieldRead) ExprType() *Type    { return e.Type }
func (e *MappingGet) ExprType() *Type   { return e.Type }
func (e *Binary) ExprType() *Type       { return e.Type }
func (e *Checked) ExprType() *Type      { return Result(e.Type) }
func (e *Wrapping) ExprType() *Type     { return e.Type }
func (e *Unary) ExprType() *Type        { return e.Type }
func (e *Call) ExprType() *Type         { return e.Type }
func (e *HookCall) ExprType() *Type     { return e.Type }
func (e *ExternalCall) ExprType() *Type { return e.Type }
func (e *LibraryCall) ExprType() *Type  { return e.Type }
func (e *HelperCall) ExprType() *Type   { return e.Type }
func (e *Env) ExprType() *Type          { return e.Type }
func (e *Transfer) ExprType() *Type     { return e.Type }
func (e *StructLit) ExprType() *Type    { return e.Type }
func (e *EnumVariant) ExprType() *Type  { return e.Type }
func (e *FieldAccess) ExprType() *Type  { return e.Type }
func (e *Index) ExprType() *Type        { return e.Type }
func (e *Len) ExprType() *Type          { return e.Type }
func (e *Cast) ExprType() *Type         { return e.Type }
func (e *RefFrom) ExprType() *Type      { return e.Type }
func (e *Try) ExprType() *Type          { return e.Type }
func (e *Conditional) ExprType() *Type  { return e.Type }
func (e *TupleExpr) ExprType() *Type    { return e.Type }
func (e *Default) ExprType() *Type      { return e.Type }

func (*Local) exprNode()        {}
func (*Literal) exprNode()      {}
func (*ConstRef) exprNode()     {}
func (*FieldRead) exprNode()    {}
func (*MappingGet) exprNode()   {}
func (*Binary) exprNode()       {}
func (*Checked) exprNode()      {}
func (*Wrapping) exprNode()     {}
func (*Unary) exprNode()        {}
func (*Call) exprNode()         {}
func (*HookCall) exprNode()     {}
func (*ExternalCall) exprNode() {}
func (*LibraryCall) exprNode()  {}
func (*HelperCall) exprNode()   {}
func (*Env) exprNode()          {}
func (*Transfer) exprNode()     {}
func (*StructLit) exprNode()    {}
func (*EnumVariant) exprNode()  {}
func (*FieldAccess) exprNode()  {}
func (*Index) exprNode()        {}
func (*Len) exprNode()          {}
func (*Cast) exprNode()         {}
func (*RefFrom) exprNode()      {}
func (*Try) exprNode()          {}
func (*Conditional) exprNode()  {}
func (*TupleExpr) exprNode()    {}
func (*Default) exprNode()      {}

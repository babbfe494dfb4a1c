package ir

// Stmt is a target statement
type Stmt interface {
	stmtNode()
}

// InitStorage default-initializes the storage aggregate; it opens every
// constructor body
type InitStorage struct {
	Aggregate string `json:"aggregate"`
}

// Let binds a local
type Let struct {
	Name  string `json:"name"`
	Type  *Type  `json:"type"`
	Value Expr   `json:"value"`
}

// Assign writes to a local, a local struct member or a local vector element
type Assign struct {
	Target Expr `json:"target"`
	Value  Expr `json:"value"`
}

// StorageWrite writes a storage field. A non-empty Path writes a nested
// struct member of the field.
type StorageWrite struct {
	Field string   `json:"field"`
	Path  []string `json:"path,omitempty"`
	Value Expr     `json:"value"`
}

// MappingInsert writes one key of a mapping-backed storage field. A
// non-empty Path updates a member of the stored struct value.
type MappingInsert struct {
	Field string   `json:"field"`
	Key   Expr     `json:"key"`
	Path  []string `json:"path,omitempty"`
	Value Expr     `json:"value"`
}

// Eval evaluates an expression for its effects
type Eval struct {
	Expr Expr `json:"expr"`
}

// If is a conditional
type If struct {
	Cond Expr   `json:"cond"`
	Then []Stmt `json:"then"`
	Else []Stmt `json:"else,omitempty"`
}

// While is a loop
type While struct {
	Cond Expr   `json:"cond"`
	Body []Stmt `json:"body"`
}

// Return ends the body with a successful outcome
type Return struct {
	Value Expr `json:"value,omitempty"`
}

// Fail ends the body with the shared ErrorKind carrying Reason
type Fail struct {
	Reason Expr `json:"reason"`
}

// Labeled is a block that Break can leave early. A function body spliced
// over a modifier placeholder is lowered into one, so that its returns end
// the placeholder and not the whole message.
type Labeled struct {
	Label string `json:"label"`
	Body  []Stmt `json:"body"`
}

// Break leaves the enclosing Labeled block with the same label
type Break struct {
	Label string `json:"label"`
}

// EmitEvent publishes an event; it only appears inside emit hooks
type EmitEvent struct {
	Event string `json:"event"`
	Args  []Expr `json:"args"`
}

func (*InitStorage) stmtNode()   {}
func (*Let) stmtNode()           {}
func (*Assign) stmtNode()        {}
func (*StorageWrite) stmtNode()  {}
func (*MappingInsert) stmtNode() {}
func (*Eval) stmtNode()          {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*Return) stmtNode()        {}
func (*Fail) stmtNode()          {}
func (*Labeled) stmtNode()       {}
func (*Break) stmtNode()         {}
func (*EmitEvent) stmtNode()     {}

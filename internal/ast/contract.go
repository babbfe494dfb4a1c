package ast

// SourceUnit is everything the frontend hands over for one translation run:
// every contract, interface and library of the input, with inheritance
// already linearized and type names already resolved.
type SourceUnit struct {
	Filename  string
	Contracts []*ContractDefinition
	Structs   []*StructType // file-level structs
	Enums     []*EnumType   // file-level enums
}

// ContractKind distinguishes contracts, interfaces and libraries
type ContractKind int

const (
	KindContract ContractKind = iota
	KindInterface
	KindLibrary
)

func (k ContractKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindLibrary:
		return "library"
	default:
		return "contract"
	}
}

// ContractDefinition represents one contract, interface or library
// Example: "contract Token is Ownable, ERC20 { ... }"
type ContractDefinition struct {
	Pos      Position
	Name     string
	Kind     ContractKind
	Abstract bool

	// Bases is the linearized inheritance chain, most-base-first, excluding
	// the contract itself.
	Bases    []string
	BaseArgs []*BaseSpecifier // constructor arguments given in the "is" list

	Using          []*UsingDirective
	StateVariables []*StateVariable
	Structs        []*StructType
	Enums          []*EnumType
	Events         []*EventDefinition
	Modifiers      []*ModifierDefinition
	Functions      []*FunctionDefinition
}

// BaseSpecifier is a base contract reference with constructor arguments
// Example: "ERC20(\"Token\", \"TKN\")" in "contract T is ERC20(\"Token\", \"TKN\")"
type BaseSpecifier struct {
	Pos  Position
	Name string
	Args []Expr
}

// UsingDirective attaches library functions to a type
// Example: "using SafeMath for uint256;"
type UsingDirective struct {
	Pos     Position
	Library string
	Type    *TypeName // nil for "using L for *"
}

// Visibility of state variables and functions
type Visibility int

const (
	Internal Visibility = iota
	Public
	External
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case External:
		return "external"
	case Private:
		return "private"
	default:
		return "internal"
	}
}

// Externally reports whether the member is part of the public interface
func (v Visibility) Externally() bool {
	return v == Public || v == External
}

// StateVariable represents a contract storage variable
// Example: "mapping(address => uint256) public balanceOf;"
type StateVariable struct {
	Pos        Position
	Name       string
	Type       *TypeName
	Value      Expr // optional initializer
	Visibility Visibility
	Constant   bool
	Immutable  bool
}

// Mutability is the declared state mutability of a function
type Mutability int

const (
	NonPayable Mutability = iota
	Payable
	View
	Pure
)

func (m Mutability) String() string {
	switch m {
	case Payable:
		return "payable"
	case View:
		return "view"
	case Pure:
		return "pure"
	default:
		return "nonpayable"
	}
}

// ReadOnly reports whether a function with this mutability never writes state
func (m Mutability) ReadOnly() bool {
	return m == View || m == Pure
}

// FunctionKind separates ordinary functions from special entry points
type FunctionKind int

const (
	OrdinaryFunction FunctionKind = iota
	Constructor
	Fallback
	Receive
)

// FunctionDefinition represents a function or constructor
// Example: "function transfer(address to, uint256 amount) external returns (bool) { ... }"
type FunctionDefinition struct {
	Pos        Position
	Name       string
	Kind       FunctionKind
	Visibility Visibility
	Mutability Mutability
	Virtual    bool
	Override   bool
	Params     []*Parameter
	Returns    []*Parameter
	Modifiers  []*ModifierInvocation
	Body       *Block // nil for declarations without implementation
}

// DataLocation is the explicit location annotation of a parameter
type DataLocation int

const (
	Default DataLocation = iota
	Memory
	Storage
	Calldata
)

// Parameter represents a function, modifier or return parameter
// Example: "address to", "Position storage self"
type Parameter struct {
	Pos      Position
	Name     string
	Type     *TypeName
	Location DataLocation
}

// ModifierInvocation is a modifier (or base constructor) applied to a function
// Example: "onlyOwner", "ERC20(name_, symbol_)"
type ModifierInvocation struct {
	Pos  Position
	Name string
	Args []Expr
}

// ModifierDefinition represents a modifier declaration containing a "_;" placeholder
type ModifierDefinition struct {
	Pos    Position
	Name   string
	Params []*Parameter
	Body   *Block
}

// EventDefinition represents an event declaration
// Example: "event Transfer(address indexed from, address indexed to, uint256 value);"
type EventDefinition struct {
	Pos       Position
	Name      string
	Params    []*EventParam
	Anonymous bool
}

// EventParam is one event field with its indexed flag
type EventParam struct {
	Pos     Position
	Name    string
	Type    *TypeName
	Indexed bool
}

// StructType represents a struct declaration
type StructType struct {
	Pos    Position
	Name   string
	Fields []*StructField
}

// StructField is one member of a struct
type StructField struct {
	Pos  Position
	Name string
	Type *TypeName
}

// EnumType represents an enum declaration
type EnumType struct {
	Pos    Position
	Name   string
	Values []string
}

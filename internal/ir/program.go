package ir

import "fmt"

// Program is the complete translation of one contract, interface or library.
// Every part is plain data so the emitter can format it for any surface syntax.
type Program struct {
	Contract       string               `json:"contract"`
	Kind           string               `json:"kind"`
	Storage        *StorageAggregate    `json:"storage,omitempty"`
	Interface      *InterfaceDefinition `json:"interface,omitempty"`
	Implementation *Implementation      `json:"implementation,omitempty"`
	Events         []*Event             `json:"events,omitempty"`
	Libraries      []*Library           `json:"libraries,omitempty"`
	Constants      []*Constant          `json:"constants,omitempty"`
	Types          []*Type              `json:"types,omitempty"`
	Helpers        []string             `json:"helpers,omitempty"`
	Error          *ErrorKind           `json:"error"`
}

// StorageAggregate is the single flattened record of all persistent state of
// a contract. Field order is the physical layout.
type StorageAggregate struct {
	Name     string          `json:"name"`
	Contract string          `json:"contract"`
	Fields   []*StorageField `json:"fields"`
	Reserved *StorageField   `json:"reserved"`
	Key      uint32          `json:"key"`
	KeyHash  string          `json:"key_hash"`
}

// StorageField is one frozen state variable
type StorageField struct {
	Name     string `json:"name"`
	Type     *Type  `json:"type"`
	Index    int    `json:"index"`
	Declarer string `json:"declarer"`
	Source   string `json:"source"`
}

// Field returns the storage field with the given name
func (s *StorageAggregate) Field(name string) *StorageField {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Param is a named, typed parameter
type Param struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// MessageSignature is one entry of the public message interface
type MessageSignature struct {
	Name            string   `json:"name"`
	Params          []*Param `json:"params"`
	Returns         *Type    `json:"returns"`
	Mutates         bool     `json:"mutates"`
	Payable         bool     `json:"payable,omitempty"`
	Getter          bool     `json:"getter,omitempty"`
	Selector        string   `json:"selector"`
	SourceSignature string   `json:"source_signature"`
}

// InterfaceDefinition is the trait of a contract plus its reference handle
type InterfaceDefinition struct {
	Name      string              `json:"name"`
	Messages  []*MessageSignature `json:"messages"`
	RefHandle *Type               `json:"ref_handle"`
}

// Message returns the signature with the given name
func (d *InterfaceDefinition) Message(name string) *MessageSignature {
	for _, m := range d.Messages {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FunctionKind classifies generated bodies
type FunctionKind string

const (
	FuncMessage     FunctionKind = "message"
	FuncGetter      FunctionKind = "getter"
	FuncConstructor FunctionKind = "constructor"
	FuncInternal    FunctionKind = "internal"
	FuncEmitHook    FunctionKind = "emit_hook"
	FuncBaseInit    FunctionKind = "base_init"
	FuncLibrary     FunctionKind = "library"
)

// Function is a generated body. Messages, internal hooks, constructors and
// library functions all share this shape.
type Function struct {
	Name        string       `json:"name"`
	Source      string       `json:"source"`
	Kind        FunctionKind `json:"kind"`
	Declarer    string       `json:"declarer,omitempty"`
	Params      []*Param     `json:"params"`
	Returns     *Type        `json:"returns"`
	Mutates     bool         `json:"mutates"`
	Overridable bool         `json:"overridable,omitempty"`

	// Library-only flags
	StorageBound bool `json:"storage_bound,omitempty"`
	Modular      bool `json:"modular,omitempty"`

	Body []Stmt `json:"body"`
}

// Implementation binds bodies to any host owning the storage aggregate with
// the given identity key, instead of to one concrete contract type.
type Implementation struct {
	Contract    string      `json:"contract"`
	StorageKey  uint32      `json:"storage_key"`
	Capability  string      `json:"capability"`
	Constructor *Function   `json:"constructor"`
	Messages    []*Function `json:"messages"`
	Internal    []*Function `json:"internal"`
}

// Hook returns the internal entry with the given name
func (impl *Implementation) Hook(name string) *Function {
	for _, fn := range impl.Internal {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Event is a target event type and the hook that emits it
type Event struct {
	Name      string        `json:"name"`
	Fields    []*EventField `json:"fields"`
	Anonymous bool          `json:"anonymous,omitempty"`
	Signature string        `json:"signature"`
	Topic     string        `json:"topic"`
	Hook      string        `json:"hook"`
}

// Topics counts the topic-flagged fields
func (e *Event) Topics() int {
	n := 0
	for _, f := range e.Fields {
		if f.Topic {
			n++
		}
	}
	return n
}

// EventField is one event member; Topic marks indexed fields
type EventField struct {
	Name  string `json:"name"`
	Type  *Type  `json:"type"`
	Topic bool   `json:"topic"`
}

// Library is a set of free functions translated from a source library
type Library struct {
	Name      string      `json:"name"`
	Functions []*Function `json:"functions"`
}

// Constant is a compile-time state constant; it occupies no storage
type Constant struct {
	Name  string `json:"name"`
	Type  *Type  `json:"type"`
	Value Expr   `json:"value"`
}

// ErrorKind is the single collapsed error representation: every revert,
// require, assert and arithmetic violation becomes Name::Variant(payload).
type ErrorKind struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Payload *Type  `json:"payload"`
}

// Revert is the runtime value of the ErrorKind variant
type Revert struct {
	Reason string
}

func (r *Revert) Error() string {
	return fmt.Sprintf("Custom(%q)", r.Reason)
}

package ir

import (
	"bytes"
	"encoding/json"
)

// Expressions and statements are interfaces; each marshals with a "node"
// discriminator so the emitter can rebuild the tree.

func tagged(node string, v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head := []byte(`{"node":"` + node + `"`)
	if bytes.Equal(raw, []byte("{}")) {
		return append(head, '}'), nil
	}
	return append(append(head, ','), raw[1:]...), nil
}

func (n *Local) MarshalJSON() ([]byte, error) {
	type plain Local
	return tagged("local", (*plain)(n))
}

func (n *Literal) MarshalJSON() ([]byte, error) {
	type plain Literal
	return tagged("literal", (*plain)(n))
}

func (n *ConstRef) MarshalJSON() ([]byte, error) {
	type plain ConstRef
	return tagged("const_ref", (*plain)(n))
}

func (n *FieldRead) MarshalJSON() ([]byte, error) {
	type plain FieldRead
	return tagged("field_read", (*plain)(n))
}

func (n *MappingGet) MarshalJSON() ([]byte, error) {
	type plain MappingGet
	return tagged("mapping_get", (*plain)(n))
}

func (n *Binary) MarshalJSON() ([]byte, error) {
	type plain Binary
	return tagged("binary", (*plain)(n))
}

func (n *Checked) MarshalJSON() ([]byte, error) {
	type plain Checked
	return tagged("checked", (*plain)(n))
}

func (n *Wrapping) MarshalJSON() ([]byte, error) {
	type plain Wrapping
	return tagged("wrapping", (*plain)(n))
}

func (n *Unary) MarshalJSON() ([]byte, error) {
	type plain Unary
	return tagged("unary", (*plain)(n))
}

func (n *Call) MarshalJSON() ([]byte, error) {
	type plain Call
	return tagged("call", (*plain)(n))
}

func (n *HookCall) MarshalJSON() ([]byte, error) {
	type plain HookCall
	return tagged("hook_call", (*plain)(n))
}

func (n *ExternalCall) MarshalJSON() ([]byte, error) {
	type plain ExternalCall
	return tagged("external_call", (*plain)(n))
}

func (n *LibraryCall) MarshalJSON() ([]byte, error) {
	type plain LibraryCall
	return tagged("library_call", (*plain)(n))
}

func (n *HelperCall) MarshalJSON() ([]byte, error) {
	type plain HelperCall
	return tagged("helper_call", (*plain)(n))
}

func (n *Env) MarshalJSON() ([]byte, error) {
	type plain Env
	return tagged("env", (*plain)(n))
}

func (n *Transfer) MarshalJSON() ([]byte, error) {
	type plain Transfer
	return tagged("transfer", (*plain)(n))
}

func (n *StructLit) MarshalJSON() ([]byte, error) {
	type plain StructLit
	return tagged("struct_lit", (*plain)(n))
}

func (n *EnumVariant) MarshalJSON() ([]byte, error) {
	type plain EnumVariant
	return tagged("enum_variant", (*plain)(n))
}

func (n *FieldAccess) MarshalJSON() ([]byte, error) {
	type plain FieldAccess
	return tagged("field_access", (*plain)(n))
}

func (n *Index) MarshalJSON() ([]byte, error) {
	type plain Index
	return tagged("index", (*plain)(n))
}

func (n *Len) MarshalJSON() ([]byte, error) {
	type plain Len
	return tagged("len", (*plain)(n))
}

func (n *Cast) MarshalJSON() ([]byte, error) {
	type plain Cast
	return tagged("cast", (*plain)(n))
}

func (n *RefFrom) MarshalJSON() ([]byte, error) {
	type plain RefFrom
	return tagged("ref_from", (*plain)(n))
}

func (n *Try) MarshalJSON() ([]byte, error) {
	type plain Try
	return tagged("try", (*plain)(n))
}

func (n *Conditional) MarshalJSON() ([]byte, error) {
	type plain Conditional
	return tagged("conditional", (*plain)(n))
}

func (n *TupleExpr) MarshalJSON() ([]byte, error) {
	type plain TupleExpr
	return tagged("tuple", (*plain)(n))
}

func (n *Default) MarshalJSON() ([]byte, error) {
	type plain Default
	return tagged("default", (*plain)(n))
}

func (n *InitStorage) MarshalJSON() ([]byte, error) {
	type plain InitStorage
	return tagged("init_storage", (*plain)(n))
}

func (n *Let) MarshalJSON() ([]byte, error) {
	type plain Let
	return tagged("let", (*plain)(n))
}

func (n *Assign) MarshalJSON() ([]byte, error) {
	type plain Assign
	return tagged("assign", (*plain)(n))
}

func (n *StorageWrite) MarshalJSON() ([]byte, error) {
	type plain StorageWrite
	return tagged("storage_write", (*plain)(n))
}

func (n *MappingInsert) MarshalJSON() ([]byte, error) {
	type plain MappingInsert
	return tagged("mapping_insert", (*plain)(n))
}

func (n *Eval) MarshalJSON() ([]byte, error) {
	type plain Eval
	return tagged("eval", (*plain)(n))
}

func (n *If) MarshalJSON() ([]byte, error) {
	type plain If
	return tagged("if", (*plain)(n))
}

func (n *While) MarshalJSON() ([]byte, error) {
	type plain While
	return tagged("while", (*plain)(n))
}

func (n *Return) MarshalJSON() ([]byte, error) {
	type plain Return
	return tagged("return", (*plain)(n))
}

func (n *Fail) MarshalJSON() ([]byte, error) {
	type plain Fail
	return tagged("fail", (*plain)(n))
}

func (n *Labeled) MarshalJSON() ([]byte, error) {
	type plain Labeled
	return tagged("labeled", (*plain)(n))
}

func (n *Break) MarshalJSON() ([]byte, error) {
	type plain Break
	return tagged("break", (*plain)(n))
}

func (n *EmitEvent) MarshalJSON() ([]byte, error) {
	type plain EmitEvent
	return tagged("emit_event", (*plain)(n))
}

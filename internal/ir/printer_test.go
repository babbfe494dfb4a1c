package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func guardedProgram() *Program {
	u128 := Int(128, false)
	ret := &Local{Name: "__ret", Type: u128}
	one := &Literal{Kind: LitInt, Value: "1", Type: u128}
	return &Program{
		Contract: "Guarded",
		Kind:     "contract",
		Implementation: &Implementation{
			Contract:   "Guarded",
			Capability: "GuardedStorage",
			Messages: []*Function{
				{
					Name:    "f",
					Kind:    FuncMessage,
					Returns: u128,
					Mutates: true,
					Body: []Stmt{
						&Let{Name: "__ret", Type: u128, Value: &Default{Type: u128}},
						&Labeled{Label: "body0", Body: []Stmt{
							&Assign{Target: ret, Value: one},
							&Break{Label: "body0"},
						}},
						&StorageWrite{Field: "locked", Value: &Literal{Kind: LitBool, Value: "false", Type: Bool()}},
						&Return{Value: ret},
					},
				},
				{Name: "ping", Kind: FuncMessage, Returns: Unit()},
			},
		},
	}
}

func TestPrintFunctionReturnsResult(t *testing.T) {
	out := Print(guardedProgram())

	assert.Contains(t, out, "fn f(&mut self) -> Result<u128, Error> {")
	assert.Contains(t, out, "fn ping(&self) -> Result<(), Error> {")
	assert.Contains(t, out, "return Ok(__ret);")
}

func TestPrintLabeledBlock(t *testing.T) {
	out := Print(guardedProgram())

	assert.Contains(t, out, "'body0: {")
	assert.Contains(t, out, "break 'body0;")
	brk := strings.Index(out, "break 'body0;")
	tail := strings.Index(out, "self.data().locked = false;")
	assert.Greater(t, tail, brk)
}

package abi

import (
	"strings"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sol2ink/internal/ast"
	"sol2ink/internal/errors"
	"sol2ink/internal/ir"
	"sol2ink/internal/typemap"
)

func param(name string, t *ast.TypeName) *ast.Parameter {
	return &ast.Parameter{Name: name, Type: t}
}

func fn(name string, vis ast.Visibility, mut ast.Mutability, params, returns []*ast.Parameter) *ast.FunctionDefinition {
	return &ast.FunctionDefinition{
		Name: name, Visibility: vis, Mutability: mut,
		Params: params, Returns: returns, Body: &ast.Block{},
	}
}

func erc20() (*ast.ContractDefinition, *ast.SourceUnit) {
	c := &ast.ContractDefinition{
		Name: "ERC20",
		StateVariables: []*ast.StateVariable{
			{Name: "totalSupply", Type: ast.Uint(256), Visibility: ast.Public},
			{Name: "balanceOf", Type: ast.Mapping(ast.Address(), ast.Uint(256)), Visibility: ast.Public},
			{Name: "allowance", Type: ast.Mapping(ast.Address(), ast.Mapping(ast.Address(), ast.Uint(256))), Visibility: ast.Public},
		},
		Functions: []*ast.FunctionDefinition{
			fn("transfer", ast.External, ast.NonPayable,
				[]*ast.Parameter{param("to", ast.Address()), param("value", ast.Uint(256))},
				[]*ast.Parameter{param("", ast.Bool())}),
			fn("_transfer", ast.Internal, ast.NonPayable,
				[]*ast.Parameter{param("from", ast.Address()), param("to", ast.Address()), param("value", ast.Uint(256))}, nil),
			fn("approve", ast.Public, ast.NonPayable,
				[]*ast.Parameter{param("spender", ast.Address()), param("value", ast.Uint(256))},
				[]*ast.Parameter{param("", ast.Bool())}),
			fn("name", ast.External, ast.Pure, nil, []*ast.Parameter{param("", ast.String())}),
			fn("deposit", ast.External, ast.Payable, nil, nil),
		},
	}
	return c, &ast.SourceUnit{Contracts: []*ast.ContractDefinition{c}}
}

func generate(t *testing.T, c *ast.ContractDefinition, unit *ast.SourceUnit, bases ...*ast.ContractDefinition) *Interface {
	t.Helper()
	iface, diags := Generate(c, bases, unit, typemap.New(unit, 128))
	require.False(t, errors.HasErrors(diags), "%v", diags)
	return iface
}

func messageNames(def *ir.InterfaceDefinition) []string {
	out := make([]string, len(def.Messages))
	for i, m := range def.Messages {
		out[i] = m.Name
	}
	return out
}

func TestExternalFunctionsBecomeMessagesInOrder(t *testing.T) {
	c, unit := erc20()
	iface := generate(t, c, unit)
	def := iface.Definition

	assert.Equal(t, []string{"transfer", "approve", "name", "deposit", "totalSupply", "balanceOf", "allowance"}, messageNames(def))
	assert.Nil(t, def.Message("_transfer"))
	assert.Equal(t, "ERC20Ref", def.RefHandle.String())
}

func TestMessageShape(t *testing.T) {
	c, unit := erc20()
	def := generate(t, c, unit).Definition

	transfer := def.Message("transfer")
	require.NotNil(t, transfer)
	require.Len(t, transfer.Params, 2)
	assert.Equal(t, "to", transfer.Params[0].Name)
	assert.Equal(t, "AccountId", transfer.Params[0].Type.String())
	assert.Equal(t, "Result<bool, Error>", transfer.Returns.String())
	assert.True(t, transfer.Mutates)
	assert.Equal(t, "0xa9059cbb", transfer.Selector)
	assert.Equal(t, "transfer(address,uint256)", transfer.SourceSignature)

	name := def.Message("name")
	assert.False(t, name.Mutates)

	deposit := def.Message("deposit")
	assert.True(t, deposit.Payable)
	assert.Equal(t, "Result<(), Error>", deposit.Returns.String())
	assert.Equal(t, "0x095ea7b3", def.Message("approve").Selector)
}

func TestGetters(t *testing.T) {
	c, unit := erc20()
	def := generate(t, c, unit).Definition

	supply := def.Message("totalSupply")
	assert.True(t, supply.Getter)
	assert.False(t, supply.Mutates)
	assert.Empty(t, supply.Params)
	assert.Equal(t, "0x18160ddd", supply.Selector)

	balance := def.Message("balanceOf")
	require.Len(t, balance.Params, 1)
	assert.Equal(t, "AccountId", balance.Params[0].Type.String())
	assert.Equal(t, "Result<u128, Error>", balance.Returns.String())
	assert.Equal(t, "0x70a08231", balance.Selector)

	allowance := def.Message("allowance")
	assert.Len(t, allowance.Params, 2)
	assert.Equal(t, "0xdd62ed3e", allowance.Selector)
}

func TestOverloadIsStructuralError(t *testing.T) {
	c, unit := erc20()
	c.Functions = append(c.Functions, fn("transfer", ast.External, ast.NonPayable,
		[]*ast.Parameter{param("to", ast.Address())}, nil))

	iface, diags := Generate(c, nil, unit, typemap.New(unit, 128))
	assert.Nil(t, iface)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrorOverloadedMessage, diags[0].Code)
	assert.Contains(t, diags[0].Notes[0], "transfer(address)")
}

func TestMappingParameterRejected(t *testing.T) {
	c := &ast.ContractDefinition{
		Name: "Bad",
		Functions: []*ast.FunctionDefinition{
			fn("f", ast.Public, ast.NonPayable,
				[]*ast.Parameter{param("m", ast.Mapping(ast.Address(), ast.Bool()))}, nil),
		},
	}
	_, diags := Generate(c, nil, &ast.SourceUnit{}, typemap.New(nil, 128))
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrorInvalidMessageType, diags[0].Code)
}

func TestInheritedOverrideKeepsBasePosition(t *testing.T) {
	base := &ast.ContractDefinition{
		Name: "Base",
		Functions: []*ast.FunctionDefinition{
			fn("a", ast.External, ast.NonPayable, nil, nil),
			fn("b", ast.External, ast.NonPayable, nil, nil),
		},
	}
	override := fn("a", ast.External, ast.View, nil, nil)
	override.Override = true
	derived := &ast.ContractDefinition{
		Name:      "Derived",
		Bases:     []string{"Base"},
		Functions: []*ast.FunctionDefinition{fn("c", ast.External, ast.NonPayable, nil, nil), override},
	}
	unit := &ast.SourceUnit{Contracts: []*ast.ContractDefinition{base, derived}}

	iface := generate(t, derived, unit, base)
	assert.Equal(t, []string{"a", "b", "c"}, messageNames(iface.Definition))
	assert.False(t, iface.Definition.Message("a").Mutates)
	assert.Equal(t, "Derived", iface.Entries[0].Declarer)
}

func TestStructParametersUseTupleSelector(t *testing.T) {
	unit := &ast.SourceUnit{
		Structs: []*ast.StructType{{Name: "Order", Fields: []*ast.StructField{
			{Name: "maker", Type: ast.Address()},
			{Name: "amount", Type: ast.Uint(256)},
		}}},
	}
	c := &ast.ContractDefinition{
		Name: "Book",
		Functions: []*ast.FunctionDefinition{
			fn("place", ast.External, ast.NonPayable, []*ast.Parameter{param("order", ast.Named("Order"))}, nil),
		},
	}
	unit.Contracts = []*ast.ContractDefinition{c}

	def := generate(t, c, unit).Definition
	assert.Equal(t, "place((address,uint256))", def.Message("place").SourceSignature)
}

func TestExportJSON(t *testing.T) {
	c, unit := erc20()
	iface := generate(t, c, unit)

	transferEvent := EventABI{Name: "Transfer", Inputs: []gethabi.ArgumentMarshaling{
		{Name: "from", Type: "address", Indexed: true},
		{Name: "to", Type: "address", Indexed: true},
		{Name: "value", Type: "uint256"},
	}}
	doc, err := ExportJSON(iface, []EventABI{transferEvent})
	require.NoError(t, err)

	parsed, err := gethabi.JSON(strings.NewReader(string(doc)))
	require.NoError(t, err)
	assert.Len(t, parsed.Methods, 7)
	require.Contains(t, parsed.Methods, "transfer")
	assert.Equal(t, "a9059cbb", strings.TrimPrefix(iface.Definition.Message("transfer").Selector, "0x"))
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, parsed.Methods["transfer"].ID)
	require.Contains(t, parsed.Events, "Transfer")
	assert.Equal(t, "Transfer(address,address,uint256)", parsed.Events["Transfer"].Sig)
}

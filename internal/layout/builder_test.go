package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sol2ink/internal/ast"
	"sol2ink/internal/errors"
	"sol2ink/internal/ir"
	"sol2ink/internal/typemap"
)

var opts = Options{ReservedField: "_reserved"}

func stateVar(name string, t *ast.TypeName) *ast.StateVariable {
	return &ast.StateVariable{Name: name, Type: t, Visibility: ast.Internal}
}

func ownable() *ast.ContractDefinition {
	return &ast.ContractDefinition{
		Name:           "Ownable",
		StateVariables: []*ast.StateVariable{stateVar("owner", ast.Address())},
	}
}

func token() *ast.ContractDefinition {
	return &ast.ContractDefinition{
		Name:  "Token",
		Bases: []string{"Ownable"},
		StateVariables: []*ast.StateVariable{
			stateVar("totalSupply", ast.Uint(256)),
			{Name: "DECIMALS", Type: ast.Uint(8), Constant: true},
			stateVar("balances", ast.Mapping(ast.Address(), ast.Uint(256))),
		},
	}
}

func build(t *testing.T, c *ast.ContractDefinition, bases ...*ast.ContractDefinition) *ir.StorageAggregate {
	t.Helper()
	agg, diags := Build(c, bases, typemap.New(nil, 128), opts)
	require.Empty(t, diags)
	require.NotNil(t, agg)
	return agg
}

func names(agg *ir.StorageAggregate) []string {
	out := make([]string, len(agg.Fields))
	for i, f := range agg.Fields {
		out[i] = f.Name
	}
	return out
}

func TestBaseFieldsComeFirst(t *testing.T) {
	agg := build(t, token(), ownable())

	assert.Equal(t, "TokenData", agg.Name)
	assert.Equal(t, []string{"owner", "totalSupply", "balances"}, names(agg))
	for i, f := range agg.Fields {
		assert.Equal(t, i, f.Index)
	}
	assert.Equal(t, "Ownable", agg.Fields[0].Declarer)
	assert.Equal(t, "Token", agg.Fields[1].Declarer)
	assert.Equal(t, "uint256", agg.Fields[1].Source)
	assert.Equal(t, "Mapping<AccountId, u128>", agg.Fields[2].Type.String())
}

func TestReservedFieldIsLast(t *testing.T) {
	agg := build(t, token(), ownable())

	require.NotNil(t, agg.Reserved)
	assert.Equal(t, "_reserved", agg.Reserved.Name)
	assert.Equal(t, len(agg.Fields), agg.Reserved.Index)
	assert.Equal(t, "Option<()>", agg.Reserved.Type.String())
	assert.Nil(t, agg.Field("DECIMALS"))
}

func TestKeyIsDeterministic(t *testing.T) {
	a := build(t, token(), ownable())
	b := build(t, token(), ownable())

	assert.Equal(t, a.Key, b.Key)
	assert.Equal(t, a.KeyHash, b.KeyHash)
	assert.Len(t, a.KeyHash, 64)
	assert.Equal(t, names(a), names(b))
}

func TestKeyDependsOnNameAndOrder(t *testing.T) {
	base := build(t, token(), ownable())

	renamed := token()
	renamed.Name = "Token2"
	other := build(t, renamed, ownable())
	assert.NotEqual(t, base.Key, other.Key)

	swapped := token()
	swapped.StateVariables[0], swapped.StateVariables[2] = swapped.StateVariables[2], swapped.StateVariables[0]
	reordered := build(t, swapped, ownable())
	assert.NotEqual(t, base.Key, reordered.Key)
}

func TestInheritanceOrderDominatesDeclarationOrder(t *testing.T) {
	pausable := &ast.ContractDefinition{
		Name:           "Pausable",
		StateVariables: []*ast.StateVariable{stateVar("paused", ast.Bool())},
	}
	derived := &ast.ContractDefinition{
		Name:           "Vault",
		StateVariables: []*ast.StateVariable{stateVar("assets", ast.Uint(128))},
	}

	agg := build(t, derived, ownable(), pausable)
	assert.Equal(t, []string{"owner", "paused", "assets"}, names(agg))
}

func TestCollisionNamesBothContracts(t *testing.T) {
	derived := token()
	derived.StateVariables = append(derived.StateVariables, stateVar("owner", ast.Address()))

	agg, diags := Build(derived, []*ast.ContractDefinition{ownable()}, typemap.New(nil, 128), opts)
	assert.Nil(t, agg)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrorFieldCollision, diags[0].Code)
	assert.Contains(t, diags[0].Message, "'Ownable'")
	assert.Contains(t, diags[0].Message, "'Token'")
}

func TestReservedNameCollides(t *testing.T) {
	c := &ast.ContractDefinition{
		Name:           "Bad",
		StateVariables: []*ast.StateVariable{stateVar("_reserved", ast.Bool())},
	}
	agg, diags := Build(c, nil, typemap.New(nil, 128), opts)
	assert.Nil(t, agg)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.ErrorFieldCollision, diags[0].Code)
}

func TestIdentityKeyMatchesDigest(t *testing.T) {
	fields := []*ir.StorageField{{Name: "a", Type: ir.Bool()}}
	key, hash := IdentityKey("C", fields)
	assert.Equal(t, "a:bool", FieldSignature(fields[0]))

	again, _ := IdentityKey("C", []*ir.StorageField{{Name: "a", Type: ir.Bool()}})
	assert.Equal(t, key, again)
	assert.Len(t, hash, 64)

	empty, _ := IdentityKey("C", nil)
	assert.NotEqual(t, key, empty)
}

package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	"sol2ink/grammar"
	"sol2ink/internal/ast"
	"sol2ink/internal/codegen"
	"sol2ink/internal/config"
	sterrors "sol2ink/internal/errors"
	"sol2ink/internal/ir"
	"sol2ink/internal/pipeline"
)

func newTranslator(t *testing.T, cfg *config.ProjectConfig) *pipeline.Translator {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	tr, err := pipeline.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func parse(t *testing.T, source string) *ast.SourceUnit {
	t.Helper()
	unit, diags, err := grammar.Parse("test.sol", source)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.NotNil(t, unit)
	return unit
}

func token(t *testing.T) *ast.SourceUnit {
	t.Helper()
	unit, diags, err := grammar.ParseFile("../../examples/token.sol")
	require.NoError(t, err)
	require.Empty(t, diags)
	return unit
}

func codes(diags []sterrors.CompilerError) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestTranslateToken(t *testing.T) {
	res, err := newTranslator(t, nil).Translate(token(t), "Token")
	require.NoError(t, err)
	require.NotNil(t, res.Program)
	assert.False(t, sterrors.HasErrors(res.Diagnostics))
	assert.Contains(t, codes(res.Diagnostics), sterrors.WarningNarrowing)

	prog := res.Program
	assert.Equal(t, "contract", prog.Kind)

	// Storage follows the linearized chain; constants take no slot
	var fields []string
	for _, f := range prog.Storage.Fields {
		fields = append(fields, f.Name)
	}
	assert.Equal(t, []string{"owner", "_balances", "_allowances", "_totalSupply", "name", "cap"}, fields)
	assert.Equal(t, "Ownable", prog.Storage.Field("owner").Declarer)
	assert.Equal(t, "Mapping<(AccountId, AccountId), u128>", prog.Storage.Field("_allowances").Type.String())
	assert.Equal(t, 6, prog.Storage.Reserved.Index)

	// Selectors match the source ABI
	assert.Equal(t, "0xa9059cbb", prog.Interface.Message("transfer").Selector)
	assert.Equal(t, "0x70a08231", prog.Interface.Message("balanceOf").Selector)
	assert.Equal(t, "0x18160ddd", prog.Interface.Message("totalSupply").Selector)
	assert.True(t, prog.Interface.Message("cap").Getter)

	impl := prog.Implementation
	require.NotNil(t, impl.Constructor)
	assert.Equal(t, "new", impl.Constructor.Name)
	assert.NotNil(t, impl.Hook(codegen.BaseInitName("Ownable")))
	assert.NotNil(t, impl.Hook(codegen.BaseInitName("ERC20")))
	assert.NotNil(t, impl.Hook("_transfer"))
	assert.True(t, impl.Hook("_transfer").Overridable)

	assert.Contains(t, prog.Helpers, "checked_sub")
	assert.Contains(t, prog.Helpers, "checked_add")

	var events []string
	for _, ev := range prog.Events {
		events = append(events, ev.Name)
	}
	assert.ElementsMatch(t, []string{"OwnershipTransferred", "Transfer", "Approval"}, events)

	require.NotNil(t, res.Interface)
	assert.Len(t, res.EventABI, 3)
}

func TestTranslateAllKeepsDeclarationOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.Workers = 3
	results, err := newTranslator(t, cfg).TranslateAll(context.Background(), token(t))
	require.NoError(t, err)

	var names []string
	for _, res := range results {
		names = append(names, res.Contract)
	}
	assert.Equal(t, []string{"SafeMath", "IERC20", "Context", "Ownable", "ERC20", "Token"}, names)

	lib := results[0].Program
	require.NotNil(t, lib)
	assert.Equal(t, "library", lib.Kind)
	require.Len(t, lib.Libraries, 1)
	assert.Len(t, lib.Libraries[0].Functions, 2)
	assert.Nil(t, lib.Storage)

	iface := results[1].Program
	require.NotNil(t, iface)
	assert.Equal(t, "interface", iface.Kind)
	assert.Len(t, iface.Interface.Messages, 3)
	assert.Nil(t, iface.Implementation)
}

func TestTranslateAllReportsFailuresPerContract(t *testing.T) {
	unit := parse(t, `
contract A { uint64 x; }
contract B { uint64 x; }
contract C is A, B { }`)
	results, err := newTranslator(t, nil).TranslateAll(context.Background(), unit)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotNil(t, results[0].Program)
	assert.NotNil(t, results[1].Program)
	assert.Nil(t, results[2].Program)
	assert.Equal(t, []string{sterrors.ErrorFieldCollision}, codes(results[2].Diagnostics))
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contract string
		code     string
	}{
		{
			name: "field collision",
			source: `
contract A { uint64 balance; }
contract B is A { uint64 balance; }`,
			contract: "B",
			code:     sterrors.ErrorFieldCollision,
		},
		{
			name: "overloaded message",
			source: `
contract C {
    function f(uint64 a) public { }
    function f(bool b) public { }
}`,
			contract: "C",
			code:     sterrors.ErrorOverloadedMessage,
		},
		{
			name:     "unresolved base",
			source:   `contract C is Missing { }`,
			contract: "C",
			code:     sterrors.ErrorUnresolvedBase,
		},
		{
			name: "mapping parameter",
			source: `
contract C {
    function f(mapping(address => uint64) storage m) public { }
}`,
			contract: "C",
			code:     sterrors.ErrorInvalidMessageType,
		},
		{
			name: "unresolved type",
			source: `
contract C {
    Foo x;
    function g(Bar y) public { }
}`,
			contract: "C",
			code:     sterrors.ErrorUnresolvedType,
		},
		{
			name: "reserved field name",
			source: `
contract C { uint64 _reserved; }`,
			contract: "C",
			code:     sterrors.ErrorFieldCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTranslator(t, nil).Translate(parse(t, tt.source), tt.contract)
			require.Error(t, err)

			var te *sterrors.TranslationError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.contract, te.Contract)
			assert.Contains(t, te.Codes(), tt.code)
			require.NotNil(t, res)
			assert.Nil(t, res.Program)
		})
	}
}

func TestStrictNarrowing(t *testing.T) {
	source := `contract C { uint256 total; }`

	res, err := newTranslator(t, nil).Translate(parse(t, source), "C")
	require.NoError(t, err)
	assert.Equal(t, []string{sterrors.WarningNarrowing}, codes(res.Diagnostics))

	cfg := config.Default()
	cfg.Diagnostics.Narrowing = config.NarrowingError
	res, err = newTranslator(t, cfg).Translate(parse(t, source), "C")
	require.Error(t, err)
	assert.Equal(t, []string{sterrors.ErrorNarrowing}, codes(res.Diagnostics))
	assert.Nil(t, res.Program)

	cfg = config.Default()
	cfg.Target.NativeIntWidth = 256
	res, err = newTranslator(t, cfg).Translate(parse(t, source), "C")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestModularLibraryConfig(t *testing.T) {
	source := `
library Ring {
    function next(uint64 a) internal pure returns (uint64) {
        return a + 1;
    }
}`
	cfg := config.Default()
	cfg.Target.ModularLibraries = []string{"Ring"}
	res, err := newTranslator(t, cfg).Translate(parse(t, source), "Ring")
	require.NoError(t, err)
	require.Len(t, res.Program.Libraries, 1)
	assert.True(t, res.Program.Libraries[0].Functions[0].Modular)

	res, err = newTranslator(t, nil).Translate(parse(t, source), "Ring")
	require.NoError(t, err)
	assert.False(t, res.Program.Libraries[0].Functions[0].Modular)
}

func TestLayoutLock(t *testing.T) {
	lockFile := filepath.Join(t.TempDir(), "layout.db")
	translate := func(source string) (*pipeline.Result, error) {
		cfg := config.Default()
		cfg.Layout.LockFile = lockFile
		tr, err := pipeline.New(cfg)
		require.NoError(t, err)
		defer tr.Close()
		return tr.Translate(parse(t, source), "Vault")
	}

	_, err := translate(`contract Vault { uint64 a; bool b; }`)
	require.NoError(t, err)

	// appending keeps the recorded prefix
	_, err = translate(`contract Vault { uint64 a; bool b; uint32 c; }`)
	require.NoError(t, err)

	res, err := translate(`contract Vault { bool b; uint64 a; uint32 c; }`)
	require.Error(t, err)
	assert.Contains(t, codes(res.Diagnostics), sterrors.ErrorLayoutDrift)
	assert.Nil(t, res.Program)
}

func TestLayoutLockCorruptRecord(t *testing.T) {
	lockFile := filepath.Join(t.TempDir(), "layout.db")
	corrupt := []byte{0xff, 0x00}

	db, err := bbolt.Open(lockFile, 0600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("layouts"))
		if err != nil {
			return err
		}
		return b.Put([]byte("Vault"), corrupt)
	}))
	require.NoError(t, db.Close())

	cfg := config.Default()
	cfg.Layout.LockFile = lockFile
	tr, err := pipeline.New(cfg)
	require.NoError(t, err)
	res, err := tr.Translate(parse(t, `contract Vault { uint64 a; }`), "Vault")
	require.NoError(t, tr.Close())

	require.Error(t, err)
	var te *sterrors.TranslationError
	assert.False(t, errors.As(err, &te))
	assert.Contains(t, err.Error(), "Vault")
	assert.Nil(t, res)

	// the record is left as it was
	db, err = bbolt.Open(lockFile, 0600, nil)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.View(func(tx *bbolt.Tx) error {
		assert.Equal(t, corrupt, tx.Bucket([]byte("layouts")).Get([]byte("Vault")))
		return nil
	}))
}

const guarded = `
contract Guarded {
    bool locked;
    address owner;
    mapping(address => uint64) bal;

    modifier nonReentrant() {
        require(!locked, "reentrant");
        locked = true;
        _;
        locked = false;
    }

    modifier only(address account) {
        require(msg.sender == account, "denied");
        _;
    }

    function f() public nonReentrant returns (uint64) {
        return 1;
    }

    function credit(address account) public only(owner) {
        bal[account] = 1;
    }
}`

func message(t *testing.T, prog *ir.Program, name string) *ir.Function {
	t.Helper()
	for _, fn := range prog.Implementation.Messages {
		if fn.Name == name {
			return fn
		}
	}
	require.Failf(t, "missing message", "%s", name)
	return nil
}

func TestReturnInsideModifierRunsTail(t *testing.T) {
	res, err := newTranslator(t, nil).Translate(parse(t, guarded), "Guarded")
	require.NoError(t, err)

	out := ir.Print(res.Program)
	brk := strings.Index(out, "break 'body")
	require.GreaterOrEqual(t, brk, 0)
	unlock := strings.Index(out, "self.data().locked = false;")
	assert.Greater(t, unlock, brk)

	body := message(t, res.Program, "f").Body
	last := body[len(body)-1].(*ir.Return)
	assert.Equal(t, "__ret", last.Value.(*ir.Local).Name)
}

func TestModifierParameterIsRenamed(t *testing.T) {
	res, err := newTranslator(t, nil).Translate(parse(t, guarded), "Guarded")
	require.NoError(t, err)

	out := ir.Print(res.Program)
	assert.Contains(t, out, "let mut only_account: AccountId = self.data().owner;")
	assert.Contains(t, out, "env().caller() == only_account")
	assert.Contains(t, out, "self.data().bal.insert(account, ")
}

func TestDerivedInitializerFollowsBaseConstructor(t *testing.T) {
	source := `
contract A {
    uint64 a;
    constructor() { a = 1; }
}
contract B is A {
    uint64 b = a + 1;
}`
	res, err := newTranslator(t, nil).Translate(parse(t, source), "B")
	require.NoError(t, err)

	body := res.Program.Implementation.Constructor.Body
	var order []string
	for _, s := range body {
		switch s := s.(type) {
		case *ir.Eval:
			if try, ok := s.Expr.(*ir.Try); ok {
				if call, ok := try.Value.(*ir.Call); ok {
					order = append(order, call.Function)
				}
			}
		case *ir.StorageWrite:
			order = append(order, s.Field)
		}
	}
	assert.Equal(t, []string{codegen.BaseInitName("A"), "b"}, order)
}

func TestFixedPointHelperReportsNarrowing(t *testing.T) {
	source := `
contract Pair {
    function price(uint112 reserve) public pure returns (uint128) {
        return UQ112x112.encode(reserve);
    }
}`
	res, err := newTranslator(t, nil).Translate(parse(t, source), "Pair")
	require.NoError(t, err)
	require.Equal(t, []string{sterrors.WarningNarrowing}, codes(res.Diagnostics))
	assert.Contains(t, res.Diagnostics[0].Message, "uint224")
	assert.Equal(t, 4, res.Diagnostics[0].Position.Line)

	cfg := config.Default()
	cfg.Target.NativeIntWidth = 256
	res, err = newTranslator(t, cfg).Translate(parse(t, source), "Pair")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
}

func TestUnknownContract(t *testing.T) {
	_, err := newTranslator(t, nil).Translate(parse(t, `contract C { }`), "D")
	require.Error(t, err)
	var te *sterrors.TranslationError
	assert.False(t, errors.As(err, &te))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Target.NativeIntWidth = 100
	_, err := pipeline.New(cfg)
	require.Error(t, err)
}

package builtins

import "sol2ink/internal/ast"

// EnvAccessor names an execution-environment value of the target framework
type EnvAccessor string

const (
	Caller           EnvAccessor = "caller"
	TransferredValue EnvAccessor = "transferred_value"
	BlockTimestamp   EnvAccessor = "block_timestamp"
	BlockNumber      EnvAccessor = "block_number"
	AccountID        EnvAccessor = "account_id"
	Balance          EnvAccessor = "balance"
)

// EnvGlobal describes a source global and the accessor it lowers to
type EnvGlobal struct {
	Accessor EnvAccessor
	Type     *ast.TypeName
}

// envGlobals maps "object.member" source globals to environment accessors
var envGlobals = map[string]EnvGlobal{
	"msg.sender":      {Caller, ast.Address()},
	"msg.value":       {TransferredValue, ast.Uint(256)},
	"tx.origin":       {Caller, ast.Address()},
	"block.timestamp": {BlockTimestamp, ast.Uint(256)},
	"block.number":    {BlockNumber, ast.Uint(256)},
}

// LookupEnv returns the environment accessor for "object.member", if any
func LookupEnv(object, member string) (EnvGlobal, bool) {
	g, ok := envGlobals[object+"."+member]
	return g, ok
}

// LookupEnvIdent handles bare identifiers that read the environment
func LookupEnvIdent(name string) (EnvGlobal, bool) {
	switch name {
	case "now":
		return EnvGlobal{BlockTimestamp, ast.Uint(256)}, true
	case "this":
		return EnvGlobal{AccountID, ast.Address()}, true
	}
	return EnvGlobal{}, false
}

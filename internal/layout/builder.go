// Package layout builds the storage aggregate of a contract.
package layout

import (
	"encoding/binary"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tliron/commonlog"
	"sol2ink/internal/ast"
	"sol2ink/internal/errors"
	"sol2ink/internal/ir"
	"sol2ink/internal/typemap"
)

var log = commonlog.GetLogger("sol2ink.layout")

// AggregateSuffix is appended to the contract name to name its aggregate
const AggregateSuffix = "Data"

// Options configures the builder
type Options struct {
	ReservedField string
}

// Build flattens the state of bases (most-base-first) and c into one
// storage aggregate. Constants occupy no storage and are skipped. A name
// declared twice along the chain is a collision; nothing is returned then.
func Build(c *ast.ContractDefinition, bases []*ast.ContractDefinition, m *typemap.Mapper, opts Options) (*ir.StorageAggregate, []errors.CompilerError) {
	var diags []errors.CompilerError
	declarer := make(map[string]*ast.StateVariable)
	owner := make(map[string]string)

	agg := &ir.StorageAggregate{
		Name:     c.Name + AggregateSuffix,
		Contract: c.Name,
	}

	contracts := append(append([]*ast.ContractDefinition{}, bases...), c)
	for _, contract := range contracts {
		for _, v := range contract.StateVariables {
			if v.Constant {
				continue
			}
			if first, ok := declarer[v.Name]; ok {
				diags = append(diags, errors.FieldCollision(v.Name, owner[v.Name], contract.Name, v.Pos, first.Pos))
				continue
			}
			if v.Name == opts.ReservedField {
				diags = append(diags, errors.FieldCollision(v.Name, "storage layout", contract.Name, v.Pos, ast.Position{}))
				continue
			}
			declarer[v.Name] = v
			owner[v.Name] = contract.Name
			agg.Fields = append(agg.Fields, &ir.StorageField{
				Name:     v.Name,
				Type:     m.Map(v.Type),
				Index:    len(agg.Fields),
				Declarer: contract.Name,
				Source:   v.Type.String(),
			})
		}
	}
	if errors.HasErrors(diags) {
		return nil, diags
	}

	agg.Reserved = &ir.StorageField{
		Name:     opts.ReservedField,
		Type:     ir.Option(ir.Unit()),
		Index:    len(agg.Fields),
		Declarer: c.Name,
	}
	agg.Key, agg.KeyHash = IdentityKey(c.Name, agg.Fields)

	log.Debugf("%s: %d fields, key 0x%08x", agg.Name, len(agg.Fields), agg.Key)
	return agg, diags
}

// FieldSignature is the canonical text of one field in the identity hash
func FieldSignature(f *ir.StorageField) string {
	return f.Name + ":" + f.Type.String()
}

// IdentityKey hashes the contract name and the ordered field signatures.
// The key is the leading four bytes of the keccak256 digest.
func IdentityKey(contract string, fields []*ir.StorageField) (uint32, string) {
	sigs := make([]string, len(fields))
	for i, f := range fields {
		sigs[i] = FieldSignature(f)
	}
	digest := crypto.Keccak256([]byte(contract + "(" + strings.Join(sigs, ",") + ")"))
	return binary.BigEndian.Uint32(digest[:4]), common.Bytes2Hex(digest)
}

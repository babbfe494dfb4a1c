// SPDX-License-Identifier: Apache-2.0
package main

import (
	"encoding/json"

	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
	"sol2ink/internal/abi"
	"sol2ink/internal/ir"
	"sol2ink/internal/pipeline"
)

const (
	formatJSON = "json"
	formatCBOR = "cbor"
	formatText = "text"
)

func validFormat(format string) bool {
	return format == formatJSON || format == formatCBOR || format == formatText
}

// encode serializes a program. CBOR output carries the same tree as the
// JSON document, keys in canonical order.
func encode(prog *ir.Program, format string) ([]byte, error) {
	switch format {
	case formatText:
		return []byte(ir.Print(prog)), nil
	case formatCBOR:
		doc, err := json.Marshal(prog)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		var tree any
		if err := json.Unmarshal(doc, &tree); err != nil {
			return nil, errors.WithStack(err)
		}
		data, err := cbor.Marshal(tree, cbor.EncOptions{Canonical: true})
		return data, errors.WithStack(err)
	default:
		data, err := json.MarshalIndent(prog, "", "  ")
		return data, errors.WithStack(err)
	}
}

func exportABI(res *pipeline.Result) ([]byte, error) {
	return abi.ExportJSON(res.Interface, res.EventABI)
}

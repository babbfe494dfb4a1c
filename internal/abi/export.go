package abi

import (
	"bytes"
	"encoding/json"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// EventABI is the source ABI description of one event
type EventABI struct {
	Name      string
	Anonymous bool
	Inputs    []gethabi.ArgumentMarshaling
}

type jsonEntry struct {
	Type            string                        `json:"type"`
	Name            string                        `json:"name"`
	Inputs          []gethabi.ArgumentMarshaling  `json:"inputs"`
	Outputs         *[]gethabi.ArgumentMarshaling `json:"outputs,omitempty"`
	StateMutability string                        `json:"stateMutability,omitempty"`
	Anonymous       bool                          `json:"anonymous,omitempty"`
}

// ExportJSON renders the interface and events as a source-compatible ABI
// document. The document is parsed back before it is returned.
func ExportJSON(iface *Interface, events []EventABI) ([]byte, error) {
	entries := make([]jsonEntry, 0, len(iface.Entries)+len(events))
	for _, e := range iface.Entries {
		if e.Inputs == nil && len(e.Message.Params) > 0 {
			// no ABI encoding exists for this message
			continue
		}
		outputs := nonNil(e.Outputs)
		entries = append(entries, jsonEntry{
			Type:            "function",
			Name:            e.Message.Name,
			Inputs:          nonNil(e.Inputs),
			Outputs:         &outputs,
			StateMutability: e.Mutability,
		})
	}
	for _, ev := range events {
		entries = append(entries, jsonEntry{
			Type:      "event",
			Name:      ev.Name,
			Inputs:    nonNil(ev.Inputs),
			Anonymous: ev.Anonymous,
		})
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := gethabi.JSON(bytes.NewReader(b)); err != nil {
		return nil, errors.Wrap(err, "generated ABI does not parse")
	}
	return b, nil
}

func nonNil(args []gethabi.ArgumentMarshaling) []gethabi.ArgumentMarshaling {
	if args == nil {
		return []gethabi.ArgumentMarshaling{}
	}
	return args
}

// Package layoutlock records the storage layout of every translated contract
// so that later translations can only extend it. Layouts are kept in a bbolt
// database, one CBOR-encoded record per contract.
package layoutlock

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"go.etcd.io/bbolt"
	"sol2ink/internal/ast"
	sterrors "sol2ink/internal/errors"
	"sol2ink/internal/ir"
)

var log = commonlog.GetLogger("sol2ink.layoutlock")

var bucket = []byte("layouts")

// Field is one recorded storage field
type Field struct {
	Name     string
	Type     string
	Declarer string
}

// Record is the layout of one contract as last translated
type Record struct {
	Contract string
	Key      uint32
	KeyHash  string
	Fields   []Field
	Recorded int64
}

// Lock is an open layout database. It is safe for concurrent use.
type Lock struct {
	db *bbolt.DB
}

// Open opens or creates the layout database at path
func Open(path string) (*Lock, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open layout lock %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.WithStack(err)
	}
	return &Lock{db: db}, nil
}

// Close releases the database
func (l *Lock) Close() error {
	return l.db.Close()
}

// Get returns the recorded layout of contract, if any
func (l *Lock) Get(contract string) (*Record, bool, error) {
	var data []byte
	err := l.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(contract)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	if data == nil {
		return nil, false, nil
	}
	var rec Record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, false, errors.Wrapf(err, "corrupt layout record for %s", contract)
	}
	return &rec, true, nil
}

// Check compares agg with the recorded layout of its contract. The new
// layout must keep every recorded field, in place and with the same type;
// it may only append.
func (l *Lock) Check(agg *ir.StorageAggregate, pos ast.Position) ([]sterrors.CompilerError, error) {
	prev, ok, err := l.Get(agg.Contract)
	if err != nil || !ok {
		return nil, err
	}
	if detail := drift(prev.Fields, fieldsOf(agg)); detail != "" {
		return []sterrors.CompilerError{sterrors.LayoutDrift(agg.Contract, detail, pos)}, nil
	}
	return nil, nil
}

// Put records agg as the current layout of its contract
func (l *Lock) Put(agg *ir.StorageAggregate) error {
	rec := Record{
		Contract: agg.Contract,
		Key:      agg.Key,
		KeyHash:  agg.KeyHash,
		Fields:   fieldsOf(agg),
		Recorded: time.Now().Unix(),
	}
	data, err := cbor.Marshal(rec, cbor.EncOptions{})
	if err != nil {
		return errors.WithStack(err)
	}
	err = l.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(agg.Contract), data)
	})
	if err != nil {
		return errors.WithStack(err)
	}
	log.Debugf("recorded layout of %s (%d fields, key %s)", agg.Contract, len(rec.Fields), agg.KeyHash)
	return nil
}

func fieldsOf(agg *ir.StorageAggregate) []Field {
	out := make([]Field, len(agg.Fields))
	for i, f := range agg.Fields {
		out[i] = Field{Name: f.Name, Type: f.Type.String(), Declarer: f.Declarer}
	}
	return out
}

// drift describes the first incompatibility between two layouts, or
// returns "" when next extends prev
func drift(prev, next []Field) string {
	for i, p := range prev {
		if i >= len(next) {
			return fmt.Sprintf("field '%s' (index %d) was removed", p.Name, i)
		}
		n := next[i]
		if n.Name != p.Name {
			return fmt.Sprintf("index %d held '%s', now holds '%s'", i, p.Name, n.Name)
		}
		if n.Type != p.Type {
			return fmt.Sprintf("field '%s' changed type from %s to %s", p.Name, p.Type, n.Type)
		}
	}
	return ""
}

package repository

import (
	"fmt"

	"github.com/hashicorp/go-memdb"

	appErr "github.com/showcase-studio/engine/pkg/errors"
)

// memTable gives typed access to one go-memdb table whose rows are *T.
// Rows are never mutated after insertion; updates insert a fresh pointer.
type memTable[T any] struct {
	name string
}

func newMemTable[T any](name string) memTable[T] {
	return memTable[T]{name: name}
}

func (t memTable[T]) first(txn *memdb.Txn, index string, args ...any) (*T, error) {
	raw, err := txn.First(t.name, index, args...)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("lookup %s by %s failed", t.name, index))
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*T), nil
}

func (t memTable[T]) all(txn *memdb.Txn) ([]*T, error) {
	it, err := txn.Get(t.name, "id")
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("scan %s failed", t.name))
	}
	var out []*T
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(*T))
	}
	return out, nil
}

func (t memTable[T]) count(txn *memdb.Txn) (int, error) {
	it, err := txn.Get(t.name, "id")
	if err != nil {
		return 0, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("count %s failed", t.name))
	}
	n := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n, nil
}

func (t memTable[T]) insert(txn *memdb.Txn, obj *T) error {
	if err := txn.Insert(t.name, obj); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("insert into %s failed", t.name))
	}
	return nil
}

func (t memTable[T]) delete(txn *memdb.Txn, obj *T) error {
	if err := txn.Delete(t.name, obj); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("delete from %s failed", t.name))
	}
	return nil
}

func (t memTable[T]) truncate(txn *memdb.Txn) error {
	if _, err := txn.DeleteAll(t.name, "id"); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("truncate %s failed", t.name))
	}
	return nil
}

package storage

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
)

// Badger is a durable Store on top of badger. With inMemory set nothing touches the disk.
type Badger struct {
	db *badger.DB
}

func NewBadger(path string, inMemory bool) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open badger at %s", path)
	}

	return &Badger{db: db}, nil
}

func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}

	if value == nil {
		value = []byte{}
	}

	return value, nil
}

func (b *Badger) Set(_ context.Context, key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}

	return nil
}

func (b *Badger) Remove(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

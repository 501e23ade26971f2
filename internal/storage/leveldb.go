package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDB is the default durable Store.
type LevelDB struct {
	db *leveldb.DB
}

func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open leveldb at %s", path)
	}

	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(_ context.Context, key string) ([]byte, error) {
	value, err := l.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}

	return value, nil
}

func (l *LevelDB) Set(_ context.Context, key string, value []byte) error {
	// vault writes must survive a crash right after wallet creation
	if err := l.db.Put([]byte(key), value, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}

	return nil
}

func (l *LevelDB) Remove(_ context.Context, key string) error {
	if err := l.db.Delete([]byte(key), &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}

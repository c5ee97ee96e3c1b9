/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Sat Dec 23 15:10:01 2017 mstenber
 * Last modified: Wed Apr 11 16:20:19 2018 mstenber
 * Edit time:     171 min
 *
 */

package badger

import (
	"os"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
)

// badgerKV keeps the image blocks in a badger database in the
// configured directory.
type badgerKV struct {
	db *badger.DB
}

var _ storage.KV = &badgerKV{}

func NewBadgerBackend(config storage.BackendConfiguration) (storage.Backend, error) {
	dir := config.Path
	if !config.ReadOnly {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Wrap(err, "mkdir")
		}
	}
	opts := badger.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	opts.ReadOnly = config.ReadOnly
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "badger.Open")
	}
	self := &storage.KVBackend{}
	if err = self.Init(&badgerKV{db: db}, config, "storage/badger/badger"); err != nil {
		db.Close()
		return nil, err
	}
	return self, nil
}

func (self *badgerKV) Get(key []byte) (v []byte, err error) {
	err = self.db.View(func(txn *badger.Txn) error {
		i, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err == nil {
			v, err = i.ValueCopy(nil)
		}
		return err
	})
	return
}

func (self *badgerKV) Set(key, value []byte) error {
	mlog.Printf2("storage/badger/badger", "bad.Set %x (%d b)", key, len(value))
	return self.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (self *badgerKV) Delete(key []byte) error {
	return self.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Sync is a no-op; badger with default options writes the value log
// synchronously on every update.
func (self *badgerKV) Sync() error {
	return nil
}

func (self *badgerKV) Close() error {
	return self.db.Close()
}

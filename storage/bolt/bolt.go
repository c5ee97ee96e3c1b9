/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Wed Jan  3 22:49:15 2018 mstenber
 * Last modified: Wed Apr 11 16:02:38 2018 mstenber
 * Edit time:     47 min
 *
 */

package bolt

import (
	"fmt"
	"os"

	bbolt "github.com/coreos/bbolt"
	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
)

var bucketKey = []byte("image")

// boltKV keeps the image blocks in a single bucket of a bbolt
// database in the configured directory.
type boltKV struct {
	db *bbolt.DB
}

var _ storage.KV = &boltKV{}

func NewBoltBackend(config storage.BackendConfiguration) (storage.Backend, error) {
	dir := config.Path
	if !config.ReadOnly {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Wrap(err, "mkdir")
		}
	}
	opts := &bbolt.Options{ReadOnly: config.ReadOnly}
	db, err := bbolt.Open(fmt.Sprintf("%s/bbolt.db", dir), 0600, opts)
	if err != nil {
		return nil, errors.Wrap(err, "bbolt.Open")
	}
	if !config.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketKey)
			return err
		})
		if err != nil {
			db.Close()
			return nil, errors.Wrap(err, "create bucket")
		}
	}
	self := &storage.KVBackend{}
	if err = self.Init(&boltKV{db: db}, config, "storage/bolt/bolt"); err != nil {
		db.Close()
		return nil, err
	}
	return self, nil
}

func (self *boltKV) Get(key []byte) (v []byte, err error) {
	err = self.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketKey)
		if b == nil {
			return nil
		}
		if bv := b.Get(key); bv != nil {
			v = append([]byte(nil), bv...)
		}
		return nil
	})
	return
}

func (self *boltKV) Set(key, value []byte) error {
	mlog.Printf2("storage/bolt/bolt", "bolt.Set %x (%d b)", key, len(value))
	return self.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKey).Put(key, value)
	})
}

func (self *boltKV) Delete(key []byte) error {
	return self.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKey).Delete(key)
	})
}

func (self *boltKV) Sync() error {
	return self.db.Sync()
}

func (self *boltKV) Close() error {
	return self.db.Close()
}

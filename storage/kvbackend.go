/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  9 13:20:02 2018 mstenber
 * Last modified: Wed Apr 11 15:33:18 2018 mstenber
 * Edit time:     58 min
 *
 */

package storage

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/util"
)

// KV is the minimal key-value store API the database backends
// provide.
type KV interface {
	// Get returns the value of key, or nil if it is not set.
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Sync() error
	Close() error
}

// Key encoding:
//
// - "c" -> block count, 8 bytes big-endian
//
// - "b" + block number (8 bytes big-endian) -> codec(block data)
//
// All-zero blocks are not stored at all, which keeps freshly
// formatted images small.
var countKey = []byte("c")

const blockKeyPrefix = 'b'

func blockKey(n uint64) []byte {
	k := make([]byte, 9)
	k[0] = blockKeyPrefix
	binary.BigEndian.PutUint64(k[1:], n)
	return k
}

// KVBackend implements Backend on top of a KV.
type KVBackend struct {
	BackendConfiguration
	kv    KV
	count uint64
	tag   string
}

var _ Backend = &KVBackend{}

// Init loads the block count, or discards existing content if
// config.Create is set. tag is used for logging.
func (self *KVBackend) Init(kv KV, config BackendConfiguration, tag string) error {
	self.kv = kv
	self.BackendConfiguration = config
	self.tag = tag
	v, err := kv.Get(countKey)
	if err != nil {
		return errors.Wrap(err, "get block count")
	}
	if len(v) == 8 {
		self.count = binary.BigEndian.Uint64(v)
	}
	mlog.Printf2(tag, "kv.Init %v count:%d create:%v", config.Path, self.count, config.Create)
	if config.Create {
		return self.setBlockCount(0)
	}
	return nil
}

func (self *KVBackend) Close() error {
	return self.kv.Close()
}

func (self *KVBackend) BlockCount() (uint64, error) {
	return self.count, nil
}

func (self *KVBackend) setBlockCount(n uint64) error {
	for i := n; i < self.count; i++ {
		if err := self.kv.Delete(blockKey(i)); err != nil {
			return errors.Wrapf(err, "delete block %d", i)
		}
	}
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, n)
	if err := self.kv.Set(countKey, v); err != nil {
		return errors.Wrap(err, "set block count")
	}
	self.count = n
	return nil
}

func (self *KVBackend) SetBlockCount(n uint64) error {
	if self.ReadOnly {
		return ErrReadOnly
	}
	mlog.Printf2(self.tag, "kv.SetBlockCount %d -> %d", self.count, n)
	return self.setBlockCount(n)
}

func (self *KVBackend) ReadBlock(n uint64, buf []byte) error {
	if err := CheckBlock(n, self.count, buf); err != nil {
		return err
	}
	k := blockKey(n)
	v, err := self.kv.Get(k)
	if err != nil {
		return errors.Wrapf(err, "get block %d", n)
	}
	if v == nil {
		for i := range buf {
			buf[i] = 0
		}
		return nil
	}
	if self.Codec != nil {
		v, err = self.Codec.DecodeBytes(v, k)
		if err != nil {
			return errors.Wrapf(err, "decode block %d", n)
		}
	}
	if len(v) != layout.BlockSize {
		return errors.Wrapf(ErrBlockSize, "stored block %d has %d bytes", n, len(v))
	}
	copy(buf, v)
	return nil
}

func (self *KVBackend) WriteBlock(n uint64, buf []byte) error {
	if self.ReadOnly {
		return ErrReadOnly
	}
	if err := CheckBlock(n, self.count, buf); err != nil {
		return err
	}
	k := blockKey(n)
	if util.IsZero(buf) {
		mlog.Printf2(self.tag, "kv.WriteBlock %d (zero)", n)
		return self.kv.Delete(k)
	}
	v := append([]byte(nil), buf...)
	if self.Codec != nil {
		var err error
		v, err = self.Codec.EncodeBytes(v, k)
		if err != nil {
			return errors.Wrapf(err, "encode block %d", n)
		}
	}
	mlog.Printf2(self.tag, "kv.WriteBlock %d (%d b)", n, len(v))
	return self.kv.Set(k, v)
}

func (self *KVBackend) Sync() error {
	return self.kv.Sync()
}

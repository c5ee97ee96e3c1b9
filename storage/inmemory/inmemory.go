/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Sun Dec 17 22:20:08 2017 mstenber
 * Last modified: Tue Apr 10 11:40:52 2018 mstenber
 * Edit time:     79 min
 *
 */

package inmemory

import (
	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
	"github.com/fingon/go-mvsf/util"
)

// InMemoryBackend keeps the image in a byte slice. Used by tests, and
// useful for staging an image before copying it elsewhere.
type InMemoryBackend struct {
	data []byte
	lock util.MutexLocked
}

var _ storage.Backend = &InMemoryBackend{}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{}
}

// Bytes returns the image content. It aliases the backend's memory.
func (self *InMemoryBackend) Bytes() []byte {
	defer self.lock.Locked()()
	return self.data
}

func (self *InMemoryBackend) Close() error {
	return nil
}

func (self *InMemoryBackend) BlockCount() (uint64, error) {
	defer self.lock.Locked()()
	return uint64(len(self.data) / layout.BlockSize), nil
}

func (self *InMemoryBackend) SetBlockCount(n uint64) error {
	defer self.lock.Locked()()
	mlog.Printf2("storage/inmemory/inmemory", "im.SetBlockCount %d", n)
	size := int(n) * layout.BlockSize
	if size <= len(self.data) {
		self.data = self.data[:size]
		return nil
	}
	nd := make([]byte, size)
	copy(nd, self.data)
	self.data = nd
	return nil
}

func (self *InMemoryBackend) ReadBlock(n uint64, buf []byte) error {
	defer self.lock.Locked()()
	if err := storage.CheckBlock(n, uint64(len(self.data)/layout.BlockSize), buf); err != nil {
		return err
	}
	copy(buf, self.data[int(n)*layout.BlockSize:])
	return nil
}

func (self *InMemoryBackend) WriteBlock(n uint64, buf []byte) error {
	defer self.lock.Locked()()
	if err := storage.CheckBlock(n, uint64(len(self.data)/layout.BlockSize), buf); err != nil {
		return err
	}
	mlog.Printf2("storage/inmemory/inmemory", "im.WriteBlock %d", n)
	copy(self.data[int(n)*layout.BlockSize:], buf)
	return nil
}

func (self *InMemoryBackend) Sync() error {
	return nil
}

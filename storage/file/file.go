/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Wed Jan  3 15:44:41 2018 mstenber
 * Last modified: Tue Apr 10 11:26:40 2018 mstenber
 * Edit time:     97 min
 *
 */

package file

import (
	"os"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
)

// fileBackend is the image file itself: block n lives at byte
// offset n * BlockSize. Every write is a positioned write straight to
// the file, without buffering.
type fileBackend struct {
	storage.BackendConfiguration
	f *os.File
}

var _ storage.Backend = &fileBackend{}

func NewFileBackend(config storage.BackendConfiguration) (storage.Backend, error) {
	flags := os.O_RDWR
	switch {
	case config.ReadOnly:
		flags = os.O_RDONLY
	case config.Create:
		flags |= os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(config.Path, flags, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	mlog.Printf2("storage/file/file", "NewFileBackend %v flags:%x", config.Path, flags)
	return &fileBackend{BackendConfiguration: config, f: f}, nil
}

func (self *fileBackend) Close() error {
	return self.f.Close()
}

func (self *fileBackend) BlockCount() (uint64, error) {
	fi, err := self.f.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat image")
	}
	size := fi.Size()
	if size%layout.BlockSize != 0 {
		return 0, errors.Wrapf(storage.ErrUnaligned, "%v is %d bytes", self.Path, size)
	}
	return uint64(size / layout.BlockSize), nil
}

func (self *fileBackend) SetBlockCount(n uint64) error {
	if self.ReadOnly {
		return storage.ErrReadOnly
	}
	mlog.Printf2("storage/file/file", "fb.SetBlockCount %d", n)
	return errors.Wrap(self.f.Truncate(int64(n)*layout.BlockSize), "truncate image")
}

func (self *fileBackend) checkBlock(n uint64, buf []byte) error {
	count, err := self.BlockCount()
	if err != nil {
		return err
	}
	return storage.CheckBlock(n, count, buf)
}

func (self *fileBackend) ReadBlock(n uint64, buf []byte) error {
	if err := self.checkBlock(n, buf); err != nil {
		return err
	}
	_, err := self.f.ReadAt(buf, int64(n)*layout.BlockSize)
	return errors.Wrapf(err, "read block %d", n)
}

func (self *fileBackend) WriteBlock(n uint64, buf []byte) error {
	if self.ReadOnly {
		return storage.ErrReadOnly
	}
	if err := self.checkBlock(n, buf); err != nil {
		return err
	}
	mlog.Printf2("storage/file/file", "fb.WriteBlock %d", n)
	_, err := self.f.WriteAt(buf, int64(n)*layout.BlockSize)
	return errors.Wrapf(err, "write block %d", n)
}

func (self *fileBackend) Sync() error {
	if self.ReadOnly {
		return nil
	}
	return errors.Wrap(self.f.Sync(), "sync image")
}

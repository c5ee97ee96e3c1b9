/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  9 10:05:40 2018 mstenber
 * Last modified: Tue Apr 10 09:48:31 2018 mstenber
 * Edit time:     34 min
 *
 */

// storage provides the block store the image lives in. The file
// backend is the image file itself; the key-value backends (bolt,
// badger) keep the same blocks in a database, optionally through a
// codec.
package storage

import (
	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
)

// CheckBlock validates a block access against the block count.
func CheckBlock(n, count uint64, buf []byte) error {
	if len(buf) != layout.BlockSize {
		return errors.Wrapf(ErrBlockSize, "got %d bytes", len(buf))
	}
	if n >= count {
		return errors.Wrapf(ErrBlockRange, "block %d of %d", n, count)
	}
	return nil
}

// Copy makes dst a block-for-block duplicate of src.
func Copy(dst, src Backend) error {
	n, err := src.BlockCount()
	if err != nil {
		return err
	}
	mlog.Printf2("storage/storage", "Copy %d blocks", n)
	if err = dst.SetBlockCount(n); err != nil {
		return err
	}
	buf := make([]byte, layout.BlockSize)
	for i := uint64(0); i < n; i++ {
		if err = src.ReadBlock(i, buf); err != nil {
			return errors.Wrapf(err, "copy read block %d", i)
		}
		if err = dst.WriteBlock(i, buf); err != nil {
			return errors.Wrapf(err, "copy write block %d", i)
		}
	}
	return dst.Sync()
}

// Equal reports whether two images hold identical blocks.
func Equal(a, b Backend) (bool, error) {
	na, err := a.BlockCount()
	if err != nil {
		return false, err
	}
	nb, err := b.BlockCount()
	if err != nil {
		return false, err
	}
	if na != nb {
		return false, nil
	}
	ba := make([]byte, layout.BlockSize)
	bb := make([]byte, layout.BlockSize)
	for i := uint64(0); i < na; i++ {
		if err = a.ReadBlock(i, ba); err != nil {
			return false, err
		}
		if err = b.ReadBlock(i, bb); err != nil {
			return false, err
		}
		if string(ba) != string(bb) {
			mlog.Printf2("storage/storage", "Equal: block %d differs", i)
			return false, nil
		}
	}
	return true, nil
}

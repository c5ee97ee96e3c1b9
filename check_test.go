/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Wed Apr 18 10:12:40 2018 mstenber
 * Last modified: Wed Apr 18 11:30:02 2018 mstenber
 * Edit time:     24 min
 *
 */

package mvsf

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stvp/assert"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/storage/inmemory"
)

// withFile returns a 180 KiB image holding a single 100 byte file
// "f" (inode 2, block 8).
func withFile(t *testing.T) *inmemory.InMemoryBackend {
	be := formatted(t, 180, 128)
	_, err := InsertInPlace(be, "f", bytes.NewReader(make([]byte, 100)), 100, testOpts)
	assert.Nil(t, err)
	return be
}

func openChecked(t *testing.T, be *inmemory.InMemoryBackend) (*Image, error) {
	img, err := Open(be)
	assert.Nil(t, err)
	return img, Check(img)
}

func TestCheckOk(t *testing.T) {
	t.Parallel()
	_, err := openChecked(t, withFile(t))
	assert.Nil(t, err)
}

func TestCheckInodeChecksum(t *testing.T) {
	t.Parallel()
	be := withFile(t)
	// Uid of inode 2
	be.Bytes()[3*layout.BlockSize+layout.InodeSize+4] = 42
	_, err := openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrChecksum)
}

func TestCheckSuperblock(t *testing.T) {
	t.Parallel()
	be := withFile(t)
	be.Bytes()[100] ^= 1
	_, err := openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrChecksum)

	// Consistent checksum, inconsistent regions
	be = withFile(t)
	img, err := Open(be)
	assert.Nil(t, err)
	img.Superblock.DataRegionBlocks--
	assert.Nil(t, img.WriteSuperblock(img.Superblock.MtimeEpoch))
	_, err = openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)
}

func TestCheckReferences(t *testing.T) {
	t.Parallel()

	mutateInode := func(f func(in *layout.Inode)) error {
		be := withFile(t)
		img, err := Open(be)
		assert.Nil(t, err)
		in, _, err := img.ReadInode(1)
		assert.Nil(t, err)
		f(&in)
		assert.Nil(t, img.WriteInode(1, &in))
		_, err = openChecked(t, be)
		return err
	}

	err := mutateInode(func(in *layout.Inode) { in.Direct[0] = 3 })
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)

	err = mutateInode(func(in *layout.Inode) { in.Direct[0] = 45 })
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)

	// Valid region, but bit 2 is free
	err = mutateInode(func(in *layout.Inode) { in.Direct[0] = 9 })
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)

	err = mutateInode(func(in *layout.Inode) { in.Size = layout.BlockSize + 1 })
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)

	err = mutateInode(func(in *layout.Inode) { in.Mtime++ })
	assert.Nil(t, err)
}

func TestCheckBitmaps(t *testing.T) {
	t.Parallel()

	// Root bits
	be := withFile(t)
	be.Bytes()[layout.BlockSize] &^= 1
	_, err := openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)

	be = withFile(t)
	be.Bytes()[2*layout.BlockSize] &^= 1
	_, err = openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)

	// Entry "f" points at a free inode
	be = withFile(t)
	be.Bytes()[layout.BlockSize] &^= 2
	_, err = openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)

	// Block 8 of "f" is free
	be = withFile(t)
	be.Bytes()[2*layout.BlockSize] &^= 2
	_, err = openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrBadGeometry)
}

func TestCheckDirent(t *testing.T) {
	t.Parallel()
	be := withFile(t)
	// Name of entry 2 ("f") changes, checksum does not
	be.Bytes()[7*layout.BlockSize+2*layout.DirentSize+5] = 'g'
	_, err := openChecked(t, be)
	assert.Equal(t, errors.Cause(err), ErrChecksum)
}

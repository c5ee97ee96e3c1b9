/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Thu Apr 12 14:20:30 2018 mstenber
 * Last modified: Mon Apr 16 09:12:48 2018 mstenber
 * Edit time:     66 min
 *
 */

package mvsf

import (
	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/bitmap"
	"github.com/fingon/go-mvsf/checksum"
	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
)

// Image is an opened image: the backend it lives in plus its decoded
// superblock. All access goes through blocks and inode table slots.
type Image struct {
	Backend    storage.Backend
	Superblock layout.Superblock
}

// Open decodes the superblock of the image in be. Only the magic is
// verified; see Check for the rest.
func Open(be storage.Backend) (*Image, error) {
	self := &Image{Backend: be}
	block, err := self.readBlock(0)
	if err != nil {
		return nil, errors.Wrap(err, "read superblock")
	}
	self.Superblock = layout.DecodeSuperblock(block)
	if self.Superblock.Magic != layout.Magic {
		return nil, errors.Wrapf(ErrBadMagic, "got 0x%08x", self.Superblock.Magic)
	}
	mlog.Printf2("image", "Open: %d blocks, %d inodes, data at %d",
		self.Superblock.TotalBlocks, self.Superblock.InodeCount,
		self.Superblock.DataRegionStart)
	return self, nil
}

func (self *Image) readBlock(n uint64) ([]byte, error) {
	b := make([]byte, layout.BlockSize)
	if err := self.Backend.ReadBlock(n, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (self *Image) writeBlock(n uint64, b []byte) error {
	mlog.Printf2("image", "writeBlock %d", n)
	return self.Backend.WriteBlock(n, b)
}

// ReadInode returns inode table slot (inode number - 1) and its
// encoded bytes.
func (self *Image) ReadInode(slot uint64) (layout.Inode, []byte, error) {
	n, off := self.Superblock.InodeLocation(slot)
	block, err := self.readBlock(n)
	if err != nil {
		return layout.Inode{}, nil, errors.Wrapf(err, "read inode %d", slot+1)
	}
	raw := block[off : off+layout.InodeSize]
	return layout.DecodeInode(raw), raw, nil
}

// WriteInode encodes in, finalizes its checksum and stores it in
// the given slot.
func (self *Image) WriteInode(slot uint64, in *layout.Inode) error {
	n, off := self.Superblock.InodeLocation(slot)
	block, err := self.readBlock(n)
	if err != nil {
		return errors.Wrapf(err, "read inode %d", slot+1)
	}
	raw := block[off : off+layout.InodeSize]
	layout.EncodeInode(in, raw)
	in.Crc = uint64(checksum.FinalizeInode(raw))
	mlog.Printf2("image", "WriteInode %d crc %08x", slot+1, in.Crc)
	return errors.Wrapf(self.writeBlock(n, block), "write inode %d", slot+1)
}

// InodeBitmap loads the inode bitmap; the search is limited to the
// inode count.
func (self *Image) InodeBitmap() (*bitmap.Bitmap, error) {
	b, err := self.readBlock(self.Superblock.InodeBitmapStart)
	if err != nil {
		return nil, errors.Wrap(err, "read inode bitmap")
	}
	return bitmap.New(b, int(self.Superblock.InodeCount)), nil
}

// DataBitmap loads the data bitmap; bit i is data region block i and
// the search is limited to the data region size.
func (self *Image) DataBitmap() (*bitmap.Bitmap, error) {
	b, err := self.readBlock(self.Superblock.DataBitmapStart)
	if err != nil {
		return nil, errors.Wrap(err, "read data bitmap")
	}
	return bitmap.New(b, int(self.Superblock.DataRegionBlocks)), nil
}

func (self *Image) writeInodeBitmap(bm *bitmap.Bitmap) error {
	return errors.Wrap(self.writeBlock(self.Superblock.InodeBitmapStart, bm.Bytes()),
		"write inode bitmap")
}

func (self *Image) writeDataBitmap(bm *bitmap.Bitmap) error {
	return errors.Wrap(self.writeBlock(self.Superblock.DataBitmapStart, bm.Bytes()),
		"write data bitmap")
}

// WriteSuperblock sets the modification time, finalizes the checksum
// and writes block 0. Bytes of block 0 past the superblock record are
// preserved.
func (self *Image) WriteSuperblock(mtime uint64) error {
	block, err := self.readBlock(0)
	if err != nil {
		return errors.Wrap(err, "read superblock")
	}
	self.Superblock.MtimeEpoch = mtime
	layout.EncodeSuperblock(&self.Superblock, block)
	self.Superblock.Checksum = checksum.FinalizeSuperblock(block)
	mlog.Printf2("image", "WriteSuperblock crc %08x", self.Superblock.Checksum)
	return errors.Wrap(self.writeBlock(0, block), "write superblock")
}

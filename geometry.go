/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Thu Apr 12 13:10:42 2018 mstenber
 * Last modified: Fri Apr 13 11:02:09 2018 mstenber
 * Edit time:     29 min
 *
 */

package mvsf

import (
	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/util"
)

const (
	MinSizeKib    = 180
	MaxSizeKib    = 4096
	SizeKibStep   = 4
	MinInodeCount = 128
	MaxInodeCount = 512
)

// Geometry is the region layout of an image:
//
//	block 0                 superblock
//	block 1                 inode bitmap
//	block 2                 data bitmap
//	block 3..               inode table
//	DataRegionStart..       data region, up to TotalBlocks
type Geometry struct {
	TotalBlocks      uint64
	InodeCount       uint64
	InodeTableBlocks uint64
	DataRegionStart  uint64
	DataRegionBlocks uint64
}

const (
	inodeBitmapStart = 1
	dataBitmapStart  = 2
	inodeTableStart  = 3
)

// NewGeometry validates the formatter parameters and derives the
// layout from them.
func NewGeometry(sizeKib, inodeCount uint64) (g Geometry, err error) {
	if sizeKib < MinSizeKib || sizeKib > MaxSizeKib || sizeKib%SizeKibStep != 0 {
		err = errors.Wrapf(ErrInvalidSize, "got %d", sizeKib)
		return
	}
	if inodeCount < MinInodeCount || inodeCount > MaxInodeCount {
		err = errors.Wrapf(ErrInvalidInodeCount, "got %d", inodeCount)
		return
	}
	g.TotalBlocks = sizeKib * 1024 / layout.BlockSize
	g.InodeCount = inodeCount
	g.InodeTableBlocks = util.CeilDiv(inodeCount*layout.InodeSize, layout.BlockSize)
	g.DataRegionStart = inodeTableStart + g.InodeTableBlocks
	g.DataRegionBlocks = g.TotalBlocks - g.DataRegionStart
	return
}

// Superblock returns a superblock describing g; checksum not set.
func (self Geometry) Superblock(mtime uint64) layout.Superblock {
	return layout.Superblock{
		Magic:             layout.Magic,
		Version:           layout.Version,
		BlockSize:         layout.BlockSize,
		TotalBlocks:       self.TotalBlocks,
		InodeCount:        self.InodeCount,
		InodeBitmapStart:  inodeBitmapStart,
		InodeBitmapBlocks: 1,
		DataBitmapStart:   dataBitmapStart,
		DataBitmapBlocks:  1,
		InodeTableStart:   inodeTableStart,
		InodeTableBlocks:  self.InodeTableBlocks,
		DataRegionStart:   self.DataRegionStart,
		DataRegionBlocks:  self.DataRegionBlocks,
		RootInode:         layout.RootInode,
		MtimeEpoch:        mtime,
	}
}

// checkGeometry verifies the region layout of a decoded
// superblock.
func checkGeometry(sb *layout.Superblock) error {
	switch {
	case sb.BlockSize != layout.BlockSize:
		return errors.Wrapf(ErrBadGeometry, "block size %d", sb.BlockSize)
	case sb.InodeTableStart+sb.InodeTableBlocks != sb.DataRegionStart:
		return errors.Wrapf(ErrBadGeometry, "inode table %d+%d does not end at data region %d",
			sb.InodeTableStart, sb.InodeTableBlocks, sb.DataRegionStart)
	case sb.DataRegionStart+sb.DataRegionBlocks != sb.TotalBlocks:
		return errors.Wrapf(ErrBadGeometry, "data region %d+%d does not end at %d",
			sb.DataRegionStart, sb.DataRegionBlocks, sb.TotalBlocks)
	case sb.InodeTableBlocks*layout.InodesPerBlock < sb.InodeCount:
		return errors.Wrapf(ErrBadGeometry, "inode table too small for %d inodes", sb.InodeCount)
	case sb.DataRegionBlocks == 0:
		return errors.Wrapf(ErrBadGeometry, "empty data region")
	}
	return nil
}

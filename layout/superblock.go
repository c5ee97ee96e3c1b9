/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 09:20:11 2018 mstenber
 * Last modified: Tue Apr  3 14:02:55 2018 mstenber
 * Edit time:     44 min
 *
 */

package layout

import (
	"encoding/binary"
	"log"
)

var le = binary.LittleEndian

// Superblock lives at the start of block 0.
//
//	off size field
//	  0    4 Magic
//	  4    4 Version
//	  8    4 BlockSize
//	 12    8 TotalBlocks
//	 20    8 InodeCount
//	 28    8 InodeBitmapStart
//	 36    8 InodeBitmapBlocks
//	 44    8 DataBitmapStart
//	 52    8 DataBitmapBlocks
//	 60    8 InodeTableStart
//	 68    8 InodeTableBlocks
//	 76    8 DataRegionStart
//	 84    8 DataRegionBlocks
//	 92    8 RootInode
//	100    8 MtimeEpoch
//	108    4 Flags
//	112    4 Checksum
type Superblock struct {
	Magic             uint32
	Version           uint32
	BlockSize         uint32
	TotalBlocks       uint64
	InodeCount        uint64
	InodeBitmapStart  uint64
	InodeBitmapBlocks uint64
	DataBitmapStart   uint64
	DataBitmapBlocks  uint64
	InodeTableStart   uint64
	InodeTableBlocks  uint64
	DataRegionStart   uint64
	DataRegionBlocks  uint64
	RootInode         uint64
	MtimeEpoch        uint64
	Flags             uint32
	Checksum          uint32
}

// EncodeSuperblock writes sb into the first SuperblockSize bytes of b.
func EncodeSuperblock(sb *Superblock, b []byte) {
	if len(b) < SuperblockSize {
		log.Panicf("EncodeSuperblock: short buffer %d", len(b))
	}
	le.PutUint32(b[0:], sb.Magic)
	le.PutUint32(b[4:], sb.Version)
	le.PutUint32(b[8:], sb.BlockSize)
	le.PutUint64(b[12:], sb.TotalBlocks)
	le.PutUint64(b[20:], sb.InodeCount)
	le.PutUint64(b[28:], sb.InodeBitmapStart)
	le.PutUint64(b[36:], sb.InodeBitmapBlocks)
	le.PutUint64(b[44:], sb.DataBitmapStart)
	le.PutUint64(b[52:], sb.DataBitmapBlocks)
	le.PutUint64(b[60:], sb.InodeTableStart)
	le.PutUint64(b[68:], sb.InodeTableBlocks)
	le.PutUint64(b[76:], sb.DataRegionStart)
	le.PutUint64(b[84:], sb.DataRegionBlocks)
	le.PutUint64(b[92:], sb.RootInode)
	le.PutUint64(b[100:], sb.MtimeEpoch)
	le.PutUint32(b[108:], sb.Flags)
	le.PutUint32(b[SuperblockChecksumOffset:], sb.Checksum)
}

func DecodeSuperblock(b []byte) (sb Superblock) {
	if len(b) < SuperblockSize {
		log.Panicf("DecodeSuperblock: short buffer %d", len(b))
	}
	sb.Magic = le.Uint32(b[0:])
	sb.Version = le.Uint32(b[4:])
	sb.BlockSize = le.Uint32(b[8:])
	sb.TotalBlocks = le.Uint64(b[12:])
	sb.InodeCount = le.Uint64(b[20:])
	sb.InodeBitmapStart = le.Uint64(b[28:])
	sb.InodeBitmapBlocks = le.Uint64(b[36:])
	sb.DataBitmapStart = le.Uint64(b[44:])
	sb.DataBitmapBlocks = le.Uint64(b[52:])
	sb.InodeTableStart = le.Uint64(b[60:])
	sb.InodeTableBlocks = le.Uint64(b[68:])
	sb.DataRegionStart = le.Uint64(b[76:])
	sb.DataRegionBlocks = le.Uint64(b[84:])
	sb.RootInode = le.Uint64(b[92:])
	sb.MtimeEpoch = le.Uint64(b[100:])
	sb.Flags = le.Uint32(b[108:])
	sb.Checksum = le.Uint32(b[SuperblockChecksumOffset:])
	return
}

// InodeLocation returns the block holding inode table slot and the
// byte offset of the slot within that block.
func (self *Superblock) InodeLocation(slot uint64) (block uint64, offset int) {
	block = self.InodeTableStart + slot/InodesPerBlock
	offset = int(slot%InodesPerBlock) * InodeSize
	return
}

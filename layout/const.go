/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 09:12:40 2018 mstenber
 * Last modified: Mon Apr  2 10:41:02 2018 mstenber
 * Edit time:     31 min
 *
 */

// layout describes the on-disk records of the image format: the
// superblock, the inode and the directory entry. Every record has a
// fixed size and fixed field offsets, and every multi-byte integer is
// stored little-endian regardless of the host byte order.
//
// Encode/Decode functions are pure; they neither compute nor verify
// checksums (see the checksum package for that).
package layout

const (
	BlockSize = 4096

	Magic   = 0x4D565346 // 'MVSF'
	Version = 1

	SuperblockSize = 116
	InodeSize      = 128
	DirentSize     = 64

	// DirectBlocks is the number of block pointers in an inode; there
	// is no indirection so it also caps the file size.
	DirectBlocks = 12
	MaxFileSize  = DirectBlocks * BlockSize

	// NameSize is the size of the dirent name field, NameMax the
	// longest name that still leaves room for the terminating NUL.
	NameSize = 58
	NameMax  = NameSize - 1

	DirentsPerBlock = BlockSize / DirentSize
	InodesPerBlock  = BlockSize / InodeSize

	RootInode = 1
	ProjectId = 9
)

const (
	ModeTypeMask  uint16 = 0170000
	ModeDirectory uint16 = 0040000
	ModeRegular   uint16 = 0100000
)

const (
	DirentType_UNSET uint8 = iota
	DirentType_REGULAR
	DirentType_DIRECTORY
)

// Checksum field offsets; the checksum package zeroes these before
// computing.
const (
	SuperblockChecksumOffset = 112
	SuperblockChecksumSpan   = BlockSize - 4
	InodeChecksumOffset      = 120
	DirentChecksumOffset     = 63
)

// Compile-time size assertions: each expression is a constant that
// underflows (and fails to compile) if the sizes ever drift.
const (
	_ = uint(BlockSize - SuperblockSize)
	_ = uint(InodeSize-(InodeChecksumOffset+8)) + uint((InodeChecksumOffset+8)-InodeSize)
	_ = uint(DirentSize-(DirentChecksumOffset+1)) + uint((DirentChecksumOffset+1)-DirentSize)
	_ = uint(DirentChecksumOffset-(5+NameSize)) + uint((5+NameSize)-DirentChecksumOffset)
)

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 11:20:45 2018 mstenber
 * Last modified: Wed Apr  4 09:30:12 2018 mstenber
 * Edit time:     27 min
 *
 */

// checksum computes and verifies the integrity tags of the on-disk
// records. Superblock and inode use CRC-32 (reflected polynomial
// 0xEDB88320, init/final xor 0xFFFFFFFF); a directory entry carries
// the xor of its other 63 bytes.
//
// All functions operate on the encoded (little-endian) bytes, as the
// checksums cover the disk representation.
package checksum

import (
	"encoding/binary"
	"hash/crc32"
	"log"

	"github.com/fingon/go-mvsf/layout"
)

// table is built during package initialization, i.e. before any
// function of this package can run.
var table = crc32.MakeTable(crc32.IEEE)

func CRC32(data []byte) uint32 {
	return crc32.Checksum(data, table)
}

func superblockCRC(block []byte) uint32 {
	if len(block) < layout.BlockSize {
		log.Panicf("superblock checksum needs a full block, got %d", len(block))
	}
	var tmp [layout.SuperblockChecksumSpan]byte
	copy(tmp[:], block)
	binary.LittleEndian.PutUint32(tmp[layout.SuperblockChecksumOffset:], 0)
	return CRC32(tmp[:])
}

// FinalizeSuperblock computes the checksum of an encoded superblock
// block (all BlockSize bytes) and stores it in the checksum field.
func FinalizeSuperblock(block []byte) uint32 {
	c := superblockCRC(block)
	binary.LittleEndian.PutUint32(block[layout.SuperblockChecksumOffset:], c)
	return c
}

func VerifySuperblock(block []byte) bool {
	return superblockCRC(block) == binary.LittleEndian.Uint32(block[layout.SuperblockChecksumOffset:])
}

func inodeCRC(b []byte) uint32 {
	var tmp [layout.InodeChecksumOffset]byte
	copy(tmp[:], b)
	return CRC32(tmp[:])
}

// FinalizeInode stores the CRC of the first 120 bytes of an encoded
// inode, zero-extended, in its trailing 8 byte field.
func FinalizeInode(b []byte) uint32 {
	c := inodeCRC(b[:layout.InodeSize])
	binary.LittleEndian.PutUint64(b[layout.InodeChecksumOffset:], uint64(c))
	return c
}

func VerifyInode(b []byte) bool {
	return uint64(inodeCRC(b[:layout.InodeSize])) == binary.LittleEndian.Uint64(b[layout.InodeChecksumOffset:])
}

func direntXor(b []byte) (x uint8) {
	for _, v := range b[:layout.DirentChecksumOffset] {
		x ^= v
	}
	return
}

// FinalizeDirent stores the xor of the first 63 bytes of an encoded
// directory entry in its last byte.
func FinalizeDirent(b []byte) uint8 {
	x := direntXor(b[:layout.DirentSize])
	b[layout.DirentChecksumOffset] = x
	return x
}

func VerifyDirent(b []byte) bool {
	return direntXor(b[:layout.DirentSize]) == b[layout.DirentChecksumOffset]
}

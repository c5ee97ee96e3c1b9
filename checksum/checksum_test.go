/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 11:52:03 2018 mstenber
 * Last modified: Wed Apr  4 09:41:27 2018 mstenber
 * Edit time:     19 min
 *
 */

package checksum

import (
	"testing"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/util"
	"github.com/stvp/assert"
)

// bitwiseCRC32 is the table-less form of the same CRC.
func bitwiseCRC32(data []byte) uint32 {
	c := uint32(0xFFFFFFFF)
	for _, b := range data {
		c ^= uint32(b)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = 0xEDB88320 ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
	}
	return c ^ 0xFFFFFFFF
}

func TestCRC32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CRC32([]byte("123456789")), uint32(0xCBF43926))
	assert.Equal(t, CRC32(nil), uint32(0))

	r := util.GetSeededRng()
	for i := 0; i < 100; i++ {
		b := util.RandomBytes(r, r.Intn(300))
		assert.Equal(t, CRC32(b), bitwiseCRC32(b))
	}
}

func TestSuperblock(t *testing.T) {
	t.Parallel()

	block := make([]byte, layout.BlockSize)
	sb := layout.Superblock{Magic: layout.Magic, Version: 1, TotalBlocks: 45,
		Checksum: 0x12345678}
	layout.EncodeSuperblock(&sb, block)
	assert.True(t, !VerifySuperblock(block))

	c := FinalizeSuperblock(block)
	assert.True(t, VerifySuperblock(block))
	assert.Equal(t, layout.DecodeSuperblock(block).Checksum, c)

	// Recomputation over the zeroed-field span gives the same result
	tmp := make([]byte, layout.SuperblockChecksumSpan)
	copy(tmp, block)
	copy(tmp[layout.SuperblockChecksumOffset:], []byte{0, 0, 0, 0})
	assert.Equal(t, bitwiseCRC32(tmp), c)

	// Finalizing twice is stable
	assert.Equal(t, FinalizeSuperblock(block), c)

	block[1000] = 1
	assert.True(t, !VerifySuperblock(block))
}

func TestInode(t *testing.T) {
	t.Parallel()

	b := make([]byte, layout.InodeSize)
	in := layout.Inode{Mode: layout.ModeRegular, Links: 1, Size: 100,
		ProjId: layout.ProjectId, Crc: 0xFFFFFFFFFFFF}
	in.Direct[0] = 7
	layout.EncodeInode(&in, b)
	assert.True(t, !VerifyInode(b))

	c := FinalizeInode(b)
	assert.True(t, VerifyInode(b))
	assert.Equal(t, layout.DecodeInode(b).Crc, uint64(c))
	assert.Equal(t, bitwiseCRC32(b[:120]), c)

	b[50] ^= 0x10
	assert.True(t, !VerifyInode(b))
}

func TestDirent(t *testing.T) {
	t.Parallel()

	b := make([]byte, layout.DirentSize)
	de := layout.NewDirent(2, layout.DirentType_REGULAR, "hello.txt")
	layout.EncodeDirent(&de, b)
	x := FinalizeDirent(b)
	assert.True(t, VerifyDirent(b))

	var want uint8
	for _, v := range b[:63] {
		want ^= v
	}
	assert.Equal(t, x, want)

	// An all-zero (free) entry is trivially consistent
	assert.True(t, VerifyDirent(make([]byte, layout.DirentSize)))

	b[10] ^= 0xFF
	assert.True(t, !VerifyDirent(b))
}

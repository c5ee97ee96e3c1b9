/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 09:48:30 2018 mstenber
 * Last modified: Tue Apr  3 14:03:20 2018 mstenber
 * Edit time:     22 min
 *
 */

package layout

import "log"

// Inode is one 128 byte inode table slot. Slot 0 is the root
// directory; inode numbers visible in directory entries are slot + 1.
type Inode struct {
	Mode       uint16 // @0
	Links      uint16 // @2
	Uid        uint32 // @4
	Gid        uint32 // @8
	Size       uint64 // @12
	Atime      uint64 // @20
	Mtime      uint64 // @28
	Ctime      uint64 // @36
	Direct     [DirectBlocks]uint32
	Reserved0  uint32 // @92
	Reserved1  uint32
	Reserved2  uint32
	ProjId     uint32 // @104
	Uid16Gid16 uint32
	XattrPtr   uint64 // @112
	Crc        uint64 // @120, CRC32 zero-extended
}

func EncodeInode(in *Inode, b []byte) {
	if len(b) < InodeSize {
		log.Panicf("EncodeInode: short buffer %d", len(b))
	}
	le.PutUint16(b[0:], in.Mode)
	le.PutUint16(b[2:], in.Links)
	le.PutUint32(b[4:], in.Uid)
	le.PutUint32(b[8:], in.Gid)
	le.PutUint64(b[12:], in.Size)
	le.PutUint64(b[20:], in.Atime)
	le.PutUint64(b[28:], in.Mtime)
	le.PutUint64(b[36:], in.Ctime)
	for i, v := range in.Direct {
		le.PutUint32(b[44+4*i:], v)
	}
	le.PutUint32(b[92:], in.Reserved0)
	le.PutUint32(b[96:], in.Reserved1)
	le.PutUint32(b[100:], in.Reserved2)
	le.PutUint32(b[104:], in.ProjId)
	le.PutUint32(b[108:], in.Uid16Gid16)
	le.PutUint64(b[112:], in.XattrPtr)
	le.PutUint64(b[InodeChecksumOffset:], in.Crc)
}

func DecodeInode(b []byte) (in Inode) {
	if len(b) < InodeSize {
		log.Panicf("DecodeInode: short buffer %d", len(b))
	}
	in.Mode = le.Uint16(b[0:])
	in.Links = le.Uint16(b[2:])
	in.Uid = le.Uint32(b[4:])
	in.Gid = le.Uint32(b[8:])
	in.Size = le.Uint64(b[12:])
	in.Atime = le.Uint64(b[20:])
	in.Mtime = le.Uint64(b[28:])
	in.Ctime = le.Uint64(b[36:])
	for i := range in.Direct {
		in.Direct[i] = le.Uint32(b[44+4*i:])
	}
	in.Reserved0 = le.Uint32(b[92:])
	in.Reserved1 = le.Uint32(b[96:])
	in.Reserved2 = le.Uint32(b[100:])
	in.ProjId = le.Uint32(b[104:])
	in.Uid16Gid16 = le.Uint32(b[108:])
	in.XattrPtr = le.Uint64(b[112:])
	in.Crc = le.Uint64(b[InodeChecksumOffset:])
	return
}

func (self *Inode) IsRegular() bool {
	return self.Mode&ModeTypeMask == ModeRegular
}

func (self *Inode) IsDirectory() bool {
	return self.Mode&ModeTypeMask == ModeDirectory
}

// Blocks returns the non-zero direct block numbers in order.
func (self *Inode) Blocks() []uint32 {
	r := make([]uint32, 0, DirectBlocks)
	for _, v := range self.Direct {
		if v == 0 {
			break
		}
		r = append(r, v)
	}
	return r
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 10:05:17 2018 mstenber
 * Last modified: Wed Apr  4 08:51:49 2018 mstenber
 * Edit time:     18 min
 *
 */

package layout

import (
	"bytes"
	"log"
)

// Dirent is one 64 byte directory entry; Ino 0 marks a free slot.
//
//	off size field
//	  0    4 Ino
//	  4    1 Type
//	  5   58 Name (NUL terminated)
//	 63    1 Checksum
type Dirent struct {
	Ino      uint32
	Type     uint8
	Name     [NameSize]byte
	Checksum uint8
}

// NewDirent fills the name field; names longer than NameMax are
// truncated so that the field always stays NUL terminated.
func NewDirent(ino uint32, typ uint8, name string) Dirent {
	de := Dirent{Ino: ino, Type: typ}
	copy(de.Name[:NameMax], name)
	return de
}

// NameString returns the name up to the first NUL.
func (self *Dirent) NameString() string {
	n := bytes.IndexByte(self.Name[:], 0)
	if n < 0 {
		n = len(self.Name)
	}
	return string(self.Name[:n])
}

func (self *Dirent) IsFree() bool {
	return self.Ino == 0
}

func EncodeDirent(de *Dirent, b []byte) {
	if len(b) < DirentSize {
		log.Panicf("EncodeDirent: short buffer %d", len(b))
	}
	le.PutUint32(b[0:], de.Ino)
	b[4] = de.Type
	copy(b[5:5+NameSize], de.Name[:])
	b[DirentChecksumOffset] = de.Checksum
}

func DecodeDirent(b []byte) (de Dirent) {
	if len(b) < DirentSize {
		log.Panicf("DecodeDirent: short buffer %d", len(b))
	}
	de.Ino = le.Uint32(b[0:])
	de.Type = b[4]
	copy(de.Name[:], b[5:5+NameSize])
	de.Checksum = b[DirentChecksumOffset]
	return
}

// DirentSlot returns the bytes of slot i within a directory block.
func DirentSlot(block []byte, i int) []byte {
	return block[i*DirentSize : (i+1)*DirentSize]
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 13:02:40 2018 mstenber
 * Last modified: Thu Apr  5 10:14:02 2018 mstenber
 * Edit time:     36 min
 *
 */

// bitmap implements the allocation bitmaps of the image: one bit per
// inode table slot or data block, bit i is bit (i % 8) of byte
// (i / 8), set means allocated.
//
// Allocation is first-fit: FindFree always returns the lowest unset
// bit below the limit. Bits are never cleared.
package bitmap

import (
	"log"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
)

// Capacity is the number of bits in one bitmap block.
const Capacity = layout.BlockSize * 8

var ErrExhausted = errors.New("bitmap exhausted")

type Bitmap struct {
	data  []byte
	limit int
}

// New wraps data (typically one bitmap block, used in place) and
// restricts FindFree to the first limit bits. A limit <= 0 or beyond
// the data means the whole data.
func New(data []byte, limit int) *Bitmap {
	if limit <= 0 || limit > len(data)*8 {
		limit = len(data) * 8
	}
	return &Bitmap{data: data, limit: limit}
}

func (self *Bitmap) Bytes() []byte {
	return self.data
}

func (self *Bitmap) Limit() int {
	return self.limit
}

func (self *Bitmap) check(i int) {
	if i < 0 || i >= len(self.data)*8 {
		log.Panicf("bitmap index %d out of range", i)
	}
}

func (self *Bitmap) IsSet(i int) bool {
	self.check(i)
	return self.data[i/8]&(1<<uint(i%8)) != 0
}

// Set marks bit i allocated; setting an allocated bit is a no-op.
func (self *Bitmap) Set(i int) {
	self.check(i)
	self.data[i/8] |= 1 << uint(i%8)
}

// FindFree returns the lowest unset bit below the limit, scanning
// whole bytes first.
func (self *Bitmap) FindFree() (int, error) {
	for i, v := range self.data {
		if i*8 >= self.limit {
			break
		}
		if v == 0xFF {
			continue
		}
		for j := 0; j < 8; j++ {
			bit := i*8 + j
			if bit >= self.limit {
				break
			}
			if v&(1<<uint(j)) == 0 {
				return bit, nil
			}
		}
	}
	mlog.Printf2("bitmap/bitmap", "FindFree exhausted, limit %d", self.limit)
	return -1, ErrExhausted
}

// Allocate finds the lowest free bit and marks it allocated.
func (self *Bitmap) Allocate() (int, error) {
	i, err := self.FindFree()
	if err != nil {
		return i, err
	}
	self.Set(i)
	return i, nil
}

// Count returns the number of set bits below the limit.
func (self *Bitmap) Count() (n int) {
	for i := 0; i < self.limit; i++ {
		if self.IsSet(i) {
			n++
		}
	}
	return
}

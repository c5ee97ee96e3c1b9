/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Fri Jan  5 11:14:11 2018 mstenber
 * Last modified: Mon Apr  9 10:02:17 2018 mstenber
 * Edit time:     26 min
 *
 */

package storage

import (
	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/codec"
)

// Backend is a block-addressable image store. Blocks are always
// layout.BlockSize bytes and numbered from 0; everything above it
// addresses blocks (and slots within them), never raw byte offsets.
//
// Backends are not safe for concurrent use; an image is owned by
// one caller for the duration of one operation.
type Backend interface {
	// Close the backend
	Close() error

	// BlockCount returns the number of blocks in the image.
	BlockCount() (uint64, error)

	// SetBlockCount grows (with zero blocks) or shrinks the image.
	SetBlockCount(n uint64) error

	// ReadBlock fills buf (BlockSize bytes) with block n.
	ReadBlock(n uint64, buf []byte) error

	// WriteBlock replaces block n with buf (BlockSize bytes).
	WriteBlock(n uint64, buf []byte) error

	// Sync flushes written blocks to stable storage.
	Sync() error
}

// BackendConfiguration is shared by all backends; not every backend
// uses every field.
type BackendConfiguration struct {
	// Path of the image file, or of the database directory.
	Path string

	// Create discards whatever exists at Path.
	Create bool

	// ReadOnly opens the image without write access.
	ReadOnly bool

	// Codec transforms stored blocks (key-value backends only).
	Codec codec.Codec
}

var ErrBlockRange = errors.New("block number out of range")
var ErrBlockSize = errors.New("buffer is not one block")
var ErrReadOnly = errors.New("backend is read-only")
var ErrUnaligned = errors.New("image size is not a multiple of the block size")

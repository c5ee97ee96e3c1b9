/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Thu Apr 12 13:02:11 2018 mstenber
 * Last modified: Fri Apr 13 10:15:40 2018 mstenber
 * Edit time:     14 min
 *
 */

package mvsf

import "github.com/pkg/errors"

// Parameter validation; detected before any I/O.
var (
	ErrInvalidSize       = errors.New("size must be a multiple of 4 KiB between 180 and 4096 KiB")
	ErrInvalidInodeCount = errors.New("inode count must be between 128 and 512")
	ErrInvalidName       = errors.New("invalid file name")
	ErrNameTooLong       = errors.New("file name too long (max 57 bytes)")
)

// Integrity; detected before any mutation.
var (
	ErrBadMagic    = errors.New("invalid filesystem magic number")
	ErrBadGeometry = errors.New("inconsistent superblock geometry")
	ErrChecksum    = errors.New("checksum mismatch")
)

// Capacity; detected before anything is persisted.
var (
	ErrNoFreeInode   = errors.New("no free inodes available")
	ErrNoFreeBlock   = errors.New("not enough free data blocks")
	ErrFileTooLarge  = errors.New("file too large for direct blocks")
	ErrDirectoryFull = errors.New("no free directory entries in root")
)

var ErrExists = errors.New("file already exists in root directory")

var ErrNotFound = errors.New("file not found in root directory")

// IsCapacity reports whether err is one of the capacity errors.
func IsCapacity(err error) bool {
	switch errors.Cause(err) {
	case ErrNoFreeInode, ErrNoFreeBlock, ErrFileTooLarge, ErrDirectoryFull:
		return true
	}
	return false
}

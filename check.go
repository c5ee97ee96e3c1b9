/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr 16 13:02:33 2018 mstenber
 * Last modified: Wed Apr 18 09:44:10 2018 mstenber
 * Edit time:     47 min
 *
 */

package mvsf

import (
	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/checksum"
	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
)

func verifySuperblock(img *Image) error {
	block, err := img.readBlock(0)
	if err != nil {
		return errors.Wrap(err, "read superblock")
	}
	if !checksum.VerifySuperblock(block) {
		return errors.Wrap(ErrChecksum, "superblock")
	}
	return checkGeometry(&img.Superblock)
}

func verifyInode(img *Image, slot uint64) (layout.Inode, error) {
	in, raw, err := img.ReadInode(slot)
	if err != nil {
		return in, err
	}
	if !checksum.VerifyInode(raw) {
		return in, errors.Wrapf(ErrChecksum, "inode %d", slot+1)
	}
	return in, nil
}

func verifyDirectory(dir []byte) error {
	for i := 0; i < layout.DirentsPerBlock; i++ {
		raw := layout.DirentSlot(dir, i)
		de := layout.DecodeDirent(raw)
		if de.IsFree() {
			continue
		}
		if !checksum.VerifyDirent(raw) {
			return errors.Wrapf(ErrChecksum, "directory entry %d (%q)", i, de.NameString())
		}
	}
	return nil
}

// verifyRoot checks the root inode and the given root directory block.
func verifyRoot(img *Image, dir []byte) error {
	root, err := verifyInode(img, 0)
	if err != nil {
		return err
	}
	if !root.IsDirectory() {
		return errors.Wrapf(ErrBadGeometry, "root inode mode %o", root.Mode)
	}
	return verifyDirectory(dir)
}

// Check verifies an opened image: superblock checksum and geometry,
// the reserved bitmap bits, the checksum and block references of
// every allocated inode, and the root directory entries. It returns
// the first problem found.
func Check(img *Image) error {
	sb := &img.Superblock
	if err := verifySuperblock(img); err != nil {
		return err
	}
	ibm, err := img.InodeBitmap()
	if err != nil {
		return err
	}
	dbm, err := img.DataBitmap()
	if err != nil {
		return err
	}
	if !ibm.IsSet(0) || !dbm.IsSet(0) {
		return errors.Wrap(ErrBadGeometry, "root inode or root directory block not allocated")
	}
	for slot := 0; slot < ibm.Limit(); slot++ {
		if !ibm.IsSet(slot) {
			continue
		}
		in, err := verifyInode(img, uint64(slot))
		if err != nil {
			return err
		}
		blocks := in.Blocks()
		if !in.IsDirectory() && uint64(len(blocks))*layout.BlockSize < in.Size {
			return errors.Wrapf(ErrBadGeometry, "inode %d: %d bytes in %d blocks",
				slot+1, in.Size, len(blocks))
		}
		for _, n := range blocks {
			bn := uint64(n)
			if bn < sb.DataRegionStart || bn >= sb.TotalBlocks {
				return errors.Wrapf(ErrBadGeometry, "inode %d: block %d outside data region", slot+1, n)
			}
			if bit := int(bn - sb.DataRegionStart); bit >= dbm.Limit() || !dbm.IsSet(bit) {
				return errors.Wrapf(ErrBadGeometry, "inode %d: block %d not allocated", slot+1, n)
			}
		}
	}
	_, dir, err := img.rootDirectory()
	if err != nil {
		return err
	}
	if err = verifyRoot(img, dir); err != nil {
		return err
	}
	for i := 0; i < layout.DirentsPerBlock; i++ {
		de := layout.DecodeDirent(layout.DirentSlot(dir, i))
		if de.IsFree() {
			continue
		}
		if int(de.Ino) > ibm.Limit() || !ibm.IsSet(int(de.Ino)-1) {
			return errors.Wrapf(ErrBadGeometry, "entry %q refers to unallocated inode %d",
				de.NameString(), de.Ino)
		}
	}
	mlog.Printf2("check", "Check ok")
	return nil
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Fri Apr 13 10:40:12 2018 mstenber
 * Last modified: Tue Apr 17 14:51:06 2018 mstenber
 * Edit time:     104 min
 *
 */

package mvsf

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/bitmap"
	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
	"github.com/fingon/go-mvsf/util"
)

type InsertOptions struct {
	// Strict verifies the superblock, root inode and root directory
	// checksums before changing anything.
	Strict bool

	// Now provides the timestamps; time.Now if unset.
	Now func() time.Time
}

type InsertResult struct {
	// Ino is the inode number of the new file (table slot + 1).
	Ino uint32

	Size uint64

	// Blocks are the absolute block numbers holding the content.
	Blocks []uint32

	// Slot is the root directory slot of the new entry.
	Slot int
}

// Insert duplicates the image in src into dst and adds one file to
// dst's root directory. src is only read. The name is validated
// before any I/O; on later failures dst holds the copy plus whatever
// writes had completed (none, for capacity, duplicate and integrity
// errors).
func Insert(dst, src storage.Backend, name string, r io.Reader, size int64, opts InsertOptions) (*InsertResult, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := storage.Copy(dst, src); err != nil {
		return nil, errors.Wrap(err, "copy input image")
	}
	return InsertInPlace(dst, name, r, size, opts)
}

func allocate(bm *bitmap.Bitmap, capErr error) (int, error) {
	i, err := bm.Allocate()
	if errors.Cause(err) == bitmap.ErrExhausted {
		err = capErr
	}
	return i, err
}

// InsertInPlace adds one file of size bytes, read from r, to the
// root directory of the image in be.
//
// Writes happen in this order, each straight to the backend: new
// inode, inode bitmap, content blocks, data bitmap, root directory
// block, root inode, superblock. There is no rollback; a failure in
// between leaves the earlier writes in place.
func InsertInPlace(be storage.Backend, name string, r io.Reader, size int64, opts InsertOptions) (*InsertResult, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	img, err := Open(be)
	if err != nil {
		return nil, err
	}
	if opts.Strict {
		if err = verifySuperblock(img); err != nil {
			return nil, err
		}
	}
	ibm, err := img.InodeBitmap()
	if err != nil {
		return nil, err
	}
	dbm, err := img.DataBitmap()
	if err != nil {
		return nil, err
	}

	slot, err := ibm.FindFree()
	if err != nil {
		return nil, errors.Wrapf(ErrNoFreeInode, "%d inodes", img.Superblock.InodeCount)
	}

	if size < 0 {
		return nil, errors.Errorf("negative size %d for %q", size, name)
	}
	blocksNeeded := util.CeilDiv(uint64(size), layout.BlockSize)
	if blocksNeeded > layout.DirectBlocks {
		return nil, errors.Wrapf(ErrFileTooLarge, "requires %d blocks, maximum is %d",
			blocksNeeded, layout.DirectBlocks)
	}
	res := &InsertResult{Ino: uint32(slot) + 1, Size: uint64(size)}
	for i := uint64(0); i < blocksNeeded; i++ {
		bit, err := allocate(dbm, ErrNoFreeBlock)
		if err != nil {
			return nil, errors.Wrapf(err, "need %d blocks", blocksNeeded)
		}
		res.Blocks = append(res.Blocks, uint32(img.Superblock.DataRegionStart+uint64(bit)))
	}
	mlog.Printf2("insert", "InsertInPlace %q: inode %d blocks %v", name, res.Ino, res.Blocks)

	root, dir, err := img.rootDirectory()
	if err != nil {
		return nil, err
	}
	if opts.Strict {
		if err = verifyRoot(img, dir); err != nil {
			return nil, err
		}
	}
	res.Slot = -1
	for i := 0; i < layout.DirentsPerBlock; i++ {
		de := layout.DecodeDirent(layout.DirentSlot(dir, i))
		if !de.IsFree() && de.NameString() == name {
			return nil, errors.Wrapf(ErrExists, "%q", name)
		}
		if de.IsFree() && res.Slot < 0 {
			res.Slot = i
		}
	}
	if res.Slot < 0 {
		return nil, errors.Wrapf(ErrDirectoryFull, "%d entries", layout.DirentsPerBlock)
	}

	t := uint64(opts.Now().Unix())
	in := layout.Inode{
		Mode:   layout.ModeRegular,
		Links:  1,
		Size:   uint64(size),
		Atime:  t,
		Mtime:  t,
		Ctime:  t,
		ProjId: layout.ProjectId,
	}
	copy(in.Direct[:], res.Blocks)

	if err = img.WriteInode(uint64(slot), &in); err != nil {
		return nil, err
	}
	ibm.Set(slot)
	if err = img.writeInodeBitmap(ibm); err != nil {
		return nil, err
	}
	if err = writeContent(img, res.Blocks, r, size); err != nil {
		return nil, err
	}
	if err = img.writeDataBitmap(dbm); err != nil {
		return nil, err
	}

	de := layout.NewDirent(res.Ino, layout.DirentType_REGULAR, name)
	putDirent(dir, res.Slot, &de)
	if err = img.writeBlock(uint64(root.Direct[0]), dir); err != nil {
		return nil, errors.Wrap(err, "write root directory")
	}

	t = uint64(opts.Now().Unix())
	root.Size += layout.DirentSize
	root.Links++
	root.Mtime = t
	root.Ctime = t
	if err = img.WriteInode(0, &root); err != nil {
		return nil, err
	}
	if err = img.WriteSuperblock(t); err != nil {
		return nil, err
	}
	return res, errors.Wrap(be.Sync(), "sync image")
}

// writeContent copies size bytes from r into blocks, zero padding the
// last one.
func writeContent(img *Image, blocks []uint32, r io.Reader, size int64) error {
	buf := make([]byte, layout.BlockSize)
	left := size
	for _, n := range blocks {
		chunk := util.IMin(int(left), layout.BlockSize)
		for i := range buf {
			buf[i] = 0
		}
		if _, err := io.ReadFull(r, buf[:chunk]); err != nil {
			return errors.Wrap(err, "read file content")
		}
		if err := img.writeBlock(uint64(n), buf); err != nil {
			return errors.Wrapf(err, "write file data to block %d", n)
		}
		left -= int64(chunk)
	}
	return nil
}

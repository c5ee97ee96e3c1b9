/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Thu Apr 12 15:40:03 2018 mstenber
 * Last modified: Mon Apr 16 09:30:27 2018 mstenber
 * Edit time:     52 min
 *
 */

package mvsf

import (
	"time"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/checksum"
	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
)

// RootInode returns the root directory inode of a freshly formatted
// image whose data region starts at dataStart.
func RootInode(dataStart uint64, mtime uint64) layout.Inode {
	in := layout.Inode{
		Mode:   layout.ModeDirectory,
		Links:  2,
		Size:   2 * layout.DirentSize,
		Atime:  mtime,
		Mtime:  mtime,
		Ctime:  mtime,
		ProjId: layout.ProjectId,
	}
	in.Direct[0] = uint32(dataStart)
	return in
}

// putDirent encodes de into slot i of a directory block and
// finalizes its checksum.
func putDirent(block []byte, i int, de *layout.Dirent) {
	raw := layout.DirentSlot(block, i)
	layout.EncodeDirent(de, raw)
	de.Checksum = checksum.FinalizeDirent(raw)
}

// Format writes a complete empty image of geometry g into be,
// replacing whatever it held. Blocks are written in order from 0.
func Format(be storage.Backend, g Geometry, now time.Time) error {
	mtime := uint64(now.Unix())
	mlog.Printf2("format", "Format %+v", g)
	if err := be.SetBlockCount(g.TotalBlocks); err != nil {
		return errors.Wrap(err, "size image")
	}
	n := uint64(0)
	write := func(block []byte, what string) error {
		if err := be.WriteBlock(n, block); err != nil {
			return errors.Wrapf(err, "write %s (block %d)", what, n)
		}
		n++
		return nil
	}

	block := make([]byte, layout.BlockSize)
	sb := g.Superblock(mtime)
	layout.EncodeSuperblock(&sb, block)
	checksum.FinalizeSuperblock(block)
	if err := write(block, "superblock"); err != nil {
		return err
	}

	// Bit 0 of both bitmaps: root inode, root directory block
	for _, what := range []string{"inode bitmap", "data bitmap"} {
		block = make([]byte, layout.BlockSize)
		block[0] = 0x01
		if err := write(block, what); err != nil {
			return err
		}
	}

	block = make([]byte, layout.BlockSize)
	root := RootInode(g.DataRegionStart, mtime)
	layout.EncodeInode(&root, block)
	checksum.FinalizeInode(block)
	if err := write(block, "inode table"); err != nil {
		return err
	}
	zero := make([]byte, layout.BlockSize)
	for i := uint64(1); i < g.InodeTableBlocks; i++ {
		if err := write(zero, "inode table"); err != nil {
			return err
		}
	}

	block = make([]byte, layout.BlockSize)
	dot := layout.NewDirent(layout.RootInode, layout.DirentType_DIRECTORY, ".")
	putDirent(block, 0, &dot)
	dotdot := layout.NewDirent(layout.RootInode, layout.DirentType_DIRECTORY, "..")
	putDirent(block, 1, &dotdot)
	if err := write(block, "root directory"); err != nil {
		return err
	}
	for i := uint64(1); i < g.DataRegionBlocks; i++ {
		if err := write(zero, "data region"); err != nil {
			return err
		}
	}
	return errors.Wrap(be.Sync(), "sync image")
}

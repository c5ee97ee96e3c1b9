/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Fri Apr 13 09:31:50 2018 mstenber
 * Last modified: Tue Apr 17 10:20:33 2018 mstenber
 * Edit time:     38 min
 *
 */

package mvsf

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/util"
)

// ValidateName checks that name can be stored in a directory entry.
func ValidateName(name string) error {
	if len(name) > layout.NameMax {
		return errors.Wrapf(ErrNameTooLong, "%q is %d bytes", name, len(name))
	}
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// rootDirectory returns the root inode and its (only) directory
// block.
func (self *Image) rootDirectory() (root layout.Inode, block []byte, err error) {
	root, _, err = self.ReadInode(0)
	if err != nil {
		return
	}
	block, err = self.readBlock(uint64(root.Direct[0]))
	err = errors.Wrap(err, "read root directory")
	return
}

// Entry is a used root directory slot.
type Entry struct {
	Slot int
	layout.Dirent
}

// Entries lists the used slots of the root directory, "." and ".."
// included.
func Entries(img *Image) ([]Entry, error) {
	_, block, err := img.rootDirectory()
	if err != nil {
		return nil, err
	}
	var r []Entry
	for i := 0; i < layout.DirentsPerBlock; i++ {
		de := layout.DecodeDirent(layout.DirentSlot(block, i))
		if !de.IsFree() {
			r = append(r, Entry{Slot: i, Dirent: de})
		}
	}
	return r, nil
}

// Lookup finds name in the root directory and returns its inode
// number and inode.
func Lookup(img *Image, name string) (uint32, layout.Inode, error) {
	entries, err := Entries(img)
	if err != nil {
		return 0, layout.Inode{}, err
	}
	for _, e := range entries {
		if e.NameString() != name {
			continue
		}
		in, _, err := img.ReadInode(uint64(e.Ino) - 1)
		return e.Ino, in, err
	}
	return 0, layout.Inode{}, errors.Wrapf(ErrNotFound, "%q", name)
}

// ReadFile returns the content of a regular file in the root
// directory.
func ReadFile(img *Image, name string) ([]byte, error) {
	_, in, err := Lookup(img, name)
	if err != nil {
		return nil, err
	}
	if in.Size > layout.MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%q claims %d bytes", name, in.Size)
	}
	r := make([]byte, 0, in.Size)
	for _, n := range in.Direct {
		left := int(in.Size) - len(r)
		if left <= 0 {
			break
		}
		block, err := img.readBlock(uint64(n))
		if err != nil {
			return nil, errors.Wrapf(err, "read %q", name)
		}
		r = append(r, block[:util.IMin(left, layout.BlockSize)]...)
	}
	return r, nil
}

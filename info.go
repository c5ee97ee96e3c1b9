/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Wed Apr 18 14:30:12 2018 mstenber
 * Last modified: Wed Apr 18 15:12:40 2018 mstenber
 * Edit time:     27 min
 *
 */

package mvsf

import (
	"io"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	"github.com/fingon/go-mvsf/layout"
)

type InfoEntry struct {
	Name   string   `codec:"name"`
	Ino    uint32   `codec:"ino"`
	Type   uint8    `codec:"type"`
	Size   uint64   `codec:"size"`
	Blocks []uint32 `codec:"blocks"`
}

// Info describes an image: its superblock, allocation state and root
// directory.
type Info struct {
	Superblock layout.Superblock `codec:"superblock"`
	UsedInodes int               `codec:"used_inodes"`
	UsedBlocks int               `codec:"used_blocks"`
	Entries    []InfoEntry       `codec:"entries"`
}

func Describe(img *Image) (*Info, error) {
	info := &Info{Superblock: img.Superblock}
	ibm, err := img.InodeBitmap()
	if err != nil {
		return nil, err
	}
	dbm, err := img.DataBitmap()
	if err != nil {
		return nil, err
	}
	info.UsedInodes = ibm.Count()
	info.UsedBlocks = dbm.Count()
	entries, err := Entries(img)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		in, _, err := img.ReadInode(uint64(e.Ino) - 1)
		if err != nil {
			return nil, err
		}
		info.Entries = append(info.Entries, InfoEntry{
			Name:   e.NameString(),
			Ino:    e.Ino,
			Type:   e.Type,
			Size:   in.Size,
			Blocks: in.Blocks(),
		})
	}
	return info, nil
}

var ErrUnknownFormat = errors.New("unknown output format")

// InfoFormats are the encodings WriteInfo supports.
var InfoFormats = []string{"json", "cbor"}

func infoHandle(format string) (codec.Handle, error) {
	switch format {
	case "json":
		var jh codec.JsonHandle
		jh.Indent = 2
		return &jh, nil
	case "cbor":
		return &codec.CborHandle{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q (possible: %v)", format, InfoFormats)
}

// WriteInfo encodes info to w in the given format.
func WriteInfo(w io.Writer, info *Info, format string) error {
	h, err := infoHandle(format)
	if err != nil {
		return err
	}
	return errors.Wrap(codec.NewEncoder(w, h).Encode(info), "encode info")
}

// ReadInfo decodes what WriteInfo wrote.
func ReadInfo(r io.Reader, format string) (*Info, error) {
	h, err := infoHandle(format)
	if err != nil {
		return nil, err
	}
	info := &Info{}
	if err = codec.NewDecoder(r, h).Decode(info); err != nil {
		return nil, errors.Wrap(err, "decode info")
	}
	return info, nil
}

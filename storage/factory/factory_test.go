/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Fri Jan  5 16:28:57 2018 mstenber
 * Last modified: Thu Apr 12 10:31:05 2018 mstenber
 * Edit time:     39 min
 *
 */

package factory

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stvp/assert"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/storage"
)

func TestList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, len(List()), len(backendFactories))
	assert.Equal(t, List(), []string{"badger", "bolt", "file", "inmemory"})
}

func TestUnknown(t *testing.T) {
	t.Parallel()
	_, err := NewWithConfig("nope", storage.BackendConfiguration{})
	assert.Equal(t, errors.Cause(err), ErrUnknownBackend)
}

func filled(v byte) []byte {
	b := make([]byte, layout.BlockSize)
	for i := range b {
		b[i] = v
	}
	return b
}

// ProdBackend exercises the Backend contract.
func ProdBackend(t *testing.T, be storage.Backend) {
	n, err := be.BlockCount()
	assert.Nil(t, err)
	assert.Equal(t, n, uint64(0))

	assert.Nil(t, be.SetBlockCount(4))
	n, err = be.BlockCount()
	assert.Nil(t, err)
	assert.Equal(t, n, uint64(4))

	buf := make([]byte, layout.BlockSize)
	assert.Nil(t, be.ReadBlock(3, buf))
	assert.Equal(t, buf, filled(0))

	assert.Nil(t, be.WriteBlock(1, filled(0x42)))
	assert.Nil(t, be.WriteBlock(2, filled(7)))
	assert.Nil(t, be.ReadBlock(1, buf))
	assert.Equal(t, buf, filled(0x42))

	// Overwrite with zeros
	assert.Nil(t, be.WriteBlock(2, filled(0)))
	assert.Nil(t, be.ReadBlock(2, buf))
	assert.Equal(t, buf, filled(0))

	err = be.ReadBlock(4, buf)
	assert.Equal(t, errors.Cause(err), storage.ErrBlockRange)
	err = be.WriteBlock(0, buf[:10])
	assert.Equal(t, errors.Cause(err), storage.ErrBlockSize)

	// Copy into in-memory and compare
	mem, err := NewWithConfig("inmemory", storage.BackendConfiguration{})
	assert.Nil(t, err)
	assert.Nil(t, storage.Copy(mem, be))
	eq, err := storage.Equal(mem, be)
	assert.Nil(t, err)
	assert.True(t, eq)
	assert.Nil(t, mem.WriteBlock(0, filled(1)))
	eq, err = storage.Equal(mem, be)
	assert.Nil(t, err)
	assert.True(t, !eq)

	// Shrink
	assert.Nil(t, be.SetBlockCount(2))
	n, err = be.BlockCount()
	assert.Nil(t, err)
	assert.Equal(t, n, uint64(2))
	assert.Nil(t, be.ReadBlock(1, buf))
	assert.Equal(t, buf, filled(0x42))
	assert.Nil(t, be.Sync())
}

func TestBackends(t *testing.T) {
	for _, name := range List() {
		name := name
		t.Run(name, func(t *testing.T) {
			dir, err := ioutil.TempDir("", "mvsf-factory")
			assert.Nil(t, err)
			defer os.RemoveAll(dir)
			path := dir
			if name == "file" {
				path = fmt.Sprintf("%s/image", dir)
			}
			config := Configuration{BackendName: name,
				BackendConfiguration: storage.BackendConfiguration{
					Path: path, Create: true}}
			be, err := New(config)
			assert.Nil(t, err)
			ProdBackend(t, be)
			assert.Nil(t, be.Close())
		})
	}
}

func TestCodecPersistence(t *testing.T) {
	for _, name := range []string{"bolt", "badger"} {
		name := name
		t.Run(name, func(t *testing.T) {
			dir, err := ioutil.TempDir("", "mvsf-factory")
			assert.Nil(t, err)
			defer os.RemoveAll(dir)
			config := Configuration{BackendName: name,
				BackendConfiguration: storage.BackendConfiguration{
					Path: dir, Create: true},
				Password: "siikret", Compress: true, Iterations: 16}
			be, err := New(config)
			assert.Nil(t, err)
			assert.Nil(t, be.SetBlockCount(3))
			assert.Nil(t, be.WriteBlock(2, filled(9)))
			assert.Nil(t, be.Close())

			// Reopen without Create; content survives
			config.Create = false
			be, err = New(config)
			assert.Nil(t, err)
			n, err := be.BlockCount()
			assert.Nil(t, err)
			assert.Equal(t, n, uint64(3))
			buf := make([]byte, layout.BlockSize)
			assert.Nil(t, be.ReadBlock(2, buf))
			assert.Equal(t, buf, filled(9))
			assert.Nil(t, be.Close())

			// Wrong password cannot decode
			config.Password = "wrong"
			be, err = New(config)
			assert.Nil(t, err)
			assert.True(t, be.ReadBlock(2, buf) != nil)
			assert.Nil(t, be.Close())
		})
	}
}

func TestDefaultSalt(t *testing.T) {
	dir, err := ioutil.TempDir("", "mvsf-factory")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	config := Configuration{BackendName: "bolt",
		BackendConfiguration: storage.BackendConfiguration{
			Path: dir, Create: true},
		Password: "siikret", Iterations: 16}
	be, err := New(config)
	assert.Nil(t, err)
	assert.Nil(t, be.SetBlockCount(1))
	assert.Nil(t, be.WriteBlock(0, filled(3)))
	assert.Nil(t, be.Close())

	buf := make([]byte, layout.BlockSize)
	config.Create = false
	config.Salt = DefaultSalt
	be, err = New(config)
	assert.Nil(t, err)
	assert.Nil(t, be.ReadBlock(0, buf))
	assert.Equal(t, buf, filled(3))
	assert.Nil(t, be.Close())

	config.Salt = "pepper"
	be, err = New(config)
	assert.Nil(t, err)
	assert.True(t, be.ReadBlock(0, buf) != nil)
	assert.Nil(t, be.Close())
}

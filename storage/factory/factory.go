/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Fri Jan  5 12:22:52 2018 mstenber
 * Last modified: Thu Apr 12 09:40:11 2018 mstenber
 * Edit time:     48 min
 *
 */

package factory

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/fingon/go-mvsf/codec"
	"github.com/fingon/go-mvsf/mlog"
	"github.com/fingon/go-mvsf/storage"
	"github.com/fingon/go-mvsf/storage/badger"
	"github.com/fingon/go-mvsf/storage/bolt"
	"github.com/fingon/go-mvsf/storage/file"
	"github.com/fingon/go-mvsf/storage/inmemory"
	"github.com/fingon/go-mvsf/util"
)

type factoryCallback func(config storage.BackendConfiguration) (storage.Backend, error)

var backendFactories = map[string]factoryCallback{
	"file": file.NewFileBackend,
	"inmemory": func(config storage.BackendConfiguration) (storage.Backend, error) {
		return inmemory.NewInMemoryBackend(), nil
	},
	"badger": badger.NewBadgerBackend,
	"bolt":   bolt.NewBoltBackend,
}

// DefaultBackend produces plain image files.
const DefaultBackend = "file"

// DefaultSalt is used for key derivation when no salt is given.
const DefaultSalt = "asdf"

var ErrUnknownBackend = errors.New("unknown backend")

func List() []string {
	keys := make([]string, 0, len(backendFactories))
	for k := range backendFactories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func NewWithConfig(name string, config storage.BackendConfiguration) (storage.Backend, error) {
	mlog.Printf2("storage/factory/factory", "f.NewWithConfig %v %v", name, config.Path)
	cb, ok := backendFactories[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q (possible: %v)", name, List())
	}
	return cb(config)
}

// Configuration is what the command line tools collect from flags.
type Configuration struct {
	storage.BackendConfiguration
	BackendName string

	// Password enables encryption of stored blocks (key-value
	// backends only).
	Password, Salt string
	Iterations     int

	// Compress enables snappy compression of stored blocks
	// (key-value backends only).
	Compress bool
}

// New opens (or creates) the backend described by config, with the
// codec chain it asks for.
func New(config Configuration) (storage.Backend, error) {
	name := config.BackendName
	if name == "" {
		name = DefaultBackend
	}
	iterations := config.Iterations
	if iterations == 0 {
		iterations = 12345
	}
	salt := util.SOr(config.Salt, DefaultSalt)
	codecs := []codec.Codec{}
	if config.Password != "" {
		mlog.Printf2("storage/factory/factory", " with encryption")
		c, err := codec.EncryptingCodec{}.Init([]byte(config.Password), []byte(salt), iterations)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, c)
	}
	if config.Compress {
		mlog.Printf2("storage/factory/factory", " with compression")
		codecs = append(codecs, &codec.CompressingCodec{})
	}
	beconfig := config.BackendConfiguration
	if len(codecs) > 0 {
		beconfig.Codec = codec.CodecChain{}.Init(codecs...)
	}
	return NewWithConfig(name, beconfig)
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Sun Dec 24 16:42:12 2017 mstenber
 * Last modified: Fri Apr  6 13:30:40 2018 mstenber
 * Edit time:     83 min
 *
 */

// codec library is responsible for transforming data + additionalData
// to different kind of data. This means in practise either
// encrypting/decrypting, or compressing/uncompressing.
//
// The key-value storage backends run image blocks through a Codec;
// mostly empty 4k blocks compress very well.
//
// CodecChain makes it possible to combine multiple Codecs that do the
// particular sub-EncodeBytes/DecodeBytes steps.
package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/golang/snappy"
	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

// Codec
//
// Single transformation of byte slices.
type Codec interface {
	DecodeBytes(data, additionalData []byte) (ret []byte, err error)
	EncodeBytes(data, additionalData []byte) (ret []byte, err error)
}

// EncryptingCodec
//
// AES GCM based encrypting/decrypting (+authenticating) Codec. The key
// is derived from the password with pbkdf2 over sha256.
type EncryptingCodec struct {
	gcm cipher.AEAD
}

func (self EncryptingCodec) Init(password, salt []byte, iter int) (*EncryptingCodec, error) {
	mk := pbkdf2.Key(password, salt, iter, 32, sha256.New)
	block, err := aes.NewCipher(mk)
	if err != nil {
		return nil, errors.Wrap(err, "aes.NewCipher")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "cipher.NewGCM")
	}
	self.gcm = gcm
	return &self, nil
}

func (self *EncryptingCodec) DecodeBytes(data, additionalData []byte) (ret []byte, err error) {
	ns := self.gcm.NonceSize()
	if len(data) < ns {
		return nil, ErrShortData
	}
	ret, err = self.gcm.Open(nil, data[:ns], data[ns:], additionalData)
	return
}

func (self *EncryptingCodec) EncodeBytes(data, additionalData []byte) (ret []byte, err error) {
	nonce := make([]byte, self.gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return
	}
	ret = self.gcm.Seal(nonce, nonce, data, additionalData)
	return
}

// CompressingCodec
//
// Snappy compressing Codec. If the result does not improve, the
// result is marked to be plaintext and passed as-is (at cost of 1
// byte).
type CompressingCodec struct {
}

func (self *CompressingCodec) DecodeBytes(data, additionalData []byte) (ret []byte, err error) {
	if len(data) < 1 {
		return nil, ErrShortData
	}
	switch CompressionType(data[0]) {
	case CompressionType_PLAIN:
		ret = append([]byte(nil), data[1:]...)
	case CompressionType_SNAPPY:
		ret, err = snappy.Decode(nil, data[1:])
	default:
		err = errors.Wrapf(ErrUnknownCompression, "type %d", data[0])
	}
	return
}

func (self *CompressingCodec) EncodeBytes(data, additionalData []byte) (ret []byte, err error) {
	enc := snappy.Encode(nil, data)
	if len(enc) >= len(data) {
		ret = make([]byte, 0, len(data)+1)
		ret = append(ret, byte(CompressionType_PLAIN))
		ret = append(ret, data...)
		return
	}
	ret = make([]byte, 0, len(enc)+1)
	ret = append(ret, byte(CompressionType_SNAPPY))
	ret = append(ret, enc...)
	return
}

type CodecChain struct {
	codecs, reverseCodecs []Codec
}

// Init method initializes the codec chain.
//
// codecs are given in decryption order, so e.g.
// encrypting one should be given before compressing one.
func (self CodecChain) Init(codecs ...Codec) *CodecChain {
	self.codecs = codecs
	rc := make([]Codec, len(codecs))
	for i, c := range codecs {
		rc[len(codecs)-i-1] = c
	}
	self.reverseCodecs = rc
	return &self
}

func (self *CodecChain) DecodeBytes(data, additionalData []byte) (ret []byte, err error) {
	ret = data
	for _, c := range self.codecs {
		ret, err = c.DecodeBytes(ret, additionalData)
		if err != nil {
			return
		}
	}
	return
}

func (self *CodecChain) EncodeBytes(data, additionalData []byte) (ret []byte, err error) {
	ret = data
	for _, c := range self.reverseCodecs {
		ret, err = c.EncodeBytes(ret, additionalData)
		if err != nil {
			return
		}
	}
	return
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Sun Dec 24 17:15:30 2017 mstenber
 * Last modified: Fri Apr  6 13:41:18 2018 mstenber
 * Edit time:     62 min
 *
 */

package codec

import (
	"crypto/rand"
	"fmt"
	"log"
	"testing"

	"github.com/stvp/assert"
)

const compressible = "123456789123456789123456789123456789123456789123456789123456789123456789123456789123456789123456789"

func ProdCodecOnce(text string, c Codec, t *testing.T) {
	p := []byte(text)
	enc, err := c.EncodeBytes(p, nil)
	assert.Nil(t, err)
	dec, err := c.DecodeBytes(enc, nil)
	assert.Nil(t, err)
	assert.Equal(t, p, dec)
}

func ProdCodec(c Codec, t *testing.T) {
	ProdCodecOnce("foo", c, t)
	ProdCodecOnce(compressible, c, t)
	ProdCodecOnce(string(make([]byte, 4096)), c, t)
}

func newEncrypting(t testing.TB) *EncryptingCodec {
	c, err := EncryptingCodec{}.Init([]byte("foo"), []byte("salt"), 64)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestEncryptingCodec(t *testing.T) {
	p := []byte("data")
	ad := []byte("ad")

	c := newEncrypting(t)

	// 'any codec' handling
	ProdCodec(c, t)

	enc, err := c.EncodeBytes(p, nil)
	assert.Nil(t, err)

	// Ensure we can't mess around with additional data
	_, err2 := c.DecodeBytes(enc, ad)
	assert.True(t, err2 != nil)

	// Ensure same payload does not encrypt the same way
	enc2, err := c.EncodeBytes(p, nil)
	assert.Nil(t, err)
	assert.NotEqual(t, enc, enc2)

	// But it still can be decrypted
	dec, err := c.DecodeBytes(enc2, nil)
	assert.Nil(t, err)
	assert.Equal(t, p, dec)

	// Ensure we're good with additional data too
	enc3, err := c.EncodeBytes(p, ad)
	assert.Nil(t, err)
	dec, err = c.DecodeBytes(enc3, ad)
	assert.Nil(t, err)
	assert.Equal(t, p, dec)

	_, err = c.DecodeBytes([]byte("x"), nil)
	assert.Equal(t, err, ErrShortData)
}

func TestCompressingCodec(t *testing.T) {
	c := &CompressingCodec{}
	ProdCodec(c, t)

	p := []byte(compressible)
	enc, err := c.EncodeBytes(p, nil)
	assert.Nil(t, err)
	assert.True(t, len(enc) < len(compressible))
	assert.Equal(t, CompressionType(enc[0]), CompressionType_SNAPPY)

	// Incompressible data is passed as-is
	enc, err = c.EncodeBytes([]byte("ab"), nil)
	assert.Nil(t, err)
	assert.Equal(t, enc, []byte{byte(CompressionType_PLAIN), 'a', 'b'})

	// Empty block compresses to almost nothing
	enc, err = c.EncodeBytes(make([]byte, 4096), nil)
	assert.Nil(t, err)
	assert.True(t, len(enc) < 100)

	_, err = c.DecodeBytes([]byte{42, 1}, nil)
	assert.True(t, err != nil)
}

func TestNopCodecChain(t *testing.T) {
	c := &CodecChain{}
	ProdCodec(c, t)
}

func TestCodecChain(t *testing.T) {
	c1 := newEncrypting(t)
	c2 := &CompressingCodec{}
	c := CodecChain{}.Init(c1, c2)
	ProdCodec(c, t)

	p := []byte(compressible)
	enc, err := c.EncodeBytes(p, nil)
	assert.Nil(t, err)
	assert.True(t, len(enc) < len(compressible))
}

func BenchmarkCodec(b *testing.B) {
	run := func(b *testing.B, c Codec, p []byte, decode bool) {
		enc, err := c.EncodeBytes(p, nil)
		if err != nil {
			log.Panic(err)
		}
		b.SetBytes(int64(len(p)))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if decode {
				_, err = c.DecodeBytes(enc, nil)
			} else {
				_, err = c.EncodeBytes(p, nil)
			}
			if err != nil {
				log.Panic(err)
			}
		}
	}
	add := func(c Codec, prefix string) {
		random := make([]byte, 4096)
		if _, err := rand.Read(random); err != nil {
			log.Panic(err)
		}
		zeros := make([]byte, 4096)
		for _, decode := range []bool{false, true} {
			decode := decode
			op := "Encode"
			if decode {
				op = "Decode"
			}
			b.Run(fmt.Sprintf("%s-%s-Random", op, prefix), func(b *testing.B) {
				run(b, c, random, decode)
			})
			b.Run(fmt.Sprintf("%s-%s-Zeros", op, prefix), func(b *testing.B) {
				run(b, c, zeros, decode)
			})
		}
	}
	c1 := newEncrypting(b)
	c2 := &CompressingCodec{}
	add(c1, "AES")
	add(c2, "Snappy")
	add(CodecChain{}.Init(c1, c2), "AES+Snappy")
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Mon Apr  2 13:30:02 2018 mstenber
 * Last modified: Thu Apr  5 10:20:44 2018 mstenber
 * Edit time:     21 min
 *
 */

package bitmap

import (
	"testing"

	"github.com/fingon/go-mvsf/layout"
	"github.com/fingon/go-mvsf/util"
	"github.com/stvp/assert"
)

func TestEmptyAndFull(t *testing.T) {
	t.Parallel()

	b := New(make([]byte, layout.BlockSize), 0)
	assert.Equal(t, b.Limit(), Capacity)
	i, err := b.FindFree()
	assert.Nil(t, err)
	assert.Equal(t, i, 0)

	full := make([]byte, layout.BlockSize)
	for i := range full {
		full[i] = 0xFF
	}
	b = New(full, 0)
	i, err = b.FindFree()
	assert.Equal(t, err, ErrExhausted)
	assert.Equal(t, i, -1)
}

func TestBitOrder(t *testing.T) {
	t.Parallel()

	data := make([]byte, 4)
	b := New(data, 0)
	b.Set(0)
	b.Set(9)
	assert.Equal(t, data[0], byte(0x01))
	assert.Equal(t, data[1], byte(0x02))
	assert.True(t, b.IsSet(9))
	assert.True(t, !b.IsSet(8))

	// Idempotent
	b.Set(9)
	assert.Equal(t, data[1], byte(0x02))
	assert.Equal(t, b.Count(), 2)
}

func TestFirstFit(t *testing.T) {
	t.Parallel()

	data := []byte{0xFF, 0xF7, 0x00}
	b := New(data, 0)
	i, err := b.Allocate()
	assert.Nil(t, err)
	assert.Equal(t, i, 11)
	i, err = b.Allocate()
	assert.Nil(t, err)
	assert.Equal(t, i, 16)
	i, err = b.Allocate()
	assert.Nil(t, err)
	assert.Equal(t, i, 17)
}

func TestLimit(t *testing.T) {
	t.Parallel()

	data := make([]byte, layout.BlockSize)
	b := New(data, 10)
	for j := 0; j < 10; j++ {
		i, err := b.Allocate()
		assert.Nil(t, err)
		assert.Equal(t, i, j)
	}
	_, err := b.Allocate()
	assert.Equal(t, err, ErrExhausted)
	assert.Equal(t, data[1], byte(0x03))

	// Unclamped view of the same block keeps going
	i, err := New(data, 0).FindFree()
	assert.Nil(t, err)
	assert.Equal(t, i, 10)
}

func TestLowestUnset(t *testing.T) {
	t.Parallel()

	r := util.GetSeededRng()
	for n := 0; n < 50; n++ {
		data := util.RandomBytes(r, 16)
		b := New(data, 0)
		want := -1
		for i := 0; i < 128; i++ {
			if !b.IsSet(i) {
				want = i
				break
			}
		}
		i, err := b.FindFree()
		if want < 0 {
			assert.Equal(t, err, ErrExhausted)
		} else {
			assert.Nil(t, err)
			assert.Equal(t, i, want)
		}
	}
}

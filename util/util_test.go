/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Fri Dec 29 09:04:44 2017 mstenber
 * Last modified: Mon Apr  2 11:08:52 2018 mstenber
 * Edit time:     3 min
 *
 */

package util

import (
	"testing"

	"github.com/stvp/assert"
)

func TestCeilDiv(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CeilDiv(0, 4096), uint64(0))
	assert.Equal(t, CeilDiv(1, 4096), uint64(1))
	assert.Equal(t, CeilDiv(4096, 4096), uint64(1))
	assert.Equal(t, CeilDiv(4097, 4096), uint64(2))
	assert.Equal(t, CeilDiv(128*128, 4096), uint64(4))
}

func TestIMin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, IMin(3, 5, 1, 7), 1)
	assert.Equal(t, IMin(3), 3)
}

func TestIsZero(t *testing.T) {
	t.Parallel()

	assert.True(t, IsZero(nil))
	assert.True(t, IsZero(make([]byte, 16)))
	assert.True(t, !IsZero([]byte{0, 0, 1}))
}

func TestSOr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SOr("", "b", "c"), "b")
	assert.Equal(t, SOr("", ""), "")
}

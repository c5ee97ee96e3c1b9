/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Fri Dec 29 09:03:12 2017 mstenber
 * Last modified: Mon Apr  2 11:07:30 2018 mstenber
 * Edit time:     9 min
 *
 */

package util

// CeilDiv returns a/b rounded up.
func CeilDiv(a, b uint64) uint64 {
	return (a + b - 1) / b
}

func IMin(i int, ints ...int) int {
	for _, v := range ints {
		if v < i {
			i = v
		}
	}
	return i
}

// IsZero reports whether every byte of b is zero.
func IsZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func SOr(strings ...string) string {
	for _, v := range strings {
		if v != "" {
			return v
		}
	}
	return ""
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Fri Mar 16 13:56:39 2018 mstenber
 * Last modified: Wed Apr  4 10:12:31 2018 mstenber
 * Edit time:     4 min
 *
 */

package util

import (
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/fingon/go-mvsf/mlog"
)

// GetSeededRng returns a generator seeded from the SEED environment
// variable, or from the clock if it is unset. The seed is logged so
// that failing randomized tests can be reproduced.
func GetSeededRng() *rand.Rand {
	seedvalue := time.Now().UnixNano()
	if seed := os.Getenv("SEED"); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			log.Panic(err)
		}
		seedvalue = v
	}
	log.Printf("Seed: %v (use SEED= to fix)", seedvalue)
	mlog.Printf2("util/random", "GetSeededRng %v", seedvalue)
	return rand.New(rand.NewSource(seedvalue))
}

// RandomBytes returns n bytes from r.
func RandomBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	r.Read(b)
	return b
}

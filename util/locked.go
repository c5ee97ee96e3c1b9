/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Thu Jan  4 12:21:40 2018 mstenber
 * Last modified: Wed Apr  4 10:20:07 2018 mstenber
 * Edit time:     2 min
 *
 */

package util

import "sync"

// MutexLocked is a mutex with the convenience of
// `defer x.Locked()()`.
type MutexLocked sync.Mutex

func (self *MutexLocked) Locked() (unlock func()) {
	mut := (*sync.Mutex)(self)
	mut.Lock()
	return mut.Unlock
}

/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2018 Markus Stenberg
 *
 * Created:       Thu Apr 12 12:50:20 2018 mstenber
 * Last modified: Wed Apr 18 10:02:51 2018 mstenber
 * Edit time:     6 min
 *
 */

// mvsf is a minimal flat filesystem image format: 4k blocks, a
// superblock, one inode bitmap block, one data bitmap block, an inode
// table of 128 byte inodes and a data region. There is only the root
// directory, which is a single block of 64 byte entries, and files
// have at most 12 direct blocks.
//
// Format creates an empty image; Insert adds one file to a copy of an
// existing image. Neither ever frees anything. Checksums are written
// on every change but only verified by Check or in strict mode.
package mvsf

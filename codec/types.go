/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2017 Markus Stenberg
 *
 * Created:       Sun Dec 24 16:40:02 2017 mstenber
 * Last modified: Fri Apr  6 13:12:51 2018 mstenber
 * Edit time:     12 min
 *
 */

package codec

import "github.com/pkg/errors"

// Envelope layout of encoded data:
//
// - compressed: 1 byte CompressionType + payload
//
// - encrypted: nonce (gcm.NonceSize() bytes) + AES GCM sealed payload

type CompressionType byte

const (
	CompressionType_UNSET CompressionType = iota

	// The data has not been compressed.
	CompressionType_PLAIN

	// The data is compressed with Snappy.
	CompressionType_SNAPPY
)

var ErrShortData = errors.New("encoded data too short")
var ErrUnknownCompression = errors.New("unknown compression type")

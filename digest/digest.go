// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package digest defines the 32-byte content address used throughout the
// provenance core. A Hash is never derived from wall-clock time, a random
// nonce, or any other non-reproducible input — it is always BLAKE3 over a
// canonical byte sequence.
package digest

import (
	"bytes"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Size is the fixed width of a Hash in bytes.
const Size = 32

// Hash is a 32-byte BLAKE3 digest, used both as content address and as
// identifier for events, DeltaSpecs, and graph nodes. The zero value is
// the all-zero digest and is never produced by Sum.
type Hash [Size]byte

// Empty is the all-zero Hash. It is a valid value but never the output of
// Sum on any input; callers use it as a sentinel for "no hash yet".
var Empty Hash

// Sum returns BLAKE3(data). This is the only sanctioned way to turn bytes
// into a Hash; nothing in this module may call a different hash function.
func Sum(data []byte) Hash {
	var h Hash
	sum := blake3.Sum256(data)
	copy(h[:], sum[:])
	return h
}

// Bytes returns the raw 32 bytes of the digest.
func (h Hash) Bytes() []byte {
	return h[:]
}

// String renders the digest as lowercase hex with no prefix.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsEmpty reports whether h is the all-zero digest.
func (h Hash) IsEmpty() bool {
	return h == Empty
}

// Compare returns -1, 0, or 1 according to the lexicographic order of the
// raw digest bytes. This is the total order required by spec: parent sets
// are sorted and compared under this ordering, never insertion order.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// Less reports whether h sorts strictly before other under Compare.
func (h Hash) Less(other Hash) bool {
	return h.Compare(other) < 0
}

// FromBytes copies exactly Size bytes into a Hash. It does not hash its
// input — use Sum for that. FromBytes exists for reconstructing a Hash
// already computed elsewhere (e.g. decoded off the wire).
func FromBytes(b []byte) (Hash, bool) {
	var h Hash
	if len(b) != Size {
		return h, false
	}
	copy(h[:], b)
	return h, true
}

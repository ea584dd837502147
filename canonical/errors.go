// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package canonical

import "errors"

// Error is a canonical-codec error kind. Every rejection the decoder can
// produce is one of these sentinels so callers can discriminate with
// errors.Is rather than string matching.
var (
	// ErrIncomplete means the input ended before a value finished decoding,
	// including a truncated float64 payload — it is never silently
	// zero-filled.
	ErrIncomplete = errors.New("canonical: incomplete input")

	// ErrTrailing means bytes remained after a complete value was decoded.
	ErrTrailing = errors.New("canonical: trailing bytes after value")

	// ErrTag means a CBOR major-type-6 tag was encountered; tags are
	// rejected outright in both directions.
	ErrTag = errors.New("canonical: tags not allowed")

	// ErrIndefinite means an indefinite-length item was encountered;
	// only definite-length encoding is canonical.
	ErrIndefinite = errors.New("canonical: indefinite length not allowed")

	// ErrNonCanonicalInt means an integer was encoded wider than its
	// minimal width.
	ErrNonCanonicalInt = errors.New("canonical: non-canonical integer width")

	// ErrNonCanonicalFloat means a float16/float32 encoding was seen, or a
	// float64 payload was not in canonical form (NaN, -0, subnormal).
	ErrNonCanonicalFloat = errors.New("canonical: non-canonical float width")

	// ErrFloatShouldBeInt means a float64 payload encodes an integral value
	// that fits the integer range and must have been encoded as an integer.
	ErrFloatShouldBeInt = errors.New("canonical: float encodes integral value; must be integer")

	// ErrMapKeyOrder means map entries were not in strictly increasing
	// lexicographic order of their encoded keys.
	ErrMapKeyOrder = errors.New("canonical: map keys not strictly increasing")

	// ErrDuplicateKey means two map entries encoded to the same key bytes.
	ErrDuplicateKey = errors.New("canonical: duplicate map key")

	// ErrDecode is the catch-all for malformed structure that does not fit
	// one of the more specific kinds above (e.g. an unknown major type).
	ErrDecode = errors.New("canonical: decode error")
)

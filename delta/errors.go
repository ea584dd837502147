// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package delta

import "errors"

var (
	// ErrInvalidStructure means the caller supplied arguments that cannot
	// form a valid DeltaSpec (e.g. an empty trust-root list).
	ErrInvalidStructure = errors.New("delta: invalid structure")

	// ErrCanonicalError wraps a canonical-codec failure encoding or
	// hashing a DeltaSpec's fields.
	ErrCanonicalError = errors.New("delta: canonical encoding error")

	// ErrHashMismatch means a decoded DeltaSpec's stored hash does not
	// match the recomputed hash of its (kind, description).
	ErrHashMismatch = errors.New("delta: stored hash does not match recomputed hash")

	// ErrInvalidEventRef is reserved for future input-mutation validation
	// against an event store; it is declared but not yet exercised.
	ErrInvalidEventRef = errors.New("delta: invalid event reference")
)

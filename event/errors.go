// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import "errors"

// Construction and validation errors. These are always recoverable: they
// mean "this input would violate an invariant, reject it," never that the
// in-memory state has been corrupted.
var (
	// ErrInvalidStructure means the caller supplied arguments that cannot
	// form a valid envelope of the requested kind (e.g. a Decision with no
	// evidence parents).
	ErrInvalidStructure = errors.New("event: invalid structure")

	// ErrCanonicalError wraps a failure from the canonical codec — either
	// encoding a value that should always encode, or decoding bytes that
	// turned out not to be canonical.
	ErrCanonicalError = errors.New("event: canonical encoding error")

	// ErrValidationError means an envelope failed validation: an event_id
	// that does not match its recomputed hash, parents that are not
	// strictly increasing, a Commit without a signature, or a store-backed
	// check such as an unresolved parent, a missing policy parent, or a
	// Commit without a Decision ancestor.
	ErrValidationError = errors.New("event: validation error")
)

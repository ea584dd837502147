// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"fmt"

	"github.com/luxfi/provenance/digest"
)

// Store is a read-only parent lookup. Implementations must be total where
// parents are known; a false second return means "unknown," which
// ValidateEvent treats as a validation failure.
type Store interface {
	Get(id digest.Hash) (*EventEnvelope, bool)
}

// combinedStore layers a batch of not-yet-committed envelopes over a base
// store, so ValidateStore can topologically validate an import batch
// without requiring the base store to already contain it.
type combinedStore struct {
	base  Store
	batch map[digest.Hash]*EventEnvelope
}

func (c *combinedStore) Get(id digest.Hash) (*EventEnvelope, bool) {
	if e, ok := c.batch[id]; ok {
		return e, true
	}
	if c.base != nil {
		return c.base.Get(id)
	}
	return nil, false
}

// ValidateEvent enforces the store-backed structural invariants of e
// against store:
//  1. e.EventID() matches the recomputed hash.
//  2. e.Parents() is strictly increasing.
//  3. Every parent resolves in store.
//  4. If e.Kind() is Decision: exactly one parent resolves to
//     PolicyContext, and at least one resolves to something else.
//  5. If e.Kind() is Commit: at least one parent resolves to Decision, and
//     a signature is present.
func ValidateEvent(e *EventEnvelope, store Store) error {
	if !e.VerifyEventID() {
		return fmt.Errorf("%w: event_id does not match recomputed hash", ErrValidationError)
	}
	if !isStrictlyIncreasing(e.parents) {
		return fmt.Errorf("%w: parents are not strictly increasing", ErrValidationError)
	}

	resolved := make([]*EventEnvelope, len(e.parents))
	for i, p := range e.parents {
		parent, ok := store.Get(p)
		if !ok {
			return fmt.Errorf("%w: parent %s does not resolve in store", ErrValidationError, p)
		}
		resolved[i] = parent
	}

	switch e.kind {
	case KindDecision:
		policyCount := 0
		nonPolicyCount := 0
		for _, p := range resolved {
			if p.kind == KindPolicyContext {
				policyCount++
			} else {
				nonPolicyCount++
			}
		}
		if policyCount != 1 {
			return fmt.Errorf("%w: decision must have exactly one PolicyContext parent, found %d", ErrValidationError, policyCount)
		}
		if nonPolicyCount < 1 {
			return fmt.Errorf("%w: decision must have at least one non-policy evidence parent", ErrValidationError)
		}
	case KindCommit:
		decisionCount := 0
		for _, p := range resolved {
			if p.kind == KindDecision {
				decisionCount++
			}
		}
		if decisionCount < 1 {
			return fmt.Errorf("%w: commit must have at least one Decision parent", ErrValidationError)
		}
		if _, ok := e.Signature(); !ok {
			return fmt.Errorf("%w: commit must carry a signature", ErrValidationError)
		}
	}

	return nil
}

// ValidateStore validates each event in batch, in order, allowing each
// subsequent event to see previously validated batch members as parents.
// This lets a caller import a topologically-ordered batch of events without
// pre-populating base with all of them.
func ValidateStore(base Store, batch []*EventEnvelope) error {
	view := &combinedStore{base: base, batch: make(map[digest.Hash]*EventEnvelope, len(batch))}
	for i, e := range batch {
		if err := ValidateEvent(e, view); err != nil {
			return fmt.Errorf("batch index %d (event %s): %w", i, e.EventID(), err)
		}
		view.batch[e.EventID()] = e
	}
	return nil
}

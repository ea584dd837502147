// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"fmt"
	"sort"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/digest"
)

// EventEnvelope is an immutable, content-addressed node of the event DAG.
// Its identity is a hash of (kind, payload, parents); there is no way to
// mutate an envelope in place, only to construct a new one.
type EventEnvelope struct {
	eventID         digest.Hash
	kind            EventKind
	payload         CanonicalBytes
	parents         []digest.Hash
	agentID         *AgentId
	signature       *Signature
	observationType *string
}

func (e *EventEnvelope) EventID() digest.Hash          { return e.eventID }
func (e *EventEnvelope) Kind() EventKind               { return e.kind }
func (e *EventEnvelope) Payload() CanonicalBytes       { return e.payload }
func (e *EventEnvelope) Parents() []digest.Hash        { return append([]digest.Hash(nil), e.parents...) }
func (e *EventEnvelope) AgentID() (AgentId, bool) {
	if e.agentID == nil {
		return AgentId{}, false
	}
	return *e.agentID, true
}
func (e *EventEnvelope) Signature() (Signature, bool) {
	if e.signature == nil {
		return Signature{}, false
	}
	return *e.signature, true
}
func (e *EventEnvelope) ObservationType() (string, bool) {
	if e.observationType == nil {
		return "", false
	}
	return *e.observationType, true
}

// IsGenesis reports whether this envelope has no parents.
func (e *EventEnvelope) IsGenesis() bool { return len(e.parents) == 0 }

// IsMerge reports whether this envelope has more than one parent.
func (e *EventEnvelope) IsMerge() bool { return len(e.parents) > 1 }

// canonicalizeParents sorts parents ascending by raw bytes and removes
// duplicates, per the envelope's "parents is strictly increasing" invariant.
func canonicalizeParents(parents []digest.Hash) []digest.Hash {
	if len(parents) == 0 {
		return nil
	}
	cp := append([]digest.Hash(nil), parents...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Less(cp[j]) })
	out := cp[:1]
	for _, p := range cp[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// isStrictlyIncreasing reports whether hs is sorted ascending with no
// duplicates, as required of a valid parents field.
func isStrictlyIncreasing(hs []digest.Hash) bool {
	for i := 1; i < len(hs); i++ {
		if !hs[i-1].Less(hs[i]) {
			return false
		}
	}
	return true
}

// hashInput builds the canonical value whose hash is the event_id:
// H(canonical_encode(kind, payload_bytes, parents)). event_id itself is
// never part of this input.
func hashInput(kind EventKind, payload CanonicalBytes, parents []digest.Hash) canonical.Value {
	parentVals := make([]canonical.Value, len(parents))
	for i, p := range parents {
		parentVals[i] = canonical.Bytes(p.Bytes())
	}
	return canonical.Array([]canonical.Value{
		canonical.Uint(uint64(kind)),
		canonical.Bytes(payload.Bytes()),
		canonical.Array(parentVals),
	})
}

func computeEventID(kind EventKind, payload CanonicalBytes, parents []digest.Hash) (digest.Hash, error) {
	return canonical.Hash(hashInput(kind, payload, parents))
}

// VerifyEventID reports whether e.eventID matches the recomputed hash of
// its (kind, payload, parents) triple.
func (e *EventEnvelope) VerifyEventID() bool {
	want, err := computeEventID(e.kind, e.payload, e.parents)
	if err != nil {
		return false
	}
	return want == e.eventID
}

func build(kind EventKind, payload CanonicalBytes, parents []digest.Hash, agentID *AgentId, signature *Signature, observationType *string) (*EventEnvelope, error) {
	canonParents := canonicalizeParents(parents)
	id, err := computeEventID(kind, payload, canonParents)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanonicalError, err)
	}
	return &EventEnvelope{
		eventID:         id,
		kind:            kind,
		payload:         payload,
		parents:         canonParents,
		agentID:         agentID,
		signature:       signature,
		observationType: observationType,
	}, nil
}

// NewObservation constructs an Observation event. Always allowed; no
// structural cross-checks. Genesis iff parents is empty.
func NewObservation(payload CanonicalBytes, parents []digest.Hash, observationType *string, agentID *AgentId, signature *Signature) (*EventEnvelope, error) {
	return build(KindObservation, payload, parents, agentID, signature, observationType)
}

// NewPolicyContext constructs a PolicyContext event. Always allowed.
func NewPolicyContext(payload CanonicalBytes, parents []digest.Hash, agentID *AgentId, signature *Signature) (*EventEnvelope, error) {
	return build(KindPolicyContext, payload, parents, agentID, signature, nil)
}

// NewDecision constructs a Decision event. Fails with ErrInvalidStructure
// if evidenceParents is empty, or if policyParent also appears in
// evidenceParents. The envelope's parent set is the canonicalized union of
// evidenceParents and policyParent.
func NewDecision(payload CanonicalBytes, evidenceParents []digest.Hash, policyParent digest.Hash, agentID *AgentId, signature *Signature) (*EventEnvelope, error) {
	if len(evidenceParents) == 0 {
		return nil, fmt.Errorf("%w: decision requires at least one evidence parent", ErrInvalidStructure)
	}
	for _, p := range evidenceParents {
		if p == policyParent {
			return nil, fmt.Errorf("%w: policy parent must not also be an evidence parent", ErrInvalidStructure)
		}
	}
	parents := append(append([]digest.Hash(nil), evidenceParents...), policyParent)
	return build(KindDecision, payload, parents, agentID, signature, nil)
}

// NewCommit constructs a Commit event. signature is a required, non-
// optional parameter — a Commit without a signature cannot be built. The
// parent set is the canonicalized union of extraParents and
// decisionParent.
func NewCommit(payload CanonicalBytes, decisionParent digest.Hash, extraParents []digest.Hash, agentID *AgentId, signature Signature) (*EventEnvelope, error) {
	parents := append(append([]digest.Hash(nil), extraParents...), decisionParent)
	return build(KindCommit, payload, parents, agentID, &signature, nil)
}

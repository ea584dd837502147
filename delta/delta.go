// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package delta implements DeltaSpec: a content-addressed descriptor that
// names a counterfactual. A future fork event references a DeltaSpec's
// hash as a parent; no separate registry of counterfactuals is needed.
package delta

import (
	"fmt"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/digest"
	"github.com/luxfi/provenance/event"
)

// Kind discriminates the four counterfactual shapes a DeltaSpec can name.
type Kind int

const (
	KindSchedulerPolicy Kind = iota
	KindClockPolicy
	KindTrustPolicy
	KindInputMutation
)

func (k Kind) String() string {
	switch k {
	case KindSchedulerPolicy:
		return "SchedulerPolicy"
	case KindClockPolicy:
		return "ClockPolicy"
	case KindTrustPolicy:
		return "TrustPolicy"
	case KindInputMutation:
		return "InputMutation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// InputEvent is a placeholder record for an input the runtime's input
// layer would insert or modify under an InputMutation delta. It carries
// just enough to be content-addressed; the input layer itself is out of
// scope here.
type InputEvent struct {
	ID      digest.Hash
	Payload []byte
}

func (e InputEvent) canonicalValue() canonical.Value {
	return canonical.Array([]canonical.Value{
		canonical.Bytes(e.ID.Bytes()),
		canonical.Bytes(e.Payload),
	})
}

// InputMutation describes a set of input insertions, deletions, and
// modifications named by an InputMutation DeltaSpec.
type InputMutation struct {
	Insert []InputEvent
	Delete []digest.Hash
	Modify []InputEvent
}

func (m InputMutation) canonicalValue() canonical.Value {
	insert := make([]canonical.Value, len(m.Insert))
	for i, e := range m.Insert {
		insert[i] = e.canonicalValue()
	}
	del := make([]canonical.Value, len(m.Delete))
	for i, h := range m.Delete {
		del[i] = canonical.Bytes(h.Bytes())
	}
	modify := make([]canonical.Value, len(m.Modify))
	for i, e := range m.Modify {
		modify[i] = e.canonicalValue()
	}
	return canonical.Array([]canonical.Value{
		canonical.Array(insert),
		canonical.Array(del),
		canonical.Array(modify),
	})
}

// Spec is a DeltaSpec: (kind, description, hash). hash is excluded from
// its own hashed input to avoid circularity; it is always
// H(canonical_encode(kind, description)).
type Spec struct {
	kind        Kind
	description string
	hash        digest.Hash

	policyHash    digest.Hash  // SchedulerPolicy / ClockPolicy
	trustRoots    []event.AgentId // TrustPolicy
	inputMutation InputMutation   // InputMutation
}

func (s *Spec) Kind() Kind               { return s.kind }
func (s *Spec) Description() string      { return s.description }
func (s *Spec) Hash() digest.Hash        { return s.hash }
func (s *Spec) PolicyHash() digest.Hash  { return s.policyHash }
func (s *Spec) TrustRoots() []event.AgentId {
	return append([]event.AgentId(nil), s.trustRoots...)
}
func (s *Spec) InputMutation() InputMutation { return s.inputMutation }

// innerValue builds the canonical representation of the kind-specific
// payload, used as part of the hashed (kind, description) input.
func (s *Spec) innerValue() canonical.Value {
	switch s.kind {
	case KindSchedulerPolicy, KindClockPolicy:
		return canonical.Bytes(s.policyHash.Bytes())
	case KindTrustPolicy:
		roots := make([]canonical.Value, len(s.trustRoots))
		for i, r := range s.trustRoots {
			roots[i] = canonical.Text(r.String())
		}
		return canonical.Array(roots)
	case KindInputMutation:
		return s.inputMutation.canonicalValue()
	default:
		return canonical.Null()
	}
}

func (s *Spec) hashInput() canonical.Value {
	return canonical.Array([]canonical.Value{
		canonical.Uint(uint64(s.kind)),
		s.innerValue(),
		canonical.Text(s.description),
	})
}

func finalize(s *Spec) (*Spec, error) {
	h, err := canonical.Hash(s.hashInput())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanonicalError, err)
	}
	s.hash = h
	return s, nil
}

// NewSchedulerPolicy names a counterfactual scheduler policy by the hash
// of its configuration.
func NewSchedulerPolicy(policyHash digest.Hash, description string) (*Spec, error) {
	return finalize(&Spec{kind: KindSchedulerPolicy, policyHash: policyHash, description: description})
}

// NewClockPolicy names a counterfactual clock policy by the hash of its
// configuration.
func NewClockPolicy(policyHash digest.Hash, description string) (*Spec, error) {
	return finalize(&Spec{kind: KindClockPolicy, policyHash: policyHash, description: description})
}

// NewTrustPolicy names a counterfactual set of trust roots. Rejects an
// empty root list: a "trust nobody" policy must never arise by accident.
func NewTrustPolicy(roots []event.AgentId, description string) (*Spec, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: trust policy requires at least one trust root", ErrInvalidStructure)
	}
	return finalize(&Spec{kind: KindTrustPolicy, trustRoots: append([]event.AgentId(nil), roots...), description: description})
}

// NewInputMutation names a counterfactual input mutation.
func NewInputMutation(mutation InputMutation, description string) (*Spec, error) {
	return finalize(&Spec{kind: KindInputMutation, inputMutation: mutation, description: description})
}

// VerifyHash reports whether s.hash matches the recomputed hash of its
// (kind, description) input.
func (s *Spec) VerifyHash() bool {
	want, err := canonical.Hash(s.hashInput())
	if err != nil {
		return false
	}
	return want == s.hash
}

// DecodeSpec reconstructs a Spec from its wire fields, recomputing and
// validating its hash. Unlike a lookup-by-identifier registry, a mismatch
// here always means the bytes were tampered with or corrupted in transit.
func DecodeSpec(kind Kind, description string, storedHash digest.Hash, policyHash digest.Hash, trustRoots []event.AgentId, mutation InputMutation) (*Spec, error) {
	if kind == KindTrustPolicy && len(trustRoots) == 0 {
		return nil, fmt.Errorf("%w: trust policy requires at least one trust root", ErrInvalidStructure)
	}
	s := &Spec{
		kind:          kind,
		description:   description,
		policyHash:    policyHash,
		trustRoots:    append([]event.AgentId(nil), trustRoots...),
		inputMutation: mutation,
	}
	want, err := canonical.Hash(s.hashInput())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanonicalError, err)
	}
	if want != storedHash {
		return nil, ErrHashMismatch
	}
	s.hash = want
	return s, nil
}

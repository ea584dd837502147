// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"fmt"

	"github.com/luxfi/provenance/digest"
)

// WireEnvelope is the field-level shape of an envelope as it arrives off
// an external byte stream, before any of the deserialization-hardening
// invariants have been checked. A caller is expected to have already
// CBOR-decoded the outer structure; DecodeEnvelope performs everything the
// spec requires beyond that.
type WireEnvelope struct {
	EventID         digest.Hash
	Kind            EventKind
	PayloadBytes    []byte
	Parents         []digest.Hash
	AgentID         *string
	Signature       []byte // nil means absent; non-nil-but-empty is rejected
	ObservationType *string
}

// DecodeEnvelope builds an EventEnvelope from wire fields, enforcing every
// hardening invariant the spec requires of an externally loaded envelope.
// A failure in any of the checks below surfaces as an error — it never
// produces a successfully constructed envelope from bad input.
func DecodeEnvelope(in WireEnvelope) (*EventEnvelope, error) {
	payload, err := ParseCanonicalBytes(in.PayloadBytes)
	if err != nil {
		return nil, err
	}

	if !isStrictlyIncreasing(in.Parents) {
		return nil, fmt.Errorf("%w: parents are not canonically sorted and unique", ErrValidationError)
	}

	var agentID *AgentId
	if in.AgentID != nil {
		a, err := NewAgentId(*in.AgentID)
		if err != nil {
			return nil, err
		}
		agentID = &a
	}

	var signature *Signature
	if in.Signature != nil {
		s, err := NewSignature(in.Signature)
		if err != nil {
			return nil, err
		}
		signature = &s
	}

	if in.Kind == KindCommit && signature == nil {
		return nil, fmt.Errorf("%w: commit requires a signature", ErrValidationError)
	}

	if in.Kind != KindObservation && in.ObservationType != nil {
		return nil, fmt.Errorf("%w: observation_type is only valid on Observation events", ErrInvalidStructure)
	}

	parents := append([]digest.Hash(nil), in.Parents...)
	wantID, err := computeEventID(in.Kind, payload, parents)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanonicalError, err)
	}
	if wantID != in.EventID {
		return nil, fmt.Errorf("%w: event_id does not match recomputed hash", ErrValidationError)
	}

	return &EventEnvelope{
		eventID:         wantID,
		kind:            in.Kind,
		payload:         payload,
		parents:         parents,
		agentID:         agentID,
		signature:       signature,
		observationType: in.ObservationType,
	}, nil
}

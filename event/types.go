// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"fmt"

	"github.com/luxfi/provenance/canonical"
)

// CanonicalBytes is a byte sequence validated to be the canonical encoding
// of some logical value: decode(b) succeeds and encode(decode(b)) == b.
// Every EventEnvelope payload is one of these; nothing downstream ever
// touches raw, unvalidated bytes.
type CanonicalBytes struct {
	raw []byte
}

// NewCanonicalBytesFromValue encodes v and wraps the result.
func NewCanonicalBytesFromValue(v canonical.Value) (CanonicalBytes, error) {
	b, err := canonical.Encode(v)
	if err != nil {
		return CanonicalBytes{}, fmt.Errorf("%w: %w", ErrCanonicalError, err)
	}
	return CanonicalBytes{raw: b}, nil
}

// NewCanonicalBytesFromMarshaler encodes m's canonical value.
func NewCanonicalBytesFromMarshaler(m canonical.Marshaler) (CanonicalBytes, error) {
	return NewCanonicalBytesFromValue(m.CanonicalValue())
}

// ParseCanonicalBytes validates that b round-trips under the canonical
// codec and wraps it if so. This is the only way to construct
// CanonicalBytes from bytes received off the wire.
func ParseCanonicalBytes(b []byte) (CanonicalBytes, error) {
	if !canonical.Roundtrips(b) {
		return CanonicalBytes{}, fmt.Errorf("%w: payload bytes are not canonical", ErrCanonicalError)
	}
	cp := append([]byte(nil), b...)
	return CanonicalBytes{raw: cp}, nil
}

// Bytes returns the validated canonical bytes.
func (c CanonicalBytes) Bytes() []byte { return c.raw }

// Decode parses the wrapped bytes back into a Value tree.
func (c CanonicalBytes) Decode() (canonical.Value, error) {
	return canonical.Decode(c.raw)
}

// AgentId is a non-empty UTF-8 string naming the actor that produced an
// event. The invariant is enforced at construction and on decode.
type AgentId struct {
	id string
}

// NewAgentId validates and wraps s.
func NewAgentId(s string) (AgentId, error) {
	if s == "" {
		return AgentId{}, fmt.Errorf("%w: agent id must not be empty", ErrInvalidStructure)
	}
	return AgentId{id: s}, nil
}

func (a AgentId) String() string { return a.id }

// Signature is a non-empty opaque byte sequence. Verification is out of
// scope here; only non-emptiness is enforced.
type Signature struct {
	raw []byte
}

// NewSignature validates and wraps b.
func NewSignature(b []byte) (Signature, error) {
	if len(b) == 0 {
		return Signature{}, fmt.Errorf("%w: signature must not be empty", ErrInvalidStructure)
	}
	return Signature{raw: append([]byte(nil), b...)}, nil
}

func (s Signature) Bytes() []byte { return s.raw }

// EventKind is the closed set of four event variants.
type EventKind int

const (
	// KindObservation is a fact claimed about the world; may be wrong or
	// contradicted by later evidence.
	KindObservation EventKind = iota
	// KindPolicyContext is an interpretive stance: how clocks, scheduling,
	// and trust should be read.
	KindPolicyContext
	// KindDecision is an interpretive choice made given evidence and
	// exactly one policy.
	KindDecision
	// KindCommit is an irreversible, externally visible effect.
	KindCommit
)

func (k EventKind) String() string {
	switch k {
	case KindObservation:
		return "Observation"
	case KindPolicyContext:
		return "PolicyContext"
	case KindDecision:
		return "Decision"
	case KindCommit:
		return "Commit"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event payload type tags, per the wire-format convention
// <CATEGORY>_<NAME>_V<n>. A view must ignore observations whose tag it
// does not recognize.
const (
	ObsClockSampleV0  = "OBS_CLOCK_SAMPLE_V0"
	ObsTimerRequestV0 = "OBS_TIMER_REQUEST_V0"

	// DecTimerFireV0 names the convention a future decision_type tag
	// would use for TimerFire payloads. Decisions carry no type tag
	// today (see the decision_type open question), so TimerView
	// disambiguates by attempted decode rather than by this constant;
	// it is declared so that introducing the tag later does not change
	// the wire convention already in use for observation tags.
	DecTimerFireV0 = "DEC_TIMER_FIRE_V0"
)

// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package clockview

import (
	"fmt"
	"math"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/digest"
)

// Source is where a ClockSample claims to have been read from.
type Source int

const (
	SourceMonotonic Source = iota
	SourceRtc
	SourceNtp
	SourcePeerClaim
)

func (s Source) String() string {
	switch s {
	case SourceMonotonic:
		return "Monotonic"
	case SourceRtc:
		return "Rtc"
	case SourceNtp:
		return "Ntp"
	case SourcePeerClaim:
		return "PeerClaim"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Domain is the time domain a Time value is expressed in.
type Domain int

const (
	DomainMonotonic Domain = iota
	DomainUnix
	DomainUnknown
)

// Sample is a single clock reading as claimed by an Observation event.
// It carries no event identity of its own; the envelope that carried it
// supplies the provenance hash.
type Sample struct {
	Source        Source
	ValueNs       uint64
	UncertaintyNs uint64
}

// CanonicalValue renders the sample for canonical encoding.
func (s Sample) CanonicalValue() canonical.Value {
	return canonical.Map([]canonical.MapEntry{
		{Key: canonical.Text("source"), Val: canonical.Uint(uint64(s.Source))},
		{Key: canonical.Text("value_ns"), Val: canonical.Uint(s.ValueNs)},
		{Key: canonical.Text("uncertainty_ns"), Val: canonical.Uint(s.UncertaintyNs)},
	})
}

// FromCanonicalValue reconstructs a Sample from a decoded Value.
func (s *Sample) FromCanonicalValue(v canonical.Value) error {
	if v.Kind() != canonical.KindMap {
		return fmt.Errorf("clockview: clock sample must be a map")
	}
	var gotSource, gotValue, gotUncertainty bool
	for _, e := range v.MapEntries() {
		if e.Key.Kind() != canonical.KindText {
			return fmt.Errorf("clockview: clock sample keys must be text")
		}
		switch e.Key.Text() {
		case "source":
			if e.Val.Kind() != canonical.KindInt || e.Val.IsNegative() {
				return fmt.Errorf("clockview: source must be a non-negative integer")
			}
			s.Source = Source(e.Val.Uint64())
			gotSource = true
		case "value_ns":
			if e.Val.Kind() != canonical.KindInt || e.Val.IsNegative() {
				return fmt.Errorf("clockview: value_ns must be a non-negative integer")
			}
			s.ValueNs = e.Val.Uint64()
			gotValue = true
		case "uncertainty_ns":
			if e.Val.Kind() != canonical.KindInt || e.Val.IsNegative() {
				return fmt.Errorf("clockview: uncertainty_ns must be a non-negative integer")
			}
			s.UncertaintyNs = e.Val.Uint64()
			gotUncertainty = true
		}
	}
	if !gotSource || !gotValue || !gotUncertainty {
		return fmt.Errorf("clockview: clock sample missing required field")
	}
	return nil
}

// Time is a deterministic belief about the current time, always traceable
// to the events that produced it.
type Time struct {
	Ns            uint64
	UncertaintyNs uint64
	Domain        Domain
	Provenance    []digest.Hash
}

// Unknown is the Time value a view holds before any applicable sample has
// arrived.
func Unknown() Time {
	return Time{Ns: 0, UncertaintyNs: math.MaxUint64, Domain: DomainUnknown, Provenance: nil}
}

// PolicyID selects how a ClockView interprets its latest-sample cache.
type PolicyID int

const (
	// TrustMonotonicLatest reads the latest Monotonic sample.
	TrustMonotonicLatest PolicyID = iota
	// TrustNtpLatest reads the latest Ntp sample.
	TrustNtpLatest
)

// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timerview

import (
	"fmt"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/digest"
)

// Request is a request to fire at requested_at_ns + duration_ns, carried
// by an Observation tagged OBS_TIMER_REQUEST_V0.
type Request struct {
	RequestID     digest.Hash
	DurationNs    uint64
	RequestedAtNs uint64
}

// CanonicalValue renders the request for canonical encoding.
func (r Request) CanonicalValue() canonical.Value {
	return canonical.Map([]canonical.MapEntry{
		{Key: canonical.Text("request_id"), Val: canonical.Bytes(r.RequestID[:])},
		{Key: canonical.Text("duration_ns"), Val: canonical.Uint(r.DurationNs)},
		{Key: canonical.Text("requested_at_ns"), Val: canonical.Uint(r.RequestedAtNs)},
	})
}

// FromCanonicalValue reconstructs a Request from a decoded Value.
func (r *Request) FromCanonicalValue(v canonical.Value) error {
	if v.Kind() != canonical.KindMap {
		return fmt.Errorf("timerview: timer request must be a map")
	}
	var gotID, gotDuration, gotRequestedAt bool
	for _, e := range v.MapEntries() {
		if e.Key.Kind() != canonical.KindText {
			return fmt.Errorf("timerview: timer request keys must be text")
		}
		switch e.Key.Text() {
		case "request_id":
			if e.Val.Kind() != canonical.KindBytes {
				return fmt.Errorf("timerview: request_id must be bytes")
			}
			id, ok := digest.FromBytes(e.Val.BytesVal())
			if !ok {
				return fmt.Errorf("timerview: request_id must be %d bytes", digest.Size)
			}
			r.RequestID = id
			gotID = true
		case "duration_ns":
			if e.Val.Kind() != canonical.KindInt || e.Val.IsNegative() {
				return fmt.Errorf("timerview: duration_ns must be a non-negative integer")
			}
			r.DurationNs = e.Val.Uint64()
			gotDuration = true
		case "requested_at_ns":
			if e.Val.Kind() != canonical.KindInt || e.Val.IsNegative() {
				return fmt.Errorf("timerview: requested_at_ns must be a non-negative integer")
			}
			r.RequestedAtNs = e.Val.Uint64()
			gotRequestedAt = true
		}
	}
	if !gotID || !gotDuration || !gotRequestedAt {
		return fmt.Errorf("timerview: timer request missing required field")
	}
	return nil
}

// Fire is a Decision-encoded payload recording that a requested timer
// fired. TimerView disambiguates it from other Decision payloads by
// attempted decode rather than by tag; see DecTimerFireV0.
type Fire struct {
	RequestID digest.Hash
	FiredAtNs uint64
}

// CanonicalValue renders the fire record for canonical encoding.
func (f Fire) CanonicalValue() canonical.Value {
	return canonical.Map([]canonical.MapEntry{
		{Key: canonical.Text("request_id"), Val: canonical.Bytes(f.RequestID[:])},
		{Key: canonical.Text("fired_at_ns"), Val: canonical.Uint(f.FiredAtNs)},
	})
}

// FromCanonicalValue reconstructs a Fire from a decoded Value.
func (f *Fire) FromCanonicalValue(v canonical.Value) error {
	if v.Kind() != canonical.KindMap {
		return fmt.Errorf("timerview: timer fire must be a map")
	}
	var gotID, gotFiredAt bool
	for _, e := range v.MapEntries() {
		if e.Key.Kind() != canonical.KindText {
			return fmt.Errorf("timerview: timer fire keys must be text")
		}
		switch e.Key.Text() {
		case "request_id":
			if e.Val.Kind() != canonical.KindBytes {
				return fmt.Errorf("timerview: request_id must be bytes")
			}
			id, ok := digest.FromBytes(e.Val.BytesVal())
			if !ok {
				return fmt.Errorf("timerview: request_id must be %d bytes", digest.Size)
			}
			f.RequestID = id
			gotID = true
		case "fired_at_ns":
			if e.Val.Kind() != canonical.KindInt || e.Val.IsNegative() {
				return fmt.Errorf("timerview: fired_at_ns must be a non-negative integer")
			}
			f.FiredAtNs = e.Val.Uint64()
			gotFiredAt = true
		}
	}
	if !gotID || !gotFiredAt {
		return fmt.Errorf("timerview: timer fire missing required field")
	}
	return nil
}

// saturatingAdd computes a+b, clamping to math.MaxUint64 on overflow
// rather than wrapping.
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

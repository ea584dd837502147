// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package timerview implements TimerView: deterministic timer firing as
// a fold over timer-request Observations and timer-fire Decisions. There
// is no hidden wall-clock timer anywhere in this package; "now" is always
// supplied by the caller.
package timerview

import (
	"github.com/luxfi/provenance/digest"
	"github.com/luxfi/provenance/event"
	"github.com/luxfi/provenance/internal/set"
)

// requestRecord pairs a decoded Request with the event that carried it.
type requestRecord struct {
	eventID digest.Hash
	request Request
}

// fireRecord pairs a decoded Fire with the Decision event that carried it.
type fireRecord struct {
	eventID digest.Hash
	fire    Fire
}

// View is the materialized timer belief, rebuilt by folding events in
// worldline order.
type View struct {
	requests []requestRecord
	fired    []fireRecord
	firedIDs set.Set[digest.Hash]
}

// New builds an empty view.
func New() *View {
	return &View{firedIDs: set.NewSet[digest.Hash](0)}
}

// Apply folds one event into the view.
//
// An Observation tagged OBS_TIMER_REQUEST_V0 is decoded as a Request;
// a malformed payload fails with ErrMalformedRequest. A Decision is
// attempted as a Fire payload; on success it is recorded and indexed,
// on failure it is silently ignored (it may be some other kind of
// Decision this view does not care about). Any other event is a no-op.
func (v *View) Apply(e *event.EventEnvelope) error {
	if e.Kind() == event.KindObservation {
		tag, ok := e.ObservationType()
		if !ok || tag != event.ObsTimerRequestV0 {
			return nil
		}

		val, err := e.Payload().Decode()
		if err != nil {
			return ErrMalformedRequest
		}
		var req Request
		if err := req.FromCanonicalValue(val); err != nil {
			return ErrMalformedRequest
		}
		v.requests = append(v.requests, requestRecord{eventID: e.EventID(), request: req})
		return nil
	}

	if e.Kind() == event.KindDecision {
		val, err := e.Payload().Decode()
		if err != nil {
			return nil
		}
		var fire Fire
		if err := fire.FromCanonicalValue(val); err != nil {
			return nil
		}
		v.fired = append(v.fired, fireRecord{eventID: e.EventID(), fire: fire})
		v.firedIDs.Add(fire.RequestID)
		return nil
	}

	return nil
}

// Pending is a timer request that has reached its deadline and has not
// yet fired, including the event_id of the request that produced it so
// a caller can construct a Decision with the correct evidence parent.
type Pending struct {
	EventID digest.Hash
	Request Request
}

// PendingTimers returns every request whose request_id is not yet in
// fired_ids and whose deadline (requested_at_ns + duration_ns, computed
// with saturating addition) is <= currentNs.
func (v *View) PendingTimers(currentNs uint64) []Pending {
	var out []Pending
	for _, rec := range v.requests {
		if v.firedIDs.Contains(rec.request.RequestID) {
			continue
		}
		deadline := saturatingAdd(rec.request.RequestedAtNs, rec.request.DurationNs)
		if currentNs >= deadline {
			out = append(out, Pending{EventID: rec.eventID, Request: rec.request})
		}
	}
	return out
}

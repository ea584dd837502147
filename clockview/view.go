// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package clockview implements ClockView: a deterministic fold over
// Observation events that produces a Time belief at any prefix of the
// worldline. It never reads a host clock; its only inputs are events and
// a policy.
package clockview

import (
	"github.com/luxfi/provenance/digest"
	"github.com/luxfi/provenance/event"
)

// sampleRecord pairs a decoded Sample with the event that carried it, so
// the resulting Time can cite its provenance.
type sampleRecord struct {
	eventID digest.Hash
	sample  Sample
}

// View is the materialized clock belief. It is rebuilt by folding events
// in worldline order; it is never mutated by anything but Apply.
type View struct {
	policy  PolicyID
	latest  map[Source]sampleRecord
	history []sampleRecord
	current Time
}

// New builds an empty view under policy, with Now() == Unknown().
func New(policy PolicyID) *View {
	return &View{
		policy:  policy,
		latest:  make(map[Source]sampleRecord),
		current: Unknown(),
	}
}

// Apply folds one event into the view. Non-Observation events, and
// Observations whose tag is not OBS_CLOCK_SAMPLE_V0, are a no-op. A
// malformed OBS_CLOCK_SAMPLE_V0 payload is also a no-op: the tag promises
// a payload shape, and a violation of that promise is treated the same as
// an event this view does not recognize.
func (v *View) Apply(e *event.EventEnvelope) {
	if e.Kind() != event.KindObservation {
		return
	}
	tag, ok := e.ObservationType()
	if !ok || tag != event.ObsClockSampleV0 {
		return
	}

	val, err := e.Payload().Decode()
	if err != nil {
		return
	}
	var sample Sample
	if err := sample.FromCanonicalValue(val); err != nil {
		return
	}

	rec := sampleRecord{eventID: e.EventID(), sample: sample}
	v.latest[sample.Source] = rec
	v.history = append(v.history, rec)
	v.recompute()
}

func (v *View) recompute() {
	switch v.policy {
	case TrustMonotonicLatest:
		v.current = v.fromLatest(SourceMonotonic, DomainMonotonic)
	case TrustNtpLatest:
		v.current = v.fromLatest(SourceNtp, DomainUnix)
	default:
		v.current = Unknown()
	}
}

func (v *View) fromLatest(src Source, domain Domain) Time {
	rec, ok := v.latest[src]
	if !ok {
		return Unknown()
	}
	return Time{
		Ns:            rec.sample.ValueNs,
		UncertaintyNs: rec.sample.UncertaintyNs,
		Domain:        domain,
		Provenance:    []digest.Hash{rec.eventID},
	}
}

// Now returns the view's current Time belief.
func (v *View) Now() Time { return v.current }

// NowAtCut rebuilds a fresh view under policy and folds events[0:cut],
// returning its resulting Now(). It fails with ErrCutOutOfBounds if cut
// exceeds len(events).
func NowAtCut(events []*event.EventEnvelope, cut int, policy PolicyID) (Time, error) {
	if cut > len(events) {
		return Time{}, ErrCutOutOfBounds
	}
	fresh := New(policy)
	for _, e := range events[:cut] {
		fresh.Apply(e)
	}
	return fresh.Now(), nil
}

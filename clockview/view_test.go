// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package clockview

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/event"
)

func clockSampleEvent(t *testing.T, source Source, valueNs, uncertaintyNs uint64) *event.EventEnvelope {
	t.Helper()
	sample := Sample{Source: source, ValueNs: valueNs, UncertaintyNs: uncertaintyNs}
	payload, err := event.NewCanonicalBytesFromValue(sample.CanonicalValue())
	require.NoError(t, err)
	tag := event.ObsClockSampleV0
	e, err := event.NewObservation(payload, nil, &tag, nil, nil)
	require.NoError(t, err)
	return e
}

func TestNewViewStartsUnknown(t *testing.T) {
	v := New(TrustMonotonicLatest)
	require.Equal(t, Unknown(), v.Now())
}

func TestApplyUpdatesCurrentUnderMonotonicPolicy(t *testing.T) {
	v := New(TrustMonotonicLatest)
	e := clockSampleEvent(t, SourceMonotonic, 1000, 5)
	v.Apply(e)

	now := v.Now()
	require.Equal(t, uint64(1000), now.Ns)
	require.Equal(t, DomainMonotonic, now.Domain)
	require.Equal(t, e.EventID(), now.Provenance[0])
}

func TestApplyIgnoresNonClockObservation(t *testing.T) {
	v := New(TrustMonotonicLatest)
	payload, err := event.NewCanonicalBytesFromValue(canonical.Text("unrelated"))
	require.NoError(t, err)
	e, err := event.NewObservation(payload, nil, nil, nil, nil)
	require.NoError(t, err)
	v.Apply(e)
	require.Equal(t, Unknown(), v.Now())
}

func TestApplyIgnoresNonObservationEvent(t *testing.T) {
	v := New(TrustMonotonicLatest)
	payload, err := event.NewCanonicalBytesFromValue(canonical.Text("policy"))
	require.NoError(t, err)
	e, err := event.NewPolicyContext(payload, nil, nil, nil)
	require.NoError(t, err)
	v.Apply(e)
	require.Equal(t, Unknown(), v.Now())
}

func TestApplyIgnoresMalformedClockSamplePayload(t *testing.T) {
	v := New(TrustMonotonicLatest)
	payload, err := event.NewCanonicalBytesFromValue(canonical.Text("not a sample"))
	require.NoError(t, err)
	tag := event.ObsClockSampleV0
	e, err := event.NewObservation(payload, nil, &tag, nil, nil)
	require.NoError(t, err)
	v.Apply(e)
	require.Equal(t, Unknown(), v.Now())
}

func TestNtpPolicyIgnoresMonotonicSamples(t *testing.T) {
	v := New(TrustNtpLatest)
	v.Apply(clockSampleEvent(t, SourceMonotonic, 1000, 5))
	require.Equal(t, Unknown(), v.Now())

	v.Apply(clockSampleEvent(t, SourceNtp, 2000, 1))
	require.Equal(t, uint64(2000), v.Now().Ns)
	require.Equal(t, DomainUnix, v.Now().Domain)
}

func TestNowAtCutRejectsOutOfBoundsCut(t *testing.T) {
	events := []*event.EventEnvelope{clockSampleEvent(t, SourceMonotonic, 1, 0)}
	_, err := NowAtCut(events, 5, TrustMonotonicLatest)
	require.ErrorIs(t, err, ErrCutOutOfBounds)
}

func TestClockReplayEquivalence(t *testing.T) {
	var events []*event.EventEnvelope
	for i := uint64(0); i < 10; i++ {
		events = append(events, clockSampleEvent(t, SourceMonotonic, 1000+i, 0))
	}

	fresh := New(TrustMonotonicLatest)
	for _, e := range events {
		fresh.Apply(e)
	}
	want := fresh.Now()
	require.Equal(t, uint64(1009), want.Ns)

	for i := 0; i < 100; i++ {
		v := New(TrustMonotonicLatest)
		for _, e := range events {
			v.Apply(e)
		}
		require.Equal(t, want, v.Now())
	}
}

func TestNowAtCutMatchesFreshFold(t *testing.T) {
	var events []*event.EventEnvelope
	for i := uint64(0); i < 5; i++ {
		events = append(events, clockSampleEvent(t, SourceMonotonic, 1000+i, 0))
	}

	for k := 0; k <= len(events); k++ {
		got, err := NowAtCut(events, k, TrustMonotonicLatest)
		require.NoError(t, err)

		fresh := New(TrustMonotonicLatest)
		for _, e := range events[:k] {
			fresh.Apply(e)
		}
		require.Equal(t, fresh.Now(), got)
	}
}

// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/digest"
)

func mustPayload(t *testing.T, text string) CanonicalBytes {
	t.Helper()
	cb, err := NewCanonicalBytesFromValue(canonical.Text(text))
	require.NoError(t, err)
	return cb
}

func TestNewObservationGenesisHasNoParents(t *testing.T) {
	obs, err := NewObservation(mustPayload(t, "hello"), nil, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, obs.IsGenesis())
	require.False(t, obs.IsMerge())
	require.True(t, obs.VerifyEventID())
}

func TestParentsAreSortedAndDeduped(t *testing.T) {
	p1 := digest.Sum([]byte("p1"))
	p2 := digest.Sum([]byte("p2"))
	// Deliberately out of order, with a duplicate.
	unordered := []digest.Hash{p2, p1, p2}

	obs, err := NewObservation(mustPayload(t, "x"), unordered, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, isStrictlyIncreasing(obs.Parents()))
	require.Len(t, obs.Parents(), 2)
}

func TestDecisionRequiresEvidenceParents(t *testing.T) {
	policy := digest.Sum([]byte("policy"))
	_, err := NewDecision(mustPayload(t, "d"), nil, policy, nil, nil)
	require.ErrorIs(t, err, ErrInvalidStructure)
}

func TestDecisionRejectsPolicyParentAlsoInEvidence(t *testing.T) {
	shared := digest.Sum([]byte("shared"))
	_, err := NewDecision(mustPayload(t, "d"), []digest.Hash{shared}, shared, nil, nil)
	require.ErrorIs(t, err, ErrInvalidStructure)
}

func TestPolicySensitiveDecisionIDsDiffer(t *testing.T) {
	obsPayload := mustPayload(t, "evidence")
	obs, err := NewObservation(obsPayload, nil, nil, nil, nil)
	require.NoError(t, err)

	p1Payload, err := NewCanonicalBytesFromValue(canonical.Map([]canonical.MapEntry{
		{Key: canonical.Text("clock"), Val: canonical.Text("ntp")},
	}))
	require.NoError(t, err)
	p2Payload, err := NewCanonicalBytesFromValue(canonical.Map([]canonical.MapEntry{
		{Key: canonical.Text("clock"), Val: canonical.Text("monotonic")},
	}))
	require.NoError(t, err)

	p1, err := NewPolicyContext(p1Payload, nil, nil, nil)
	require.NoError(t, err)
	p2, err := NewPolicyContext(p2Payload, nil, nil, nil)
	require.NoError(t, err)

	decisionPayload := mustPayload(t, "same decision payload")
	d1, err := NewDecision(decisionPayload, []digest.Hash{obs.EventID()}, p1.EventID(), nil, nil)
	require.NoError(t, err)
	d2, err := NewDecision(decisionPayload, []digest.Hash{obs.EventID()}, p2.EventID(), nil, nil)
	require.NoError(t, err)

	require.NotEqual(t, d1.EventID(), d2.EventID())
}

func TestNewCommitRequiresSignature(t *testing.T) {
	decision := digest.Sum([]byte("decision"))
	sig, err := NewSignature([]byte{0x01})
	require.NoError(t, err)

	commit, err := NewCommit(mustPayload(t, "c"), decision, nil, nil, sig)
	require.NoError(t, err)
	gotSig, ok := commit.Signature()
	require.True(t, ok)
	require.Equal(t, sig, gotSig)
}

func TestNewSignatureRejectsEmpty(t *testing.T) {
	_, err := NewSignature(nil)
	require.ErrorIs(t, err, ErrInvalidStructure)
}

func TestNewAgentIdRejectsEmpty(t *testing.T) {
	_, err := NewAgentId("")
	require.ErrorIs(t, err, ErrInvalidStructure)
}

func TestVerifyEventIDDetectsTampering(t *testing.T) {
	obs, err := NewObservation(mustPayload(t, "x"), nil, nil, nil, nil)
	require.NoError(t, err)
	obs.payload, _ = NewCanonicalBytesFromValue(canonical.Text("tampered"))
	require.False(t, obs.VerifyEventID())
}

// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/digest"
	"github.com/luxfi/provenance/event"
)

func payload(t *testing.T, text string) event.CanonicalBytes {
	t.Helper()
	cb, err := event.NewCanonicalBytesFromValue(canonical.Text(text))
	require.NoError(t, err)
	return cb
}

func TestPutGenesisEventBecomesTip(t *testing.T) {
	s := New(nil, nil)
	obs, err := event.NewObservation(payload(t, "genesis"), nil, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.Put(obs))
	require.Equal(t, 1, s.Len())
	require.Equal(t, []digest.Hash{obs.EventID()}, s.Tips())

	got, ok := s.Get(obs.EventID())
	require.True(t, ok)
	require.Equal(t, obs.EventID(), got.EventID())
}

func TestPutRemovesParentsFromTips(t *testing.T) {
	s := New(nil, nil)
	obs, err := event.NewObservation(payload(t, "evidence"), nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(obs))

	policy, err := event.NewPolicyContext(payload(t, "policy"), nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(policy))

	decision, err := event.NewDecision(payload(t, "decision"), []digest.Hash{obs.EventID()}, policy.EventID(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Put(decision))

	tips := s.Tips()
	require.Len(t, tips, 1)
	require.Equal(t, decision.EventID(), tips[0])
}

func TestPutRejectsInvalidEventAndLeavesStoreUnchanged(t *testing.T) {
	s := New(nil, nil)
	policy := digest.Sum([]byte("never stored"))
	decision, err := event.NewDecision(payload(t, "decision"), []digest.Hash{digest.Sum([]byte("ev"))}, policy, nil, nil)
	require.NoError(t, err)

	err = s.Put(decision)
	require.ErrorIs(t, err, event.ErrValidationError)
	require.Equal(t, 0, s.Len())
}

// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/provenance/digest"
)

type mapStore map[digest.Hash]*EventEnvelope

func (m mapStore) Get(id digest.Hash) (*EventEnvelope, bool) {
	e, ok := m[id]
	return e, ok
}

func TestValidateEventDecisionNeedsExactlyOnePolicyParent(t *testing.T) {
	obs, err := NewObservation(mustPayload(t, "evidence"), nil, nil, nil, nil)
	require.NoError(t, err)
	policy, err := NewPolicyContext(mustPayload(t, "policy"), nil, nil, nil)
	require.NoError(t, err)

	decision, err := NewDecision(mustPayload(t, "d"), []digest.Hash{obs.EventID()}, policy.EventID(), nil, nil)
	require.NoError(t, err)

	store := mapStore{
		obs.EventID():    obs,
		policy.EventID(): policy,
	}
	require.NoError(t, ValidateEvent(decision, store))
}

func TestValidateEventRejectsUnresolvedParent(t *testing.T) {
	obs, err := NewObservation(mustPayload(t, "evidence"), nil, nil, nil, nil)
	require.NoError(t, err)
	policy, err := NewPolicyContext(mustPayload(t, "policy"), nil, nil, nil)
	require.NoError(t, err)
	decision, err := NewDecision(mustPayload(t, "d"), []digest.Hash{obs.EventID()}, policy.EventID(), nil, nil)
	require.NoError(t, err)

	// Store only has obs, not policy.
	store := mapStore{obs.EventID(): obs}
	err = ValidateEvent(decision, store)
	require.ErrorIs(t, err, ErrValidationError)
}

func TestValidateEventCommitNeedsDecisionParentAndSignature(t *testing.T) {
	obs, err := NewObservation(mustPayload(t, "evidence"), nil, nil, nil, nil)
	require.NoError(t, err)
	policy, err := NewPolicyContext(mustPayload(t, "policy"), nil, nil, nil)
	require.NoError(t, err)
	decision, err := NewDecision(mustPayload(t, "d"), []digest.Hash{obs.EventID()}, policy.EventID(), nil, nil)
	require.NoError(t, err)

	sig, err := NewSignature([]byte{0x02})
	require.NoError(t, err)
	commit, err := NewCommit(mustPayload(t, "c"), decision.EventID(), nil, nil, sig)
	require.NoError(t, err)

	store := mapStore{
		obs.EventID():      obs,
		policy.EventID():   policy,
		decision.EventID(): decision,
	}
	require.NoError(t, ValidateEvent(commit, store))
}

func TestValidateStoreAllowsBatchOrderedImport(t *testing.T) {
	obs, err := NewObservation(mustPayload(t, "evidence"), nil, nil, nil, nil)
	require.NoError(t, err)
	policy, err := NewPolicyContext(mustPayload(t, "policy"), nil, nil, nil)
	require.NoError(t, err)
	decision, err := NewDecision(mustPayload(t, "d"), []digest.Hash{obs.EventID()}, policy.EventID(), nil, nil)
	require.NoError(t, err)
	sig, err := NewSignature([]byte{0x03})
	require.NoError(t, err)
	commit, err := NewCommit(mustPayload(t, "c"), decision.EventID(), nil, nil, sig)
	require.NoError(t, err)

	batch := []*EventEnvelope{obs, policy, decision, commit}
	require.NoError(t, ValidateStore(nil, batch))
}

func TestValidateStoreFailsOnOutOfOrderDependency(t *testing.T) {
	obs, err := NewObservation(mustPayload(t, "evidence"), nil, nil, nil, nil)
	require.NoError(t, err)
	policy, err := NewPolicyContext(mustPayload(t, "policy"), nil, nil, nil)
	require.NoError(t, err)
	decision, err := NewDecision(mustPayload(t, "d"), []digest.Hash{obs.EventID()}, policy.EventID(), nil, nil)
	require.NoError(t, err)

	// decision appears before its parents in the batch.
	batch := []*EventEnvelope{decision, obs, policy}
	err = ValidateStore(nil, batch)
	require.ErrorIs(t, err, ErrValidationError)
}

// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nodeid implements deterministic identity allocation for a tick
// of execution that produces an antichain of operations — a set whose
// relative order is semantically irrelevant. Every operation in the set
// must receive the same NodeId no matter which order the scheduler
// happened to surface them in.
package nodeid

import (
	"sort"

	"github.com/luxfi/provenance/canonical"
	"github.com/luxfi/provenance/digest"
)

// ID is a totally ordered wrapper over Hash, used as the identity of an
// effect-graph node.
type ID digest.Hash

func (n ID) Bytes() []byte    { return digest.Hash(n).Bytes() }
func (n ID) String() string   { return digest.Hash(n).String() }
func (n ID) Less(o ID) bool   { return digest.Hash(n).Less(digest.Hash(o)) }
func (n ID) Compare(o ID) int { return digest.Hash(n).Compare(digest.Hash(o)) }

// TickHash computes H(canonical_encode(sort_ascending(ops))) — the
// identity of a tick's operation multiset, independent of the order ops
// was observed in. ops is treated as a multiset: duplicates are sorted
// alongside each other, never removed.
func TickHash(ops []digest.Hash) (digest.Hash, error) {
	sorted := append([]digest.Hash(nil), ops...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	vals := make([]canonical.Value, len(sorted))
	for i, o := range sorted {
		vals[i] = canonical.Bytes(o.Bytes())
	}
	return canonical.Hash(canonical.Array(vals))
}

// Allocator assigns deterministic NodeIds within a tick. Counters are
// keyed per operation hash, not globally, so interleaving AllocNodeId
// calls across different operations never changes the IDs assigned to
// any one of them.
type Allocator struct {
	counters map[digest.Hash]uint64
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{counters: make(map[digest.Hash]uint64)}
}

// AllocNodeId returns the next NodeId for op under tickHash:
// H(canonical_encode((tickHash, op, c))) where c is op's own counter,
// incremented after use.
func (a *Allocator) AllocNodeId(tickHash digest.Hash, op digest.Hash) (ID, error) {
	c := a.counters[op]
	a.counters[op] = c + 1

	v := canonical.Array([]canonical.Value{
		canonical.Bytes(tickHash.Bytes()),
		canonical.Bytes(op.Bytes()),
		canonical.Uint(c),
	})
	h, err := canonical.Hash(v)
	if err != nil {
		return ID{}, err
	}
	return ID(h), nil
}

// ResetCounter clears op's counter, as if no IDs had ever been allocated
// for it. Used when starting a fresh tick over the same operation set.
func (a *Allocator) ResetCounter(op digest.Hash) {
	delete(a.counters, op)
}

// Reset clears every operation's counter.
func (a *Allocator) Reset() {
	a.counters = make(map[digest.Hash]uint64)
}

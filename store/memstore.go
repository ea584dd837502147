// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store provides an in-memory, mutex-protected implementation of
// event.Store: the read-only parent lookup the core's validation routines
// are written against. It is a host-side convenience, not part of the
// core's determinism contract.
package store

import (
	"sync"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/provenance/digest"
	"github.com/luxfi/provenance/event"
)

// MemStore is a mutex-protected, in-memory event.Store. It tracks DAG
// tips (events with no recorded child) so a host can cheaply find the
// current frontier of the worldline without scanning every event.
type MemStore struct {
	mu     sync.RWMutex
	log    log.Logger
	events map[digest.Hash]*event.EventEnvelope
	tips   map[digest.Hash]struct{}

	metrics *metrics
}

type metrics struct {
	eventsStored       prometheus.Counter
	validationFailures prometheus.Counter
	tips               prometheus.Gauge
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		return nil
	}
	m := &metrics{
		eventsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "provenance",
			Subsystem: "store",
			Name:      "events_stored_total",
			Help:      "Number of events successfully stored.",
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "provenance",
			Subsystem: "store",
			Name:      "validation_failures_total",
			Help:      "Number of events rejected by validation before storage.",
		}),
		tips: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "provenance",
			Subsystem: "store",
			Name:      "tips",
			Help:      "Current number of DAG tips (events with no recorded child).",
		}),
	}
	for _, c := range []prometheus.Collector{m.eventsStored, m.validationFailures, m.tips} {
		if err := registerer.Register(c); err != nil {
			// Already-registered collectors are expected when multiple
			// MemStore instances share a registerer; any other failure
			// means metrics are silently unavailable, which is acceptable
			// since metrics are observability, not correctness.
			continue
		}
	}
	return m
}

// New creates an empty MemStore. logger and registerer are both optional;
// a nil logger disables logging and a nil registerer disables metrics.
func New(logger log.Logger, registerer prometheus.Registerer) *MemStore {
	return &MemStore{
		log:     logger,
		events:  make(map[digest.Hash]*event.EventEnvelope),
		tips:    make(map[digest.Hash]struct{}),
		metrics: newMetrics(registerer),
	}
}

// Get implements event.Store.
func (s *MemStore) Get(id digest.Hash) (*event.EventEnvelope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	return e, ok
}

// Put validates e against the store and, on success, records it and
// updates the tip set. e's parents (now resolved) are no longer tips.
func (s *MemStore) Put(e *event.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := event.ValidateEvent(e, storeView{s}); err != nil {
		if s.metrics != nil {
			s.metrics.validationFailures.Inc()
		}
		if s.log != nil {
			s.log.Warn("rejected event", "event_id", e.EventID().String(), "error", err.Error())
		}
		return err
	}

	s.events[e.EventID()] = e
	s.tips[e.EventID()] = struct{}{}
	for _, p := range e.Parents() {
		delete(s.tips, p)
	}

	if s.metrics != nil {
		s.metrics.eventsStored.Inc()
		s.metrics.tips.Set(float64(len(s.tips)))
	}
	if s.log != nil {
		s.log.Debug("stored event", "event_id", e.EventID().String(), "kind", e.Kind().String())
	}
	return nil
}

// Tips returns the current DAG tips: events with no recorded child.
func (s *MemStore) Tips() []digest.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]digest.Hash, 0, len(s.tips))
	for t := range s.tips {
		out = append(out, t)
	}
	return out
}

// Len returns the number of events stored.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// storeView exposes Get without re-acquiring s.mu, since Put already
// holds the write lock for the duration of validation.
type storeView struct{ s *MemStore }

func (v storeView) Get(id digest.Hash) (*event.EventEnvelope, bool) {
	e, ok := v.s.events[id]
	return e, ok
}

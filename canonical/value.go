// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package canonical

// Kind discriminates the variants a Value can hold.
type Kind int

const (
	KindBool Kind = iota
	KindNull
	KindInt
	KindFloat
	KindText
	KindBytes
	KindArray
	KindMap
)

// Value is the canonical encoder's intermediate representation: every
// logical value destined for the ledger is built as a Value tree before
// being handed to Encode. Concrete domain types (ClockSample,
// EventEnvelope, DeltaSpec, ...) implement Marshaler/Unmarshaler against
// this tree rather than relying on a general-purpose reflection-based
// serializer, which the spec forbids for determinism-critical data.
type Value struct {
	kind Kind

	b     bool
	neg   bool   // sign for KindInt
	mag   uint64 // magnitude for KindInt (CBOR: value = mag, or -1-mag if neg)
	f     float64
	text  string
	bytes []byte
	arr   []Value
	mp    []MapEntry
}

// MapEntry is one (key, value) pair of a canonical map. Entries are
// reordered by Encode according to the lexicographic order of their
// encoded keys; callers do not need to pre-sort.
type MapEntry struct {
	Key Value
	Val Value
}

// Marshaler is implemented by domain types that can render themselves as
// a canonical Value.
type Marshaler interface {
	CanonicalValue() Value
}

// Unmarshaler is implemented by domain types that can be reconstructed
// from a decoded canonical Value.
type Unmarshaler interface {
	FromCanonicalValue(v Value) error
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Null() Value       { return Value{kind: KindNull} }

// Int builds an integer Value from a signed int64. For the full unsigned
// 64-bit range use Uint.
func Int(n int64) Value {
	if n >= 0 {
		return Value{kind: KindInt, mag: uint64(n)}
	}
	return Value{kind: KindInt, neg: true, mag: uint64(-(n + 1))}
}

// Uint builds a non-negative integer Value spanning the full uint64 range.
func Uint(n uint64) Value { return Value{kind: KindInt, mag: n} }

func Float(f float64) Value             { return Value{kind: KindFloat, f: f} }
func Text(s string) Value               { return Value{kind: KindText, text: s} }
func Bytes(b []byte) Value              { return Value{kind: KindBytes, bytes: append([]byte(nil), b...)} }
func Array(items []Value) Value         { return Value{kind: KindArray, arr: items} }
func Map(entries []MapEntry) Value      { return Value{kind: KindMap, mp: entries} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) Bool() bool { return v.b }

// Int64 returns the value as a signed int64. It is the caller's
// responsibility to know the value fits; use IsNegative/Magnitude for the
// full-range view.
func (v Value) Int64() int64 {
	if v.neg {
		return -1 - int64(v.mag)
	}
	return int64(v.mag)
}

func (v Value) IsNegative() bool  { return v.neg }
func (v Value) Magnitude() uint64 { return v.mag }

// Uint64 returns the non-negative magnitude, for values known to be >= 0.
func (v Value) Uint64() uint64 { return v.mag }

func (v Value) Float64() float64   { return v.f }
func (v Value) Text() string       { return v.text }
func (v Value) BytesVal() []byte   { return v.bytes }
func (v Value) Array() []Value     { return v.arr }
func (v Value) MapEntries() []MapEntry { return v.mp }

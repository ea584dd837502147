// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package digest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumStableAcrossInvocations(t *testing.T) {
	data := []byte("the quick brown fox")
	h1 := Sum(data)
	h2 := Sum(data)
	require.Equal(t, h1, h2)
}

func TestSumDiffersOnDifferentInput(t *testing.T) {
	require.NotEqual(t, Sum([]byte("a")), Sum([]byte("b")))
}

func TestStringIsLowercaseHexNoPrefix(t *testing.T) {
	h := Sum([]byte("x"))
	s := h.String()
	require.Len(t, s, 64)
	for _, r := range s {
		require.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'), "unexpected char %q", r)
	}
}

func TestCompareTotalOrder(t *testing.T) {
	a := Hash{0x01}
	b := Hash{0x02}
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, 0, a.Compare(a))
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
}

func TestEmptyIsZeroValue(t *testing.T) {
	var h Hash
	require.True(t, h.IsEmpty())
	require.Equal(t, Empty, h)
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	_, ok := FromBytes([]byte{1, 2, 3})
	require.False(t, ok)

	full := make([]byte, Size)
	h, ok := FromBytes(full)
	require.True(t, ok)
	require.True(t, h.IsEmpty())
}

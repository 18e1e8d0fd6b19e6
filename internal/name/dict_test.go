package name

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equalTriple(t *testing.T, sp *Space) []*Name {
	t.Helper()
	out := make([]*Name, 3)
	for i, raw := range []string{"Murray, Stephen", "Murray, S.", "Murray, Stephen S"} {
		n, err := sp.Parse(raw)
		require.NoError(t, err)
		out[i] = n
	}
	return out
}

func diffPair(t *testing.T, sp *Space) []*Name {
	t.Helper()
	out := make([]*Name, 2)
	for i, raw := range []string{"Murray, Eva", "Burray, Eva"} {
		n, err := sp.Parse(raw)
		require.NoError(t, err)
		out[i] = n
	}
	return out
}

func TestDictGetSet(t *testing.T) {
	sp := NewSpace()
	equalNames := equalTriple(t, sp)
	diffNames := diffPair(t, sp)

	d := NewDict[string]()
	d.Set(equalNames[0], "node0")

	for _, n := range diffNames {
		_, ok := d.Get(n)
		assert.False(t, ok)
		d.Set(n, "diff:"+n.FullName())
	}

	for _, n := range equalNames {
		v, ok := d.Get(n)
		require.True(t, ok)
		assert.Equal(t, "node0", v)
	}

	for _, n := range diffNames {
		v, ok := d.Get(n)
		require.True(t, ok)
		assert.NotEqual(t, "node0", v)
	}

	// Overwriting under an equal-but-more-detailed alias updates the value
	// found via every other alias.
	d.Set(equalNames[2], "node2")
	v, ok := d.Get(equalNames[0])
	require.True(t, ok)
	assert.Equal(t, "node2", v)
}

func TestDictLen(t *testing.T) {
	sp := NewSpace()
	equalNames := equalTriple(t, sp)
	diffNames := diffPair(t, sp)

	d := NewDict[string]()
	for _, n := range diffNames {
		d.Set(n, n.FullName())
	}
	assert.Equal(t, len(diffNames), d.Len())

	for _, n := range equalNames {
		d.Set(n, n.FullName())
	}
	assert.Equal(t, len(diffNames)+1, d.Len())
}

func TestDictContains(t *testing.T) {
	sp := NewSpace()
	equalNames := equalTriple(t, sp)
	diffNames := diffPair(t, sp)

	d := NewDict[string]()
	assert.False(t, d.Contains(equalNames[0]))

	d.Set(equalNames[0], "node")
	for _, n := range equalNames {
		assert.True(t, d.Contains(n))
	}
	for _, n := range diffNames {
		assert.False(t, d.Contains(n))
	}

	for _, n := range diffNames {
		d.Set(n, n.FullName())
	}
	for _, n := range diffNames {
		assert.True(t, d.Contains(n))
	}
}

func TestDictDelete(t *testing.T) {
	sp := NewSpace()
	diffNames := diffPair(t, sp)

	d := NewDict[string]()
	for _, n := range diffNames {
		d.Set(n, n.FullName())
	}

	d.Delete(diffNames[0])
	assert.False(t, d.Contains(diffNames[0]))
	assert.True(t, d.Contains(diffNames[1]))
	assert.Equal(t, 1, d.Len())
}

func TestDictKeysValues(t *testing.T) {
	sp := NewSpace()
	equalNames := equalTriple(t, sp)
	diffNames := diffPair(t, sp)

	d := NewDict[string]()
	d.Set(equalNames[0], "a")
	for _, n := range diffNames {
		d.Set(n, n.FullName())
	}

	assert.Len(t, d.Keys(), 3)
	assert.Len(t, d.Values(), 3)
}

func TestSetBasics(t *testing.T) {
	sp := NewSpace()
	equalNames := equalTriple(t, sp)
	diffNames := diffPair(t, sp)

	s := NewSet()
	assert.False(t, s.Contains(equalNames[0]))

	s.Add(equalNames[0])
	for _, n := range equalNames {
		assert.True(t, s.Contains(n))
	}
	for _, n := range diffNames {
		assert.False(t, s.Contains(n))
	}

	s.Add(diffNames[0])
	assert.Equal(t, 2, s.Len())

	s.Delete(diffNames[0])
	assert.False(t, s.Contains(diffNames[0]))
	assert.Equal(t, 1, s.Len())
}

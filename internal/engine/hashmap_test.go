package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlang/ember/internal/keys"
)

func TestHashmapEnsureAndGet(t *testing.T) {
	keys.Setup()
	defer keys.Teardown()

	h := newHashmap()
	k := keys.Intern("alpha")
	require.Nil(t, h.get(k))

	slot, created := h.ensure(k)
	require.True(t, created)
	slot.value = Integer(1)

	again, created := h.ensure(k)
	require.False(t, created)
	require.Same(t, slot, again)
	require.Equal(t, int32(1), h.get(k).value.AsInteger())
}

func TestHashmapInsertionOrder(t *testing.T) {
	keys.Setup()
	defer keys.Teardown()

	h := newHashmap()
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		slot, _ := h.ensure(keys.Intern(n))
		slot.value = Undefined()
	}
	got := h.keysInOrder()
	require.Len(t, got, 3)
	for i, n := range names {
		require.Equal(t, n, keys.TextOf(got[i]))
	}
}

func TestHashmapDelete(t *testing.T) {
	keys.Setup()
	defer keys.Teardown()

	h := newHashmap()
	a := keys.Intern("a")
	b := keys.Intern("b")
	h.ensure(a)
	h.ensure(b)

	require.True(t, h.delete(a))
	require.False(t, h.delete(a))
	require.Nil(t, h.get(a))
	require.NotNil(t, h.get(b))
	require.Len(t, h.keysInOrder(), 1)

	// Re-inserting a deleted key reuses the trie path and re-joins the
	// order list at the tail.
	h.ensure(a)
	order := h.keysInOrder()
	require.Equal(t, "b", keys.TextOf(order[0]))
	require.Equal(t, "a", keys.TextOf(order[1]))
}

func TestHashmapManyKeys(t *testing.T) {
	keys.Setup()
	defer keys.Teardown()

	h := newHashmap()
	var interned []keys.Key
	for i := 0; i < 300; i++ {
		k := keys.Intern("key" + uitoa(uint32(i)))
		slot, _ := h.ensure(k)
		slot.value = Integer(int32(i))
		interned = append(interned, k)
	}
	for i, k := range interned {
		require.Equal(t, int32(i), h.get(k).value.AsInteger())
	}
	require.Equal(t, 300, h.count)
}

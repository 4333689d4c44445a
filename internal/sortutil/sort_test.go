package sortutil

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func intLess(a, b int) (bool, error) { return a < b, nil }

func TestSortSmallRuns(t *testing.T) {
	s := []int{3, 1, 2}
	require.NoError(t, Sort(s, intLess))
	require.Equal(t, []int{1, 2, 3}, s)

	empty := []int{}
	require.NoError(t, Sort(empty, intLess))
	single := []int{9}
	require.NoError(t, Sort(single, intLess))
	require.Equal(t, []int{9}, single)
}

func TestSortLargeRandomIsPermutationAndOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := make([]int, 500)
	for i := range s {
		s[i] = rng.Intn(50)
	}
	want := append([]int{}, s...)
	sort.Ints(want)

	require.NoError(t, Sort(s, intLess))
	require.Equal(t, want, s)
}

type pair struct {
	key int
	seq int
}

func TestSortIsStable(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	s := make([]pair, 200)
	for i := range s {
		s[i] = pair{key: rng.Intn(5), seq: i}
	}
	less := func(a, b pair) (bool, error) { return a.key < b.key, nil }
	require.NoError(t, Sort(s, less))
	for i := 1; i < len(s); i++ {
		require.LessOrEqual(t, s[i-1].key, s[i].key)
		if s[i-1].key == s[i].key {
			require.Less(t, s[i-1].seq, s[i].seq, "equal keys reordered at %d", i)
		}
	}
}

func TestSortAbortsOnComparatorError(t *testing.T) {
	boom := errors.New("comparator failed")
	s := make([]int, 64)
	for i := range s {
		s[i] = 64 - i
	}
	calls := 0
	err := Sort(s, func(a, b int) (bool, error) {
		calls++
		if calls > 10 {
			return false, boom
		}
		return a < b, nil
	})
	require.ErrorIs(t, err, boom)
}

func TestRotate(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6}
	rotate(s, 2)
	require.Equal(t, []int{3, 4, 5, 6, 1, 2}, s)

	s = []int{1, 2, 3}
	rotate(s, 0)
	require.Equal(t, []int{1, 2, 3}, s)
	rotate(s, 3)
	require.Equal(t, []int{1, 2, 3}, s)
}

package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeAlloc is a minimal Trackable with an optional edge to another
// allocation, enough to exercise mark propagation.
type fakeAlloc struct {
	marked bool
	pinned bool
	child  *fakeAlloc
}

func (f *fakeAlloc) Mark() {
	if f.marked {
		return
	}
	f.marked = true
	if f.child != nil {
		f.child.Mark()
	}
}
func (f *fakeAlloc) Marked() bool { return f.marked }
func (f *fakeAlloc) ClearMark()   { f.marked = false }
func (f *fakeAlloc) Pinned() bool { return f.pinned }

func TestCollectSweepsUnreachable(t *testing.T) {
	p := New()
	root := &fakeAlloc{child: &fakeAlloc{}}
	garbage := &fakeAlloc{}
	p.Track(root)
	p.Track(root.child)
	p.Track(garbage)
	require.Equal(t, 3, p.Len())

	p.Collect(root.Mark)
	require.Equal(t, 2, p.Len())
}

func TestCollectKeepsPinned(t *testing.T) {
	p := New()
	pinned := &fakeAlloc{pinned: true}
	loose := &fakeAlloc{}
	p.Track(pinned)
	p.Track(loose)

	p.Collect(func() {})
	require.Equal(t, 1, p.Len())
}

func TestMarksAreClearedBetweenCycles(t *testing.T) {
	p := New()
	a := &fakeAlloc{}
	p.Track(a)

	p.Collect(a.Mark)
	require.Equal(t, 1, p.Len())

	// Nothing marks a this time; the stale mark must not save it.
	p.Collect(func() {})
	require.Equal(t, 0, p.Len())
}

func TestCollectUnreferencedFromIndices(t *testing.T) {
	p := New()
	old := &fakeAlloc{}
	p.Track(old)

	marker := p.GetIndices()
	young := &fakeAlloc{}
	escaped := &fakeAlloc{}
	p.Track(young)
	p.Track(escaped)

	p.CollectUnreferencedFromIndices(marker, escaped.Mark)

	// The pre-marker allocation is untouched even though unmarked; of the
	// young generation only the escaped one survives.
	require.Equal(t, 2, p.Len())
	require.False(t, old.Marked())
}

func TestSetupTeardownRefCount(t *testing.T) {
	p := New()
	p.Setup()
	p.Setup()
	p.Teardown()
	p.Teardown()
	p.Teardown() // extra teardown is a no-op
}

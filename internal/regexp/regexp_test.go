package regexp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralMatch(t *testing.T) {
	re, err := New("abc", "")
	require.NoError(t, err)
	m := re.Find([]byte("xxabcxx"), 0)
	require.NotNil(t, m)
	require.Equal(t, 2, m.Start)
	require.Equal(t, 5, m.End)
}

func TestCaptureGroup(t *testing.T) {
	// spec.md §8 scenario 4: /a(b+)c/.exec('zabbbbc') -> "abbbbc,bbbb"
	re, err := New("a(b+)c", "")
	require.NoError(t, err)
	m := re.Find([]byte("zabbbbc"), 0)
	require.NotNil(t, m)
	require.Equal(t, "abbbbc", string([]byte("zabbbbc")[m.Start:m.End]))
	require.True(t, m.Groups[1].Ok)
	require.Equal(t, "bbbb", string([]byte("zabbbbc")[m.Groups[1].Start:m.Groups[1].End]))
}

func TestAlternation(t *testing.T) {
	re, err := New("cat|dog", "")
	require.NoError(t, err)
	require.NotNil(t, re.Find([]byte("a dog ran"), 0))
	require.NotNil(t, re.Find([]byte("a cat ran"), 0))
	require.Nil(t, re.Find([]byte("a fox ran"), 0))
}

func TestQuantifierStarIsGreedy(t *testing.T) {
	re, err := New("a.*b", "")
	require.NoError(t, err)
	m := re.Find([]byte("axbxb"), 0)
	require.NotNil(t, m)
	require.Equal(t, "axbxb", string([]byte("axbxb")[m.Start:m.End]))
}

func TestLazyQuantifier(t *testing.T) {
	re, err := New("a.*?b", "")
	require.NoError(t, err)
	m := re.Find([]byte("axbxb"), 0)
	require.NotNil(t, m)
	require.Equal(t, "axb", string([]byte("axbxb")[m.Start:m.End]))
}

func TestBoundedRepeat(t *testing.T) {
	re, err := New("a{2,3}", "")
	require.NoError(t, err)
	m := re.Find([]byte("aaaa"), 0)
	require.NotNil(t, m)
	require.Equal(t, 3, m.End-m.Start)
}

func TestCharacterClass(t *testing.T) {
	re, err := New("[a-c]+", "")
	require.NoError(t, err)
	m := re.Find([]byte("xxabccbaxx"), 0)
	require.NotNil(t, m)
	require.Equal(t, "abccba", string([]byte("xxabccbaxx")[m.Start:m.End]))
}

func TestBackreference(t *testing.T) {
	re, err := New(`(\w+) \1`, "")
	require.NoError(t, err)
	require.NotNil(t, re.Find([]byte("hello hello world"), 0))
	require.Nil(t, re.Find([]byte("hello world"), 0))
}

func TestLookahead(t *testing.T) {
	re, err := New(`foo(?=bar)`, "")
	require.NoError(t, err)
	require.NotNil(t, re.Find([]byte("foobar"), 0))
	require.Nil(t, re.Find([]byte("foobaz"), 0))

	neg, err := New(`foo(?!bar)`, "")
	require.NoError(t, err)
	require.Nil(t, neg.Find([]byte("foobar"), 0))
	require.NotNil(t, neg.Find([]byte("foobaz"), 0))
}

func TestIgnoreCase(t *testing.T) {
	re, err := New("abc", "i")
	require.NoError(t, err)
	require.NotNil(t, re.Find([]byte("XYABCZZ"), 0))
}

func TestZeroWidthRepeatTerminates(t *testing.T) {
	// (a*)* can iterate its outer star without consuming input; the
	// star's empty-iteration check must cut the zero-progress loop off
	// rather than recurse forever. The input stays small because a failing
	// nested star still backtracks exponentially, like any ES3 engine.
	re, err := New("(a*)*b", "")
	require.NoError(t, err)
	m := re.Find([]byte("aaaaaaaaaaaac"), 0)
	require.Nil(t, m)

	m = re.Find([]byte("aaab"), 0)
	require.NotNil(t, m)
	require.Equal(t, 0, m.Start)
	require.Equal(t, 4, m.End)
}

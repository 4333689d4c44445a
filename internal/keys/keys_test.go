package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternIsStable(t *testing.T) {
	Setup()
	defer Teardown()

	a := Intern("length")
	b := Intern("length")
	require.Equal(t, a, b)
	require.Equal(t, "length", TextOf(a))
}

func TestDistinctTextsGetDistinctKeys(t *testing.T) {
	Setup()
	defer Teardown()

	a := Intern("alpha")
	b := Intern("beta")
	require.NotEqual(t, a, b)
	require.Equal(t, "alpha", TextOf(a))
	require.Equal(t, "beta", TextOf(b))
}

func TestZeroKeyIsReserved(t *testing.T) {
	Setup()
	defer Teardown()

	require.Equal(t, "", TextOf(0))
	require.NotEqual(t, Key(0), Intern("anything"))
}

func TestTextOfOutOfRange(t *testing.T) {
	require.Equal(t, "", TextOf(Key(65535)))
}

package cardgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCryptoSource_Range(t *testing.T) {
	src := CryptoSource()
	counts := make([]int, 10)
	for i := 0; i < 5000; i++ {
		v := src.Intn(10)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
		counts[v]++
	}
	for d, c := range counts {
		require.NotZero(t, c, "digit %d never drawn", d)
	}

	v := src.Intn(1000)
	require.GreaterOrEqual(t, v, 0)
	require.Less(t, v, 1000)

	require.Panics(t, func() { src.Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a, b := NewSeededSource(99), NewSeededSource(99)
	require.Equal(t, RandomDigits(a, 32), RandomDigits(b, 32))
}

func TestRandomDigits(t *testing.T) {
	require.Equal(t, "", RandomDigits(CryptoSource(), 0))
	got := RandomDigits(CryptoSource(), 9)
	require.Len(t, got, 9)
	require.True(t, IsDigits(got))
	require.Equal(t, "333", RandomDigits(fixedSource(3), 3))
}

func TestFingerprint(t *testing.T) {
	key := []byte("test-key")
	a := Fingerprint("4532015112830366", key)
	require.Len(t, a, 64)
	require.Equal(t, a, Fingerprint("4532 0151 1283 0366", key))
	require.NotEqual(t, a, Fingerprint("4532015112830366", []byte("other")))
	require.NotEqual(t, a, Fingerprint("4000000000000002", key))
}

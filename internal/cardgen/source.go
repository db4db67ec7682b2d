package cardgen

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"strings"
	"sync"
)

// DigitSource supplies uniformly distributed integers in [0, n).
// *math/rand.Rand satisfies it.
type DigitSource interface {
	Intn(n int) int
}

type cryptoSource struct{}

// CryptoSource returns a DigitSource backed by crypto/rand.
func CryptoSource() DigitSource { return cryptoSource{} }

// Intn uses rejection sampling on single bytes for n <= 256 so every value is
// equally likely; larger bounds go through math/big.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("cardgen: invalid argument to Intn")
	}
	if n > 256 {
		v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
		if err != nil {
			panic("cardgen: crypto/rand: " + err.Error())
		}
		return int(v.Int64())
	}
	threshold := 256 - (256 % n)
	var buf [1]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("cardgen: crypto/rand: " + err.Error())
		}
		if int(buf[0]) < threshold {
			return int(buf[0]) % n
		}
	}
}

type seededSource struct {
	mu  sync.Mutex
	rnd *mrand.Rand
}

// NewSeededSource returns a reproducible DigitSource. Two sources built from
// the same seed yield the same sequence. Safe for concurrent use.
func NewSeededSource(seed int64) DigitSource {
	return &seededSource{rnd: mrand.New(mrand.NewSource(seed))}
}

func (s *seededSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// RandomDigits returns count digits drawn from src.
func RandomDigits(src DigitSource, count int) string {
	if count <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(count)
	for sb.Len() < count {
		sb.WriteByte('0' + byte(src.Intn(10)))
	}
	return sb.String()
}

package engine

import (
	cryptorand "crypto/rand"
	"math/big"
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform integers in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type cryptoRandom struct{}

func (cryptoRandom) IntN(n int) int {
	v, err := cryptorand.Int(cryptorand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return rand.IntN(n)
	}
	return int(v.Int64())
}

// DefaultRandom returns the crypto/rand backed source used in production.
func DefaultRandom() RandomSource { return cryptoRandom{} }

// seededRandom is reproducible and safe for concurrent use.
type seededRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRandom returns a deterministic PCG source for tests and replays.
func NewSeededRandom(seed uint64) RandomSource {
	return &seededRandom{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

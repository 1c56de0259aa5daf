package random

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// Source hands out independent generators, one per allocation or shuffle.
// *rand.Rand is not safe for concurrent use, so callers must not share the
// returned value across goroutines.
type Source interface {
	New() *rand.Rand
}

// CryptoSource seeds every generator from crypto/rand.
type CryptoSource struct{}

func NewCryptoSource() CryptoSource {
	return CryptoSource{}
}

func (CryptoSource) New() *rand.Rand {
	var seed [32]byte
	// Read cannot fail since go1.24: an unusable entropy source aborts the
	// process inside the runtime, so there is no error to hand back here.
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// SeededSource derives each generator from a master seed, so the sequence of
// draws is reproducible across process restarts.
type SeededSource struct {
	mu     sync.Mutex
	master *rand.Rand
}

func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{master: rand.New(rand.NewPCG(seed, seed))}
}

func (s *SeededSource) New() *rand.Rand {
	s.mu.Lock()
	hi, lo := s.master.Uint64(), s.master.Uint64()
	s.mu.Unlock()
	return rand.New(rand.NewPCG(hi, lo))
}

// FromSeed returns a SeededSource when seed is non-zero, otherwise a CryptoSource.
func FromSeed(seed uint64) Source {
	if seed == 0 {
		return NewCryptoSource()
	}
	return NewSeededSource(seed)
}

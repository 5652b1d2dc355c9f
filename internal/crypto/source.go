package crypto

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
)

// Source supplies the randomness used by Generate. *math/rand/v2.Rand
// satisfies it.
type Source interface {
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewSource returns a Source backed by the operating system's secure
// random number generator.
func NewSource() Source {
	return mrand.New(secureSource{})
}

// NewSeededSource returns a deterministic Source. It is meant for tests and
// reproducible output, never for real passwords.
func NewSeededSource(seed1, seed2 uint64) Source {
	return mrand.New(mrand.NewPCG(seed1, seed2))
}

// secureSource adapts crypto/rand to math/rand/v2.Source.
type secureSource struct{}

func (secureSource) Uint64() uint64 {
	var b [8]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

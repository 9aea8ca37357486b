package mighty

import (
	"math/rand"
	"time"
)

// NewRand builds the engine's randomness source. A seed of 0 falls back
// to a time-based seed, mirroring the teacher's Config.Seed convention;
// tests should always pass a nonzero seed for determinism.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

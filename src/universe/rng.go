package universe

import (
	"math/rand/v2"
	"time"
)

// newRNG creates a PCG-backed generator, seed 0 means time based
// every goroutine owns its generator, rand.Rand is not safe for concurrent use
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// internal/humanoid/generator.go
package humanoid

import (
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
)

// Generator produces human-plausible trajectories and keystroke sequences.
// All randomness is owned here so tests can inject a seeded source and assert
// statistical properties. A Generator is not safe for concurrent use; each
// workflow run owns its own instance.
type Generator struct {
	profile Profile
	rng     *rand.Rand
	noiseX  *perlin.Perlin
	noiseY  *perlin.Perlin
}

// New creates a Generator for the given profile. A nil rng gets a
// time-seeded source; tests pass rand.New(rand.NewSource(seed)) instead.
func New(profile Profile, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	// Standard Perlin noise parameters; independent seeds per axis so drift
	// is not diagonal.
	alpha, beta, n := 2.0, 2.0, int32(3)
	seed := rng.Int63()
	return &Generator{
		profile: profile,
		rng:     rng,
		noiseX:  perlin.NewPerlin(alpha, beta, n, seed),
		noiseY:  perlin.NewPerlin(alpha, beta, n, seed+1),
	}
}

// Profile returns the persona this generator draws from.
func (g *Generator) Profile() Profile {
	return g.profile
}

// Rng exposes the generator's random source so callers composing primitives
// (waits, scroll chunking, action selection) share one stream of randomness
// and stay reproducible under a seeded source.
func (g *Generator) Rng() *rand.Rand {
	return g.rng
}

package task

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IDGenerator interface {
	Generate() string
}

// IDFunc adapts a plain function to IDGenerator.
type IDFunc func() string

func (f IDFunc) Generate() string {
	return f()
}

// RandomIDGenerator hands out random UUIDs. When the system entropy source
// fails it falls back to a ULID built from the clock and a seeded PRNG, so
// Generate never fails and never blocks.
type RandomIDGenerator struct {
	random func() (uuid.UUID, error)

	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

func NewIDGenerator() *RandomIDGenerator {
	return &RandomIDGenerator{
		random: uuid.NewRandom,
		now:    time.Now,
	}
}

func (g *RandomIDGenerator) Generate() string {
	if id, err := g.random(); err == nil {
		return id.String()
	}
	return g.fallback()
}

func (g *RandomIDGenerator) fallback() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.entropy == nil {
		seed := rand.New(rand.NewSource(g.now().UnixNano()))
		g.entropy = ulid.Monotonic(seed, 0)
	}
	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		// Monotonic entropy overflowed within one millisecond; reseed.
		g.entropy = ulid.Monotonic(rand.New(rand.NewSource(g.now().UnixNano()+1)), 0)
		id = ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	}
	return id.String()
}

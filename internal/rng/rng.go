package rng

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/google/uuid"
)

const weyl = 0x9E3779B97F4A7C15

// Context is a counter-based seeded random source. Every draw advances the
// index by one, so a battle can be replayed from any recorded cursor.
type Context struct {
	seed  uint64
	index uint64
}

// New returns a context positioned at the first draw.
func New(seed uint64) *Context {
	return &Context{seed: seed}
}

// Resume returns a context positioned at the given draw index.
func Resume(seed, index uint64) *Context {
	return &Context{seed: seed, index: index}
}

// Seed returns the seed the context was built from.
func (c *Context) Seed() uint64 {
	return c.seed
}

// Index returns the number of draws taken so far.
func (c *Context) Index() uint64 {
	return c.index
}

// Uint64 draws the next raw 64-bit value.
func (c *Context) Uint64() uint64 {
	c.index++
	return Mix64(c.seed + c.index*weyl)
}

// Float64 draws a uniform value in [0, 1).
func (c *Context) Float64() float64 {
	return float64(c.Uint64()>>11) * (1.0 / (1 << 53))
}

// Chance reports whether an event with probability p happens.
// Probabilities at or outside the [0, 1] bounds resolve without a draw.
func (c *Context) Chance(p float64) bool {
	if p <= 0 || math.IsNaN(p) {
		return false
	}
	if p >= 1 {
		return true
	}
	return c.Float64() < p
}

// Range draws a uniform value in [lo, hi).
func (c *Context) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + c.Float64()*(hi-lo)
}

// Intn draws a uniform integer in [0, n). It panics if n <= 0.
func (c *Context) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with non-positive n")
	}
	return int(c.Uint64() % uint64(n))
}

// Mix64 is the SplitMix64 finalizer.
func Mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}

// HashString folds a string into a well-mixed 64-bit value.
func HashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return Mix64(h.Sum64())
}

// DeriveSeed derives a battle seed from a character id and a salt such as
// the battle id or an iteration label.
func DeriveSeed(id uuid.UUID, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(id[:])
	_, _ = h.Write([]byte(salt))
	hi := binary.BigEndian.Uint64(id[:8])
	return Mix64(h.Sum64() ^ Mix64(hi))
}

// DeriveSeedFromString parses id as a UUID and derives a seed from it.
// Ids that are not UUIDs are hashed as plain strings.
func DeriveSeedFromString(id, salt string) uint64 {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Mix64(HashString(id) ^ HashString(salt))
	}
	return DeriveSeed(parsed, salt)
}

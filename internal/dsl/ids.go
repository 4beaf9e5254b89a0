package dsl

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces unpredictable suffixes for correlation identifiers.
// Implemented by UUIDGenerator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Suffix() string
}

// UUIDGenerator derives an 8-hex-character suffix from a random UUID.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Suffix returns the first 8 hex digits of a fresh UUIDv4.
func (UUIDGenerator) Suffix() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:4])
}

// FixedGenerator returns predetermined suffixes for deterministic tests and
// golden expansion output.
type FixedGenerator struct {
	mu       sync.Mutex
	suffixes []string
	idx      int
}

// NewFixedGenerator creates a generator that returns suffixes in order.
// When the supplied suffixes run out it keeps counting: "s1", "s2", ...
func NewFixedGenerator(suffixes ...string) *FixedGenerator {
	return &FixedGenerator{suffixes: suffixes}
}

// Suffix returns the next predetermined suffix.
func (g *FixedGenerator) Suffix() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.idx++
	if g.idx <= len(g.suffixes) {
		return g.suffixes[g.idx-1]
	}
	return fmt.Sprintf("s%d", g.idx)
}

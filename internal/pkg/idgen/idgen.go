// Package idgen produces short human-readable entity identifiers of the form
// PREFIX-NNNNNN, collision-checked against the backing store.
package idgen

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
)

const (
	// DefaultMaxAttempts bounds the random draw loop.
	DefaultMaxAttempts = 10

	// idSpace is the number of possible numeric suffixes per prefix.
	idSpace = 1_000_000
)

// ExistsFunc probes the backing store for a candidate identifier. The
// generator does not reserve ids; a race window remains between the probe and
// the insert, so callers should still treat a unique-constraint violation on
// insert as retryable.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Generator draws random six-digit identifiers under a fixed prefix until the
// existence probe reports a free one, up to a bounded number of attempts.
type Generator struct {
	maxAttempts int

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator with the given attempt bound. A bound of zero or
// below falls back to DefaultMaxAttempts.
func New(maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{
		maxAttempts: maxAttempts,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate returns a free identifier of the form PREFIX-NNNNNN, or
// apperrors.ErrIDSpaceExhausted once the attempt bound is spent. Exhaustion is
// astronomically unlikely at the intended scale of a few thousand entities,
// but callers must surface it as a conflict rather than crash.
func (g *Generator) Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := fmt.Sprintf("%s-%06d", prefix, g.draw())

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("error probing identifier %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", apperrors.ErrIDSpaceExhausted
}

func (g *Generator) draw() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(idSpace)
}

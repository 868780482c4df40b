package idgen

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoreno/schooldesk/internal/pkg/apperrors"
)

func TestGenerateFormat(t *testing.T) {
	g := New(DefaultMaxAttempts)
	pattern := regexp.MustCompile(`^SEC-\d{6}$`)

	never := func(ctx context.Context, id string) (bool, error) { return false, nil }

	for i := 0; i < 50; i++ {
		id, err := g.Generate(context.Background(), "SEC", never)
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
	}
}

func TestGenerateSkipsTakenIDs(t *testing.T) {
	g := New(DefaultMaxAttempts)

	seen := map[string]bool{}
	exists := func(ctx context.Context, id string) (bool, error) {
		return seen[id], nil
	}

	// Repeated calls against the same existence check never hand out the
	// same identifier twice.
	for i := 0; i < 200; i++ {
		id, err := g.Generate(context.Background(), "STU", exists)
		require.NoError(t, err)
		require.False(t, seen[id], "generator returned an id the probe reported as taken")
		seen[id] = true
	}
}

func TestGenerateExhaustion(t *testing.T) {
	g := New(DefaultMaxAttempts)

	probes := 0
	alwaysTaken := func(ctx context.Context, id string) (bool, error) {
		probes++
		return true, nil
	}

	_, err := g.Generate(context.Background(), "SEC", alwaysTaken)
	require.ErrorIs(t, err, apperrors.ErrIDSpaceExhausted)
	assert.Equal(t, DefaultMaxAttempts, probes, "exhaustion must occur after exactly the attempt bound")
}

func TestGenerateConfigurableBound(t *testing.T) {
	g := New(3)

	probes := 0
	alwaysTaken := func(ctx context.Context, id string) (bool, error) {
		probes++
		return true, nil
	}

	_, err := g.Generate(context.Background(), "TEA", alwaysTaken)
	require.ErrorIs(t, err, apperrors.ErrIDSpaceExhausted)
	assert.Equal(t, 3, probes)
}

func TestGenerateProbeError(t *testing.T) {
	g := New(DefaultMaxAttempts)

	probeErr := errors.New("connection reset")
	failing := func(ctx context.Context, id string) (bool, error) {
		return false, probeErr
	}

	_, err := g.Generate(context.Background(), "SEC", failing)
	require.ErrorIs(t, err, probeErr)
}

func TestGenerateHonorsContext(t *testing.T) {
	g := New(DefaultMaxAttempts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, "SEC", func(ctx context.Context, id string) (bool, error) {
		t.Fatal("probe must not run after cancellation")
		return false, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

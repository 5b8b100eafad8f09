package fox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"foxhunt/internal/rng"
	"foxhunt/internal/track"
)

func TestRandomAdjacentPlacementStaysOnTrack(t *testing.T) {
	for _, n := range []int{2, 3, 7, 40} {
		policy := NewRandomAdjacent(n, rng.New(uint64(n)))
		seen := map[track.Position]bool{}
		for i := 0; i < 5000; i++ {
			pos := policy.Next(track.Unplaced())
			require.True(t, track.Contains(n, pos), "n=%d placed at %d", n, pos)
			seen[pos] = true
		}
		if n <= 7 {
			require.Len(t, seen, n, "n=%d expected every cell as a start", n)
		}
	}
}

func TestRandomAdjacentMovesByOneAndBounces(t *testing.T) {
	const n = 9
	policy := NewRandomAdjacent(n, rng.New(11))

	for i := 0; i < 200; i++ {
		require.Equal(t, track.Position(2), policy.Next(track.At(1)))
		require.Equal(t, track.Position(n-1), policy.Next(track.At(n)))
	}

	for pos := track.Position(2); pos < n; pos++ {
		var left, right int
		for i := 0; i < 400; i++ {
			next := policy.Next(track.At(pos))
			switch next {
			case pos - 1:
				left++
			case pos + 1:
				right++
			default:
				t.Fatalf("from %d moved to %d", pos, next)
			}
		}
		require.Positive(t, left, "from %d never moved left", pos)
		require.Positive(t, right, "from %d never moved right", pos)
	}
}

func TestRandomAdjacentOnTwoCellTrackAlternates(t *testing.T) {
	policy := NewRandomAdjacent(2, rng.New(3))
	require.Equal(t, track.Position(2), policy.Next(track.At(1)))
	require.Equal(t, track.Position(1), policy.Next(track.At(2)))
}

func TestRandomAdjacentWithStayReachesEveryOption(t *testing.T) {
	const n = 6
	policy := NewRandomAdjacentWithStay(n, rng.New(21))

	check := func(from track.Position, allowed ...track.Position) {
		t.Helper()
		counts := map[track.Position]int{}
		for i := 0; i < 900; i++ {
			next := policy.Next(track.At(from))
			require.Contains(t, allowed, next, "from %d moved to %d", from, next)
			counts[next]++
		}
		for _, want := range allowed {
			require.Positive(t, counts[want], "from %d never reached %d", from, want)
		}
	}

	check(1, 1, 2)
	check(n, n, n-1)
	for pos := track.Position(2); pos < n; pos++ {
		check(pos, pos-1, pos, pos+1)
	}
}

func TestRandomAdjacentWithStayPlacementStaysOnTrack(t *testing.T) {
	policy := NewRandomAdjacentWithStay(4, rng.New(8))
	for i := 0; i < 1000; i++ {
		require.True(t, track.Contains(4, policy.Next(track.Unplaced())))
	}
}

func TestPoliciesDoNotShareCallerSource(t *testing.T) {
	src := rng.New(77)
	a := NewRandomAdjacent(10, src)
	b := NewRandomAdjacent(10, src)

	var diff bool
	for i := 0; i < 64; i++ {
		if a.Next(track.Unplaced()) != b.Next(track.Unplaced()) {
			diff = true
			break
		}
	}
	require.True(t, diff, "policies built from one worker source should draw private streams")
}

func TestRegistryBuiltIns(t *testing.T) {
	resetRegistryForTests()
	t.Cleanup(resetRegistryForTests)

	require.Equal(t, []string{RandomAdjacentName, RandomAdjacentWithStayName}, List())
	factory, err := Get(RandomAdjacentName)
	require.NoError(t, err)
	require.NotNil(t, factory(5, rng.New(1)))
}

func TestRegistryValidation(t *testing.T) {
	resetRegistryForTests()
	t.Cleanup(resetRegistryForTests)

	require.Error(t, Register("", NewRandomAdjacent))
	require.Error(t, Register("nil", nil))

	err := Register(RandomAdjacentName, NewRandomAdjacent)
	require.True(t, errors.Is(err, ErrPolicyExists), "got %v", err)

	_, err = Get("missing")
	require.ErrorIs(t, err, ErrPolicyNotFound)
}

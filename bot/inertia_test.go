package bot

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

var (
	tight = Scores{1, 0, 1, 0}
	open  = Scores{0, 2, 0, 0}
)

func TestInertiaUpdate(t *testing.T) {
	t.Run("open space builds inertia up to the cap", func(t *testing.T) {
		in := NewInertia(28)
		in.Update(open)
		require.Equal(t, 29, in.Value())
		in.Update(open)
		in.Update(open)
		require.Equal(t, MaxInertia, in.Value(), "inertia should stop at the cap")
	})

	t.Run("tight space drains inertia down to zero", func(t *testing.T) {
		in := NewInertia(1)
		in.Update(tight)
		require.Equal(t, 0, in.Value())
		in.Update(tight)
		require.Equal(t, 0, in.Value(), "inertia should not go negative")
	})

	t.Run("40 tight frames leave exactly zero", func(t *testing.T) {
		in := NewInertia(30)
		for i := 0; i < 40; i++ {
			in.Update(Scores{})
		}
		require.Equal(t, 0, in.Value())
	})

	t.Run("high seed is clamped on first update", func(t *testing.T) {
		in := NewInertia(MaxSeedInertia)
		in.Update(open)
		require.Equal(t, MaxInertia, in.Value())

		in = NewInertia(MaxSeedInertia)
		in.Update(tight)
		require.Equal(t, MaxInertia, in.Value(), "a draining update still clamps the seed")
	})

	t.Run("stays bounded and moves the right way on long random runs", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		in := NewInertia(rng.Intn(MaxSeedInertia + 1))
		in.Update(open)
		for i := 0; i < 10000; i++ {
			var scores Scores
			for d := range scores {
				scores[d] = rng.Intn(LookAhead + 1)
			}
			before := in.Value()
			in.Update(scores)

			require.GreaterOrEqual(t, in.Value(), 0)
			require.LessOrEqual(t, in.Value(), MaxInertia)
			if scores.Max() >= 2 {
				require.GreaterOrEqual(t, in.Value(), before, "open space must not drain inertia")
			} else {
				require.LessOrEqual(t, in.Value(), before, "tight space must not build inertia")
			}
		}
	})
}

func TestInertiaConsume(t *testing.T) {
	in := NewInertia(1)
	in.Consume()
	require.Equal(t, 0, in.Value())
	in.Consume()
	require.Equal(t, 0, in.Value(), "consume should not go negative")

	require.Equal(t, 0, NewInertia(-5).Value(), "negative seeds start at zero")
}

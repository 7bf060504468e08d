package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err, "Open should create missing directories")
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSessions(t *testing.T) {
	j := openTemp(t)

	id, err := j.BeginSession("alpha")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sessions, err := j.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Equal(t, "alpha", sessions[0].Bot)
	require.False(t, sessions[0].EndedAt.Valid, "an open session has no end time")

	require.NoError(t, j.EndSession(id, "graceful", 12))

	sessions, err = j.Sessions()
	require.NoError(t, err)
	require.True(t, sessions[0].EndedAt.Valid)
	require.Equal(t, 12, sessions[0].Ticks)
	require.Equal(t, "graceful", sessions[0].Termination)

	require.ErrorIs(t, j.EndSession("missing", "graceful", 0), ErrUnknownSession)
}

func TestTicks(t *testing.T) {
	j := openTemp(t)
	id, err := j.BeginSession("alpha")
	require.NoError(t, err)

	for frame := 2; frame >= 0; frame-- {
		require.NoError(t, j.RecordTick(TickRecord{
			SessionID: id,
			Frame:     frame,
			X:         frame,
			Y:         5,
			Direction: "north",
			Inertia:   10 + frame,
			Scores:    [4]int{5, 4, frame, 1},
			Attempts:  1,
		}))
	}

	ticks, err := j.Ticks(id)
	require.NoError(t, err)
	require.Len(t, ticks, 3)
	for i, tick := range ticks {
		require.Equal(t, i, tick.Frame, "ticks come back in frame order")
		require.Equal(t, [4]int{5, 4, i, 1}, tick.Scores)
		require.Equal(t, 10+i, tick.Inertia)
	}

	err = j.RecordTick(TickRecord{SessionID: id, Frame: 1, Direction: "east"})
	require.Error(t, err, "a frame is recorded once per session")

	other, err := j.Ticks("unknown")
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestGames(t *testing.T) {
	j := openTemp(t)
	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, j.SaveGame(GameRecord{
		ID:        "game-1",
		StartedAt: started,
		EndedAt:   started.Add(time.Minute),
		Width:     20,
		Height:    15,
		Players:   []string{"red", "blue"},
		Winner:    "blue",
		Frames:    42,
		Reason:    "last cycle standing",
	}))

	games, err := j.Games()
	require.NoError(t, err)
	require.Len(t, games, 1)
	g := games[0]
	require.Equal(t, "game-1", g.ID)
	require.Equal(t, []string{"red", "blue"}, g.Players)
	require.Equal(t, "blue", g.Winner)
	require.Equal(t, 42, g.Frames)
	require.True(t, started.Equal(g.StartedAt), "start time should round-trip")
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	_, err = j.BeginSession("alpha")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	sessions, err := j.Sessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1, "existing tables are kept")
}

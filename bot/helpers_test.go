package bot

import (
	"cyclesbot/game"
	"cyclesbot/journal"
	"cyclesbot/transport"

	"golang.org/x/exp/rand"
)

// boardAt builds a width x height board with the named bot's head at pos and
// the given cells occupied.
func boardAt(width, height int, name string, pos game.Position, occupied ...game.Position) *game.BoardState {
	b := game.NewBoard(width, height)
	for _, p := range occupied {
		b.SetCell(p, 9)
	}
	b.SetCell(pos, 1)
	b.Players = []game.Player{{Name: name, Position: pos, Alive: true}}
	return b
}

// randomBoard fills roughly density of the cells.
func randomBoard(rng *rand.Rand, width, height int, density float64) *game.BoardState {
	b := game.NewBoard(width, height)
	for i := range b.Cells {
		if rng.Float64() < density {
			b.Cells[i] = 1 + rng.Intn(4)
		}
	}
	return b
}

type fakeSession struct {
	boards  []*game.BoardState
	moves   []game.Direction
	closed  bool
	sendErr error
	recvErr error
}

func (s *fakeSession) IsActive() bool { return !s.closed }

func (s *fakeSession) ReceiveBoardState() (*game.BoardState, error) {
	if s.recvErr != nil {
		return nil, s.recvErr
	}
	if len(s.boards) == 0 {
		s.closed = true
		return nil, transport.ErrClosed
	}
	board := s.boards[0]
	s.boards = s.boards[1:]
	return board, nil
}

func (s *fakeSession) SendMove(direction game.Direction) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.moves = append(s.moves, direction)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeRecorder struct {
	began       []string
	ticks       []journal.TickRecord
	termination string
	ended       int
}

func (r *fakeRecorder) BeginSession(bot string) (string, error) {
	r.began = append(r.began, bot)
	return "session-1", nil
}

func (r *fakeRecorder) RecordTick(rec journal.TickRecord) error {
	r.ticks = append(r.ticks, rec)
	return nil
}

func (r *fakeRecorder) EndSession(id string, termination string, ticks int) error {
	r.termination = termination
	r.ended = ticks
	return nil
}

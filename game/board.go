package game

import (
	"errors"
	"fmt"
)

var ErrInvalidBoard = errors.New("invalid board")

// Position is a cell coordinate. X grows east, Y grows south.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add moves p one cell in direction d.
func (p Position) Add(d Direction) Position {
	off := d.Offset()
	return Position{X: p.X + off.X, Y: p.Y + off.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Player is one entry of the roster sent with every board.
type Player struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Alive    bool     `json:"alive"`
}

// BoardState is the full snapshot received each frame. Cells is row-major;
// 0 is free, anything else is a wall, a trail or a player.
type BoardState struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Frame   int      `json:"frame"`
	Cells   []int    `json:"cells"`
	Players []Player `json:"players"`
}

// NewBoard returns an empty width x height board.
func NewBoard(width, height int) *BoardState {
	return &BoardState{
		Width:  width,
		Height: height,
		Cells:  make([]int, width*height),
	}
}

// Validate checks the dimensions against the cell slice.
func (b *BoardState) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBoard, b.Width, b.Height)
	}
	if len(b.Cells) != b.Width*b.Height {
		return fmt.Errorf("%w: %d cells for %dx%d grid", ErrInvalidBoard, len(b.Cells), b.Width, b.Height)
	}
	return nil
}

func (b *BoardState) InsideGrid(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < b.Width && p.Y < b.Height
}

// Cell returns the raw value at p. Callers check InsideGrid first.
func (b *BoardState) Cell(p Position) int {
	return b.Cells[p.Y*b.Width+p.X]
}

// SetCell writes v at p; out-of-grid positions are ignored.
func (b *BoardState) SetCell(p Position, v int) {
	if !b.InsideGrid(p) {
		return
	}
	b.Cells[p.Y*b.Width+p.X] = v
}

// IsFree reports whether p is inside the grid and unoccupied.
func (b *BoardState) IsFree(p Position) bool {
	return b.InsideGrid(p) && b.Cell(p) == 0
}

// FindPlayer looks a player up by name.
func (b *BoardState) FindPlayer(name string) (Player, bool) {
	for _, player := range b.Players {
		if player.Name == name {
			return player, true
		}
	}
	return Player{}, false
}

// Copy returns a deep copy.
func (b *BoardState) Copy() *BoardState {
	c := *b
	c.Cells = make([]int, len(b.Cells))
	copy(c.Cells, b.Cells)
	c.Players = make([]Player, len(b.Players))
	copy(c.Players, b.Players)
	return &c
}

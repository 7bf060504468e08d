package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionAdd(t *testing.T) {
	p := Position{X: 5, Y: 5}
	require.Equal(t, Position{X: 5, Y: 4}, p.Add(North), "north should decrease y")
	require.Equal(t, Position{X: 6, Y: 5}, p.Add(East), "east should increase x")
	require.Equal(t, Position{X: 5, Y: 6}, p.Add(South), "south should increase y")
	require.Equal(t, Position{X: 4, Y: 5}, p.Add(West), "west should decrease x")
	require.Equal(t, p, p.Add(NoDirection), "no direction should not move")
}

func TestDirectionOrder(t *testing.T) {
	require.Equal(t, [4]Direction{North, East, South, West}, Directions)
	for i, d := range Directions {
		require.Equal(t, i, int(d), "ordinal of %s", d)
	}
	require.False(t, NoDirection.Valid())
}

func TestDirectionText(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		for _, d := range Directions {
			got, err := ParseDirection(d.String())
			require.NoError(t, err)
			require.Equal(t, d, got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParseDirection("up")
		require.Error(t, err)
	})

	t.Run("json encodes names", func(t *testing.T) {
		data, err := json.Marshal(struct {
			D Direction `json:"d"`
		}{D: West})
		require.NoError(t, err)
		require.JSONEq(t, `{"d":"west"}`, string(data))
	})

	t.Run("json rejects no direction", func(t *testing.T) {
		_, err := json.Marshal(NoDirection)
		require.Error(t, err)
	})
}

func TestBoardCells(t *testing.T) {
	b := NewBoard(4, 3)
	require.NoError(t, b.Validate())

	b.SetCell(Position{X: 3, Y: 2}, 7)
	require.Equal(t, 7, b.Cells[2*4+3], "cells should be row-major")
	require.Equal(t, 7, b.Cell(Position{X: 3, Y: 2}))
	require.False(t, b.IsFree(Position{X: 3, Y: 2}), "occupied cell is not free")
	require.True(t, b.IsFree(Position{X: 0, Y: 0}))

	for _, p := range []Position{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 4, Y: 0}, {X: 0, Y: 3}} {
		require.False(t, b.InsideGrid(p), "%s should be outside", p)
		require.False(t, b.IsFree(p), "%s should not be free", p)
	}

	b.SetCell(Position{X: 9, Y: 9}, 1)
	require.Len(t, b.Cells, 12, "out-of-grid writes are ignored")
}

func TestBoardValidate(t *testing.T) {
	require.ErrorIs(t, (&BoardState{Width: 0, Height: 3}).Validate(), ErrInvalidBoard)
	require.ErrorIs(t, (&BoardState{Width: 2, Height: 2, Cells: make([]int, 3)}).Validate(), ErrInvalidBoard)
}

func TestFindPlayer(t *testing.T) {
	b := NewBoard(3, 3)
	b.Players = []Player{
		{Name: "alpha", Position: Position{X: 0, Y: 0}, Alive: true},
		{Name: "beta", Position: Position{X: 2, Y: 2}, Alive: false},
	}

	p, ok := b.FindPlayer("beta")
	require.True(t, ok)
	require.Equal(t, Position{X: 2, Y: 2}, p.Position)

	_, ok = b.FindPlayer("gamma")
	require.False(t, ok)
}

func TestBoardCopy(t *testing.T) {
	b := NewBoard(2, 2)
	b.Players = []Player{{Name: "alpha"}}
	c := b.Copy()
	c.SetCell(Position{X: 1, Y: 1}, 3)
	c.Players[0].Name = "changed"
	require.Equal(t, 0, b.Cell(Position{X: 1, Y: 1}), "copy should not share cells")
	require.Equal(t, "alpha", b.Players[0].Name, "copy should not share players")
}

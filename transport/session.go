// Package transport connects a bot to a game server and exchanges board
// states and moves with it.
package transport

import (
	"errors"

	"cyclesbot/game"
)

// ErrClosed is returned once the server has ended the session.
var ErrClosed = errors.New("session closed")

// Session is one connected player. ReceiveBoardState and SendMove block.
type Session interface {
	IsActive() bool
	ReceiveBoardState() (*game.BoardState, error)
	SendMove(direction game.Direction) error
	Close() error
}

// Dialer establishes sessions for named bots.
type Dialer interface {
	Connect(name string) (Session, error)
}

package transport

import "cyclesbot/game"

// Message types exchanged over the websocket.
const (
	MsgJoin     = "join"
	MsgWelcome  = "welcome"
	MsgState    = "state"
	MsgMove     = "move"
	MsgGameOver = "game_over"
	MsgError    = "error"
)

// Message is the single envelope used in both directions.
type Message struct {
	Type      string          `json:"type"`
	Name      string          `json:"name,omitempty"`
	GameID    string          `json:"gameId,omitempty"`
	Frame     int             `json:"frame,omitempty"`
	Width     int             `json:"width,omitempty"`
	Height    int             `json:"height,omitempty"`
	Cells     []int           `json:"cells,omitempty"`
	Players   []game.Player   `json:"players,omitempty"`
	Direction *game.Direction `json:"direction,omitempty"`
	Winner    string          `json:"winner,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// StateMessage packs a board into a state message.
func StateMessage(gameID string, board *game.BoardState) Message {
	return Message{
		Type:    MsgState,
		GameID:  gameID,
		Frame:   board.Frame,
		Width:   board.Width,
		Height:  board.Height,
		Cells:   board.Cells,
		Players: board.Players,
	}
}

// MoveMessage packs a move for the given frame.
func MoveMessage(frame int, direction game.Direction) Message {
	return Message{
		Type:      MsgMove,
		Frame:     frame,
		Direction: &direction,
	}
}

// Board unpacks a state message. The result does not share memory with msg.
func (m *Message) Board() *game.BoardState {
	board := &game.BoardState{
		Width:   m.Width,
		Height:  m.Height,
		Frame:   m.Frame,
		Cells:   m.Cells,
		Players: m.Players,
	}
	return board.Copy()
}

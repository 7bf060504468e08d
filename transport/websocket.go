package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"cyclesbot/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	DefaultHandshakeTimeout = 5 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
)

// WebsocketDialer joins a game server over a websocket. The zero value needs
// only URL.
type WebsocketDialer struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Logger           zerolog.Logger
}

// Connect dials the server, sends the join request and waits for the welcome.
func (d *WebsocketDialer) Connect(name string) (Session, error) {
	handshake := d.HandshakeTimeout
	if handshake <= 0 {
		handshake = DefaultHandshakeTimeout
	}
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshake,
	}

	conn, _, err := dialer.Dial(d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.URL, err)
	}

	s := &WebsocketSession{
		conn:         conn,
		name:         name,
		writeTimeout: d.WriteTimeout,
		logger:       d.Logger.With().Str("bot", name).Logger(),
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = DefaultWriteTimeout
	}
	s.active.Store(true)

	if err := s.join(handshake); err != nil {
		s.Close()
		return nil, err
	}

	s.logger.Info().Str("url", d.URL).Str("game", s.gameID).Msg("connected")
	return s, nil
}

// WebsocketSession is a Session backed by a gorilla websocket connection.
// Reads happen on the caller's goroutine; writes are serialised.
type WebsocketSession struct {
	conn         *websocket.Conn
	name         string
	gameID       string
	writeTimeout time.Duration
	logger       zerolog.Logger

	active atomic.Bool
	frame  int

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (s *WebsocketSession) join(timeout time.Duration) error {
	if err := s.write(Message{Type: MsgJoin, Name: s.name}); err != nil {
		return fmt.Errorf("join as %q: %w", s.name, err)
	}

	_ = s.conn.SetReadDeadline(time.Now().Add(timeout))
	defer s.conn.SetReadDeadline(time.Time{})

	var msg Message
	if err := s.conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("join as %q: %w", s.name, err)
	}
	switch msg.Type {
	case MsgWelcome:
		s.gameID = msg.GameID
		return nil
	case MsgError:
		return fmt.Errorf("join as %q rejected: %s", s.name, msg.Reason)
	default:
		return fmt.Errorf("join as %q: unexpected %q message", s.name, msg.Type)
	}
}

func (s *WebsocketSession) IsActive() bool {
	return s.active.Load()
}

// GameID is the identifier the server assigned in its welcome.
func (s *WebsocketSession) GameID() string {
	return s.gameID
}

// ReceiveBoardState blocks until the next state message. A game_over message
// or a broken connection deactivates the session and yields ErrClosed. A
// message that does not decode is an error that leaves the session active.
func (s *WebsocketSession) ReceiveBoardState() (*game.BoardState, error) {
	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if isDecodeError(err) {
				// The frame arrived whole; the connection is still usable.
				return nil, fmt.Errorf("decode server message: %w", err)
			}
			s.deactivate()
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Msg("connection lost")
			}
			return nil, fmt.Errorf("%w: %v", ErrClosed, err)
		}

		switch msg.Type {
		case MsgState:
			board := msg.Board()
			if err := board.Validate(); err != nil {
				return nil, fmt.Errorf("state for frame %d: %w", msg.Frame, err)
			}
			s.frame = board.Frame
			return board, nil

		case MsgGameOver:
			s.logger.Info().Str("winner", msg.Winner).Str("reason", msg.Reason).Msg("game over")
			s.Close()
			return nil, ErrClosed

		case MsgError:
			return nil, fmt.Errorf("server error: %s", msg.Reason)

		default:
			// welcome repeats and unknown types carry nothing for the bot
			s.logger.Debug().Str("type", msg.Type).Msg("ignoring message")
		}
	}
}

// SendMove answers the last received frame.
func (s *WebsocketSession) SendMove(direction game.Direction) error {
	if !s.IsActive() {
		return ErrClosed
	}
	if err := s.write(MoveMessage(s.frame, direction)); err != nil {
		s.deactivate()
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	s.logger.Debug().Int("frame", s.frame).Stringer("direction", direction).Msg("move sent")
	return nil
}

// Close says goodbye to the server and drops the connection. It is safe to
// call more than once and from another goroutine.
func (s *WebsocketSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.deactivate()
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func (s *WebsocketSession) deactivate() {
	s.active.Store(false)
}

func (s *WebsocketSession) write(msg Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteJSON(msg)
}

// Package arena is a small light-cycle server speaking the transport
// protocol. It hosts a single game: players join over a websocket, the game
// starts once the roster is full and ends when the cycles have crashed.
package arena

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"cyclesbot/game"
	"cyclesbot/journal"
	"cyclesbot/transport"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	DefaultWidth       = 20
	DefaultHeight      = 20
	DefaultPlayers     = 2
	DefaultMoveTimeout = time.Second
	joinTimeout        = 5 * time.Second
	writeTimeout       = 10 * time.Second
)

// GameSaver persists finished games. *journal.Journal satisfies it.
type GameSaver interface {
	SaveGame(rec journal.GameRecord) error
}

type Option func(a *Arena)

func WithSize(width, height int) Option {
	return func(a *Arena) {
		if width > 0 && height > 0 {
			a.width = width
			a.height = height
		}
	}
}

func WithPlayers(players int) Option {
	return func(a *Arena) {
		if players > 0 {
			a.players = players
		}
	}
}

// WithMaxFrames ends the game after the given number of frames; 0 means no limit.
func WithMaxFrames(frames int) Option {
	return func(a *Arena) {
		if frames >= 0 {
			a.maxFrames = frames
		}
	}
}

func WithMoveTimeout(timeout time.Duration) Option {
	return func(a *Arena) {
		if timeout > 0 {
			a.moveTimeout = timeout
		}
	}
}

func WithTickInterval(interval time.Duration) Option {
	return func(a *Arena) {
		if interval >= 0 {
			a.tickInterval = interval
		}
	}
}

func WithJournal(saver GameSaver) Option {
	return func(a *Arena) {
		a.saver = saver
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Arena) {
		a.logger = logger
	}
}

// Result summarises a finished game.
type Result struct {
	ID      string
	Frames  int
	Winner  string
	Players []string
	Reason  string
}

// Arena hosts one game. It is an http.Handler for the websocket endpoint.
type Arena struct {
	id           string
	width        int
	height       int
	players      int
	maxFrames    int
	moveTimeout  time.Duration
	tickInterval time.Duration
	saver        GameSaver
	logger       zerolog.Logger
	upgrader     websocket.Upgrader

	mu      sync.Mutex
	clients []*client
	started bool

	done   chan struct{}
	result Result
}

func New(options ...Option) *Arena {
	a := &Arena{
		id:          uuid.New().String(),
		width:       DefaultWidth,
		height:      DefaultHeight,
		players:     DefaultPlayers,
		moveTimeout: DefaultMoveTimeout,
		logger:      zerolog.Nop(),
		upgrader: websocket.Upgrader{
			// Local arena, any origin may join.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		done: make(chan struct{}),
	}
	for _, option := range options {
		option(a)
	}
	a.logger = a.logger.With().Str("game", a.id).Logger()
	return a
}

func (a *Arena) ID() string { return a.id }

// Done is closed when the game has finished.
func (a *Arena) Done() <-chan struct{} { return a.done }

// Wait blocks until the game has finished and returns its result.
func (a *Arena) Wait() Result {
	<-a.done
	return a.result
}

// ServeHTTP upgrades the request and registers the player named in its join
// message. The last player to join starts the game.
func (a *Arena) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn().Err(err).Msg("upgrade failed")
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(joinTimeout))
	var msg transport.Message
	if err := conn.ReadJSON(&msg); err != nil {
		a.logger.Warn().Err(err).Msg("no join request")
		conn.Close()
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	c := &client{name: msg.Name, conn: conn}
	if msg.Type != transport.MsgJoin || msg.Name == "" {
		c.reject("expected a join message with a name")
		return
	}

	start, err := a.register(c)
	if err != nil {
		a.logger.Info().Str("player", c.name).Err(err).Msg("join rejected")
		c.reject(err.Error())
		return
	}

	a.logger.Info().Str("player", c.name).Int("id", c.id).Msg("player joined")
	if start {
		go a.run()
	}
}

// register adds c to the roster and welcomes it. The welcome is written under
// the lock so it always precedes the first state message.
func (a *Arena) register(c *client) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return false, fmt.Errorf("game %s already started", a.id)
	}
	for _, other := range a.clients {
		if other.name == c.name {
			return false, fmt.Errorf("name %q is taken", c.name)
		}
	}

	if err := c.send(transport.Message{Type: transport.MsgWelcome, Name: c.name, GameID: a.id}); err != nil {
		c.conn.Close()
		return false, fmt.Errorf("welcome %q: %w", c.name, err)
	}

	c.id = len(a.clients) + 1
	a.clients = append(a.clients, c)
	if len(a.clients) == a.players {
		a.started = true
	}
	return a.started, nil
}

// spawnPosition spreads n players evenly along the middle row.
func spawnPosition(i, n, width, height int) game.Position {
	return game.Position{X: (i + 1) * width / (n + 1), Y: height / 2}
}

func (a *Arena) run() {
	defer close(a.done)

	startedAt := time.Now()
	board := game.NewBoard(a.width, a.height)
	for i, c := range a.clients {
		c.pos = spawnPosition(i, len(a.clients), a.width, a.height)
		c.alive = true
		board.SetCell(c.pos, c.id)
	}
	a.logger.Info().Int("players", len(a.clients)).Int("width", a.width).Int("height", a.height).Msg("game started")

	frame := 0
	reason := ""
	for {
		var over bool
		if over, reason = a.over(frame); over {
			break
		}

		board.Frame = frame
		board.Players = a.roster()
		state := transport.StateMessage(a.id, board)
		for _, c := range a.alive() {
			if err := c.send(state); err != nil {
				a.kill(c, "disconnected")
			}
		}

		moves := make(map[*client]game.Direction)
		for _, c := range a.alive() {
			d, err := a.readMove(c)
			if err != nil {
				a.logger.Info().Str("player", c.name).Int("frame", frame).Err(err).Msg("no move")
				a.kill(c, "no move received")
				continue
			}
			moves[c] = d
		}

		a.advance(board, moves)
		frame++

		if a.tickInterval > 0 {
			time.Sleep(a.tickInterval)
		}
	}

	winner := ""
	survivors := a.alive()
	if len(survivors) == 1 {
		winner = survivors[0].name
	}
	for _, c := range survivors {
		c.finish(transport.Message{Type: transport.MsgGameOver, Winner: winner, Reason: reason})
		c.alive = false
	}

	a.result = Result{
		ID:      a.id,
		Frames:  frame,
		Winner:  winner,
		Players: a.names(),
		Reason:  reason,
	}
	a.logger.Info().Int("frames", frame).Str("winner", winner).Str("reason", reason).Msg("game over")
	a.save(startedAt)
}

func (a *Arena) over(frame int) (bool, string) {
	alive := len(a.alive())
	switch {
	case alive == 0:
		return true, "no survivors"
	case len(a.clients) > 1 && alive == 1:
		return true, "last cycle standing"
	case a.maxFrames > 0 && frame >= a.maxFrames:
		return true, "frame limit"
	}
	return false, ""
}

func (a *Arena) readMove(c *client) (game.Direction, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(a.moveTimeout))
	for {
		var msg transport.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return game.NoDirection, err
		}
		if msg.Type != transport.MsgMove {
			continue
		}
		if msg.Direction == nil || !msg.Direction.Valid() {
			return game.NoDirection, fmt.Errorf("move without direction")
		}
		return *msg.Direction, nil
	}
}

// advance moves every head one cell. Heads that leave the grid, hit a
// trail or meet another head in the same cell crash.
func (a *Arena) advance(board *game.BoardState, moves map[*client]game.Direction) {
	targets := make(map[game.Position]int)
	for c, d := range moves {
		targets[c.pos.Add(d)]++
	}

	var crashed []*client
	for _, c := range a.clients {
		d, ok := moves[c]
		if !ok || !c.alive {
			continue
		}
		next := c.pos.Add(d)
		switch {
		case !board.IsFree(next):
			crashed = append(crashed, c)
		case targets[next] > 1:
			crashed = append(crashed, c)
		default:
			c.pos = next
			board.SetCell(next, c.id)
		}
	}

	for _, c := range crashed {
		a.logger.Info().Str("player", c.name).Stringer("at", c.pos).Msg("cycle crashed")
		a.kill(c, "crashed")
	}
}

func (a *Arena) kill(c *client, reason string) {
	if !c.alive {
		return
	}
	c.alive = false
	c.finish(transport.Message{Type: transport.MsgGameOver, Reason: reason})
}

func (a *Arena) alive() []*client {
	var alive []*client
	for _, c := range a.clients {
		if c.alive {
			alive = append(alive, c)
		}
	}
	return alive
}

func (a *Arena) roster() []game.Player {
	players := make([]game.Player, 0, len(a.clients))
	for _, c := range a.clients {
		players = append(players, game.Player{Name: c.name, Position: c.pos, Alive: c.alive})
	}
	return players
}

func (a *Arena) names() []string {
	names := make([]string, 0, len(a.clients))
	for _, c := range a.clients {
		names = append(names, c.name)
	}
	return names
}

func (a *Arena) save(startedAt time.Time) {
	if a.saver == nil {
		return
	}
	rec := journal.GameRecord{
		ID:        a.result.ID,
		StartedAt: startedAt,
		EndedAt:   time.Now(),
		Width:     a.width,
		Height:    a.height,
		Players:   a.result.Players,
		Winner:    a.result.Winner,
		Frames:    a.result.Frames,
		Reason:    a.result.Reason,
	}
	if err := a.saver.SaveGame(rec); err != nil {
		a.logger.Warn().Err(err).Msg("failed to save game")
	}
}

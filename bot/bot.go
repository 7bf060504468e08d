package bot

import (
	"errors"
	"fmt"
	"time"

	"cyclesbot/game"
	"cyclesbot/journal"
	"cyclesbot/transport"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

// DefaultLostThreshold is how many consecutive frames the bot tolerates
// missing from the roster before giving up.
const DefaultLostThreshold = 1

var ErrSelfNotFound = errors.New("bot not found in roster")

// Recorder persists a bot's session and its per-frame decisions.
// *journal.Journal satisfies it.
type Recorder interface {
	BeginSession(bot string) (string, error)
	RecordTick(rec journal.TickRecord) error
	EndSession(id string, termination string, ticks int) error
}

type Option func(b *Bot)

func WithSelector(selector *Selector) Option {
	return func(b *Bot) {
		if selector != nil {
			b.selector = selector
		}
	}
}

// WithSeed makes the starting inertia reproducible.
func WithSeed(seed uint64) Option {
	return func(b *Bot) {
		b.rng = rand.New(rand.NewSource(seed))
	}
}

// WithInertia skips the random draw and starts from the given value.
func WithInertia(value int) Option {
	return func(b *Bot) {
		b.inertia = NewInertia(value)
		b.inertiaSet = true
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(b *Bot) {
		b.recorder = recorder
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

func WithLostThreshold(frames int) Option {
	return func(b *Bot) {
		if frames >= 0 {
			b.lostThreshold = frames
		}
	}
}

// Bot owns everything one player carries between frames. It is not safe for
// concurrent use; run one Bot per goroutine.
type Bot struct {
	name     string
	session  transport.Session
	selector *Selector
	rng      *rand.Rand
	logger   zerolog.Logger

	inertia    Inertia
	inertiaSet bool
	previous   game.Direction

	board         *game.BoardState
	self          game.Player
	seen          bool
	misses        int
	lostThreshold int
	ticks         int

	recorder  Recorder
	sessionID string
}

func New(name string, session transport.Session, options ...Option) *Bot {
	b := &Bot{
		name:          name,
		session:       session,
		selector:      NewSelector(),
		logger:        zerolog.Nop(),
		previous:      game.NoDirection,
		lostThreshold: DefaultLostThreshold,
	}
	for _, option := range options {
		option(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if !b.inertiaSet {
		b.inertia = NewInertia(b.rng.Intn(MaxSeedInertia + 1))
	}
	b.logger = b.logger.With().Str("bot", name).Logger()
	return b
}

func (b *Bot) Name() string { return b.name }

func (b *Bot) Inertia() int { return b.inertia.Value() }

func (b *Bot) Previous() game.Direction { return b.previous }

func (b *Bot) Position() game.Position { return b.self.Position }

func (b *Bot) Ticks() int { return b.ticks }

// Run plays until the session goes inactive. A closed session is a normal
// end and returns nil; a failed decision is returned and no move is sent.
func (b *Bot) Run() error {
	b.beginSession()
	b.logger.Info().Msg("bot running")

	err := b.loop()

	termination := "graceful"
	if err != nil {
		termination = err.Error()
		b.logger.Error().Err(err).Int("ticks", b.ticks).Msg("bot stopped")
	} else {
		b.logger.Info().Int("ticks", b.ticks).Msg("session ended")
	}
	b.endSession(termination)
	return err
}

func (b *Bot) loop() error {
	for b.session.IsActive() {
		board, err := b.session.ReceiveBoardState()
		if err != nil {
			if b.closed(err) {
				return nil
			}
			return fmt.Errorf("receive board state: %w", err)
		}

		decision, err := b.Tick(board)
		if err != nil {
			return err
		}

		if err := b.session.SendMove(decision.Direction); err != nil {
			if b.closed(err) {
				return nil
			}
			return fmt.Errorf("send move: %w", err)
		}
	}
	return nil
}

func (b *Bot) closed(err error) bool {
	return errors.Is(err, transport.ErrClosed) || !b.session.IsActive()
}

// Tick runs one frame of the decision pipeline: locate self, update inertia,
// select a move and remember it as the previous direction.
func (b *Bot) Tick(board *game.BoardState) (Decision, error) {
	if err := board.Validate(); err != nil {
		return Decision{Direction: game.NoDirection}, fmt.Errorf("frame %d: %w", board.Frame, err)
	}
	b.board = board

	if err := b.locateSelf(); err != nil {
		return Decision{Direction: game.NoDirection}, err
	}

	b.inertia.Update(ScoreDirections(board, b.self.Position))

	decision, err := b.selector.Decide(board, b.self.Position, b.previous, &b.inertia)
	if err != nil {
		return decision, fmt.Errorf("bot %s: %w", b.name, err)
	}

	b.previous = decision.Direction
	b.ticks++
	b.recordTick(decision)
	return decision, nil
}

// locateSelf refreshes the bot's own player entry. A missing entry keeps the
// previous position for up to lostThreshold frames.
func (b *Bot) locateSelf() error {
	player, ok := b.board.FindPlayer(b.name)
	if ok {
		if !player.Alive {
			b.logger.Warn().Int("frame", b.board.Frame).Msg("roster reports bot as dead")
		}
		b.self = player
		b.seen = true
		b.misses = 0
		return nil
	}

	b.misses++
	if !b.seen || b.misses > b.lostThreshold {
		return fmt.Errorf("%w: %q missing for %d frames (frame %d)", ErrSelfNotFound, b.name, b.misses, b.board.Frame)
	}
	b.logger.Warn().
		Int("frame", b.board.Frame).
		Int("misses", b.misses).
		Stringer("stale_position", b.self.Position).
		Msg("bot missing from roster, keeping last position")
	return nil
}

func (b *Bot) beginSession() {
	if b.recorder == nil {
		return
	}
	id, err := b.recorder.BeginSession(b.name)
	if err != nil {
		b.logger.Warn().Err(err).Msg("journal unavailable, not recording")
		b.recorder = nil
		return
	}
	b.sessionID = id
	b.logger = b.logger.With().Str("session", id).Logger()
}

func (b *Bot) recordTick(decision Decision) {
	if b.recorder == nil || b.sessionID == "" {
		return
	}
	rec := journal.TickRecord{
		SessionID: b.sessionID,
		Frame:     b.board.Frame,
		X:         b.self.Position.X,
		Y:         b.self.Position.Y,
		Direction: decision.Direction.String(),
		Inertia:   b.inertia.Value(),
		Scores:    decision.Scores,
		Attempts:  decision.Attempts,
	}
	if err := b.recorder.RecordTick(rec); err != nil {
		b.logger.Warn().Err(err).Int("frame", b.board.Frame).Msg("failed to record tick")
	}
}

func (b *Bot) endSession(termination string) {
	if b.recorder == nil || b.sessionID == "" {
		return
	}
	if err := b.recorder.EndSession(b.sessionID, termination, b.ticks); err != nil {
		b.logger.Warn().Err(err).Msg("failed to close journal session")
	}
}

package bot

import (
	"errors"
	"fmt"

	"cyclesbot/game"

	"github.com/rs/zerolog"
)

// DefaultMaxAttempts bounds the strict retry loop.
const DefaultMaxAttempts = 200

var ErrNoSafeMove = errors.New("no safe move")

// Policy controls what the selector does after rejecting a direction.
type Policy int

const (
	// PolicyFallback drops a rejected direction and tries the next best one,
	// failing once all four have been checked.
	PolicyFallback Policy = iota
	// PolicyStrict re-checks the same best direction until the attempt bound
	// is reached, so an illegal best direction always exhausts the search.
	PolicyStrict
)

func (p Policy) String() string {
	switch p {
	case PolicyFallback:
		return "fallback"
	case PolicyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fallback":
		return PolicyFallback, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyFallback, fmt.Errorf("unknown retry policy %q", s)
	}
}

// Decision is the outcome of one selection. Attempts counts legality checks.
type Decision struct {
	Direction game.Direction
	Scores    Scores
	Attempts  int
}

type SelectorOption func(s *Selector)

func WithPolicy(policy Policy) SelectorOption {
	return func(s *Selector) {
		s.policy = policy
	}
}

func WithMaxAttempts(attempts int) SelectorOption {
	return func(s *Selector) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

func WithSelectorLogger(logger zerolog.Logger) SelectorOption {
	return func(s *Selector) {
		s.logger = logger
	}
}

// Selector turns a score ranking into a legal move.
type Selector struct {
	policy      Policy
	maxAttempts int
	logger      zerolog.Logger
}

func NewSelector(options ...SelectorOption) *Selector {
	s := &Selector{ // Default values
		policy:      PolicyFallback,
		maxAttempts: DefaultMaxAttempts,
		logger:      zerolog.Nop(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Selector) Policy() Policy {
	return s.policy
}

// attemptLimit is the number of legality checks before giving up.
func (s *Selector) attemptLimit() int {
	if s.policy == PolicyStrict {
		return s.maxAttempts
	}
	return len(game.Directions)
}

// Decide picks the highest scoring legal direction from pos. Each attempt that
// lands on the previous direction spends one unit of inertia.
func (s *Selector) Decide(board *game.BoardState, pos game.Position, previous game.Direction, inertia *Inertia) (Decision, error) {
	scores := ScoreDirections(board, pos)
	var rejected [4]bool
	notRejected := func(d game.Direction) bool { return !rejected[d] }

	limit := s.attemptLimit()
	for attempt := 1; attempt <= limit; attempt++ {
		best := scores.Best()
		if s.policy == PolicyFallback {
			best = scores.bestOf(notRejected)
		}

		if inertia != nil && best == previous {
			inertia.Consume()
		}

		if IsValidMove(board, pos, best) {
			s.logger.Debug().
				Int("frame", board.Frame).
				Int("attempts", attempt).
				Stringer("from", pos).
				Stringer("to", pos.Add(best)).
				Stringer("direction", best).
				Ints("scores", scores[:]).
				Msg("valid move found")
			return Decision{Direction: best, Scores: scores, Attempts: attempt}, nil
		}
		rejected[best] = true
	}

	return Decision{Direction: game.NoDirection, Scores: scores, Attempts: limit},
		fmt.Errorf("%w: at %s in frame %d after %d attempts", ErrNoSafeMove, pos, board.Frame, limit)
}

package bot

import "cyclesbot/game"

// LookAhead is how many cells the scorer walks in each direction.
const LookAhead = 5

// Scores holds the open-runway count per direction, indexed by ordinal.
type Scores [4]int

// Max returns the highest score.
func (s Scores) Max() int {
	best := s[0]
	for _, score := range s[1:] {
		if score > best {
			best = score
		}
	}
	return best
}

// Best returns the first direction, in tie-break order, holding the highest score.
func (s Scores) Best() game.Direction {
	return s.bestOf(func(game.Direction) bool { return true })
}

// bestOf is Best restricted to the directions accepted by keep. It returns
// NoDirection when keep rejects all four.
func (s Scores) bestOf(keep func(game.Direction) bool) game.Direction {
	best := game.NoDirection
	for _, d := range game.Directions {
		if !keep(d) {
			continue
		}
		if best == game.NoDirection || s[d] > s[best] {
			best = d
		}
	}
	return best
}

// ScoreDirections counts, for every direction, the consecutive free cells
// ahead of pos, stopping at the first wall, trail or grid edge.
func ScoreDirections(board *game.BoardState, pos game.Position) Scores {
	var scores Scores
	for _, d := range game.Directions {
		next := pos
		for i := 0; i < LookAhead; i++ {
			next = next.Add(d)
			if !board.IsFree(next) {
				break
			}
			scores[d]++
		}
	}
	return scores
}

// IsValidMove reports whether moving from pos in direction d lands on a free cell.
func IsValidMove(board *game.BoardState, pos game.Position, d game.Direction) bool {
	return board.IsFree(pos.Add(d))
}

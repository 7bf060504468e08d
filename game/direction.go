package game

import "fmt"

// Direction is one of the four cardinal moves. The numeric value is the
// ordinal used for tie-breaking and for comparing against the previous move.
type Direction int

const (
	NoDirection Direction = iota - 1
	North
	East
	South
	West
)

// Directions lists every move in tie-break order.
var Directions = [4]Direction{North, East, South, West}

var directionOffsets = [4]Position{
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
	West:  {X: -1, Y: 0},
}

var directionNames = [4]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Offset returns the unit vector for d.
func (d Direction) Offset() Position {
	if !d.Valid() {
		return Position{}
	}
	return directionOffsets[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "none"
	}
	return directionNames[d]
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if directionNames[d] == s {
			return d, nil
		}
	}
	return NoDirection, fmt.Errorf("unknown direction %q", s)
}

// MarshalText encodes d by name so wire messages stay readable.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot encode direction %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

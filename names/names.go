// Package names generates player names for pooled bots.
package names

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

var adjectives = []string{
	"Brave", "Clever", "Wild", "Swift", "Bold", "Mighty", "Mystic", "Noble",
	"Fierce", "Gentle", "Silent", "Rapid", "Calm", "Proud", "Wise", "Happy",
	"Lucky", "Sneaky", "Cunning", "Bright", "Dark", "Golden", "Silver", "Royal",
}

var cycles = []string{
	"Cycle", "Racer", "Spark", "Comet", "Streak", "Bolt", "Flash", "Volt",
	"Neon", "Photon", "Pulse", "Glider", "Arc", "Laser", "Trail", "Vector",
}

// ErrExhausted is returned once every name has been handed out.
var ErrExhausted = errors.New("name space exhausted")

// randomTries bounds the random draws before Generate scans for a free name.
const randomTries = 16

// Generator hands out names in the form AdjectiveNounNumber, never repeating
// a name it has already returned.
type Generator struct {
	rng        *rand.Rand
	adjectives []string
	nouns      []string
	numbers    int
	used       map[string]bool
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:        rand.New(rand.NewSource(seed)),
		adjectives: adjectives,
		nouns:      cycles,
		numbers:    100,
		used:       make(map[string]bool),
	}
}

// NewRandomGenerator seeds from the clock.
func NewRandomGenerator() *Generator {
	return NewGenerator(uint64(time.Now().UnixNano()))
}

func (g *Generator) Generate() (string, error) {
	for i := 0; i < randomTries; i++ {
		name := g.name(g.rng.Intn(len(g.adjectives)), g.rng.Intn(len(g.nouns)), g.rng.Intn(g.numbers))
		if !g.used[name] {
			g.used[name] = true
			return name, nil
		}
	}

	// Crowded: take the first free name in order.
	for a := range g.adjectives {
		for n := range g.nouns {
			for number := 0; number < g.numbers; number++ {
				name := g.name(a, n, number)
				if !g.used[name] {
					g.used[name] = true
					return name, nil
				}
			}
		}
	}
	return "", fmt.Errorf("%w after %d names", ErrExhausted, len(g.used))
}

func (g *Generator) name(adjective, noun, number int) string {
	return fmt.Sprintf("%s%s%d", g.adjectives[adjective], g.nouns[noun], number)
}

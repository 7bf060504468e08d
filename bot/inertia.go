package bot

// MaxInertia caps the counter; the random seed may start above it.
const MaxInertia = 30

// MaxSeedInertia is the upper bound of the random starting value.
const MaxSeedInertia = 50

// tightSpace is the open-runway threshold below which inertia drains.
const tightSpace = 2

// Inertia is the bounded counter carried from frame to frame.
type Inertia struct {
	value int
}

func NewInertia(seed int) Inertia {
	if seed < 0 {
		seed = 0
	}
	return Inertia{value: seed}
}

func (in Inertia) Value() int {
	return in.value
}

// Update drains inertia in tight spots and builds it up in open space. The
// result is always clamped into [0, MaxInertia], which also clamps the seed.
func (in *Inertia) Update(scores Scores) {
	if scores.Max() < tightSpace {
		in.value--
	} else {
		in.value++
	}
	in.value = min(max(in.value, 0), MaxInertia)
}

// Consume spends one unit when the selector repeats the previous move.
func (in *Inertia) Consume() {
	if in.value > 0 {
		in.value--
	}
}

package world

// Rand is the synchronized game random generator. Every client feeding
// the same seed and the same call sequence sees the same numbers, which
// replays depend on.
type Rand struct {
	seed uint32
}

// NewRand seeds a generator.
func NewRand(seed uint32) *Rand { return &Rand{seed: seed} }

// Next returns the next 16-bit value.
func (r *Rand) Next() int {
	v := r.seed >> 16
	r.seed = r.seed*(0x12345678*4+1) + 1
	return int(v)
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int { return r.Next() % n }

// Seed returns the current generator state.
func (r *Rand) Seed() uint32 { return r.seed }

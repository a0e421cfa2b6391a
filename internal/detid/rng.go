package detid

// Cursor is a deterministic per-entity / per-histogram-bin RNG position. It
// is a plain counter; advancing it and deriving a value from it are
// separate pure functions so that two cursors holding the same value always
// produce the same next draw, with no hidden global state.
type Cursor uint64

// Next advances the cursor and returns the draw for the *new* (advanced)
// position, using a splitmix64-style finalizer so output bits are well mixed while
// remaining a pure function of the cursor value alone.
func (c Cursor) Next() (Cursor, uint64) {
	z := uint64(c) + 0x9E3779B97F4A7C15
	next := Cursor(z)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return next, z
}

// Bounded draws a deterministic value in [0, n) from the cursor, advancing
// it. n must be > 0.
func (c Cursor) Bounded(n uint64) (Cursor, uint64) {
	next, v := c.Next()
	if n == 0 {
		return next, 0
	}
	return next, v % n
}

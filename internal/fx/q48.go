package fx

import "math/bits"

// Q48 is a signed Q48.16 fixed-point scalar: 64 total bits, 16 fractional
// bits. Used for capacities and accumulators that must not saturate at the
// range a Q16.16 ratio would.
type Q48 int64

const (
	fracBits48 = 16

	// Q48One is 1.0 in Q48.16.
	Q48One Q48 = 1 << fracBits48

	q48Max Q48 = 1<<63 - 1
	q48Min Q48 = -1 << 63
)

// Q48FromInt converts a plain integer to Q48.16.
func Q48FromInt(n int64) Q48 { return Q48(n) << fracBits48 }

// Q48FromQ16 widens a Q16.16 ratio into a Q48.16 accumulator with no loss.
func Q48FromQ16(q Q16) Q48 { return Q48(int64(q)) }

// ToQ16 narrows a Q48.16 accumulator to Q16.16, saturating on overflow.
func (a Q48) ToQ16() Q16 {
	if int64(a) > int64(q16Max) {
		return q16Max
	}
	if int64(a) < int64(q16Min) {
		return q16Min
	}
	return Q16(a)
}

// Add is ordinary wrapping addition.
func (a Q48) Add(b Q48) Q48 { return a + b }

// Sub is ordinary wrapping subtraction.
func (a Q48) Sub(b Q48) Q48 { return a - b }

// SatSub subtracts b from a and saturates at zero rather than going
// negative. Neither domain's resolve pass calls it; conflict morale decay
// uses Q16 Sub with its own clamp.
func (a Q48) SatSub(b Q48) Q48 {
	if b > a {
		return 0
	}
	return a - b
}

// Mul multiplies two Q48.16 values. The spec allows implementations to use
// two 64-bit words to emulate 128-bit widening; this implementation takes
// the full 128-bit product of the magnitudes as two 64-bit words
// (math/bits.Mul64), shifts it right by 16, then saturates.
func (a Q48) Mul(b Q48) Q48 {
	hi, lo := bits.Mul64(uint64(absQ48(a)), uint64(absQ48(b)))
	neg := (a < 0) != (b < 0)

	// Result is (hi:lo) >> fracBits48, a 128-bit value shifted right by 16.
	resLo := lo>>fracBits48 | hi<<(64-fracBits48)
	resHi := hi >> fracBits48

	if resHi != 0 {
		// Overflows 64 bits outright.
		if neg {
			return q48Min
		}
		return q48Max
	}
	if resLo > uint64(q48Max) {
		if neg {
			return q48Min
		}
		return q48Max
	}
	if neg {
		return -Q48(resLo)
	}
	return Q48(resLo)
}

func absQ48(a Q48) Q48 {
	if a < 0 {
		return -a
	}
	return a
}

// Div performs saturating fixed-point division. Division by zero returns
// q48Max for a non-negative numerator and q48Min otherwise.
func (a Q48) Div(b Q48) Q48 {
	if b == 0 {
		if a < 0 {
			return q48Min
		}
		return q48Max
	}
	// a << 16 can overflow int64 for large a; detect via the high bits of
	// the numerator before shifting.
	an, bn := absQ48(a), absQ48(b)
	hi := uint64(an) >> (63 - fracBits48)
	if hi != 0 {
		neg := (a < 0) != (b < 0)
		if neg {
			return q48Min
		}
		return q48Max
	}
	wide := int64(an) << fracBits48
	res := wide / int64(bn)
	if (a < 0) != (b < 0) {
		return -Q48(res)
	}
	return Q48(res)
}

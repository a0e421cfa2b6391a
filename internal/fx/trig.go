package fx

// quarterWave holds sin(i/64 * pi/2) scaled to Q16.16 for i in [0, 64]. The
// table is generated once (not computed at runtime) so every platform
// compiles the identical bit pattern; see spec §4.1.
var quarterWave = [65]int32{
	0, 1608, 3216, 4821, 6424, 8022, 9616, 11204, 12785, 14359, 15924,
	17479, 19024, 20557, 22078, 23586, 25080, 26558, 28020, 29466, 30893,
	32303, 33692, 35062, 36410, 37736, 39040, 40320, 41576, 42806, 44011,
	45190, 46341, 47464, 48559, 49624, 50660, 51665, 52639, 53581, 54491,
	55368, 56212, 57022, 57798, 58538, 59244, 59914, 60547, 61145, 61705,
	62228, 62714, 63162, 63572, 63944, 64277, 64571, 64827, 65043, 65220,
	65358, 65457, 65516, 65536,
}

// lookupQuarterWave samples the quarter-wave table at position pos, where
// pos ranges over [0, 1<<14] across one quadrant, via linear interpolation
// between the two bracketing table entries.
func lookupQuarterWave(pos uint32) int32 {
	idx := pos >> 8 // 16384 / 64 = 256 units per table step
	if idx >= 64 {
		return quarterWave[64]
	}
	frac := int32(pos & 0xFF)
	lo := quarterWave[idx]
	hi := quarterWave[idx+1]
	return lo + ((hi-lo)*frac)/256
}

// SinTurn returns sin(2*pi*t) for t expressed in turns (Q16.16), using
// quadrant symmetry over the 65-entry quarter-wave table.
func SinTurn(t Q16) Q16 {
	n := t.NormalizeTurn()
	q := n.Quadrant()
	pos := uint32(n) & 0x3FFF
	switch q {
	case 0:
		return Q16(lookupQuarterWave(pos))
	case 1:
		return Q16(lookupQuarterWave(0x4000 - pos))
	case 2:
		return Q16(-lookupQuarterWave(pos))
	default: // 3
		return Q16(-lookupQuarterWave(0x4000 - pos))
	}
}

// CosTurn returns cos(2*pi*t) for t expressed in turns (Q16.16); it is
// SinTurn shifted by a quarter turn.
func CosTurn(t Q16) Q16 {
	return SinTurn(t.Add(Q16Turn / 4))
}

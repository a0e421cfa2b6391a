package domain

import (
	"github.com/Julesc013/dominium-sub020/internal/detid"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// Histogram4 is the 4-bin histogram spec §3.3/§4.7 attaches to every
// capsule's characteristic ratios: bin counts stored as Q16.16 ratios of
// bin-count / total-seen, plus one deterministic RNG cursor per bin so a
// consumer can draw a deterministic sample from the distribution.
type Histogram4 struct {
	BinRatio [4]fx.Q16
	Cursor   [4]detid.Cursor
}

// Bin maps a clamped Q16.16 ratio to one of 4 bins using its top 2
// significant bits after clamping to [0, 1], per spec §4.7 step 3.
func Bin(ratio fx.Q16) int {
	clamped := ratio.Clamp01()
	return clamped.Quadrant()
}

// Observe increments the raw count for ratio's bin; Finalize must be
// called once all observations are recorded to convert raw counts into
// Q16.16 ratios.
func (h *Histogram4) Observe(raw *[4]uint32, ratio fx.Q16) {
	raw[Bin(ratio)]++
}

// Finalize converts raw per-bin counts into Q16.16 bin-count/total-seen
// ratios. total == 0 leaves every bin at zero (no observations to ratio).
func (h *Histogram4) Finalize(raw [4]uint32, total uint32) {
	for i := 0; i < 4; i++ {
		if total == 0 {
			h.BinRatio[i] = 0
			continue
		}
		h.BinRatio[i] = fx.Q48FromInt(int64(raw[i])).Div(fx.Q48FromInt(int64(total))).ToQ16()
	}
}

// Sample draws a deterministic pseudo-random bin index weighted by the
// histogram's bin ratios. It never allocates and never touches floats: it
// walks the bins in order, draws a value in [0, 1<<16) from each visited
// bin's own cursor (advancing it), and stops at the first bin whose
// cumulative ratio is >= that draw, so every bin up to and including the
// chosen one has its cursor advanced.
func (h *Histogram4) Sample() int {
	var cum fx.Q16
	for i := 0; i < 4; i++ {
		next, draw := h.Cursor[i].Bounded(1 << 16)
		h.Cursor[i] = next
		cum += h.BinRatio[i]
		if fx.Q16(draw) <= cum {
			return i
		}
	}
	return 3
}

// CapsuleTable is a fixed-capacity set of region-keyed capsules; spec §3.3
// guarantees at most one capsule per region_id per domain.
type CapsuleTable[C any] struct {
	regions []uint32
	items   []C
	cap     int
}

// NewCapsuleTable allocates a capsule table with the given fixed capacity.
func NewCapsuleTable[C any](capacity int) *CapsuleTable[C] {
	return &CapsuleTable[C]{regions: make([]uint32, 0, capacity), items: make([]C, 0, capacity), cap: capacity}
}

// Count returns the number of collapsed regions currently tracked.
func (t *CapsuleTable[C]) Count() int { return len(t.regions) }

// Get returns the capsule for region, if any.
func (t *CapsuleTable[C]) Get(region uint32) (C, bool) {
	for i, r := range t.regions {
		if r == region {
			return t.items[i], true
		}
	}
	var zero C
	return zero, false
}

// Put inserts or replaces the capsule for region. It returns false if the
// table is full and region is not already present (spec §4.7 step 1:
// "if capsule table full -> fail").
func (t *CapsuleTable[C]) Put(region uint32, c C) bool {
	for i, r := range t.regions {
		if r == region {
			t.items[i] = c
			return true
		}
	}
	if len(t.regions) >= t.cap {
		return false
	}
	t.regions = append(t.regions, region)
	t.items = append(t.items, c)
	return true
}

// Remove deletes the capsule for region by swapping it with the last entry
// and shrinking, per spec §4.7's expand_region algorithm. It reports
// whether a capsule was present.
func (t *CapsuleTable[C]) Remove(region uint32) bool {
	for i, r := range t.regions {
		if r == region {
			last := len(t.regions) - 1
			t.regions[i] = t.regions[last]
			t.items[i] = t.items[last]
			t.regions = t.regions[:last]
			t.items = t.items[:last]
			return true
		}
	}
	return false
}

// IsCollapsed reports whether region currently has a capsule.
func (t *CapsuleTable[C]) IsCollapsed(region uint32) bool {
	_, ok := t.Get(region)
	return ok
}

package domain

// Entity is implemented by every concrete entity type stored in an Arena.
// It exposes the common Base fields spec §3.2 requires on every entity.
// GetBase has a value receiver so arenas can hold entities by value (spec
// §3.2: "entities are stored by value in fixed arrays"); mutation happens
// by reading a value out with At/EachInRegion, changing the copy, and
// writing it back with Set, never through this accessor.
type Entity interface {
	GetBase() Base
}

// Arena is a fixed-capacity, dense, by-value store of a single entity kind.
// Identity is the entity's ID, never its slot index; lookups are linear
// scans because arenas are small and bounded, per spec §3.2/§4.4.
type Arena[T Entity] struct {
	items []T
	cap   int
}

// NewArena allocates an arena with the given fixed capacity.
func NewArena[T Entity](capacity int) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capacity), cap: capacity}
}

// Count returns the number of live entries.
func (a *Arena[T]) Count() int { return len(a.items) }

// Cap returns the arena's fixed capacity.
func (a *Arena[T]) Cap() int { return a.cap }

// At returns the entry at a dense index (0..Count()-1).
func (a *Arena[T]) At(i int) T { return a.items[i] }

// Set replaces the entry at a dense index in place.
func (a *Arena[T]) Set(i int, v T) { a.items[i] = v }

// Reset empties the arena without changing its capacity, per the domain's
// `free` lifecycle call (spec §3.4): counts are zeroed, capacity survives.
func (a *Arena[T]) Reset() { a.items = a.items[:0] }

// InitEntry appends a descriptor-initialized entry, silently dropping it if
// the arena is already at capacity. Spec §4.4 requires this truncation to
// be a documented, tested policy rather than an error.
func (a *Arena[T]) InitEntry(v T) (index int, accepted bool) {
	if len(a.items) >= a.cap {
		return -1, false
	}
	a.items = append(a.items, v)
	return len(a.items) - 1, true
}

// FindIndexByID performs the linear scan spec §4.4 mandates.
func (a *Arena[T]) FindIndexByID(id uint32) (int, bool) {
	for i := range a.items {
		if a.items[i].GetBase().ID == id {
			return i, true
		}
	}
	return -1, false
}

// Each calls fn for every entry in dense-index order (0..Count()-1), the
// fixed traversal order spec §4.6/§5 requires. Returning false from fn
// stops the iteration early.
func (a *Arena[T]) Each(fn func(index int, v T) bool) {
	for i := range a.items {
		if !fn(i, a.items[i]) {
			return
		}
	}
}

// EachInRegion calls fn for every entry whose RegionID matches region,
// or every entry when region == 0 ("all regions" per spec §4.6).
func (a *Arena[T]) EachInRegion(region uint32, fn func(index int, v T) bool) {
	for i := range a.items {
		b := a.items[i].GetBase()
		if region != 0 && b.RegionID != region {
			continue
		}
		if !fn(i, a.items[i]) {
			return
		}
	}
}

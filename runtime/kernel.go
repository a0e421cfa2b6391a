// Package runtime implements the runtime kernel (spec §4.8): a fixed-step
// tick loop that drains an ordered command queue, invokes each registered
// domain's resolve in a stable order, and recomputes a single 64-bit world
// hash for lockstep desync detection. Domain kinds are closed (conflict,
// economy, ...): there is no virtual dispatch on any domain's own resolve
// algorithm (each package keeps its own concrete loop, per spec §4.6's
// closing note); Kernel below is strictly a runtime-level adapter so the
// tick loop can iterate a fixed domain list uniformly, the same shape spec
// §4.6 invites ("wiring [a new domain] into the runtime's domain list").
package runtime

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/detid"
)

// Kernel is the uniform surface the runtime drives every registered domain
// through. Each concrete domain package (domain/conflict, domain/economy)
// gets a small adapter type implementing this in its own terms.
type Kernel interface {
	Active() bool
	Resolve(region uint32, tick uint64, tickDelta uint64, b *budget.Budget) domain.ResolveMeta
	// StreamHash feeds this domain's observable entity state through h, in
	// its own fixed arena order, per spec §4.2's world-hash recipe.
	StreamHash(h *detid.H64)
	// EncodeState returns a deep, self-contained snapshot of every arena's
	// full entity contents, per spec §8's save/reload round-trip law.
	EncodeState() []byte
	// DecodeState restores the domain from a blob produced by EncodeState.
	DecodeState(data []byte) error
	Free()
}

// namedKernel pairs a registered domain with the stable name it is
// addressed by (diagnostics, snapshot labeling).
type namedKernel struct {
	name   string
	kernel Kernel
}

package domain

import "github.com/Julesc013/dominium-sub020/internal/budget"

// Result-level flags observed during a resolve pass. Bit positions are
// shared across every concrete domain so query/CLI code can print them
// uniformly; a given domain only ever sets the subset relevant to it (spec
// §9(a): region-collapse and kind-specific lifecycle bits are orthogonal
// and never collide because COLLAPSED is synthesized at query time, never
// stored in this bitset).
const (
	ResultPartial uint32 = 1 << iota
	ResultShortage
	ResultLowMorale
	ResultIllegitimate
	ResultResistance
	ResultDecaying
	ResultCongested
	ResultArrived
	ResultExpired
	ResultRisk
	ResultBlackMarket
)

// ResolveMeta is the fixed part of every domain's resolve() result, per
// spec §4.6's failure semantics: ok is false only for DOMAIN_INACTIVE or
// base-tier budget exhaustion; everything else is success, possibly
// PARTIAL.
type ResolveMeta struct {
	OK                bool
	Flags             uint32
	RefusalReason     budget.Reason
	EventAppliedCount uint32
	ResolveHash       uint64
}

// RefusedResolve builds the ResolveMeta for a hard refusal (ok=0).
func RefusedResolve(reason budget.Reason) ResolveMeta {
	return ResolveMeta{OK: false, RefusalReason: reason}
}

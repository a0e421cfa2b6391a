// Package domain holds the primitives shared by every concrete domain field
// kernel (conflict, economy, ...): the entity base fields, the existence/
// archival lifecycle, fixed-capacity arenas, query metadata, and the
// collapse capsule table. Concrete domains embed these and add their own
// typed arenas and resolve loops.
package domain

import "github.com/Julesc013/dominium-sub020/internal/budget"

// ExistenceState is a domain's coarse lifecycle stage.
type ExistenceState int

const (
	ExistenceNonexistent ExistenceState = iota
	ExistenceDeclared
	ExistenceRealized
)

// ArchivalState marks whether a domain's history is still being recorded.
type ArchivalState int

const (
	ArchivalLive ArchivalState = iota
	ArchivalArchived
)

// Active reports whether the domain can serve query/resolve calls, per
// spec §3.4: active iff existence_state is not NONEXISTENT or DECLARED.
func Active(s ExistenceState) bool {
	return s != ExistenceNonexistent && s != ExistenceDeclared
}

// Base carries the fields every domain-specific entity has at minimum, per
// spec §3.2.
type Base struct {
	ID           uint32
	RegionID     uint32
	Flags        uint32
	ProvenanceID uint32
}

// Common entity flag bits. Concrete domains define their own kind-specific
// bits starting above FlagKindBase so they never collide with these.
const (
	FlagUnresolved uint32 = 1 << iota
	FlagApplied
	FlagPartialLocal // per-entity PARTIAL marker; neither domain's resolve pass sets it
	FlagKindBase     = 1 << 8
)

// Status is the top-level meta status of a query sample or resolve result.
type Status int

const (
	StatusOK Status = iota
	StatusRefused
)

// Resolution distinguishes a fully-resolved read from an analytic one.
type Resolution int

const (
	ResolutionRefused Resolution = iota
	ResolutionAnalytic
)

// Confidence reflects whether a read came from the authoritative entity or
// a collapsed-region capsule approximation.
type Confidence int

const (
	ConfidenceUnknown Confidence = iota
	ConfidenceExact
)

// Meta is attached to every query sample (spec §3.5).
type Meta struct {
	Status        Status
	Resolution    Resolution
	Confidence    Confidence
	RefusalReason budget.Reason
	CostUnits     uint32
	BudgetUsed    uint32
	BudgetMax     uint32
}

// Refused builds the canonical refusal meta block: REFUSED/REFUSED/UNKNOWN
// with the given reason, per spec §3.5.
func Refused(reason budget.Reason, b budget.Budget) Meta {
	return Meta{
		Status:        StatusRefused,
		Resolution:    ResolutionRefused,
		Confidence:    ConfidenceUnknown,
		RefusalReason: reason,
		BudgetUsed:    b.Used,
		BudgetMax:     b.Max,
	}
}

// OK builds a successful meta block at the given confidence.
func OK(confidence Confidence, cost uint32, b budget.Budget) Meta {
	return Meta{
		Status:        StatusOK,
		Resolution:    ResolutionAnalytic,
		Confidence:    confidence,
		RefusalReason: budget.ReasonNone,
		CostUnits:     cost,
		BudgetUsed:    b.Used,
		BudgetMax:     b.Max,
	}
}

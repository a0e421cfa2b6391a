// Package conflict implements the conflict domain field kernel: the
// per-region military/political simulation described in spec §2 (C4-C7)
// with records, sides, events, forces, engagements, outcomes, occupations,
// resistances, morale fields, and weapons. Its resolve loop is the
// exemplar algorithm spec §4.6 describes; domain/economy is structurally
// identical but over different entity kinds.
package conflict

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// Arena capacities, fixed at compile time per spec §3.2.
const (
	MaxRecords      = 64
	MaxSides        = 128
	MaxEvents       = 256
	MaxForces       = 128
	MaxEngagements  = 128
	MaxOutcomes     = 128
	MaxOccupations  = 128
	MaxResistances  = 128
	MaxMoraleFields = 128
	MaxWeapons      = 256
)

// Status is a conflict record's coarse state, advanced by event dispatch.
type Status int

const (
	StatusActive Status = iota
	StatusResisting
	StatusDegrading
	StatusResolved
)

// EventType selects the event -> status table entry applied at dispatch.
type EventType int

const (
	EventResistance EventType = iota
	EventDegrade
	EventResolve
	EventReinforce
)

// Kind-specific flag bits, starting above domain.FlagKindBase so they never
// collide with the common Base flags.
const (
	FlagShortage uint32 = domain.FlagKindBase << iota
	FlagLowMorale
	FlagIllegitimate
	FlagResistance
	FlagDecaying
	FlagRisk
)

// Record is the conflict entity itself: the thing a side/force/occupation
// belongs to.
type Record struct {
	domain.Base
	Status       Status
	DeclaredTick uint64
}

func (r Record) GetBase() domain.Base { return r.Base }

// Side is a faction participating in a conflict's region.
type Side struct {
	domain.Base
	ConflictID            uint32
	ReadinessLevel        fx.Q16
	LogisticsDependencyID uint32 // 0 => SHORTAGE
}

func (s Side) GetBase() domain.Base { return s.Base }

// Force is a deployable unit belonging to a side.
type Force struct {
	domain.Base
	SideID                uint32
	ReadinessLevel        fx.Q16
	MoraleLevel           fx.Q16
	LogisticsDependencyID uint32
}

func (f Force) GetBase() domain.Base { return f.Base }

// Event is a scheduled, dispatchable occurrence within a conflict.
type Event struct {
	domain.Base
	ConflictID   uint32
	ScheduledTick uint64
	OrderKey     uint32
	Type         EventType
}

func (e Event) GetBase() domain.Base { return e.Base }

// Engagement links up to four participant forces/sides in a clash.
type Engagement struct {
	domain.Base
	ParticipantIDs [4]uint32
	ResultTick     uint64
}

func (e Engagement) GetBase() domain.Base { return e.Base }

// Outcome is the resolved result of an engagement, applied once its
// resolution tick is reached.
type Outcome struct {
	domain.Base
	EngagementID   uint32
	ResolutionTick uint64
}

func (o Outcome) GetBase() domain.Base { return o.Base }

// Occupation tracks a side's hold over a region.
type Occupation struct {
	domain.Base
	LegitimacySupport fx.Q16
	Status            Status
}

func (o Occupation) GetBase() domain.Base { return o.Base }

// Resistance is a standing opposition level against an occupation.
type Resistance struct {
	domain.Base
	OccupationID   uint32
	Level          fx.Q16
	ResolutionTick uint64
}

func (r Resistance) GetBase() domain.Base { return r.Base }

// MoraleField decays a force's morale over time.
type MoraleField struct {
	domain.Base
	ForceID     uint32
	MoraleLevel fx.Q16
	DecayRate   fx.Q16
}

func (m MoraleField) GetBase() domain.Base { return m.Base }

// Weapon carries an integrity level and an optional risk profile.
type Weapon struct {
	domain.Base
	ForceID       uint32
	IntegrityLevel fx.Q16
	RiskProfileID uint32
	RiskModifier  fx.Q16
}

func (w Weapon) GetBase() domain.Base { return w.Base }

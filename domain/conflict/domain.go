package conflict

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
)

// Surface is the immutable input a conflict domain is initialized from.
type Surface struct {
	Name string
	Seed uint64
}

// Domain is a single conflict domain field kernel instance: a surface, a
// policy, a lifecycle state, every entity arena, and the capsule table.
// Callers must serialize access to a Domain; it is not thread-safe (spec
// §1 non-goals, §5).
type Domain struct {
	surface Surface
	policy  budget.Policy

	existence domain.ExistenceState
	archival  domain.ArchivalState

	Records      *domain.Arena[Record]
	Sides        *domain.Arena[Side]
	Events       *domain.Arena[Event]
	Forces       *domain.Arena[Force]
	Engagements  *domain.Arena[Engagement]
	Outcomes     *domain.Arena[Outcome]
	Occupations  *domain.Arena[Occupation]
	Resistances  *domain.Arena[Resistance]
	MoraleFields *domain.Arena[MoraleField]
	Weapons      *domain.Arena[Weapon]

	Capsules *domain.CapsuleTable[Capsule]
}

// New allocates every arena at its fixed capacity and leaves the domain in
// NONEXISTENT state; call Init to realize it.
func New() *Domain {
	return &Domain{
		Records:      domain.NewArena[Record](MaxRecords),
		Sides:        domain.NewArena[Side](MaxSides),
		Events:       domain.NewArena[Event](MaxEvents),
		Forces:       domain.NewArena[Force](MaxForces),
		Engagements:  domain.NewArena[Engagement](MaxEngagements),
		Outcomes:     domain.NewArena[Outcome](MaxOutcomes),
		Occupations:  domain.NewArena[Occupation](MaxOccupations),
		Resistances:  domain.NewArena[Resistance](MaxResistances),
		MoraleFields: domain.NewArena[MoraleField](MaxMoraleFields),
		Weapons:      domain.NewArena[Weapon](MaxWeapons),
		Capsules:     domain.NewCapsuleTable[Capsule](MaxRecords),
		policy:       budget.DefaultPolicy(),
	}
}

// Init realizes the domain against surface, per spec §3.4's
// "init(surface) -> REALIZED".
func (d *Domain) Init(s Surface) {
	d.surface = s
	d.existence = domain.ExistenceRealized
	d.archival = domain.ArchivalLive
}

// SetPolicy reconfigures the cost policy.
func (d *Domain) SetPolicy(p budget.Policy) { d.policy = p }

// Policy returns the current cost policy.
func (d *Domain) Policy() budget.Policy { return d.policy }

// SetState reconfigures the existence/archival state.
func (d *Domain) SetState(existence domain.ExistenceState, archival domain.ArchivalState) {
	d.existence = existence
	d.archival = archival
}

// ExistenceState returns the domain's current existence state.
func (d *Domain) ExistenceState() domain.ExistenceState { return d.existence }

// Active reports whether the domain can serve query/resolve calls.
func (d *Domain) Active() bool { return domain.Active(d.existence) }

// Surface returns the domain's immutable input surface.
func (d *Domain) Surface() Surface { return d.surface }

// Free zeroes every arena's counts but preserves the surface, per spec
// §3.4.
func (d *Domain) Free() {
	d.Records.Reset()
	d.Sides.Reset()
	d.Events.Reset()
	d.Forces.Reset()
	d.Engagements.Reset()
	d.Outcomes.Reset()
	d.Occupations.Reset()
	d.Resistances.Reset()
	d.MoraleFields.Reset()
	d.Weapons.Reset()
}

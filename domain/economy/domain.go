package economy

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
)

// Surface is the immutable input an economy domain is initialized from.
type Surface struct {
	Name string
	Seed uint64
}

// Domain is a single economy domain field kernel instance: a surface, a
// policy, a lifecycle state, every entity arena, and the capsule table.
// Callers must serialize access to a Domain; it is not thread-safe (spec
// §1 non-goals, §5).
type Domain struct {
	surface Surface
	policy  budget.Policy

	existence domain.ExistenceState
	archival  domain.ArchivalState

	Containers   *domain.Arena[Container]
	Storages     *domain.Arena[Storage]
	Transports   *domain.Arena[Transport]
	Jobs         *domain.Arena[Job]
	Markets      *domain.Arena[Market]
	Offers       *domain.Arena[Offer]
	Bids         *domain.Arena[Bid]
	Transactions *domain.Arena[Transaction]

	Capsules *domain.CapsuleTable[Capsule]
}

// New allocates every arena at its fixed capacity and leaves the domain in
// NONEXISTENT state; call Init to realize it.
func New() *Domain {
	return &Domain{
		Containers:   domain.NewArena[Container](MaxContainers),
		Storages:     domain.NewArena[Storage](MaxStorages),
		Transports:   domain.NewArena[Transport](MaxTransports),
		Jobs:         domain.NewArena[Job](MaxJobs),
		Markets:      domain.NewArena[Market](MaxMarkets),
		Offers:       domain.NewArena[Offer](MaxOffers),
		Bids:         domain.NewArena[Bid](MaxBids),
		Transactions: domain.NewArena[Transaction](MaxTransactions),
		Capsules:     domain.NewCapsuleTable[Capsule](MaxMarkets),
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
	d.Containers.Reset()
	d.Storages.Reset()
	d.Transports.Reset()
	d.Jobs.Reset()
	d.Markets.Reset()
	d.Offers.Reset()
	d.Bids.Reset()
	d.Transactions.Reset()
}

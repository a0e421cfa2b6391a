// Package economy implements the economy domain field kernel: goods
// flow through containers, storages, transports, jobs, and markets
// (offers/bids/transactions), per spec §2 (C4-C7). It is structurally
// identical to domain/conflict — same arena/capsule/resolve shape — over a
// different entity set, per spec §4.6's "economy is structurally
// identical" exemplar note.
package economy

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// Arena capacities, fixed at compile time per spec §3.2.
const (
	MaxContainers   = 64
	MaxStorages     = 128
	MaxTransports   = 128
	MaxJobs         = 128
	MaxMarkets      = 64
	MaxOffers       = 256
	MaxBids         = 256
	MaxTransactions = 256
)

// Kind-specific flag bits, starting above domain.FlagKindBase so they never
// collide with the common Base flags.
const (
	FlagOverflow uint32 = domain.FlagKindBase << iota
	FlagInTransit
	FlagArrivedEntity
	FlagExpired
	FlagBlackMarket
)

// Container holds a region's tally of a single good.
type Container struct {
	domain.Base
	GoodsTotal fx.Q16
}

func (c Container) GetBase() domain.Base { return c.Base }

// Storage tracks a stockpile against its capacity; stored > capacity flags
// OVERFLOW on the entity and CONGESTED on the resolve result.
type Storage struct {
	domain.Base
	Stored   fx.Q16
	Capacity fx.Q16
}

func (s Storage) GetBase() domain.Base { return s.Base }

// Transport carries goods between regions, arriving (and clearing
// IN_TRANSIT) once its arrival tick is reached. RiskProfileID/RiskModifier
// drive the RISK result flag, mirroring conflict's Weapon.
type Transport struct {
	domain.Base
	ArrivalTick  uint64
	RiskProfileID uint32
	RiskModifier  fx.Q16
}

func (t Transport) GetBase() domain.Base { return t.Base }

// Job is a scheduled unit of work, completed (FlagApplied) once its
// completion tick is reached.
type Job struct {
	domain.Base
	CompletionTick uint64
}

func (j Job) GetBase() domain.Base { return j.Base }

// Market groups the offers and bids competing over a single good within a
// region.
type Market struct {
	domain.Base
}

func (m Market) GetBase() domain.Base { return m.Base }

// Offer is a seller's standing ask within a market, expiring at its expiry
// tick.
type Offer struct {
	domain.Base
	MarketID   uint32
	Price      fx.Q16
	ExpiryTick uint64
}

func (o Offer) GetBase() domain.Base { return o.Base }

// Bid is a buyer's standing ask within a market, expiring at its expiry
// tick.
type Bid struct {
	domain.Base
	MarketID   uint32
	Price      fx.Q16
	ExpiryTick uint64
}

func (b Bid) GetBase() domain.Base { return b.Base }

// Transaction matches a bid to an offer; it becomes APPLIED once its
// resolution tick is reached, and can be flagged BLACK_MARKET to propagate
// that provenance into the resolve result.
type Transaction struct {
	domain.Base
	OfferID        uint32
	BidID          uint32
	Price          fx.Q16
	Volume         fx.Q16
	ResolutionTick uint64
}

func (t Transaction) GetBase() domain.Base { return t.Base }

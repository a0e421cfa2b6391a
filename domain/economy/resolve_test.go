package economy

import (
	"testing"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
)

func seedDomain() *Domain {
	d := New()
	d.Init(Surface{Name: "test", Seed: 1})
	d.Containers.InitEntry(Container{Base: domain.Base{ID: 1, RegionID: 7}, GoodsTotal: 0x30000})
	d.Markets.InitEntry(Market{Base: domain.Base{ID: 1, RegionID: 7}})
	d.Offers.InitEntry(Offer{Base: domain.Base{ID: 1, RegionID: 7}, MarketID: 1, Price: 0x20000, ExpiryTick: 100})
	d.Bids.InitEntry(Bid{Base: domain.Base{ID: 1, RegionID: 7}, MarketID: 1, Price: 0x10000, ExpiryTick: 100})
	return d
}

// Scenario (spec §8 #2): bid_count > offer_count > 0 within one region
// sets ResultShortage and the resolve still succeeds.
func TestResolveSetsShortageWhenBidsExceedOffers(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "shortage", Seed: 1})
	d.Offers.InitEntry(Offer{Base: domain.Base{ID: 1, RegionID: 1}, MarketID: 1, Price: 0x10000, ExpiryTick: 100})
	d.Offers.InitEntry(Offer{Base: domain.Base{ID: 2, RegionID: 1}, MarketID: 1, Price: 0x10000, ExpiryTick: 100})
	for i := uint32(1); i <= 5; i++ {
		d.Bids.InitEntry(Bid{Base: domain.Base{ID: i, RegionID: 1}, MarketID: 1, Price: 0x10000, ExpiryTick: 100})
	}

	b := budget.NewBudget(1000)
	res := d.Resolve(1, 1, 1, &b)
	if !res.OK {
		t.Fatalf("resolve refused: %+v", res)
	}
	if res.Flags&domain.ResultShortage == 0 {
		t.Fatal("expected ResultShortage with bid_count=5 > offer_count=2 > 0")
	}
}

// Scenario: bid_count > 0 with zero offers in the region still sets
// ResultShortage, matching the original's bid_count > offer_count &&
// bid_count > 0 gate (offer_count == 0 is not exempt).
func TestResolveSetsShortageWhenNoOffersAtAll(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "shortage-no-offers", Seed: 1})
	d.Bids.InitEntry(Bid{Base: domain.Base{ID: 1, RegionID: 1}, MarketID: 1, Price: 0x10000, ExpiryTick: 100})

	b := budget.NewBudget(1000)
	res := d.Resolve(1, 1, 1, &b)
	if !res.OK {
		t.Fatalf("resolve refused: %+v", res)
	}
	if res.Flags&domain.ResultShortage == 0 {
		t.Fatal("expected ResultShortage with bid_count=1 > offer_count=0")
	}
}

func TestResolveStorageOverflowSetsCongested(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "overflow", Seed: 1})
	d.Storages.InitEntry(Storage{Base: domain.Base{ID: 1, RegionID: 2}, Stored: 0x30000, Capacity: 0x10000})

	b := budget.NewBudget(1000)
	res := d.Resolve(2, 1, 1, &b)
	if !res.OK {
		t.Fatalf("resolve refused: %+v", res)
	}
	if res.Flags&domain.ResultCongested == 0 {
		t.Fatal("expected ResultCongested when stored > capacity")
	}

	idx, ok := d.Storages.FindIndexByID(1)
	if !ok {
		t.Fatal("storage 1 missing")
	}
	if d.Storages.At(idx).Flags&FlagOverflow == 0 {
		t.Fatal("expected FlagOverflow set on the storage entity itself")
	}
}

func TestResolveTransportArrival(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "arrival", Seed: 1})
	d.Transports.InitEntry(Transport{Base: domain.Base{ID: 1, RegionID: 3, Flags: FlagInTransit}, ArrivalTick: 5})

	b := budget.NewBudget(1000)
	res := d.Resolve(3, 10, 1, &b)
	if !res.OK {
		t.Fatalf("resolve refused: %+v", res)
	}
	if res.Flags&domain.ResultArrived == 0 {
		t.Fatal("expected ResultArrived when arrival_tick <= tick")
	}

	idx, ok := d.Transports.FindIndexByID(1)
	if !ok {
		t.Fatal("transport 1 missing")
	}
	tr := d.Transports.At(idx)
	if tr.Flags&FlagArrivedEntity == 0 {
		t.Fatal("expected FlagArrivedEntity set on the transport")
	}
	if tr.Flags&FlagInTransit != 0 {
		t.Fatal("expected FlagInTransit cleared on arrival")
	}
}

func TestResolveRiskAndBlackMarketPropagation(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "risk", Seed: 1})
	d.Transports.InitEntry(Transport{Base: domain.Base{ID: 1, RegionID: 4}, ArrivalTick: 100, RiskProfileID: 9})
	d.Transactions.InitEntry(Transaction{Base: domain.Base{ID: 1, RegionID: 4, Flags: FlagBlackMarket}, ResolutionTick: 1})

	b := budget.NewBudget(1000)
	res := d.Resolve(4, 1, 1, &b)
	if !res.OK {
		t.Fatalf("resolve refused: %+v", res)
	}
	if res.Flags&domain.ResultRisk == 0 {
		t.Fatal("expected ResultRisk from a nonzero risk_profile_id")
	}
	if res.Flags&domain.ResultBlackMarket == 0 {
		t.Fatal("expected ResultBlackMarket propagated from the transaction's flag")
	}
}

func TestResolveRefusesWhenInactive(t *testing.T) {
	d := New()
	b := budget.NewBudget(1000)
	res := d.Resolve(0, 1, 1, &b)
	if res.OK {
		t.Fatal("expected refusal for inactive domain")
	}
	if res.RefusalReason != budget.ReasonDomainInactive {
		t.Fatalf("RefusalReason = %q, want DOMAIN_INACTIVE", res.RefusalReason)
	}
}

// Scenario #1 (spec §8): two independently built, identically seeded
// domains resolving the same region at the same tick produce identical
// resolve_hash values.
func TestResolveHashDeterministicAcrossInstances(t *testing.T) {
	d1 := seedDomain()
	d2 := seedDomain()

	b1 := budget.NewBudget(1000)
	b2 := budget.NewBudget(1000)

	r1 := d1.Resolve(7, 10, 1, &b1)
	r2 := d2.Resolve(7, 10, 1, &b2)

	if !r1.OK || !r2.OK {
		t.Fatalf("expected both resolves to succeed, got %+v / %+v", r1, r2)
	}
	if r1.ResolveHash != r2.ResolveHash {
		t.Fatalf("resolve_hash mismatch: %x != %x", r1.ResolveHash, r2.ResolveHash)
	}
}

func TestResolveAgainstCollapsedRegionUsesCapsule(t *testing.T) {
	d := seedDomain()
	if !d.CollapseRegion(7) {
		t.Fatal("CollapseRegion(7) should have succeeded")
	}
	b := budget.NewBudget(1000)
	res := d.Resolve(7, 99, 1, &b)
	if !res.OK {
		t.Fatalf("resolve against collapsed region refused: %+v", res)
	}
	if res.Flags&domain.ResultPartial == 0 {
		t.Fatal("expected ResultPartial flag for a capsule-backed resolve")
	}
	if res.Counts.Offers != 1 || res.Counts.Bids != 1 {
		t.Fatalf("Counts = %+v, want Offers=1 Bids=1 from the capsule", res.Counts)
	}
}

package conflict

import (
	"testing"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

func seedDomain() *Domain {
	d := New()
	d.Init(Surface{Name: "test", Seed: 1})
	d.Records.InitEntry(Record{Base: domain.Base{ID: 1, RegionID: 7}})
	d.Sides.InitEntry(Side{
		Base:                  domain.Base{ID: 1, RegionID: 7},
		ConflictID:            1,
		ReadinessLevel:        fx.Q16(0x8000), // 0.5
		LogisticsDependencyID: 5,
	})
	d.Forces.InitEntry(Force{
		Base:                  domain.Base{ID: 1, RegionID: 7},
		SideID:                1,
		ReadinessLevel:        fx.Q16(0xC000), // 0.75
		MoraleLevel:           fx.Q16(0x199A), // ~0.1
		LogisticsDependencyID: 5,
	})
	d.Events.InitEntry(Event{
		Base:          domain.Base{ID: 2, RegionID: 7},
		ConflictID:    1,
		ScheduledTick: 1,
		OrderKey:      0,
		Type:          EventDegrade,
	})
	d.Events.InitEntry(Event{
		Base:          domain.Base{ID: 1, RegionID: 7},
		ConflictID:    1,
		ScheduledTick: 1,
		OrderKey:      0,
		Type:          EventResolve,
	})
	return d
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

// Scenario: events with a tied order_key dispatch in ascending ID order.
// Event ID=1 (EventResolve) must apply before ID=2 (EventDegrade) despite
// insertion order being ID=2 then ID=1.
func TestResolveEventDispatchOrderStableByID(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "order", Seed: 1})
	d.Records.InitEntry(Record{Base: domain.Base{ID: 1, RegionID: 3}, Status: StatusActive})
	d.Events.InitEntry(Event{Base: domain.Base{ID: 2, RegionID: 3}, ConflictID: 1, ScheduledTick: 1, OrderKey: 5, Type: EventDegrade})
	d.Events.InitEntry(Event{Base: domain.Base{ID: 1, RegionID: 3}, ConflictID: 1, ScheduledTick: 1, OrderKey: 5, Type: EventResolve})

	b := budget.NewBudget(1000)
	res := d.Resolve(3, 1, 1, &b)
	if !res.OK {
		t.Fatalf("resolve refused: %+v", res)
	}
	if res.EventAppliedCount != 2 {
		t.Fatalf("EventAppliedCount = %d, want 2", res.EventAppliedCount)
	}

	idx, ok := d.Records.FindIndexByID(1)
	if !ok {
		t.Fatal("record 1 missing")
	}
	// EventResolve (ID=1) applies before EventDegrade (ID=2) because ties
	// break by ascending ID, so the record ends in StatusDegrading: the
	// later-applied event (by order) wins, EventDegrade was dispatched
	// second and its mapped status is what is left standing.
	if got := d.Records.At(idx).Status; got != StatusDegrading {
		t.Fatalf("final status = %v, want StatusDegrading (applied after EventResolve)", got)
	}
}

// Scenario: a DOMAIN_INACTIVE domain refuses resolve outright.
func TestResolveRefusesWhenInactive(t *testing.T) {
	d := New() // never Init'd: existence stays NONEXISTENT
	b := budget.NewBudget(1000)
	res := d.Resolve(0, 1, 1, &b)
	if res.OK {
		t.Fatal("expected refusal for inactive domain")
	}
	if res.RefusalReason != budget.ReasonDomainInactive {
		t.Fatalf("RefusalReason = %q, want DOMAIN_INACTIVE", res.RefusalReason)
	}
	if b.Used != 0 {
		t.Fatalf("budget.Used = %d, want 0 (refusal before any consumption)", b.Used)
	}
}

// Scenario: a budget too small to cover even the base analytic charge is
// refused with ok=false and leaves Used unchanged.
func TestResolveRefusesOnExhaustedBudget(t *testing.T) {
	d := seedDomain()
	b := budget.NewBudget(0)
	res := d.Resolve(7, 1, 1, &b)
	if res.OK {
		t.Fatal("expected refusal: budget cannot cover the base analytic charge")
	}
	if res.RefusalReason != budget.ReasonBudget {
		t.Fatalf("RefusalReason = %q, want BUDGET", res.RefusalReason)
	}
	if b.Used != 0 {
		t.Fatalf("budget.Used = %d, want 0", b.Used)
	}
}

// Scenario: a budget that covers the analytic base charge but runs out
// partway through a region's arenas yields a PARTIAL result, not a hard
// refusal, and reports the first budget-triggered reason.
func TestResolvePartialOnMidwayBudgetExhaustion(t *testing.T) {
	d := seedDomain()
	// 1 unit for the base analytic charge + 1 unit for Records, then
	// exhausted before Sides can be charged.
	b := budget.NewBudget(2)
	res := d.Resolve(7, 1, 1, &b)
	if !res.OK {
		t.Fatalf("expected success (PARTIAL), got hard refusal: %+v", res)
	}
	if res.Flags&domain.ResultPartial == 0 {
		t.Fatal("expected ResultPartial flag set")
	}
	if res.RefusalReason != budget.ReasonBudget {
		t.Fatalf("RefusalReason = %q, want BUDGET", res.RefusalReason)
	}
}

// A low-morale force (0 < morale < 0x4000) sets ResultLowMorale, and a
// force/side with LogisticsDependencyID == 0 sets ResultShortage.
func TestResolveSetsLowMoraleAndShortageFlags(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "flags", Seed: 1})
	d.Sides.InitEntry(Side{Base: domain.Base{ID: 1, RegionID: 4}, ReadinessLevel: fx.Q16(0x8000), LogisticsDependencyID: 0})
	d.Forces.InitEntry(Force{Base: domain.Base{ID: 1, RegionID: 4}, ReadinessLevel: fx.Q16(0x8000), MoraleLevel: fx.Q16(0x1000), LogisticsDependencyID: 9})

	b := budget.NewBudget(1000)
	res := d.Resolve(4, 1, 1, &b)
	if !res.OK {
		t.Fatalf("resolve refused: %+v", res)
	}
	if res.Flags&domain.ResultShortage == 0 {
		t.Fatal("expected ResultShortage flag")
	}
	if res.Flags&domain.ResultLowMorale == 0 {
		t.Fatal("expected ResultLowMorale flag")
	}
}

// Resolving an already-collapsed region short-circuits to the capsule's
// summary and still reports success with ResultPartial set.
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
	if res.Counts.Sides != 1 || res.Counts.Forces != 1 {
		t.Fatalf("Counts = %+v, want Sides=1 Forces=1 from the capsule", res.Counts)
	}
}

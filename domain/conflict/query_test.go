package conflict

import (
	"testing"

	"github.com/Julesc013/dominium-sub020/internal/budget"
)

func TestQueryForceRefusesWhenInactive(t *testing.T) {
	d := New()
	b := budget.NewBudget(1000)
	res := d.QueryForce(1, &b)
	if res.Meta.RefusalReason != budget.ReasonDomainInactive {
		t.Fatalf("RefusalReason = %q, want DOMAIN_INACTIVE", res.Meta.RefusalReason)
	}
}

func TestQueryForceMissingEntity(t *testing.T) {
	d := seedDomain()
	b := budget.NewBudget(1000)
	res := d.QueryForce(999, &b)
	if res.Meta.RefusalReason != "FORCE_MISSING" {
		t.Fatalf("RefusalReason = %q, want FORCE_MISSING", res.Meta.RefusalReason)
	}
}

func TestQueryForceExactRead(t *testing.T) {
	d := seedDomain()
	b := budget.NewBudget(1000)
	res := d.QueryForce(1, &b)
	if res.Meta.RefusalReason != budget.ReasonNone {
		t.Fatalf("unexpected refusal: %+v", res.Meta)
	}
	if res.Collapsed {
		t.Fatal("force in a non-collapsed region should not report Collapsed")
	}
	if res.ID != 1 || res.RegionID != 7 {
		t.Fatalf("ID/RegionID = %d/%d, want 1/7", res.ID, res.RegionID)
	}
}

func TestQueryForceAgainstCollapsedRegionReportsUnknownConfidence(t *testing.T) {
	d := seedDomain()
	if !d.CollapseRegion(7) {
		t.Fatal("collapse should succeed")
	}
	b := budget.NewBudget(1000)
	res := d.QueryForce(1, &b)
	if !res.Collapsed {
		t.Fatal("expected Collapsed=true for a force in a collapsed region")
	}
	if res.Meta.Confidence != 0 {
		t.Fatalf("Confidence = %v, want ConfidenceUnknown (0)", res.Meta.Confidence)
	}
}

func TestQueryRegionAggregatesAcrossArenas(t *testing.T) {
	d := seedDomain()
	b := budget.NewBudget(1000)
	res := d.QueryRegion(7, &b)
	if res.Partial {
		t.Fatalf("unexpected partial result: %+v", res)
	}
	if res.ForceCount != 1 || res.SideCount != 1 {
		t.Fatalf("counts = %+v, want ForceCount=1 SideCount=1", res)
	}
}

func TestQueryRegionUsesCapsuleWhenCollapsed(t *testing.T) {
	d := seedDomain()
	if !d.CollapseRegion(7) {
		t.Fatal("collapse should succeed")
	}
	b := budget.NewBudget(1000)
	res := d.QueryRegion(7, &b)
	if !res.Partial {
		t.Fatal("a capsule-backed region read must report Partial")
	}
	if res.ForceCount != 1 || res.SideCount != 1 {
		t.Fatalf("capsule-derived counts = %+v, want ForceCount=1 SideCount=1", res)
	}
}

package economy

import "testing"

func TestCollapseRegionRejectsRegionZero(t *testing.T) {
	d := seedDomain()
	if d.CollapseRegion(0) {
		t.Fatal("CollapseRegion(0) must be rejected: 0 means \"all regions\", not a real region")
	}
}

func TestCollapseRegionIsIdempotent(t *testing.T) {
	d := seedDomain()
	if !d.CollapseRegion(7) {
		t.Fatal("first collapse should succeed")
	}
	first, _ := d.Capsules.Get(7)
	if !d.CollapseRegion(7) {
		t.Fatal("re-collapsing an already-collapsed region must report success")
	}
	second, _ := d.Capsules.Get(7)
	if first != second {
		t.Fatalf("re-collapsing must not change the stored capsule: %+v != %+v", first, second)
	}
}

func TestCollapseExpandRoundTrip(t *testing.T) {
	d := seedDomain()
	if !d.CollapseRegion(7) {
		t.Fatal("collapse should succeed")
	}
	before, _ := d.Capsules.Get(7)

	if !d.ExpandRegion(7) {
		t.Fatal("expand should report a capsule was present")
	}
	if d.Capsules.IsCollapsed(7) {
		t.Fatal("region should no longer be collapsed after expand")
	}

	if !d.CollapseRegion(7) {
		t.Fatal("re-collapse should succeed")
	}
	after, _ := d.Capsules.Get(7)

	if before != after {
		t.Fatalf("collapse/expand/collapse must be idempotent on the entity set: %+v != %+v", before, after)
	}
}

func TestExpandRegionReportsAbsence(t *testing.T) {
	d := seedDomain()
	if d.ExpandRegion(7) {
		t.Fatal("expanding a never-collapsed region should report false")
	}
}

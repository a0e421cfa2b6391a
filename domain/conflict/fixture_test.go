package conflict

import "testing"

const sampleFixture = `DOMINIUM_CONFLICT_FIXTURE_V1
region=7
record1_id=1
side1_id=1
side1_conflict=1
side1_readiness=0.5
side1_logistics_dependency=5
force1_id=1
force1_side=1
force1_readiness=0.75
force1_morale=0.1
force1_logistics_dependency=5
event1_id=2
event1_conflict=1
event1_scheduled_tick=1
event1_order_key=0
event1_type=degrade
event2_id=1
event2_conflict=1
event2_scheduled_tick=1
event2_order_key=0
event2_type=resolve
`

func TestLoadFixtureBuildsEntities(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "fixture", Seed: 1})
	if err := d.LoadFixture(sampleFixture); err != nil {
		t.Fatalf("LoadFixture failed: %v", err)
	}
	if d.Records.Count() != 1 {
		t.Fatalf("Records.Count() = %d, want 1", d.Records.Count())
	}
	if d.Sides.Count() != 1 || d.Forces.Count() != 1 {
		t.Fatalf("Sides/Forces counts = %d/%d, want 1/1", d.Sides.Count(), d.Forces.Count())
	}
	if d.Events.Count() != 2 {
		t.Fatalf("Events.Count() = %d, want 2", d.Events.Count())
	}

	idx, ok := d.Sides.FindIndexByID(1)
	if !ok {
		t.Fatal("side 1 missing")
	}
	if got := d.Sides.At(idx).ReadinessLevel; got != 0x8000 {
		t.Fatalf("side readiness = %#x, want 0x8000 (0.5)", int32(got))
	}
}

// TestLoadFixtureNestedIndexedKeys exercises spec §6's illustrative
// "record17_side3_id=alpha_side" grammar shape: a high fixture index paired
// with a nested indexed suffix, here an engagement's participant slots.
func TestLoadFixtureNestedIndexedKeys(t *testing.T) {
	const text = `DOMINIUM_CONFLICT_FIXTURE_V1
region=3
engagement17_id=alpha_engagement
engagement17_participant0=alpha_force
engagement17_participant1=beta_force
engagement17_result_tick=40
`
	d := New()
	d.Init(Surface{Name: "fixture", Seed: 1})
	if err := d.LoadFixture(text); err != nil {
		t.Fatalf("LoadFixture failed: %v", err)
	}
	if d.Engagements.Count() != 1 {
		t.Fatalf("Engagements.Count() = %d, want 1", d.Engagements.Count())
	}
	eng := d.Engagements.At(0)
	if eng.ParticipantIDs[0] == 0 || eng.ParticipantIDs[1] == 0 {
		t.Fatalf("participant ids not parsed: %+v", eng.ParticipantIDs)
	}
	if eng.ResultTick != 40 {
		t.Fatalf("ResultTick = %d, want 40", eng.ResultTick)
	}
}

func TestLoadFixtureRejectsBadHeader(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "fixture", Seed: 1})
	if err := d.LoadFixture("NOT_A_FIXTURE\nrecord1_id=1\n"); err == nil {
		t.Fatal("expected an error for a mismatched header")
	}
}

func TestLoadFixtureRejectsUnknownKey(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "fixture", Seed: 1})
	bad := "DOMINIUM_CONFLICT_FIXTURE_V1\nbogus=1\n"
	if err := d.LoadFixture(bad); err == nil {
		t.Fatal("expected an error for an unknown fixture key")
	}
}

func TestLoadFixtureRejectsMissingID(t *testing.T) {
	d := New()
	d.Init(Surface{Name: "fixture", Seed: 1})
	bad := "DOMINIUM_CONFLICT_FIXTURE_V1\nside1_readiness=0.5\n"
	if err := d.LoadFixture(bad); err == nil {
		t.Fatal("expected an error for an entity missing its id attribute")
	}
}

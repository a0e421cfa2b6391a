package domain

import "testing"

type fakeEntity struct {
	Base
}

func (f fakeEntity) GetBase() Base { return f.Base }

func TestActive(t *testing.T) {
	if Active(ExistenceNonexistent) {
		t.Fatal("NONEXISTENT must not be active")
	}
	if Active(ExistenceDeclared) {
		t.Fatal("DECLARED must not be active")
	}
	if !Active(ExistenceRealized) {
		t.Fatal("REALIZED must be active")
	}
}

func TestArenaTruncatesOnOverflow(t *testing.T) {
	a := NewArena[fakeEntity](2)
	for i := 0; i < 5; i++ {
		_, accepted := a.InitEntry(fakeEntity{Base: Base{ID: uint32(i + 1)}})
		if i < 2 && !accepted {
			t.Fatalf("entry %d should have been accepted", i)
		}
		if i >= 2 && accepted {
			t.Fatalf("entry %d should have been dropped (over capacity)", i)
		}
	}
	if a.Count() != 2 {
		t.Fatalf("Count() = %d, want 2 (truncated)", a.Count())
	}
}

func TestArenaFindByID(t *testing.T) {
	a := NewArena[fakeEntity](4)
	a.InitEntry(fakeEntity{Base: Base{ID: 10}})
	a.InitEntry(fakeEntity{Base: Base{ID: 20}})

	if idx, ok := a.FindIndexByID(20); !ok || idx != 1 {
		t.Fatalf("FindIndexByID(20) = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := a.FindIndexByID(99); ok {
		t.Fatal("FindIndexByID(99) should not be found")
	}
}

func TestCapsuleTableAtMostOnePerRegion(t *testing.T) {
	tbl := NewCapsuleTable[int](2)
	if !tbl.Put(1, 100) {
		t.Fatal("first put should succeed")
	}
	if !tbl.Put(1, 200) {
		t.Fatal("replacing an existing region should succeed")
	}
	v, ok := tbl.Get(1)
	if !ok || v != 200 {
		t.Fatalf("Get(1) = (%d, %v), want (200, true)", v, ok)
	}
	if tbl.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", tbl.Count())
	}

	if !tbl.Put(2, 300) {
		t.Fatal("second distinct region should fit in capacity 2")
	}
	if tbl.Put(3, 400) {
		t.Fatal("third distinct region should fail: table is full")
	}
}

func TestCapsuleTableExpandRemoves(t *testing.T) {
	tbl := NewCapsuleTable[int](4)
	tbl.Put(1, 10)
	tbl.Put(2, 20)
	if !tbl.Remove(1) {
		t.Fatal("Remove(1) should report success")
	}
	if tbl.IsCollapsed(1) {
		t.Fatal("region 1 should no longer be collapsed")
	}
	if !tbl.IsCollapsed(2) {
		t.Fatal("region 2 should still be collapsed")
	}
}

package store

import (
	"bytes"
	"testing"
)

func TestOpenCreatesBucketsAndIsReopenable(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
}

func TestTickRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	want := TickRecord{Tick: 7, WorldHash: 0xdeadbeef, CommandsApplied: 3, CommandsDropped: 1}
	if err := db.PutTick(want); err != nil {
		t.Fatalf("PutTick: %v", err)
	}
	got, found, err := db.GetTick(7)
	if err != nil {
		t.Fatalf("GetTick: %v", err)
	}
	if !found {
		t.Fatal("GetTick: not found")
	}
	if got != want {
		t.Fatalf("GetTick = %+v, want %+v", got, want)
	}

	if _, found, err := db.GetTick(8); err != nil || found {
		t.Fatalf("GetTick(8) = found=%v err=%v, want not found", found, err)
	}
}

func TestDecodeTickRecordRejectsWrongLength(t *testing.T) {
	if _, err := DecodeTickRecord([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a short record")
	}
}

func TestCommandRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	payload := []byte{0xAA, 0xBB, 0xCC}
	if err := db.PutCommand(3, 1, payload); err != nil {
		t.Fatalf("PutCommand: %v", err)
	}
	got, found, err := db.GetCommand(3, 1)
	if err != nil {
		t.Fatalf("GetCommand: %v", err)
	}
	if !found || !bytes.Equal(got, payload) {
		t.Fatalf("GetCommand = %v found=%v, want %v", got, found, payload)
	}

	// Distinct sequence numbers at the same tick do not collide.
	if err := db.PutCommand(3, 2, []byte{0x01}); err != nil {
		t.Fatalf("PutCommand seq 2: %v", err)
	}
	got2, _, err := db.GetCommand(3, 2)
	if err != nil {
		t.Fatalf("GetCommand seq 2: %v", err)
	}
	if bytes.Equal(got2, payload) {
		t.Fatal("sequence 1 and sequence 2 payloads collided")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	blob := []byte("snapshot-blob")
	if err := db.PutSnapshot(42, blob); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}
	got, found, err := db.GetSnapshot(42)
	if err != nil || !found || !bytes.Equal(got, blob) {
		t.Fatalf("GetSnapshot = %v found=%v err=%v, want %v", got, found, err, blob)
	}
}

func TestDesyncBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	blob := []byte("bundle-bytes")
	if err := db.PutDesyncBundle(99, blob); err != nil {
		t.Fatalf("PutDesyncBundle: %v", err)
	}
	got, found, err := db.GetDesyncBundle(99)
	if err != nil || !found || !bytes.Equal(got, blob) {
		t.Fatalf("GetDesyncBundle = %v found=%v err=%v, want %v", got, found, err, blob)
	}
}

func TestOpenRejectsEmptyDir(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected an error for an empty dir")
	}
}

package replay

import (
	"bytes"
	"io"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{UPS: 30, RunID: 42, InstanceID: 7}
	h.IdentityHash = IdentityHash(h.UPS, h.RunID, h.InstanceID)
	h.HasIdentityHash = true

	var buf bytes.Buffer
	w, err := NewWriter(&buf, h)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Header != h {
		t.Fatalf("Header = %+v, want %+v", r.Header, h)
	}
	if !r.Header.VerifyIdentity() {
		t.Fatal("VerifyIdentity failed for a correctly stamped header")
	}
}

func TestHeaderRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOTAREPLAYFILE")
	if _, err := NewReader(buf); err == nil {
		t.Fatal("expected an error for a bad magic")
	}
}

func TestVerifyIdentityDetectsTamperedHash(t *testing.T) {
	h := Header{UPS: 30, RunID: 1, InstanceID: 1, HasIdentityHash: true}
	h.IdentityHash = IdentityHash(h.UPS, h.RunID, h.InstanceID)
	h.IdentityHash[0] ^= 0xFF
	if h.VerifyIdentity() {
		t.Fatal("expected VerifyIdentity to fail on a tampered hash")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	h := Header{UPS: 20, RunID: 1, InstanceID: 1}
	var buf bytes.Buffer
	w, err := NewWriter(&buf, h)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	records := []Record{
		{Tick: 0, SchemaID: 1, SourcePeer: 1, Sequence: 1, Payload: []byte{0xAA}},
		{Tick: 3, SchemaID: 2, SourcePeer: 2, Sequence: 1, Payload: nil},
		{Tick: 3, SchemaID: 2, SourcePeer: 1, Sequence: 2, Payload: []byte("hello")},
	}
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			t.Fatalf("WriteRecord: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	for i, want := range records {
		got, err := r.ReadRecord()
		if err != nil {
			t.Fatalf("ReadRecord[%d]: %v", i, err)
		}
		if got.Tick != want.Tick || got.SchemaID != want.SchemaID ||
			got.SourcePeer != want.SourcePeer || got.Sequence != want.Sequence ||
			!bytes.Equal(got.Payload, want.Payload) {
			t.Fatalf("record[%d] = %+v, want %+v", i, got, want)
		}
	}
	if _, err := r.ReadRecord(); err != io.EOF {
		t.Fatalf("expected io.EOF after the last record, got %v", err)
	}
}

// Package replay implements the tick/command replay file contract named by
// spec §6: an ordered stream of (tick, schema_id, payload_len,
// payload_bytes) records behind a prefix carrying UPS, run id, instance
// id, and an optional identity hash. It is an external collaborator to
// the runtime kernel (spec §1) — the kernel only ever sees the resulting
// Command values, fed through its ordinary Enqueue path — so nothing here
// sits on the authoritative hashing path. The identity hash and the
// desync bundle both use SHA3-256 (golang.org/x/crypto/sha3), mirroring
// the teacher's crypto.DevStdCryptoProvider.SHA3_256 / consensus content
// hashing, kept deliberately off the FNV-1a world-hash accumulator.
package replay

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// magic identifies a replay file; readers reject anything else outright.
var magic = [5]byte{'D', 'R', 'P', 'L', '1'}

// Header is the replay file's fixed prefix.
type Header struct {
	UPS             uint32
	RunID           uint64
	InstanceID      uint64
	HasIdentityHash bool
	IdentityHash    [32]byte
}

// IdentityHash computes the SHA3-256 digest of a header's UPS/RunID/
// InstanceID triple, the value a writer stores in HasIdentityHash/
// IdentityHash and a reader can use to confirm the file matches the run
// it claims to belong to.
func IdentityHash(ups uint32, runID, instanceID uint64) [32]byte {
	var buf [20]byte
	binary.BigEndian.PutUint32(buf[0:4], ups)
	binary.BigEndian.PutUint64(buf[4:12], runID)
	binary.BigEndian.PutUint64(buf[12:20], instanceID)
	return sha3.Sum256(buf[:])
}

// Record is one scheduled command entry in the replay stream.
type Record struct {
	Tick       uint64
	SchemaID   uint32
	SourcePeer uint32
	Sequence   uint64
	Payload    []byte
}

// Writer serializes a header followed by an arbitrary number of records.
type Writer struct {
	w   *bufio.Writer
	out io.Writer
}

// NewWriter wraps w and immediately writes header.
func NewWriter(w io.Writer, header Header) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, header); err != nil {
		return nil, err
	}
	return &Writer{w: bw, out: w}, nil
}

func writeHeader(w *bufio.Writer, h Header) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	var fixed [20]byte
	binary.BigEndian.PutUint32(fixed[0:4], h.UPS)
	binary.BigEndian.PutUint64(fixed[4:12], h.RunID)
	binary.BigEndian.PutUint64(fixed[12:20], h.InstanceID)
	if _, err := w.Write(fixed[:]); err != nil {
		return err
	}
	flag := byte(0)
	if h.HasIdentityHash {
		flag = 1
	}
	if err := w.WriteByte(flag); err != nil {
		return err
	}
	if h.HasIdentityHash {
		if _, err := w.Write(h.IdentityHash[:]); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord appends one record to the stream.
func (rw *Writer) WriteRecord(r Record) error {
	var fixed [28]byte
	binary.BigEndian.PutUint64(fixed[0:8], r.Tick)
	binary.BigEndian.PutUint32(fixed[8:12], r.SchemaID)
	binary.BigEndian.PutUint32(fixed[12:16], r.SourcePeer)
	binary.BigEndian.PutUint64(fixed[16:24], r.Sequence)
	binary.BigEndian.PutUint32(fixed[24:28], uint32(len(r.Payload)))
	if _, err := rw.w.Write(fixed[:]); err != nil {
		return err
	}
	if len(r.Payload) > 0 {
		if _, err := rw.w.Write(r.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Flush pushes any buffered bytes to the underlying writer.
func (rw *Writer) Flush() error { return rw.w.Flush() }

// Reader parses a replay file's header then yields records one at a time.
type Reader struct {
	r      *bufio.Reader
	Header Header
}

// NewReader wraps r, reading and validating the header immediately.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	return &Reader{r: br, Header: h}, nil
}

func readHeader(r *bufio.Reader) (Header, error) {
	var got [5]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return Header{}, fmt.Errorf("replay: read magic: %w", err)
	}
	if got != magic {
		return Header{}, fmt.Errorf("replay: bad magic %q", got)
	}
	var fixed [20]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Header{}, fmt.Errorf("replay: read header: %w", err)
	}
	h := Header{
		UPS:        binary.BigEndian.Uint32(fixed[0:4]),
		RunID:      binary.BigEndian.Uint64(fixed[4:12]),
		InstanceID: binary.BigEndian.Uint64(fixed[12:20]),
	}
	flag, err := r.ReadByte()
	if err != nil {
		return Header{}, fmt.Errorf("replay: read identity flag: %w", err)
	}
	if flag != 0 {
		h.HasIdentityHash = true
		if _, err := io.ReadFull(r, h.IdentityHash[:]); err != nil {
			return Header{}, fmt.Errorf("replay: read identity hash: %w", err)
		}
	}
	return h, nil
}

// ReadRecord returns the next record, or io.EOF once the stream is
// exhausted.
func (rr *Reader) ReadRecord() (Record, error) {
	var fixed [28]byte
	if _, err := io.ReadFull(rr.r, fixed[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Record{}, fmt.Errorf("replay: truncated record header: %w", err)
		}
		return Record{}, err
	}
	rec := Record{
		Tick:       binary.BigEndian.Uint64(fixed[0:8]),
		SchemaID:   binary.BigEndian.Uint32(fixed[8:12]),
		SourcePeer: binary.BigEndian.Uint32(fixed[12:16]),
		Sequence:   binary.BigEndian.Uint64(fixed[16:24]),
	}
	payloadLen := binary.BigEndian.Uint32(fixed[24:28])
	if payloadLen > 0 {
		rec.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(rr.r, rec.Payload); err != nil {
			return Record{}, fmt.Errorf("replay: truncated payload: %w", err)
		}
	}
	return rec, nil
}

// VerifyIdentity reports whether the header's stored identity hash (if
// any) matches the hash recomputed from its own UPS/RunID/InstanceID
// fields. A file with no stored hash trivially verifies.
func (h Header) VerifyIdentity() bool {
	if !h.HasIdentityHash {
		return true
	}
	return h.IdentityHash == IdentityHash(h.UPS, h.RunID, h.InstanceID)
}

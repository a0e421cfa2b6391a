package domain

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// The snapshot wire format is big-endian throughout, matching the world-hash
// byte order spec §4.2 mandates (internal/detid.H64), so a hex dump of a
// snapshot blob reads the same way a hash trace does.

// WriteU32 appends a big-endian uint32.
func WriteU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

// WriteU64 appends a big-endian uint64.
func WriteU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

// WriteI32 appends a signed 32-bit value (e.g. a Q16.16 ratio) as its
// big-endian two's-complement bit pattern.
func WriteI32(buf *bytes.Buffer, v int32) { WriteU32(buf, uint32(v)) }

// ReadU32 consumes a big-endian uint32.
func ReadU32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

// ReadU64 consumes a big-endian uint64.
func ReadU64(r *bytes.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(tmp[:]), nil
}

// ReadI32 consumes a signed 32-bit value written by WriteI32.
func ReadI32(r *bytes.Reader) (int32, error) {
	v, err := ReadU32(r)
	return int32(v), err
}

// EncodeBase appends the four fields every entity shares.
func EncodeBase(buf *bytes.Buffer, b Base) {
	WriteU32(buf, b.ID)
	WriteU32(buf, b.RegionID)
	WriteU32(buf, b.Flags)
	WriteU32(buf, b.ProvenanceID)
}

// DecodeBase consumes a Base written by EncodeBase.
func DecodeBase(r *bytes.Reader) (Base, error) {
	id, err := ReadU32(r)
	if err != nil {
		return Base{}, err
	}
	region, err := ReadU32(r)
	if err != nil {
		return Base{}, err
	}
	flags, err := ReadU32(r)
	if err != nil {
		return Base{}, err
	}
	provenance, err := ReadU32(r)
	if err != nil {
		return Base{}, err
	}
	return Base{ID: id, RegionID: region, Flags: flags, ProvenanceID: provenance}, nil
}

// EncodeArena appends a snapshot of every entry in a, in dense order,
// prefixed by its live count, per spec §8's "reload into a fresh runtime"
// round-trip law: a decoded arena must reproduce identical per-entity
// contents, not just an identical world hash.
func EncodeArena[T Entity](buf *bytes.Buffer, a *Arena[T], encode func(*bytes.Buffer, T)) {
	WriteU32(buf, uint32(a.Count()))
	for i := 0; i < a.Count(); i++ {
		encode(buf, a.At(i))
	}
}

// DecodeArena resets a and refills it from r using decode, preserving dense
// order. It fails if the encoded count exceeds a's fixed capacity, since
// that would indicate a snapshot taken from an incompatible build.
func DecodeArena[T Entity](r *bytes.Reader, a *Arena[T], decode func(*bytes.Reader) (T, error)) error {
	a.Reset()
	count, err := ReadU32(r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		v, err := decode(r)
		if err != nil {
			return err
		}
		if _, ok := a.InitEntry(v); !ok {
			return fmt.Errorf("domain: decoded arena entry %d exceeds capacity %d", i, a.Cap())
		}
	}
	return nil
}

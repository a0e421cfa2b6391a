// Package detid implements the deterministic identity primitives the world
// kernel depends on: a 32-bit symbolic-name hash for mapping fixture strings
// to stable entity IDs, and the 64-bit rolling FNV-1a hash used to compute
// the world hash. Both must produce bit-identical output on every platform
// regardless of endianness or pointer layout.
package detid

import "encoding/binary"

const (
	h32Seed  uint32 = 0x811C9DC5
	h32Prime uint32 = 0x01000193

	h64Offset uint64 = 0xCBF29CE484222325
	h64Prime  uint64 = 0x100000001B3
)

// H32 hashes a symbolic name (e.g. a fixture's "alpha_side") into a stable
// 32-bit ID. Byte-for-byte identical fixtures produce identical IDs across
// platforms; the fold is a multiply-xor FNV-style step.
func H32(s string) uint32 {
	h := h32Seed
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= h32Prime
	}
	return h
}

// H64 is a rolling FNV-1a accumulator over a canonical byte-stream, used to
// compute the world hash. An empty accumulator comes from NewH64, which
// starts at the FNV offset basis; the zero value starts at 0 instead and so
// yields different sums.
type H64 struct {
	state uint64
}

// NewH64 returns a fresh rolling hash accumulator.
func NewH64() *H64 {
	return &H64{state: h64Offset}
}

// WriteBytes folds raw bytes into the accumulator.
func (h *H64) WriteBytes(b []byte) {
	for _, c := range b {
		h.state ^= uint64(c)
		h.state *= h64Prime
	}
}

// WriteU32 folds a big-endian uint32 into the accumulator, per spec §4.2
// ("multi-byte integers are serialized big-endian").
func (h *H64) WriteU32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	h.WriteBytes(buf[:])
}

// WriteU64 folds a big-endian uint64 into the accumulator.
func (h *H64) WriteU64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.WriteBytes(buf[:])
}

// WriteI64 folds a signed 64-bit value (e.g. a Q48.16 accumulator or Q16.16
// ratio widened) as its big-endian two's-complement bit pattern.
func (h *H64) WriteI64(v int64) {
	h.WriteU64(uint64(v))
}

// WriteI32 folds a signed 32-bit value (e.g. a Q16.16 ratio) as its
// big-endian two's-complement bit pattern.
func (h *H64) WriteI32(v int32) {
	h.WriteU32(uint32(v))
}

// Sum returns the current 64-bit hash value without resetting state.
func (h *H64) Sum() uint64 {
	return h.state
}

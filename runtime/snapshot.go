package runtime

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Snapshot is a deep, read-only copy of the runtime's observable counters,
// per spec §4.8's "build_snapshot() returns a deep copy of the observable
// counters and the world hash; it must not mutate any arena."
type Snapshot struct {
	Tick               uint64
	WorldHash          uint64
	UnknownSchemaCount uint64
	PendingCommands    int
}

// BuildSnapshot recomputes the world hash fresh from current kernel state
// (rather than returning the cached rt.WorldHash field) so that repeated
// calls between ticks are themselves a test of the "snapshot building is a
// pure read" invariant: any two snapshots taken without an intervening
// Advance must carry an identical WorldHash.
func (rt *Runtime) BuildSnapshot() Snapshot {
	return Snapshot{
		Tick:               rt.Tick,
		WorldHash:          rt.recomputeWorldHash(),
		UnknownSchemaCount: rt.UnknownSchemaCount,
		PendingCommands:    len(rt.queue),
	}
}

// EncodeSnapshot serializes the tick counter, the world hash, and every
// registered kernel's full state (name-tagged, in registration order) into
// one opaque blob suitable for runtime/store.DB.PutSnapshot. This is the
// real persisted counterpart to BuildSnapshot's lightweight counters: spec
// §8 requires that reloading this blob into a fresh runtime reproduce an
// identical world hash AND identical per-entity arena contents, not just
// the observable scalars BuildSnapshot exposes.
func (rt *Runtime) EncodeSnapshot() []byte {
	buf := &bytes.Buffer{}
	writeU64(buf, rt.Tick)
	writeU64(buf, rt.WorldHash)
	writeU32(buf, uint32(len(rt.kernels)))
	for _, nk := range rt.kernels {
		writeU16(buf, uint16(len(nk.name)))
		buf.WriteString(nk.name)
		state := nk.kernel.EncodeState()
		writeU32(buf, uint32(len(state)))
		buf.Write(state)
	}
	return buf.Bytes()
}

// DecodeSnapshot restores tick and world hash, and dispatches each encoded
// kernel's state blob to the already-registered kernel of the same name.
// Kernel registration order or composition may legitimately differ between
// the runtime that saved the snapshot and the fresh one reloading it (a
// newer build may register a domain the snapshot predates); an encoded
// kernel whose name has no match is skipped rather than treated as an
// error, and a registered kernel the snapshot never mentions is left at its
// freshly-initialized state.
func (rt *Runtime) DecodeSnapshot(data []byte) error {
	r := bytes.NewReader(data)
	tick, err := readU64(r)
	if err != nil {
		return fmt.Errorf("runtime: decode snapshot: tick: %w", err)
	}
	worldHash, err := readU64(r)
	if err != nil {
		return fmt.Errorf("runtime: decode snapshot: world hash: %w", err)
	}
	kernelCount, err := readU32(r)
	if err != nil {
		return fmt.Errorf("runtime: decode snapshot: kernel count: %w", err)
	}
	byName := make(map[string]Kernel, len(rt.kernels))
	for _, nk := range rt.kernels {
		byName[nk.name] = nk.kernel
	}
	for i := uint32(0); i < kernelCount; i++ {
		nameLen, err := readU16(r)
		if err != nil {
			return fmt.Errorf("runtime: decode snapshot: kernel %d name length: %w", i, err)
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return fmt.Errorf("runtime: decode snapshot: kernel %d name: %w", i, err)
		}
		stateLen, err := readU32(r)
		if err != nil {
			return fmt.Errorf("runtime: decode snapshot: kernel %d state length: %w", i, err)
		}
		state := make([]byte, stateLen)
		if _, err := io.ReadFull(r, state); err != nil {
			return fmt.Errorf("runtime: decode snapshot: kernel %d state: %w", i, err)
		}
		k, ok := byName[string(nameBytes)]
		if !ok {
			continue
		}
		if err := k.DecodeState(state); err != nil {
			return fmt.Errorf("runtime: decode snapshot: kernel %q: %w", string(nameBytes), err)
		}
	}
	rt.Tick = tick
	rt.WorldHash = worldHash
	return nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func readU16(r *bytes.Reader) (uint16, error) {
	var tmp [2]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(tmp[:]), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(tmp[:]), nil
}

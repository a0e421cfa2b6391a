package replay

import (
	"io"

	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/runtime"
)

// LoadAll reads every record from r and enqueues it into rt, returning the
// header and the number of records enqueued. The runtime's own Advance
// loop takes it from there — replay ingestion never drives resolve
// directly, it only ever populates the same command queue live input
// would (spec §6: "the kernel consumes these via the same command path
// as live input").
func LoadAll(r io.Reader, rt *runtime.Runtime) (Header, int, error) {
	rr, err := NewReader(r)
	if err != nil {
		return Header{}, 0, err
	}
	count := 0
	for {
		rec, err := rr.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rr.Header, count, err
		}
		rt.Enqueue(runtime.Command{
			ScheduledTick: rec.Tick,
			SchemaID:      rec.SchemaID,
			SourcePeer:    rec.SourcePeer,
			Sequence:      rec.Sequence,
			Payload:       rec.Payload,
		})
		count++
	}
	return rr.Header, count, nil
}

// TickHash is one line of per-tick output a driver can compare against a
// peer's reported hash.
type TickHash struct {
	Tick      uint64
	WorldHash uint64
}

// DriveToTick repeatedly calls Advance(1, b) until rt.Tick reaches
// targetTick, returning the hash observed at every tick along the way.
// Re-running the same replay file through DriveToTick must reproduce an
// identical sequence of hashes (spec §6, §8).
func DriveToTick(rt *runtime.Runtime, targetTick uint64, b *budget.Budget) []TickHash {
	var hashes []TickHash
	for rt.Tick < targetTick {
		res := rt.Advance(1, b)
		hashes = append(hashes, TickHash{Tick: res.Tick, WorldHash: res.WorldHash})
	}
	return hashes
}

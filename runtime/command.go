package runtime

import "sort"

// Command is a single scheduled instruction into the runtime, per spec
// §4.8's command contract: (scheduled_tick, schema_id, schema_version,
// payload_bytes, source_peer). Sequence disambiguates commands that tie on
// (scheduled_tick, source_peer), matching the ordering key verbatim.
type Command struct {
	ScheduledTick uint64
	SchemaID      uint32
	SchemaVersion uint32
	Payload       []byte
	SourcePeer    uint32
	Sequence      uint64
}

// SchemaHandler applies a validated command's payload to the runtime.
// Returning an error marks the command as a recoverable failure (spec §7:
// malformed payload); it is dropped and counted, never propagated to the
// caller of Advance.
type SchemaHandler func(rt *Runtime, cmd Command) error

// AuthorityPolicy gates whether a command may be dispatched at all, per
// spec §4.8 step 1 ("commands gated by authority policy ... accepted only
// if the configured session role permits them"). The policy wiring itself
// (server-auth vs lockstep vs single) is an external collaborator per spec
// §1; the runtime only exposes this injection point.
type AuthorityPolicy func(cmd Command) bool

func sortQueue(q []Command) {
	sort.SliceStable(q, func(i, j int) bool {
		a, b := q[i], q[j]
		if a.ScheduledTick != b.ScheduledTick {
			return a.ScheduledTick < b.ScheduledTick
		}
		if a.SourcePeer != b.SourcePeer {
			return a.SourcePeer < b.SourcePeer
		}
		return a.Sequence < b.Sequence
	})
}

package runtime

import (
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/detid"
)

// CommandErrorReason is the closed taxonomy of recoverable command
// failures spec §7 names: unknown schema, malformed payload, authority
// violation.
type CommandErrorReason string

const (
	CmdErrorUnknownSchema     CommandErrorReason = "UNKNOWN_SCHEMA"
	CmdErrorMalformedPayload  CommandErrorReason = "MALFORMED_PAYLOAD"
	CmdErrorAuthorityViolation CommandErrorReason = "AUTHORITY_VIOLATION"
)

// CommandError records one dropped command and why, for diagnostics; the
// runtime never returns these from Advance, it only accumulates them.
type CommandError struct {
	Command Command
	Reason  CommandErrorReason
}

// TickResult summarizes one Advance call: how many commands applied or
// were dropped, and the resulting world hash.
type TickResult struct {
	Tick               uint64
	CommandsApplied    uint32
	CommandsDropped    uint32
	WorldHash          uint64
}

// Runtime owns the monotonic tick counter, the command queue, the schema
// registry, and the fixed, stably-ordered list of domain kernels it drives
// each tick, per spec §4.8.
type Runtime struct {
	Tick      uint64
	WorldHash uint64

	kernels []namedKernel
	queue   []Command
	schemas map[uint32]SchemaHandler

	authority AuthorityPolicy

	UnknownSchemaCount uint64
	DroppedCommands    []CommandError
}

// NewRuntime returns an empty runtime at tick 0 with no registered domains
// or schemas. The default authority policy admits every command (the
// out-of-scope policy wiring point spec §1 defers to an external
// collaborator).
func NewRuntime() *Runtime {
	return &Runtime{
		schemas:   make(map[uint32]SchemaHandler),
		authority: func(Command) bool { return true },
	}
}

// RegisterKernel adds a domain to the fixed, stably-ordered drive list.
// Registration order is the iteration order used for both resolve
// dispatch and world-hash streaming, satisfying spec §4.8's "stable
// order" requirement.
func (rt *Runtime) RegisterKernel(name string, k Kernel) {
	rt.kernels = append(rt.kernels, namedKernel{name: name, kernel: k})
}

// RegisterSchema installs the handler for a schema id. Re-registering an
// id replaces the prior handler.
func (rt *Runtime) RegisterSchema(id uint32, h SchemaHandler) {
	rt.schemas[id] = h
}

// SetAuthorityPolicy overrides the default accept-everything policy.
func (rt *Runtime) SetAuthorityPolicy(p AuthorityPolicy) { rt.authority = p }

// Enqueue adds a command to the pending queue.
func (rt *Runtime) Enqueue(cmd Command) {
	rt.queue = append(rt.queue, cmd)
}

// PendingCount reports how many commands are still queued (not yet due).
func (rt *Runtime) PendingCount() int { return len(rt.queue) }

// MaxScheduledTick returns one past the highest ScheduledTick among
// currently pending commands, or 0 if the queue is empty. A driver with no
// explicit tick target uses this to run exactly far enough to dispatch
// every loaded command at least once.
func (rt *Runtime) MaxScheduledTick() uint64 {
	var max uint64
	for _, cmd := range rt.queue {
		if cmd.ScheduledTick >= max {
			max = cmd.ScheduledTick + 1
		}
	}
	return max
}

// Advance drains every due command (scheduled_tick <= current tick, in
// (scheduled_tick, source_peer, sequence) order), invokes resolve on every
// active domain kernel in registration order, advances the tick counter by
// tickDelta, and recomputes the world hash, per spec §4.8 steps 1-3.
func (rt *Runtime) Advance(tickDelta uint64, b *budget.Budget) TickResult {
	if tickDelta < 1 {
		tickDelta = 1
	}

	sortQueue(rt.queue)
	var applied, dropped uint32
	remaining := rt.queue[:0]
	for _, cmd := range rt.queue {
		if cmd.ScheduledTick > rt.Tick {
			remaining = append(remaining, cmd)
			continue
		}
		if err := rt.dispatch(cmd); err != nil {
			dropped++
			continue
		}
		applied++
	}
	rt.queue = remaining

	for _, nk := range rt.kernels {
		if !nk.kernel.Active() {
			continue
		}
		nk.kernel.Resolve(0, rt.Tick, tickDelta, b)
	}

	rt.Tick += tickDelta
	rt.WorldHash = rt.recomputeWorldHash()

	return TickResult{
		Tick:            rt.Tick,
		CommandsApplied: applied,
		CommandsDropped: dropped,
		WorldHash:       rt.WorldHash,
	}
}

func (rt *Runtime) dispatch(cmd Command) error {
	if !rt.authority(cmd) {
		rt.recordDrop(cmd, CmdErrorAuthorityViolation)
		return errDropped
	}
	handler, ok := rt.schemas[cmd.SchemaID]
	if !ok {
		rt.UnknownSchemaCount++
		rt.recordDrop(cmd, CmdErrorUnknownSchema)
		return errDropped
	}
	if err := handler(rt, cmd); err != nil {
		rt.recordDrop(cmd, CmdErrorMalformedPayload)
		return errDropped
	}
	return nil
}

func (rt *Runtime) recordDrop(cmd Command, reason CommandErrorReason) {
	rt.DroppedCommands = append(rt.DroppedCommands, CommandError{Command: cmd, Reason: reason})
}

// errDropped is a sentinel; its text never surfaces, only its presence
// (dispatch always classifies the real reason into recordDrop first).
var errDropped = &droppedError{}

type droppedError struct{}

func (*droppedError) Error() string { return "command dropped" }

// recomputeWorldHash streams every active kernel's observable state, in
// registration order, through a fresh H64 accumulator.
func (rt *Runtime) recomputeWorldHash() uint64 {
	h := detid.NewH64()
	h.WriteU64(rt.Tick)
	for _, nk := range rt.kernels {
		if !nk.kernel.Active() {
			continue
		}
		nk.kernel.StreamHash(h)
	}
	return h.Sum()
}

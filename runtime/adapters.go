package runtime

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/domain/conflict"
	"github.com/Julesc013/dominium-sub020/domain/economy"
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/detid"
)

// ConflictKernel adapts a *conflict.Domain to the runtime's Kernel
// interface, exposing only the uniform lifecycle surface the tick loop
// needs; callers that need conflict-specific results (ResolveResult,
// QueryForce, ...) use the wrapped Domain directly.
type ConflictKernel struct {
	Domain *conflict.Domain
}

func (k ConflictKernel) Active() bool { return k.Domain.Active() }

func (k ConflictKernel) Resolve(region uint32, tick uint64, tickDelta uint64, b *budget.Budget) domain.ResolveMeta {
	return k.Domain.Resolve(region, tick, tickDelta, b).ResolveMeta
}

func (k ConflictKernel) StreamHash(h *detid.H64) { k.Domain.StreamHash(h) }

func (k ConflictKernel) EncodeState() []byte { return k.Domain.EncodeState() }

func (k ConflictKernel) DecodeState(data []byte) error { return k.Domain.DecodeState(data) }

func (k ConflictKernel) Free() { k.Domain.Free() }

// EconomyKernel adapts a *economy.Domain to the runtime's Kernel interface.
type EconomyKernel struct {
	Domain *economy.Domain
}

func (k EconomyKernel) Active() bool { return k.Domain.Active() }

func (k EconomyKernel) Resolve(region uint32, tick uint64, tickDelta uint64, b *budget.Budget) domain.ResolveMeta {
	return k.Domain.Resolve(region, tick, tickDelta, b).ResolveMeta
}

func (k EconomyKernel) StreamHash(h *detid.H64) { k.Domain.StreamHash(h) }

func (k EconomyKernel) EncodeState() []byte { return k.Domain.EncodeState() }

func (k EconomyKernel) DecodeState(data []byte) error { return k.Domain.DecodeState(data) }

func (k EconomyKernel) Free() { k.Domain.Free() }

package conflict

import (
	"sort"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/detid"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// ResolveResult is the conflict domain's per-tick advancement output, the
// exemplar algorithm of spec §4.6.
type ResolveResult struct {
	domain.ResolveMeta
	Counts        CapsuleCounts
	ReadinessAvg  fx.Q16
	MoraleAvg     fx.Q16
	LegitimacyAvg fx.Q16
}

const quarterLowMorale = fx.Q16(0x4000) // 1/4 turn-style ratio threshold per spec §4.6.1
const riskModifierThreshold = fx.Q16(0x8000) // 1/2

// Resolve advances region (0 = all regions) by tick_delta ticks at the
// given tick, per spec §4.6.
func (d *Domain) Resolve(region uint32, tick uint64, tickDelta uint64, b *budget.Budget) ResolveResult {
	if !d.Active() {
		return ResolveResult{ResolveMeta: domain.RefusedResolve(budget.ReasonDomainInactive)}
	}
	if !b.ConsumeTier(d.policy, budget.TierAnalytic) {
		return ResolveResult{ResolveMeta: domain.RefusedResolve(budget.ReasonBudget)}
	}

	if region != 0 {
		if c, ok := d.Capsules.Get(region); ok {
			return capsuleResolveResult(c)
		}
	}

	if tickDelta < 1 {
		tickDelta = 1
	}

	res := ResolveResult{ResolveMeta: domain.ResolveMeta{OK: true, RefusalReason: budget.ReasonNone}}

	var readinessSum, moraleSum, legitimacySum fx.Q48
	var readinessSeen, moraleSeen, legitimacySeen uint32

	firstBudgetHit := false
	hitBudget := func() {
		res.Flags |= domain.ResultPartial
		if !firstBudgetHit {
			res.RefusalReason = budget.ReasonBudget
			firstBudgetHit = true
		}
	}

	d.Records.EachInRegion(region, func(_ int, r Record) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Records++
		return true
	})

	d.Sides.EachInRegion(region, func(_ int, s Side) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Sides++
		readinessSum = readinessSum.Add(fx.Q48FromQ16(s.ReadinessLevel))
		readinessSeen++
		if s.LogisticsDependencyID == 0 {
			res.Flags |= domain.ResultShortage
		}
		return true
	})

	dueEvents := make([]int, 0)
	d.Events.EachInRegion(region, func(idx int, e Event) bool {
		if !b.ConsumeTier(d.policy, budget.TierMedium) {
			hitBudget()
			return false
		}
		res.Counts.Events++
		if e.ScheduledTick <= tick && e.Flags&domain.FlagApplied == 0 {
			dueEvents = append(dueEvents, idx)
		}
		return true
	})

	d.Forces.EachInRegion(region, func(_ int, f Force) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Forces++
		readinessSum = readinessSum.Add(fx.Q48FromQ16(f.ReadinessLevel))
		readinessSeen++
		moraleSum = moraleSum.Add(fx.Q48FromQ16(f.MoraleLevel))
		moraleSeen++
		if f.LogisticsDependencyID == 0 {
			res.Flags |= domain.ResultShortage
		}
		if f.MoraleLevel > 0 && f.MoraleLevel < quarterLowMorale {
			res.Flags |= domain.ResultLowMorale
		}
		return true
	})

	d.Engagements.EachInRegion(region, func(_ int, _ Engagement) bool {
		if !b.ConsumeTier(d.policy, budget.TierCoarse) {
			hitBudget()
			return false
		}
		res.Counts.Engagements++
		return true
	})

	d.Outcomes.EachInRegion(region, func(idx int, o Outcome) bool {
		if !b.ConsumeTier(d.policy, budget.TierCoarse) {
			hitBudget()
			return false
		}
		res.Counts.Outcomes++
		if o.ResolutionTick <= tick && o.Flags&domain.FlagApplied == 0 {
			o.Flags |= domain.FlagApplied
			d.Outcomes.Set(idx, o)
		}
		return true
	})

	d.Occupations.EachInRegion(region, func(_ int, o Occupation) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Occupations++
		legitimacySum = legitimacySum.Add(fx.Q48FromQ16(o.LegitimacySupport))
		legitimacySeen++
		if o.LegitimacySupport > 0 && o.LegitimacySupport < quarterLowMorale {
			res.Flags |= domain.ResultIllegitimate
		}
		if o.Status == StatusDegrading {
			res.Flags |= domain.ResultResistance
		}
		return true
	})

	d.Resistances.EachInRegion(region, func(idx int, r Resistance) bool {
		if !b.ConsumeTier(d.policy, budget.TierCoarse) {
			hitBudget()
			return false
		}
		res.Counts.Resistances++
		if r.ResolutionTick <= tick && r.Flags&domain.FlagApplied == 0 {
			r.Flags |= domain.FlagApplied
			d.Resistances.Set(idx, r)
		}
		return true
	})

	d.MoraleFields.EachInRegion(region, func(idx int, m MoraleField) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.MoraleFields++
		moraleSum = moraleSum.Add(fx.Q48FromQ16(m.MoraleLevel))
		moraleSeen++
		if m.DecayRate > 0 && m.MoraleLevel > 0 {
			decay := m.MoraleLevel.Mul(m.DecayRate)
			scaled := fx.Q48FromQ16(decay).Mul(fx.Q48FromInt(int64(tickDelta))).ToQ16()
			m.MoraleLevel = m.MoraleLevel.Sub(scaled)
			if m.MoraleLevel < 0 {
				m.MoraleLevel = 0
			}
			res.Flags |= domain.ResultDecaying
			d.MoraleFields.Set(idx, m)
		}
		return true
	})

	d.Weapons.EachInRegion(region, func(_ int, w Weapon) bool {
		if !b.ConsumeTier(d.policy, budget.TierMedium) {
			hitBudget()
			return false
		}
		res.Counts.Weapons++
		if w.RiskProfileID != 0 || w.RiskModifier >= riskModifierThreshold {
			res.Flags |= domain.ResultRisk
		}
		return true
	})

	// Event dispatch: due events are sorted by (order_key, id) with a
	// stable sort, then applied in that order (spec §4.6 step 5).
	sort.SliceStable(dueEvents, func(i, j int) bool {
		a, b2 := d.Events.At(dueEvents[i]), d.Events.At(dueEvents[j])
		if a.OrderKey != b2.OrderKey {
			return a.OrderKey < b2.OrderKey
		}
		return a.Base.ID < b2.Base.ID
	})
	for _, idx := range dueEvents {
		e := d.Events.At(idx)
		e.Flags |= domain.FlagApplied
		applyEventStatus(d, e)
		setEventResultFlags(&res, e.Type)
		d.Events.Set(idx, e)
		res.EventAppliedCount++
	}

	if readinessSeen > 0 {
		res.ReadinessAvg = readinessSum.Div(fx.Q48FromInt(int64(readinessSeen))).ToQ16().Clamp01()
	}
	if moraleSeen > 0 {
		res.MoraleAvg = moraleSum.Div(fx.Q48FromInt(int64(moraleSeen))).ToQ16().Clamp01()
	}
	if legitimacySeen > 0 {
		res.LegitimacyAvg = legitimacySum.Div(fx.Q48FromInt(int64(legitimacySeen))).ToQ16().Clamp01()
	}

	res.ResolveHash = computeResolveHash(res)
	return res
}

// eventStatusTable maps an event type to the conflict status it drives the
// owning record to. EventResistance deliberately leaves status untouched
// (only the RESISTANCE flag fires) per spec §8 scenario #3.
var eventStatusTable = map[EventType]Status{
	EventDegrade: StatusDegrading,
	EventResolve: StatusResolved,
}

func applyEventStatus(d *Domain, e Event) {
	newStatus, ok := eventStatusTable[e.Type]
	if !ok {
		return
	}
	if idx, found := d.Records.FindIndexByID(e.ConflictID); found {
		r := d.Records.At(idx)
		r.Status = newStatus
		d.Records.Set(idx, r)
	}
}

func setEventResultFlags(res *ResolveResult, t EventType) {
	switch t {
	case EventResistance:
		res.Flags |= domain.ResultResistance
	case EventDegrade:
		res.Flags |= domain.ResultIllegitimate
	}
}

func capsuleResolveResult(c Capsule) ResolveResult {
	return ResolveResult{
		ResolveMeta: domain.ResolveMeta{
			OK:    true,
			Flags: domain.ResultPartial,
		},
		Counts:        c.Counts,
		ReadinessAvg:  c.ReadinessAvg,
		MoraleAvg:     c.MoraleAvg,
		LegitimacyAvg: c.LegitimacyAvg,
	}
}

// computeResolveHash folds the result's observable fields into a rolling
// hash so two independent runs against identical state can compare a
// single scalar, per spec §8 scenario #1.
func computeResolveHash(res ResolveResult) uint64 {
	h := detid.NewH64()
	h.WriteU32(res.Counts.Records)
	h.WriteU32(res.Counts.Sides)
	h.WriteU32(res.Counts.Events)
	h.WriteU32(res.Counts.Forces)
	h.WriteU32(res.Counts.Engagements)
	h.WriteU32(res.Counts.Outcomes)
	h.WriteU32(res.Counts.Occupations)
	h.WriteU32(res.Counts.Resistances)
	h.WriteU32(res.Counts.MoraleFields)
	h.WriteU32(res.Counts.Weapons)
	h.WriteI32(int32(res.ReadinessAvg))
	h.WriteI32(int32(res.MoraleAvg))
	h.WriteI32(int32(res.LegitimacyAvg))
	h.WriteU32(res.Flags)
	h.WriteU32(res.EventAppliedCount)
	return h.Sum()
}

package conflict

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// ForceSample is the per-entity read returned by QueryForce, per spec
// §4.5's uniform single-entity-read skeleton.
type ForceSample struct {
	Meta                  domain.Meta
	ID                    uint32
	RegionID              uint32
	Collapsed             bool
	ReadinessLevel        fx.Q16
	MoraleLevel           fx.Q16
	LogisticsDependencyID uint32
}

// QueryForce implements spec §4.5's skeleton for a single force read.
func (d *Domain) QueryForce(id uint32, b *budget.Budget) ForceSample {
	if !d.Active() {
		return ForceSample{Meta: domain.Refused(budget.ReasonDomainInactive, *b)}
	}
	cost := d.policy.Cost(budget.TierFull)
	if !b.Consume(cost) {
		return ForceSample{Meta: domain.Refused(budget.ReasonBudget, *b)}
	}
	idx, ok := d.Forces.FindIndexByID(id)
	if !ok {
		return ForceSample{Meta: domain.Refused(budget.EntityMissing("FORCE"), *b)}
	}
	f := d.Forces.At(idx)
	if d.Capsules.IsCollapsed(f.RegionID) {
		return ForceSample{
			Meta:      domain.OK(domain.ConfidenceUnknown, cost, *b),
			ID:        f.ID,
			RegionID:  f.RegionID,
			Collapsed: true,
		}
	}
	return ForceSample{
		Meta:                  domain.OK(domain.ConfidenceExact, cost, *b),
		ID:                    f.ID,
		RegionID:              f.RegionID,
		ReadinessLevel:        f.ReadinessLevel,
		MoraleLevel:           f.MoraleLevel,
		LogisticsDependencyID: f.LogisticsDependencyID,
	}
}

// RegionSample is a region-aggregate read, per spec §4.5's "region
// aggregate read" algorithm.
type RegionSample struct {
	Meta          domain.Meta
	RegionID      uint32
	Partial       bool
	ForceCount    uint32
	SideCount     uint32
	ReadinessAvg  fx.Q16
	MoraleAvg     fx.Q16
	LegitimacyAvg fx.Q16
}

// QueryRegion aggregates readiness/morale/legitimacy across every arena
// filtered by region, charging the analytic tier once up front and the
// coarse tier per accepted element.
func (d *Domain) QueryRegion(region uint32, b *budget.Budget) RegionSample {
	if !d.Active() {
		return RegionSample{Meta: domain.Refused(budget.ReasonDomainInactive, *b)}
	}
	cost := d.policy.Cost(budget.TierAnalytic)
	if !b.Consume(cost) {
		return RegionSample{Meta: domain.Refused(budget.ReasonBudget, *b)}
	}

	if c, ok := d.Capsules.Get(region); ok {
		return RegionSample{
			Meta:          domain.OK(domain.ConfidenceUnknown, cost, *b),
			RegionID:      region,
			Partial:       true,
			ForceCount:    c.Counts.Forces,
			SideCount:     c.Counts.Sides,
			ReadinessAvg:  c.ReadinessAvg,
			MoraleAvg:     c.MoraleAvg,
			LegitimacyAvg: c.LegitimacyAvg,
		}
	}

	res := RegionSample{RegionID: region}
	var readinessSum, moraleSum, legitimacySum fx.Q48
	var readinessSeen, moraleSeen, legitimacySeen uint32

	d.Sides.EachInRegion(region, func(_ int, s Side) bool {
		if !b.Consume(d.policy.Cost(budget.TierCoarse)) {
			res.Partial = true
			return false
		}
		res.SideCount++
		readinessSum = readinessSum.Add(fx.Q48FromQ16(s.ReadinessLevel))
		readinessSeen++
		return true
	})
	d.Forces.EachInRegion(region, func(_ int, f Force) bool {
		if !b.Consume(d.policy.Cost(budget.TierCoarse)) {
			res.Partial = true
			return false
		}
		res.ForceCount++
		readinessSum = readinessSum.Add(fx.Q48FromQ16(f.ReadinessLevel))
		readinessSeen++
		moraleSum = moraleSum.Add(fx.Q48FromQ16(f.MoraleLevel))
		moraleSeen++
		return true
	})
	d.Occupations.EachInRegion(region, func(_ int, o Occupation) bool {
		if !b.Consume(d.policy.Cost(budget.TierCoarse)) {
			res.Partial = true
			return false
		}
		legitimacySum = legitimacySum.Add(fx.Q48FromQ16(o.LegitimacySupport))
		legitimacySeen++
		return true
	})

	if readinessSeen > 0 {
		res.ReadinessAvg = readinessSum.Div(fx.Q48FromInt(int64(readinessSeen))).ToQ16().Clamp01()
	}
	if moraleSeen > 0 {
		res.MoraleAvg = moraleSum.Div(fx.Q48FromInt(int64(moraleSeen))).ToQ16().Clamp01()
	}
	if legitimacySeen > 0 {
		res.LegitimacyAvg = legitimacySum.Div(fx.Q48FromInt(int64(legitimacySeen))).ToQ16().Clamp01()
	}

	res.Meta = domain.OK(domain.ConfidenceExact, cost, *b)
	return res
}

package conflict

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// CapsuleCounts tallies each entity kind observed while collapsing a
// region, in the same fixed arena order resolve uses.
type CapsuleCounts struct {
	Records, Sides, Events, Forces, Engagements uint32
	Outcomes, Occupations, Resistances          uint32
	MoraleFields, Weapons                       uint32
}

// Capsule is the statistical summary stored for a collapsed conflict
// region, per spec §3.3/§4.7.
type Capsule struct {
	Counts             CapsuleCounts
	ReadinessAvg       fx.Q16
	MoraleAvg          fx.Q16
	LegitimacyAvg      fx.Q16
	ReadinessHistogram domain.Histogram4
}

// CollapseRegion collapses region into a capsule, per spec §4.7. Region 0
// ("all regions") is rejected. Collapsing an already-collapsed region is a
// no-op success (idempotent). Returns false for region 0, or when the
// capsule table is full and region is not already present.
func (d *Domain) CollapseRegion(region uint32) bool {
	if region == 0 {
		return false
	}
	if d.Capsules.IsCollapsed(region) {
		return true
	}

	var c Capsule
	var readinessSum, moraleSum, legitimacySum fx.Q48
	var readinessSeen, moraleSeen, legitimacySeen uint32
	var readinessRaw [4]uint32

	d.Records.EachInRegion(region, func(_ int, _ Record) bool { c.Counts.Records++; return true })
	d.Sides.EachInRegion(region, func(_ int, s Side) bool {
		c.Counts.Sides++
		readinessSum = readinessSum.Add(fx.Q48FromQ16(s.ReadinessLevel))
		readinessSeen++
		c.ReadinessHistogram.Observe(&readinessRaw, s.ReadinessLevel)
		return true
	})
	d.Events.EachInRegion(region, func(_ int, _ Event) bool { c.Counts.Events++; return true })
	d.Forces.EachInRegion(region, func(_ int, f Force) bool {
		c.Counts.Forces++
		readinessSum = readinessSum.Add(fx.Q48FromQ16(f.ReadinessLevel))
		readinessSeen++
		moraleSum = moraleSum.Add(fx.Q48FromQ16(f.MoraleLevel))
		moraleSeen++
		c.ReadinessHistogram.Observe(&readinessRaw, f.ReadinessLevel)
		return true
	})
	d.Engagements.EachInRegion(region, func(_ int, _ Engagement) bool { c.Counts.Engagements++; return true })
	d.Outcomes.EachInRegion(region, func(_ int, _ Outcome) bool { c.Counts.Outcomes++; return true })
	d.Occupations.EachInRegion(region, func(_ int, o Occupation) bool {
		c.Counts.Occupations++
		legitimacySum = legitimacySum.Add(fx.Q48FromQ16(o.LegitimacySupport))
		legitimacySeen++
		return true
	})
	d.Resistances.EachInRegion(region, func(_ int, _ Resistance) bool { c.Counts.Resistances++; return true })
	d.MoraleFields.EachInRegion(region, func(_ int, m MoraleField) bool {
		c.Counts.MoraleFields++
		moraleSum = moraleSum.Add(fx.Q48FromQ16(m.MoraleLevel))
		moraleSeen++
		return true
	})
	d.Weapons.EachInRegion(region, func(_ int, _ Weapon) bool { c.Counts.Weapons++; return true })

	if readinessSeen > 0 {
		c.ReadinessAvg = readinessSum.Div(fx.Q48FromInt(int64(readinessSeen))).ToQ16().Clamp01()
	}
	if moraleSeen > 0 {
		c.MoraleAvg = moraleSum.Div(fx.Q48FromInt(int64(moraleSeen))).ToQ16().Clamp01()
	}
	if legitimacySeen > 0 {
		c.LegitimacyAvg = legitimacySum.Div(fx.Q48FromInt(int64(legitimacySeen))).ToQ16().Clamp01()
	}
	c.ReadinessHistogram.Finalize(readinessRaw, readinessSeen)

	return d.Capsules.Put(region, c)
}

// ExpandRegion removes region's capsule, re-honoring the original entities
// as the truth (they were never deleted). Reports whether a capsule was
// present.
func (d *Domain) ExpandRegion(region uint32) bool {
	return d.Capsules.Remove(region)
}

package conflict

import "github.com/Julesc013/dominium-sub020/internal/detid"

// StreamHash feeds every entity's identifying and observable fields through
// h in fixed arena order, per spec §4.2: "the world hash is computed by
// feeding, in entity-arena order, each entity's identifying and observable
// fields (id, flags, ratios, Q48 accumulators) through H64."
func (d *Domain) StreamHash(h *detid.H64) {
	d.Records.Each(func(_ int, r Record) bool {
		h.WriteU32(r.ID)
		h.WriteU32(r.Flags)
		h.WriteU32(uint32(r.Status))
		return true
	})
	d.Sides.Each(func(_ int, s Side) bool {
		h.WriteU32(s.ID)
		h.WriteU32(s.Flags)
		h.WriteI32(int32(s.ReadinessLevel))
		h.WriteU32(s.LogisticsDependencyID)
		return true
	})
	d.Events.Each(func(_ int, e Event) bool {
		h.WriteU32(e.ID)
		h.WriteU32(e.Flags)
		h.WriteU32(e.OrderKey)
		h.WriteU32(uint32(e.Type))
		return true
	})
	d.Forces.Each(func(_ int, f Force) bool {
		h.WriteU32(f.ID)
		h.WriteU32(f.Flags)
		h.WriteI32(int32(f.ReadinessLevel))
		h.WriteI32(int32(f.MoraleLevel))
		return true
	})
	d.Engagements.Each(func(_ int, e Engagement) bool {
		h.WriteU32(e.ID)
		h.WriteU32(e.Flags)
		return true
	})
	d.Outcomes.Each(func(_ int, o Outcome) bool {
		h.WriteU32(o.ID)
		h.WriteU32(o.Flags)
		return true
	})
	d.Occupations.Each(func(_ int, o Occupation) bool {
		h.WriteU32(o.ID)
		h.WriteU32(o.Flags)
		h.WriteI32(int32(o.LegitimacySupport))
		h.WriteU32(uint32(o.Status))
		return true
	})
	d.Resistances.Each(func(_ int, r Resistance) bool {
		h.WriteU32(r.ID)
		h.WriteU32(r.Flags)
		h.WriteI32(int32(r.Level))
		return true
	})
	d.MoraleFields.Each(func(_ int, m MoraleField) bool {
		h.WriteU32(m.ID)
		h.WriteU32(m.Flags)
		h.WriteI32(int32(m.MoraleLevel))
		return true
	})
	d.Weapons.Each(func(_ int, w Weapon) bool {
		h.WriteU32(w.ID)
		h.WriteU32(w.Flags)
		h.WriteI32(int32(w.IntegrityLevel))
		h.WriteI32(int32(w.RiskModifier))
		return true
	})
}

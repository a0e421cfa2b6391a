package conflict

import (
	"bytes"
	"fmt"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// EncodeState serializes the domain's lifecycle state and every arena's full
// entity contents (not merely the hash-relevant field subset StreamHash
// exposes), per spec §8's save/reload round-trip law.
func (d *Domain) EncodeState() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(d.existence))
	buf.WriteByte(byte(d.archival))
	domain.EncodeArena(buf, d.Records, encodeRecord)
	domain.EncodeArena(buf, d.Sides, encodeSide)
	domain.EncodeArena(buf, d.Events, encodeEvent)
	domain.EncodeArena(buf, d.Forces, encodeForce)
	domain.EncodeArena(buf, d.Engagements, encodeEngagement)
	domain.EncodeArena(buf, d.Outcomes, encodeOutcome)
	domain.EncodeArena(buf, d.Occupations, encodeOccupation)
	domain.EncodeArena(buf, d.Resistances, encodeResistance)
	domain.EncodeArena(buf, d.MoraleFields, encodeMoraleField)
	domain.EncodeArena(buf, d.Weapons, encodeWeapon)
	return buf.Bytes()
}

// DecodeState restores the domain's lifecycle state and every arena from a
// blob produced by EncodeState. Arena capacities must match the encoding
// build's; a mismatch surfaces as an arena-capacity error rather than silent
// truncation.
func (d *Domain) DecodeState(data []byte) error {
	r := bytes.NewReader(data)
	existence, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("conflict: decode state: existence: %w", err)
	}
	archival, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("conflict: decode state: archival: %w", err)
	}
	if err := domain.DecodeArena(r, d.Records, decodeRecord); err != nil {
		return fmt.Errorf("conflict: decode state: records: %w", err)
	}
	if err := domain.DecodeArena(r, d.Sides, decodeSide); err != nil {
		return fmt.Errorf("conflict: decode state: sides: %w", err)
	}
	if err := domain.DecodeArena(r, d.Events, decodeEvent); err != nil {
		return fmt.Errorf("conflict: decode state: events: %w", err)
	}
	if err := domain.DecodeArena(r, d.Forces, decodeForce); err != nil {
		return fmt.Errorf("conflict: decode state: forces: %w", err)
	}
	if err := domain.DecodeArena(r, d.Engagements, decodeEngagement); err != nil {
		return fmt.Errorf("conflict: decode state: engagements: %w", err)
	}
	if err := domain.DecodeArena(r, d.Outcomes, decodeOutcome); err != nil {
		return fmt.Errorf("conflict: decode state: outcomes: %w", err)
	}
	if err := domain.DecodeArena(r, d.Occupations, decodeOccupation); err != nil {
		return fmt.Errorf("conflict: decode state: occupations: %w", err)
	}
	if err := domain.DecodeArena(r, d.Resistances, decodeResistance); err != nil {
		return fmt.Errorf("conflict: decode state: resistances: %w", err)
	}
	if err := domain.DecodeArena(r, d.MoraleFields, decodeMoraleField); err != nil {
		return fmt.Errorf("conflict: decode state: moralefields: %w", err)
	}
	if err := domain.DecodeArena(r, d.Weapons, decodeWeapon); err != nil {
		return fmt.Errorf("conflict: decode state: weapons: %w", err)
	}
	d.existence = domain.ExistenceState(existence)
	d.archival = domain.ArchivalState(archival)
	return nil
}

func encodeRecord(buf *bytes.Buffer, r Record) {
	domain.EncodeBase(buf, r.Base)
	domain.WriteU32(buf, uint32(r.Status))
	domain.WriteU64(buf, r.DeclaredTick)
}

func decodeRecord(r *bytes.Reader) (Record, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Record{}, err
	}
	status, err := domain.ReadU32(r)
	if err != nil {
		return Record{}, err
	}
	declared, err := domain.ReadU64(r)
	if err != nil {
		return Record{}, err
	}
	return Record{Base: base, Status: Status(status), DeclaredTick: declared}, nil
}

func encodeSide(buf *bytes.Buffer, s Side) {
	domain.EncodeBase(buf, s.Base)
	domain.WriteU32(buf, s.ConflictID)
	domain.WriteI32(buf, int32(s.ReadinessLevel))
	domain.WriteU32(buf, s.LogisticsDependencyID)
}

func decodeSide(r *bytes.Reader) (Side, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Side{}, err
	}
	conflictID, err := domain.ReadU32(r)
	if err != nil {
		return Side{}, err
	}
	readiness, err := domain.ReadI32(r)
	if err != nil {
		return Side{}, err
	}
	logistics, err := domain.ReadU32(r)
	if err != nil {
		return Side{}, err
	}
	return Side{Base: base, ConflictID: conflictID, ReadinessLevel: fx.Q16(readiness), LogisticsDependencyID: logistics}, nil
}

func encodeForce(buf *bytes.Buffer, f Force) {
	domain.EncodeBase(buf, f.Base)
	domain.WriteU32(buf, f.SideID)
	domain.WriteI32(buf, int32(f.ReadinessLevel))
	domain.WriteI32(buf, int32(f.MoraleLevel))
	domain.WriteU32(buf, f.LogisticsDependencyID)
}

func decodeForce(r *bytes.Reader) (Force, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Force{}, err
	}
	sideID, err := domain.ReadU32(r)
	if err != nil {
		return Force{}, err
	}
	readiness, err := domain.ReadI32(r)
	if err != nil {
		return Force{}, err
	}
	morale, err := domain.ReadI32(r)
	if err != nil {
		return Force{}, err
	}
	logistics, err := domain.ReadU32(r)
	if err != nil {
		return Force{}, err
	}
	return Force{
		Base:                  base,
		SideID:                sideID,
		ReadinessLevel:        fx.Q16(readiness),
		MoraleLevel:           fx.Q16(morale),
		LogisticsDependencyID: logistics,
	}, nil
}

func encodeEvent(buf *bytes.Buffer, e Event) {
	domain.EncodeBase(buf, e.Base)
	domain.WriteU32(buf, e.ConflictID)
	domain.WriteU64(buf, e.ScheduledTick)
	domain.WriteU32(buf, e.OrderKey)
	domain.WriteU32(buf, uint32(e.Type))
}

func decodeEvent(r *bytes.Reader) (Event, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Event{}, err
	}
	conflictID, err := domain.ReadU32(r)
	if err != nil {
		return Event{}, err
	}
	scheduled, err := domain.ReadU64(r)
	if err != nil {
		return Event{}, err
	}
	orderKey, err := domain.ReadU32(r)
	if err != nil {
		return Event{}, err
	}
	typ, err := domain.ReadU32(r)
	if err != nil {
		return Event{}, err
	}
	return Event{Base: base, ConflictID: conflictID, ScheduledTick: scheduled, OrderKey: orderKey, Type: EventType(typ)}, nil
}

func encodeEngagement(buf *bytes.Buffer, e Engagement) {
	domain.EncodeBase(buf, e.Base)
	for _, p := range e.ParticipantIDs {
		domain.WriteU32(buf, p)
	}
	domain.WriteU64(buf, e.ResultTick)
}

func decodeEngagement(r *bytes.Reader) (Engagement, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Engagement{}, err
	}
	var e Engagement
	e.Base = base
	for i := range e.ParticipantIDs {
		p, err := domain.ReadU32(r)
		if err != nil {
			return Engagement{}, err
		}
		e.ParticipantIDs[i] = p
	}
	resultTick, err := domain.ReadU64(r)
	if err != nil {
		return Engagement{}, err
	}
	e.ResultTick = resultTick
	return e, nil
}

func encodeOutcome(buf *bytes.Buffer, o Outcome) {
	domain.EncodeBase(buf, o.Base)
	domain.WriteU32(buf, o.EngagementID)
	domain.WriteU64(buf, o.ResolutionTick)
}

func decodeOutcome(r *bytes.Reader) (Outcome, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Outcome{}, err
	}
	engagementID, err := domain.ReadU32(r)
	if err != nil {
		return Outcome{}, err
	}
	resolutionTick, err := domain.ReadU64(r)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Base: base, EngagementID: engagementID, ResolutionTick: resolutionTick}, nil
}

func encodeOccupation(buf *bytes.Buffer, o Occupation) {
	domain.EncodeBase(buf, o.Base)
	domain.WriteI32(buf, int32(o.LegitimacySupport))
	domain.WriteU32(buf, uint32(o.Status))
}

func decodeOccupation(r *bytes.Reader) (Occupation, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Occupation{}, err
	}
	legitimacy, err := domain.ReadI32(r)
	if err != nil {
		return Occupation{}, err
	}
	status, err := domain.ReadU32(r)
	if err != nil {
		return Occupation{}, err
	}
	return Occupation{Base: base, LegitimacySupport: fx.Q16(legitimacy), Status: Status(status)}, nil
}

func encodeResistance(buf *bytes.Buffer, r Resistance) {
	domain.EncodeBase(buf, r.Base)
	domain.WriteU32(buf, r.OccupationID)
	domain.WriteI32(buf, int32(r.Level))
	domain.WriteU64(buf, r.ResolutionTick)
}

func decodeResistance(r *bytes.Reader) (Resistance, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Resistance{}, err
	}
	occupationID, err := domain.ReadU32(r)
	if err != nil {
		return Resistance{}, err
	}
	level, err := domain.ReadI32(r)
	if err != nil {
		return Resistance{}, err
	}
	resolutionTick, err := domain.ReadU64(r)
	if err != nil {
		return Resistance{}, err
	}
	return Resistance{Base: base, OccupationID: occupationID, Level: fx.Q16(level), ResolutionTick: resolutionTick}, nil
}

func encodeMoraleField(buf *bytes.Buffer, m MoraleField) {
	domain.EncodeBase(buf, m.Base)
	domain.WriteU32(buf, m.ForceID)
	domain.WriteI32(buf, int32(m.MoraleLevel))
	domain.WriteI32(buf, int32(m.DecayRate))
}

func decodeMoraleField(r *bytes.Reader) (MoraleField, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return MoraleField{}, err
	}
	forceID, err := domain.ReadU32(r)
	if err != nil {
		return MoraleField{}, err
	}
	morale, err := domain.ReadI32(r)
	if err != nil {
		return MoraleField{}, err
	}
	decay, err := domain.ReadI32(r)
	if err != nil {
		return MoraleField{}, err
	}
	return MoraleField{Base: base, ForceID: forceID, MoraleLevel: fx.Q16(morale), DecayRate: fx.Q16(decay)}, nil
}

func encodeWeapon(buf *bytes.Buffer, w Weapon) {
	domain.EncodeBase(buf, w.Base)
	domain.WriteU32(buf, w.ForceID)
	domain.WriteI32(buf, int32(w.IntegrityLevel))
	domain.WriteU32(buf, w.RiskProfileID)
	domain.WriteI32(buf, int32(w.RiskModifier))
}

func decodeWeapon(r *bytes.Reader) (Weapon, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Weapon{}, err
	}
	forceID, err := domain.ReadU32(r)
	if err != nil {
		return Weapon{}, err
	}
	integrity, err := domain.ReadI32(r)
	if err != nil {
		return Weapon{}, err
	}
	riskProfile, err := domain.ReadU32(r)
	if err != nil {
		return Weapon{}, err
	}
	riskModifier, err := domain.ReadI32(r)
	if err != nil {
		return Weapon{}, err
	}
	return Weapon{
		Base:           base,
		ForceID:        forceID,
		IntegrityLevel: fx.Q16(integrity),
		RiskProfileID:  riskProfile,
		RiskModifier:   fx.Q16(riskModifier),
	}, nil
}

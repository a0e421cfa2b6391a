package conflict

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/fixture"
)

// FixtureHeader is the required first line of a conflict fixture document.
const FixtureHeader = "DOMINIUM_CONFLICT_FIXTURE_V1"

// conflictFixtureKinds are the indexed-key prefixes spec §6 recognizes, one
// per arena (e.g. "record17_status=active", "side3_readiness=0.5").
var conflictFixtureKinds = []string{
	"record", "side", "event", "force", "engagement",
	"outcome", "occupation", "resistance", "moralefield", "weapon",
}

// entityFields accumulates the raw suffix->value pairs the indexed-key
// fixture grammar contributes to a single entity, keyed by its fixture
// index (e.g. every "side3_..." line feeds the same map under index 3).
type entityFields map[string]string

// LoadFixture parses a conflict fixture document and initializes d against
// it, per spec §6's indexed-key grammar: one attribute per line, keyed
// "<kind><index>_<suffix>=value" (e.g. "record17_side3_id=alpha_side"),
// mirroring the original fixture tool's conflict_parse_indexed_key and its
// per-kind apply functions.
func (d *Domain) LoadFixture(text string) error {
	f, err := fixture.Parse(text, FixtureHeader)
	if err != nil {
		return err
	}
	if err := f.RejectUnknownKeys(func(k string) bool {
		if k == "region" {
			return true
		}
		for _, kind := range conflictFixtureKinds {
			if _, _, ok := fixture.ParseIndexedKey(k, kind); ok {
				return true
			}
		}
		return false
	}); err != nil {
		return err
	}

	defaultRegion := uint32(0)
	if v, ok := f.Values["region"]; ok {
		u, err := fixture.ParseUint(v)
		if err != nil {
			return fmt.Errorf("conflict fixture: region: %w", err)
		}
		defaultRegion = uint32(u)
	}

	records := map[uint32]entityFields{}
	sides := map[uint32]entityFields{}
	events := map[uint32]entityFields{}
	forces := map[uint32]entityFields{}
	engagements := map[uint32]entityFields{}
	outcomes := map[uint32]entityFields{}
	occupations := map[uint32]entityFields{}
	resistances := map[uint32]entityFields{}
	moraleFields := map[uint32]entityFields{}
	weapons := map[uint32]entityFields{}

	for _, key := range f.Order {
		if key == "region" {
			continue
		}
		value := f.Values[key]
		switch {
		case collectIndexed(key, "record", value, records):
		case collectIndexed(key, "side", value, sides):
		case collectIndexed(key, "event", value, events):
		case collectIndexed(key, "force", value, forces):
		case collectIndexed(key, "engagement", value, engagements):
		case collectIndexed(key, "outcome", value, outcomes):
		case collectIndexed(key, "occupation", value, occupations):
		case collectIndexed(key, "resistance", value, resistances):
		case collectIndexed(key, "moralefield", value, moraleFields):
		case collectIndexed(key, "weapon", value, weapons):
		}
	}

	for _, idx := range sortedIndices(records) {
		r, err := buildRecord(idx, records[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Records.InitEntry(r)
	}
	for _, idx := range sortedIndices(sides) {
		s, err := buildSide(idx, sides[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Sides.InitEntry(s)
	}
	for _, idx := range sortedIndices(events) {
		e, err := buildEvent(idx, events[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Events.InitEntry(e)
	}
	for _, idx := range sortedIndices(forces) {
		fo, err := buildForce(idx, forces[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Forces.InitEntry(fo)
	}
	for _, idx := range sortedIndices(engagements) {
		e, err := buildEngagement(idx, engagements[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Engagements.InitEntry(e)
	}
	for _, idx := range sortedIndices(outcomes) {
		o, err := buildOutcome(idx, outcomes[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Outcomes.InitEntry(o)
	}
	for _, idx := range sortedIndices(occupations) {
		o, err := buildOccupation(idx, occupations[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Occupations.InitEntry(o)
	}
	for _, idx := range sortedIndices(resistances) {
		r, err := buildResistance(idx, resistances[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Resistances.InitEntry(r)
	}
	for _, idx := range sortedIndices(moraleFields) {
		m, err := buildMoraleField(idx, moraleFields[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.MoraleFields.InitEntry(m)
	}
	for _, idx := range sortedIndices(weapons) {
		w, err := buildWeapon(idx, weapons[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("conflict fixture: %w", err)
		}
		d.Weapons.InitEntry(w)
	}
	return nil
}

// collectIndexed folds one "<prefix><index>_<suffix>=value" fixture line
// into store[index][suffix], returning false (doing nothing) if key doesn't
// carry the given prefix.
func collectIndexed(key, prefix, value string, store map[uint32]entityFields) bool {
	idx, suffix, ok := fixture.ParseIndexedKey(key, prefix)
	if !ok {
		return false
	}
	m, exists := store[idx]
	if !exists {
		m = entityFields{}
		store[idx] = m
	}
	m[suffix] = value
	return true
}

func sortedIndices(m map[uint32]entityFields) []uint32 {
	idxs := make([]uint32, 0, len(m))
	for idx := range m {
		idxs = append(idxs, idx)
	}
	sort.Slice(idxs, func(i, j int) bool { return idxs[i] < idxs[j] })
	return idxs
}

// baseFromFields fills the Base fields every indexed entity shares: id
// (required), region (defaulting to the fixture's top-level region), and
// provenance.
func baseFromFields(kind string, idx uint32, fields entityFields, defaultRegion uint32) (domain.Base, error) {
	idStr, ok := fields["id"]
	if !ok {
		return domain.Base{}, fmt.Errorf("%s%d: missing id", kind, idx)
	}
	b := domain.Base{ID: fixture.ParseRef(idStr), RegionID: defaultRegion}
	if v, ok := fields["region"]; ok {
		b.RegionID = fixture.ParseSymbolic(v)
	}
	if v, ok := fields["provenance"]; ok {
		b.ProvenanceID = fixture.ParseRef(v)
	}
	return b, nil
}

var statusNames = map[string]Status{
	"active":    StatusActive,
	"resisting": StatusResisting,
	"degrading": StatusDegrading,
	"resolved":  StatusResolved,
}

func parseStatus(s string) (Status, error) {
	if st, ok := statusNames[strings.ToLower(s)]; ok {
		return st, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown status %q", s)
	}
	return Status(n), nil
}

var eventTypeNames = map[string]EventType{
	"resistance": EventResistance,
	"degrade":    EventDegrade,
	"resolve":    EventResolve,
	"reinforce":  EventReinforce,
}

func parseEventType(s string) (EventType, error) {
	if et, ok := eventTypeNames[strings.ToLower(s)]; ok {
		return et, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown event type %q", s)
	}
	return EventType(n), nil
}

func buildRecord(idx uint32, fields entityFields, defaultRegion uint32) (Record, error) {
	base, err := baseFromFields("record", idx, fields, defaultRegion)
	if err != nil {
		return Record{}, err
	}
	r := Record{Base: base}
	if v, ok := fields["status"]; ok {
		st, err := parseStatus(v)
		if err != nil {
			return Record{}, fmt.Errorf("record%d: status: %w", idx, err)
		}
		r.Status = st
	}
	if v, ok := fields["declared_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Record{}, fmt.Errorf("record%d: declared_tick: %w", idx, err)
		}
		r.DeclaredTick = tick
	}
	return r, nil
}

func buildSide(idx uint32, fields entityFields, defaultRegion uint32) (Side, error) {
	base, err := baseFromFields("side", idx, fields, defaultRegion)
	if err != nil {
		return Side{}, err
	}
	s := Side{Base: base}
	if v, ok := fields["conflict"]; ok {
		s.ConflictID = fixture.ParseRef(v)
	}
	if v, ok := fields["readiness"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Side{}, fmt.Errorf("side%d: readiness: %w", idx, err)
		}
		s.ReadinessLevel = q
	}
	if v, ok := fields["logistics_dependency"]; ok {
		s.LogisticsDependencyID = fixture.ParseRef(v)
	}
	return s, nil
}

func buildForce(idx uint32, fields entityFields, defaultRegion uint32) (Force, error) {
	base, err := baseFromFields("force", idx, fields, defaultRegion)
	if err != nil {
		return Force{}, err
	}
	fo := Force{Base: base}
	if v, ok := fields["side"]; ok {
		fo.SideID = fixture.ParseRef(v)
	}
	if v, ok := fields["readiness"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Force{}, fmt.Errorf("force%d: readiness: %w", idx, err)
		}
		fo.ReadinessLevel = q
	}
	if v, ok := fields["morale"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Force{}, fmt.Errorf("force%d: morale: %w", idx, err)
		}
		fo.MoraleLevel = q
	}
	if v, ok := fields["logistics_dependency"]; ok {
		fo.LogisticsDependencyID = fixture.ParseRef(v)
	}
	return fo, nil
}

func buildEvent(idx uint32, fields entityFields, defaultRegion uint32) (Event, error) {
	base, err := baseFromFields("event", idx, fields, defaultRegion)
	if err != nil {
		return Event{}, err
	}
	e := Event{Base: base}
	if v, ok := fields["conflict"]; ok {
		e.ConflictID = fixture.ParseRef(v)
	}
	if v, ok := fields["scheduled_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Event{}, fmt.Errorf("event%d: scheduled_tick: %w", idx, err)
		}
		e.ScheduledTick = tick
	}
	if v, ok := fields["order_key"]; ok {
		ok64, err := fixture.ParseUint(v)
		if err != nil {
			return Event{}, fmt.Errorf("event%d: order_key: %w", idx, err)
		}
		e.OrderKey = uint32(ok64)
	}
	if v, ok := fields["type"]; ok {
		et, err := parseEventType(v)
		if err != nil {
			return Event{}, fmt.Errorf("event%d: type: %w", idx, err)
		}
		e.Type = et
	}
	return e, nil
}

// parseTrailingIndex splits a suffix of the form "<prefix><digits>" (no
// delimiter after the digits), used for Engagement's fixed-size
// participant array ("engagement1_participant2=alpha_force").
func parseTrailingIndex(suffix, prefix string) (uint32, bool) {
	if !strings.HasPrefix(suffix, prefix) {
		return 0, false
	}
	rest := suffix[len(prefix):]
	if rest == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

func buildEngagement(idx uint32, fields entityFields, defaultRegion uint32) (Engagement, error) {
	base, err := baseFromFields("engagement", idx, fields, defaultRegion)
	if err != nil {
		return Engagement{}, err
	}
	e := Engagement{Base: base}
	for suffix, v := range fields {
		pIdx, ok := parseTrailingIndex(suffix, "participant")
		if !ok {
			continue
		}
		if pIdx >= uint32(len(e.ParticipantIDs)) {
			return Engagement{}, fmt.Errorf("engagement%d: participant index %d out of range", idx, pIdx)
		}
		e.ParticipantIDs[pIdx] = fixture.ParseRef(v)
	}
	if v, ok := fields["result_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Engagement{}, fmt.Errorf("engagement%d: result_tick: %w", idx, err)
		}
		e.ResultTick = tick
	}
	return e, nil
}

func buildOutcome(idx uint32, fields entityFields, defaultRegion uint32) (Outcome, error) {
	base, err := baseFromFields("outcome", idx, fields, defaultRegion)
	if err != nil {
		return Outcome{}, err
	}
	o := Outcome{Base: base}
	if v, ok := fields["engagement"]; ok {
		o.EngagementID = fixture.ParseRef(v)
	}
	if v, ok := fields["resolution_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Outcome{}, fmt.Errorf("outcome%d: resolution_tick: %w", idx, err)
		}
		o.ResolutionTick = tick
	}
	return o, nil
}

func buildOccupation(idx uint32, fields entityFields, defaultRegion uint32) (Occupation, error) {
	base, err := baseFromFields("occupation", idx, fields, defaultRegion)
	if err != nil {
		return Occupation{}, err
	}
	o := Occupation{Base: base}
	if v, ok := fields["legitimacy"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Occupation{}, fmt.Errorf("occupation%d: legitimacy: %w", idx, err)
		}
		o.LegitimacySupport = q
	}
	if v, ok := fields["status"]; ok {
		st, err := parseStatus(v)
		if err != nil {
			return Occupation{}, fmt.Errorf("occupation%d: status: %w", idx, err)
		}
		o.Status = st
	}
	return o, nil
}

func buildResistance(idx uint32, fields entityFields, defaultRegion uint32) (Resistance, error) {
	base, err := baseFromFields("resistance", idx, fields, defaultRegion)
	if err != nil {
		return Resistance{}, err
	}
	r := Resistance{Base: base}
	if v, ok := fields["occupation"]; ok {
		r.OccupationID = fixture.ParseRef(v)
	}
	if v, ok := fields["level"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Resistance{}, fmt.Errorf("resistance%d: level: %w", idx, err)
		}
		r.Level = q
	}
	if v, ok := fields["resolution_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Resistance{}, fmt.Errorf("resistance%d: resolution_tick: %w", idx, err)
		}
		r.ResolutionTick = tick
	}
	return r, nil
}

func buildMoraleField(idx uint32, fields entityFields, defaultRegion uint32) (MoraleField, error) {
	base, err := baseFromFields("moralefield", idx, fields, defaultRegion)
	if err != nil {
		return MoraleField{}, err
	}
	m := MoraleField{Base: base}
	if v, ok := fields["force"]; ok {
		m.ForceID = fixture.ParseRef(v)
	}
	if v, ok := fields["morale"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return MoraleField{}, fmt.Errorf("moralefield%d: morale: %w", idx, err)
		}
		m.MoraleLevel = q
	}
	if v, ok := fields["decay_rate"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return MoraleField{}, fmt.Errorf("moralefield%d: decay_rate: %w", idx, err)
		}
		m.DecayRate = q
	}
	return m, nil
}

func buildWeapon(idx uint32, fields entityFields, defaultRegion uint32) (Weapon, error) {
	base, err := baseFromFields("weapon", idx, fields, defaultRegion)
	if err != nil {
		return Weapon{}, err
	}
	w := Weapon{Base: base}
	if v, ok := fields["force"]; ok {
		w.ForceID = fixture.ParseRef(v)
	}
	if v, ok := fields["integrity"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Weapon{}, fmt.Errorf("weapon%d: integrity: %w", idx, err)
		}
		w.IntegrityLevel = q
	}
	if v, ok := fields["risk_profile"]; ok {
		w.RiskProfileID = fixture.ParseRef(v)
	}
	if v, ok := fields["risk_modifier"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Weapon{}, fmt.Errorf("weapon%d: risk_modifier: %w", idx, err)
		}
		w.RiskModifier = q
	}
	return w, nil
}

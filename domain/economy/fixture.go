package economy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/fixture"
)

// FixtureHeader is the required first line of an economy fixture document.
const FixtureHeader = "DOMINIUM_ECONOMY_FIXTURE_V1"

// economyFixtureKinds are the indexed-key prefixes spec §6 recognizes, one
// per arena (e.g. "offer3_price=2.0"), mirroring domain/conflict's
// LoadFixture.
var economyFixtureKinds = []string{
	"container", "storage", "transport", "job", "market",
	"offer", "bid", "transaction",
}

// entityFields accumulates the raw suffix->value pairs the indexed-key
// fixture grammar contributes to a single entity, keyed by its fixture
// index.
type entityFields map[string]string

// LoadFixture parses an economy fixture document and initializes d against
// it, per spec §6's indexed-key grammar: one attribute per line, keyed
// "<kind><index>_<suffix>=value" (e.g. "offer3_expiry_tick=100"), mirroring
// domain/conflict's LoadFixture.
func (d *Domain) LoadFixture(text string) error {
	f, err := fixture.Parse(text, FixtureHeader)
	if err != nil {
		return err
	}
	if err := f.RejectUnknownKeys(func(k string) bool {
		if k == "region" {
			return true
		}
		for _, kind := range economyFixtureKinds {
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
			return fmt.Errorf("economy fixture: region: %w", err)
		}
		defaultRegion = uint32(u)
	}

	containers := map[uint32]entityFields{}
	storages := map[uint32]entityFields{}
	transports := map[uint32]entityFields{}
	jobs := map[uint32]entityFields{}
	markets := map[uint32]entityFields{}
	offers := map[uint32]entityFields{}
	bids := map[uint32]entityFields{}
	transactions := map[uint32]entityFields{}

	for _, key := range f.Order {
		if key == "region" {
			continue
		}
		value := f.Values[key]
		switch {
		case collectIndexed(key, "container", value, containers):
		case collectIndexed(key, "storage", value, storages):
		case collectIndexed(key, "transport", value, transports):
		case collectIndexed(key, "job", value, jobs):
		case collectIndexed(key, "market", value, markets):
		case collectIndexed(key, "offer", value, offers):
		case collectIndexed(key, "bid", value, bids):
		case collectIndexed(key, "transaction", value, transactions):
		}
	}

	for _, idx := range sortedIndices(containers) {
		c, err := buildContainer(idx, containers[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Containers.InitEntry(c)
	}
	for _, idx := range sortedIndices(storages) {
		s, err := buildStorage(idx, storages[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Storages.InitEntry(s)
	}
	for _, idx := range sortedIndices(transports) {
		t, err := buildTransport(idx, transports[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Transports.InitEntry(t)
	}
	for _, idx := range sortedIndices(jobs) {
		j, err := buildJob(idx, jobs[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Jobs.InitEntry(j)
	}
	for _, idx := range sortedIndices(markets) {
		m, err := buildMarket(idx, markets[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Markets.InitEntry(m)
	}
	for _, idx := range sortedIndices(offers) {
		o, err := buildOffer(idx, offers[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Offers.InitEntry(o)
	}
	for _, idx := range sortedIndices(bids) {
		b, err := buildBid(idx, bids[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Bids.InitEntry(b)
	}
	for _, idx := range sortedIndices(transactions) {
		tx, err := buildTransaction(idx, transactions[idx], defaultRegion)
		if err != nil {
			return fmt.Errorf("economy fixture: %w", err)
		}
		d.Transactions.InitEntry(tx)
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

func buildContainer(idx uint32, fields entityFields, defaultRegion uint32) (Container, error) {
	base, err := baseFromFields("container", idx, fields, defaultRegion)
	if err != nil {
		return Container{}, err
	}
	c := Container{Base: base}
	if v, ok := fields["goods_total"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Container{}, fmt.Errorf("container%d: goods_total: %w", idx, err)
		}
		c.GoodsTotal = q
	}
	return c, nil
}

func buildStorage(idx uint32, fields entityFields, defaultRegion uint32) (Storage, error) {
	base, err := baseFromFields("storage", idx, fields, defaultRegion)
	if err != nil {
		return Storage{}, err
	}
	s := Storage{Base: base}
	if v, ok := fields["stored"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Storage{}, fmt.Errorf("storage%d: stored: %w", idx, err)
		}
		s.Stored = q
	}
	if v, ok := fields["capacity"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Storage{}, fmt.Errorf("storage%d: capacity: %w", idx, err)
		}
		s.Capacity = q
	}
	return s, nil
}

func buildTransport(idx uint32, fields entityFields, defaultRegion uint32) (Transport, error) {
	base, err := baseFromFields("transport", idx, fields, defaultRegion)
	if err != nil {
		return Transport{}, err
	}
	base.Flags |= FlagInTransit
	t := Transport{Base: base}
	if v, ok := fields["arrival_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Transport{}, fmt.Errorf("transport%d: arrival_tick: %w", idx, err)
		}
		t.ArrivalTick = tick
	}
	if v, ok := fields["risk_profile"]; ok {
		t.RiskProfileID = fixture.ParseRef(v)
	}
	if v, ok := fields["risk_modifier"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Transport{}, fmt.Errorf("transport%d: risk_modifier: %w", idx, err)
		}
		t.RiskModifier = q
	}
	return t, nil
}

func buildJob(idx uint32, fields entityFields, defaultRegion uint32) (Job, error) {
	base, err := baseFromFields("job", idx, fields, defaultRegion)
	if err != nil {
		return Job{}, err
	}
	j := Job{Base: base}
	if v, ok := fields["completion_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Job{}, fmt.Errorf("job%d: completion_tick: %w", idx, err)
		}
		j.CompletionTick = tick
	}
	return j, nil
}

func buildMarket(idx uint32, fields entityFields, defaultRegion uint32) (Market, error) {
	base, err := baseFromFields("market", idx, fields, defaultRegion)
	if err != nil {
		return Market{}, err
	}
	return Market{Base: base}, nil
}

func buildOffer(idx uint32, fields entityFields, defaultRegion uint32) (Offer, error) {
	base, err := baseFromFields("offer", idx, fields, defaultRegion)
	if err != nil {
		return Offer{}, err
	}
	o := Offer{Base: base}
	if v, ok := fields["market"]; ok {
		o.MarketID = fixture.ParseRef(v)
	}
	if v, ok := fields["price"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Offer{}, fmt.Errorf("offer%d: price: %w", idx, err)
		}
		o.Price = q
	}
	if v, ok := fields["expiry_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Offer{}, fmt.Errorf("offer%d: expiry_tick: %w", idx, err)
		}
		o.ExpiryTick = tick
	}
	return o, nil
}

func buildBid(idx uint32, fields entityFields, defaultRegion uint32) (Bid, error) {
	base, err := baseFromFields("bid", idx, fields, defaultRegion)
	if err != nil {
		return Bid{}, err
	}
	b := Bid{Base: base}
	if v, ok := fields["market"]; ok {
		b.MarketID = fixture.ParseRef(v)
	}
	if v, ok := fields["price"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Bid{}, fmt.Errorf("bid%d: price: %w", idx, err)
		}
		b.Price = q
	}
	if v, ok := fields["expiry_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Bid{}, fmt.Errorf("bid%d: expiry_tick: %w", idx, err)
		}
		b.ExpiryTick = tick
	}
	return b, nil
}

func buildTransaction(idx uint32, fields entityFields, defaultRegion uint32) (Transaction, error) {
	base, err := baseFromFields("transaction", idx, fields, defaultRegion)
	if err != nil {
		return Transaction{}, err
	}
	tx := Transaction{Base: base}
	if v, ok := fields["offer"]; ok {
		tx.OfferID = fixture.ParseRef(v)
	}
	if v, ok := fields["bid"]; ok {
		tx.BidID = fixture.ParseRef(v)
	}
	if v, ok := fields["price"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Transaction{}, fmt.Errorf("transaction%d: price: %w", idx, err)
		}
		tx.Price = q
	}
	if v, ok := fields["volume"]; ok {
		q, err := fixture.ParseQ16Decimal(v)
		if err != nil {
			return Transaction{}, fmt.Errorf("transaction%d: volume: %w", idx, err)
		}
		tx.Volume = q
	}
	if v, ok := fields["resolution_tick"]; ok {
		tick, err := fixture.ParseUint(v)
		if err != nil {
			return Transaction{}, fmt.Errorf("transaction%d: resolution_tick: %w", idx, err)
		}
		tx.ResolutionTick = tick
	}
	if v, ok := fields["black_market"]; ok && (strings.EqualFold(v, "true") || v == "1") {
		tx.Flags |= FlagBlackMarket
	}
	return tx, nil
}

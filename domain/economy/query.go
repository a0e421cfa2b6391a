package economy

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// StorageSample is the per-entity read returned by QueryStorage, mirroring
// domain/conflict's QueryForce skeleton (spec §4.5).
type StorageSample struct {
	Meta      domain.Meta
	ID        uint32
	RegionID  uint32
	Collapsed bool
	Stored    fx.Q16
	Capacity  fx.Q16
	Overflow  bool
}

// QueryStorage implements spec §4.5's skeleton for a single storage read.
func (d *Domain) QueryStorage(id uint32, b *budget.Budget) StorageSample {
	if !d.Active() {
		return StorageSample{Meta: domain.Refused(budget.ReasonDomainInactive, *b)}
	}
	cost := d.policy.Cost(budget.TierFull)
	if !b.Consume(cost) {
		return StorageSample{Meta: domain.Refused(budget.ReasonBudget, *b)}
	}
	idx, ok := d.Storages.FindIndexByID(id)
	if !ok {
		return StorageSample{Meta: domain.Refused(budget.EntityMissing("STORAGE"), *b)}
	}
	s := d.Storages.At(idx)
	if d.Capsules.IsCollapsed(s.RegionID) {
		return StorageSample{
			Meta:      domain.OK(domain.ConfidenceUnknown, cost, *b),
			ID:        s.ID,
			RegionID:  s.RegionID,
			Collapsed: true,
		}
	}
	return StorageSample{
		Meta:     domain.OK(domain.ConfidenceExact, cost, *b),
		ID:       s.ID,
		RegionID: s.RegionID,
		Stored:   s.Stored,
		Capacity: s.Capacity,
		Overflow: s.Flags&FlagOverflow != 0,
	}
}

// RegionSample is a region-aggregate read, per spec §4.5's "region
// aggregate read" algorithm.
type RegionSample struct {
	Meta          domain.Meta
	RegionID      uint32
	Partial       bool
	OfferCount    uint32
	BidCount      uint32
	GoodsTotalAvg fx.Q16
	PriceAvg      fx.Q16
}

// QueryRegion aggregates goods/price across every arena filtered by
// region, charging the analytic tier once up front and the coarse tier per
// accepted element.
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
			OfferCount:    c.Counts.Offers,
			BidCount:      c.Counts.Bids,
			GoodsTotalAvg: c.GoodsTotalAvg,
			PriceAvg:      c.PriceAvg,
		}
	}

	res := RegionSample{RegionID: region}
	var goodsSum, priceSum fx.Q48
	var goodsSeen, priceSeen uint32

	d.Containers.EachInRegion(region, func(_ int, ct Container) bool {
		if !b.Consume(d.policy.Cost(budget.TierCoarse)) {
			res.Partial = true
			return false
		}
		goodsSum = goodsSum.Add(fx.Q48FromQ16(ct.GoodsTotal))
		goodsSeen++
		return true
	})
	d.Offers.EachInRegion(region, func(_ int, o Offer) bool {
		if !b.Consume(d.policy.Cost(budget.TierCoarse)) {
			res.Partial = true
			return false
		}
		res.OfferCount++
		priceSum = priceSum.Add(fx.Q48FromQ16(o.Price))
		priceSeen++
		return true
	})
	d.Bids.EachInRegion(region, func(_ int, bd Bid) bool {
		if !b.Consume(d.policy.Cost(budget.TierCoarse)) {
			res.Partial = true
			return false
		}
		res.BidCount++
		priceSum = priceSum.Add(fx.Q48FromQ16(bd.Price))
		priceSeen++
		return true
	})

	if goodsSeen > 0 {
		res.GoodsTotalAvg = goodsSum.Div(fx.Q48FromInt(int64(goodsSeen))).ToQ16()
	}
	if priceSeen > 0 {
		res.PriceAvg = priceSum.Div(fx.Q48FromInt(int64(priceSeen))).ToQ16()
	}

	res.Meta = domain.OK(domain.ConfidenceExact, cost, *b)
	return res
}

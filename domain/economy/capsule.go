package economy

import (
	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// CapsuleCounts tallies each entity kind observed while collapsing a
// region, in the same fixed arena order resolve uses.
type CapsuleCounts struct {
	Containers, Storages, Transports, Jobs uint32
	Markets, Offers, Bids, Transactions    uint32
}

// Capsule is the statistical summary stored for a collapsed economy
// region, per spec §3.3/§4.7: counts, goods-total/price/volume averages,
// and a price histogram.
type Capsule struct {
	Counts          CapsuleCounts
	GoodsTotalAvg   fx.Q16
	PriceAvg        fx.Q16
	VolumeAvg       fx.Q16
	PriceHistogram  domain.Histogram4
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
	var goodsSum, priceSum, volumeSum fx.Q48
	var goodsSeen, priceSeen, volumeSeen uint32
	var priceRaw [4]uint32

	d.Containers.EachInRegion(region, func(_ int, ct Container) bool {
		c.Counts.Containers++
		goodsSum = goodsSum.Add(fx.Q48FromQ16(ct.GoodsTotal))
		goodsSeen++
		return true
	})
	d.Storages.EachInRegion(region, func(_ int, _ Storage) bool { c.Counts.Storages++; return true })
	d.Transports.EachInRegion(region, func(_ int, _ Transport) bool { c.Counts.Transports++; return true })
	d.Jobs.EachInRegion(region, func(_ int, _ Job) bool { c.Counts.Jobs++; return true })
	d.Markets.EachInRegion(region, func(_ int, _ Market) bool { c.Counts.Markets++; return true })
	d.Offers.EachInRegion(region, func(_ int, o Offer) bool {
		c.Counts.Offers++
		priceSum = priceSum.Add(fx.Q48FromQ16(o.Price))
		priceSeen++
		c.PriceHistogram.Observe(&priceRaw, o.Price)
		return true
	})
	d.Bids.EachInRegion(region, func(_ int, b Bid) bool {
		c.Counts.Bids++
		priceSum = priceSum.Add(fx.Q48FromQ16(b.Price))
		priceSeen++
		c.PriceHistogram.Observe(&priceRaw, b.Price)
		return true
	})
	d.Transactions.EachInRegion(region, func(_ int, tx Transaction) bool {
		c.Counts.Transactions++
		volumeSum = volumeSum.Add(fx.Q48FromQ16(tx.Volume))
		volumeSeen++
		return true
	})

	// Unlike conflict's readiness/morale/legitimacy, these averages are
	// quantities and prices, not ratios bounded to [0, 1]; no Clamp01 here.
	if goodsSeen > 0 {
		c.GoodsTotalAvg = goodsSum.Div(fx.Q48FromInt(int64(goodsSeen))).ToQ16()
	}
	if priceSeen > 0 {
		c.PriceAvg = priceSum.Div(fx.Q48FromInt(int64(priceSeen))).ToQ16()
	}
	if volumeSeen > 0 {
		c.VolumeAvg = volumeSum.Div(fx.Q48FromInt(int64(volumeSeen))).ToQ16()
	}
	c.PriceHistogram.Finalize(priceRaw, priceSeen)

	return d.Capsules.Put(region, c)
}

// ExpandRegion removes region's capsule, re-honoring the original entities
// as the truth (they were never deleted). Reports whether a capsule was
// present.
func (d *Domain) ExpandRegion(region uint32) bool {
	return d.Capsules.Remove(region)
}

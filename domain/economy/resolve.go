package economy

import (
	"sort"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/budget"
	"github.com/Julesc013/dominium-sub020/internal/detid"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// ResolveResult is the economy domain's per-tick advancement output. Its
// shape mirrors domain/conflict's ResolveResult, per spec §4.6's
// "economy is structurally identical" exemplar note.
type ResolveResult struct {
	domain.ResolveMeta
	Counts        CapsuleCounts
	GoodsTotalAvg fx.Q16
	PriceAvg      fx.Q16
	VolumeAvg     fx.Q16
}

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

	var goodsSum, priceSum, volumeSum fx.Q48
	var goodsSeen, priceSeen, volumeSeen uint32

	firstBudgetHit := false
	hitBudget := func() {
		res.Flags |= domain.ResultPartial
		if !firstBudgetHit {
			res.RefusalReason = budget.ReasonBudget
			firstBudgetHit = true
		}
	}

	d.Containers.EachInRegion(region, func(_ int, ct Container) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Containers++
		goodsSum = goodsSum.Add(fx.Q48FromQ16(ct.GoodsTotal))
		goodsSeen++
		return true
	})

	d.Storages.EachInRegion(region, func(idx int, s Storage) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Storages++
		if s.Stored > s.Capacity {
			s.Flags |= FlagOverflow
			d.Storages.Set(idx, s)
			res.Flags |= domain.ResultCongested
		}
		return true
	})

	d.Transports.EachInRegion(region, func(idx int, t Transport) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Transports++
		if t.ArrivalTick <= tick && t.Flags&FlagArrivedEntity == 0 {
			t.Flags |= FlagArrivedEntity
			t.Flags &^= FlagInTransit
			d.Transports.Set(idx, t)
			res.Flags |= domain.ResultArrived
		}
		if t.RiskProfileID != 0 || t.RiskModifier >= riskModifierThreshold {
			res.Flags |= domain.ResultRisk
		}
		return true
	})

	d.Jobs.EachInRegion(region, func(idx int, j Job) bool {
		if !b.ConsumeTier(d.policy, budget.TierMedium) {
			hitBudget()
			return false
		}
		res.Counts.Jobs++
		if j.CompletionTick <= tick && j.Flags&domain.FlagApplied == 0 {
			j.Flags |= domain.FlagApplied
			d.Jobs.Set(idx, j)
		}
		return true
	})

	d.Markets.EachInRegion(region, func(_ int, _ Market) bool {
		if !b.ConsumeTier(d.policy, budget.TierCoarse) {
			hitBudget()
			return false
		}
		res.Counts.Markets++
		return true
	})

	d.Offers.EachInRegion(region, func(idx int, o Offer) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Offers++
		priceSum = priceSum.Add(fx.Q48FromQ16(o.Price))
		priceSeen++
		if o.ExpiryTick <= tick && o.Flags&FlagExpired == 0 {
			o.Flags |= FlagExpired
			d.Offers.Set(idx, o)
			res.Flags |= domain.ResultExpired
		}
		return true
	})

	d.Bids.EachInRegion(region, func(idx int, bd Bid) bool {
		if !b.ConsumeTier(d.policy, budget.TierFull) {
			hitBudget()
			return false
		}
		res.Counts.Bids++
		priceSum = priceSum.Add(fx.Q48FromQ16(bd.Price))
		priceSeen++
		if bd.ExpiryTick <= tick && bd.Flags&FlagExpired == 0 {
			bd.Flags |= FlagExpired
			d.Bids.Set(idx, bd)
			res.Flags |= domain.ResultExpired
		}
		return true
	})

	// Matches the original's offer_count/bid_count accounting: every
	// processed offer/bid counts regardless of expiry, and SHORTAGE fires
	// on demand outrunning supply even when supply is zero.
	if res.Counts.Bids > res.Counts.Offers && res.Counts.Bids > 0 {
		res.Flags |= domain.ResultShortage
	}

	dueTransactions := make([]int, 0)
	d.Transactions.EachInRegion(region, func(idx int, tx Transaction) bool {
		if !b.ConsumeTier(d.policy, budget.TierMedium) {
			hitBudget()
			return false
		}
		res.Counts.Transactions++
		volumeSum = volumeSum.Add(fx.Q48FromQ16(tx.Volume))
		volumeSeen++
		if tx.Flags&FlagBlackMarket != 0 {
			res.Flags |= domain.ResultBlackMarket
		}
		if tx.ResolutionTick <= tick && tx.Flags&domain.FlagApplied == 0 {
			dueTransactions = append(dueTransactions, idx)
		}
		return true
	})

	// Due transactions apply in the same stable (order_key, id) order
	// conflict's event dispatch uses; transactions order by id alone since
	// they carry no separate order_key field.
	sort.SliceStable(dueTransactions, func(i, j int) bool {
		a, b2 := d.Transactions.At(dueTransactions[i]), d.Transactions.At(dueTransactions[j])
		return a.Base.ID < b2.Base.ID
	})
	for _, idx := range dueTransactions {
		tx := d.Transactions.At(idx)
		tx.Flags |= domain.FlagApplied
		d.Transactions.Set(idx, tx)
		res.EventAppliedCount++
	}

	if goodsSeen > 0 {
		res.GoodsTotalAvg = goodsSum.Div(fx.Q48FromInt(int64(goodsSeen))).ToQ16()
	}
	if priceSeen > 0 {
		res.PriceAvg = priceSum.Div(fx.Q48FromInt(int64(priceSeen))).ToQ16()
	}
	if volumeSeen > 0 {
		res.VolumeAvg = volumeSum.Div(fx.Q48FromInt(int64(volumeSeen))).ToQ16()
	}

	res.ResolveHash = computeResolveHash(res)
	return res
}

func capsuleResolveResult(c Capsule) ResolveResult {
	return ResolveResult{
		ResolveMeta: domain.ResolveMeta{
			OK:    true,
			Flags: domain.ResultPartial,
		},
		Counts:        c.Counts,
		GoodsTotalAvg: c.GoodsTotalAvg,
		PriceAvg:      c.PriceAvg,
		VolumeAvg:     c.VolumeAvg,
	}
}

// computeResolveHash folds the result's observable fields into a rolling
// hash so two independent runs against identical state can compare a
// single scalar, per spec §8 scenario #1.
func computeResolveHash(res ResolveResult) uint64 {
	h := detid.NewH64()
	h.WriteU32(res.Counts.Containers)
	h.WriteU32(res.Counts.Storages)
	h.WriteU32(res.Counts.Transports)
	h.WriteU32(res.Counts.Jobs)
	h.WriteU32(res.Counts.Markets)
	h.WriteU32(res.Counts.Offers)
	h.WriteU32(res.Counts.Bids)
	h.WriteU32(res.Counts.Transactions)
	h.WriteI32(int32(res.GoodsTotalAvg))
	h.WriteI32(int32(res.PriceAvg))
	h.WriteI32(int32(res.VolumeAvg))
	h.WriteU32(res.Flags)
	h.WriteU32(res.EventAppliedCount)
	return h.Sum()
}

package economy

import "github.com/Julesc013/dominium-sub020/internal/detid"

// StreamHash feeds every entity's identifying and observable fields through
// h in fixed arena order, per spec §4.2, mirroring domain/conflict's
// StreamHash over this domain's own entity kinds.
func (d *Domain) StreamHash(h *detid.H64) {
	d.Containers.Each(func(_ int, c Container) bool {
		h.WriteU32(c.ID)
		h.WriteU32(c.Flags)
		h.WriteI32(int32(c.GoodsTotal))
		return true
	})
	d.Storages.Each(func(_ int, s Storage) bool {
		h.WriteU32(s.ID)
		h.WriteU32(s.Flags)
		h.WriteI32(int32(s.Stored))
		h.WriteI32(int32(s.Capacity))
		return true
	})
	d.Transports.Each(func(_ int, t Transport) bool {
		h.WriteU32(t.ID)
		h.WriteU32(t.Flags)
		h.WriteU64(t.ArrivalTick)
		h.WriteU32(t.RiskProfileID)
		return true
	})
	d.Jobs.Each(func(_ int, j Job) bool {
		h.WriteU32(j.ID)
		h.WriteU32(j.Flags)
		h.WriteU64(j.CompletionTick)
		return true
	})
	d.Markets.Each(func(_ int, m Market) bool {
		h.WriteU32(m.ID)
		h.WriteU32(m.Flags)
		return true
	})
	d.Offers.Each(func(_ int, o Offer) bool {
		h.WriteU32(o.ID)
		h.WriteU32(o.Flags)
		h.WriteI32(int32(o.Price))
		return true
	})
	d.Bids.Each(func(_ int, b Bid) bool {
		h.WriteU32(b.ID)
		h.WriteU32(b.Flags)
		h.WriteI32(int32(b.Price))
		return true
	})
	d.Transactions.Each(func(_ int, t Transaction) bool {
		h.WriteU32(t.ID)
		h.WriteU32(t.Flags)
		h.WriteI32(int32(t.Price))
		h.WriteI32(int32(t.Volume))
		return true
	})
}

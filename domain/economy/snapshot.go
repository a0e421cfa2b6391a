package economy

import (
	"bytes"
	"fmt"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// EncodeState serializes the domain's lifecycle state and every arena's full
// entity contents, per spec §8's save/reload round-trip law.
func (d *Domain) EncodeState() []byte {
	buf := &bytes.Buffer{}
	buf.WriteByte(byte(d.existence))
	buf.WriteByte(byte(d.archival))
	domain.EncodeArena(buf, d.Containers, encodeContainer)
	domain.EncodeArena(buf, d.Storages, encodeStorage)
	domain.EncodeArena(buf, d.Transports, encodeTransport)
	domain.EncodeArena(buf, d.Jobs, encodeJob)
	domain.EncodeArena(buf, d.Markets, encodeMarket)
	domain.EncodeArena(buf, d.Offers, encodeOffer)
	domain.EncodeArena(buf, d.Bids, encodeBid)
	domain.EncodeArena(buf, d.Transactions, encodeTransaction)
	return buf.Bytes()
}

// DecodeState restores the domain's lifecycle state and every arena from a
// blob produced by EncodeState.
func (d *Domain) DecodeState(data []byte) error {
	r := bytes.NewReader(data)
	existence, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("economy: decode state: existence: %w", err)
	}
	archival, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("economy: decode state: archival: %w", err)
	}
	if err := domain.DecodeArena(r, d.Containers, decodeContainer); err != nil {
		return fmt.Errorf("economy: decode state: containers: %w", err)
	}
	if err := domain.DecodeArena(r, d.Storages, decodeStorage); err != nil {
		return fmt.Errorf("economy: decode state: storages: %w", err)
	}
	if err := domain.DecodeArena(r, d.Transports, decodeTransport); err != nil {
		return fmt.Errorf("economy: decode state: transports: %w", err)
	}
	if err := domain.DecodeArena(r, d.Jobs, decodeJob); err != nil {
		return fmt.Errorf("economy: decode state: jobs: %w", err)
	}
	if err := domain.DecodeArena(r, d.Markets, decodeMarket); err != nil {
		return fmt.Errorf("economy: decode state: markets: %w", err)
	}
	if err := domain.DecodeArena(r, d.Offers, decodeOffer); err != nil {
		return fmt.Errorf("economy: decode state: offers: %w", err)
	}
	if err := domain.DecodeArena(r, d.Bids, decodeBid); err != nil {
		return fmt.Errorf("economy: decode state: bids: %w", err)
	}
	if err := domain.DecodeArena(r, d.Transactions, decodeTransaction); err != nil {
		return fmt.Errorf("economy: decode state: transactions: %w", err)
	}
	d.existence = domain.ExistenceState(existence)
	d.archival = domain.ArchivalState(archival)
	return nil
}

func encodeContainer(buf *bytes.Buffer, c Container) {
	domain.EncodeBase(buf, c.Base)
	domain.WriteI32(buf, int32(c.GoodsTotal))
}

func decodeContainer(r *bytes.Reader) (Container, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Container{}, err
	}
	goods, err := domain.ReadI32(r)
	if err != nil {
		return Container{}, err
	}
	return Container{Base: base, GoodsTotal: fx.Q16(goods)}, nil
}

func encodeStorage(buf *bytes.Buffer, s Storage) {
	domain.EncodeBase(buf, s.Base)
	domain.WriteI32(buf, int32(s.Stored))
	domain.WriteI32(buf, int32(s.Capacity))
}

func decodeStorage(r *bytes.Reader) (Storage, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Storage{}, err
	}
	stored, err := domain.ReadI32(r)
	if err != nil {
		return Storage{}, err
	}
	capacity, err := domain.ReadI32(r)
	if err != nil {
		return Storage{}, err
	}
	return Storage{Base: base, Stored: fx.Q16(stored), Capacity: fx.Q16(capacity)}, nil
}

func encodeTransport(buf *bytes.Buffer, t Transport) {
	domain.EncodeBase(buf, t.Base)
	domain.WriteU64(buf, t.ArrivalTick)
	domain.WriteU32(buf, t.RiskProfileID)
	domain.WriteI32(buf, int32(t.RiskModifier))
}

func decodeTransport(r *bytes.Reader) (Transport, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Transport{}, err
	}
	arrival, err := domain.ReadU64(r)
	if err != nil {
		return Transport{}, err
	}
	riskProfile, err := domain.ReadU32(r)
	if err != nil {
		return Transport{}, err
	}
	riskModifier, err := domain.ReadI32(r)
	if err != nil {
		return Transport{}, err
	}
	return Transport{
		Base:          base,
		ArrivalTick:   arrival,
		RiskProfileID: riskProfile,
		RiskModifier:  fx.Q16(riskModifier),
	}, nil
}

func encodeJob(buf *bytes.Buffer, j Job) {
	domain.EncodeBase(buf, j.Base)
	domain.WriteU64(buf, j.CompletionTick)
}

func decodeJob(r *bytes.Reader) (Job, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Job{}, err
	}
	completion, err := domain.ReadU64(r)
	if err != nil {
		return Job{}, err
	}
	return Job{Base: base, CompletionTick: completion}, nil
}

func encodeMarket(buf *bytes.Buffer, m Market) {
	domain.EncodeBase(buf, m.Base)
}

func decodeMarket(r *bytes.Reader) (Market, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Market{}, err
	}
	return Market{Base: base}, nil
}

func encodeOffer(buf *bytes.Buffer, o Offer) {
	domain.EncodeBase(buf, o.Base)
	domain.WriteU32(buf, o.MarketID)
	domain.WriteI32(buf, int32(o.Price))
	domain.WriteU64(buf, o.ExpiryTick)
}

func decodeOffer(r *bytes.Reader) (Offer, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Offer{}, err
	}
	marketID, err := domain.ReadU32(r)
	if err != nil {
		return Offer{}, err
	}
	price, err := domain.ReadI32(r)
	if err != nil {
		return Offer{}, err
	}
	expiry, err := domain.ReadU64(r)
	if err != nil {
		return Offer{}, err
	}
	return Offer{Base: base, MarketID: marketID, Price: fx.Q16(price), ExpiryTick: expiry}, nil
}

func encodeBid(buf *bytes.Buffer, b Bid) {
	domain.EncodeBase(buf, b.Base)
	domain.WriteU32(buf, b.MarketID)
	domain.WriteI32(buf, int32(b.Price))
	domain.WriteU64(buf, b.ExpiryTick)
}

func decodeBid(r *bytes.Reader) (Bid, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Bid{}, err
	}
	marketID, err := domain.ReadU32(r)
	if err != nil {
		return Bid{}, err
	}
	price, err := domain.ReadI32(r)
	if err != nil {
		return Bid{}, err
	}
	expiry, err := domain.ReadU64(r)
	if err != nil {
		return Bid{}, err
	}
	return Bid{Base: base, MarketID: marketID, Price: fx.Q16(price), ExpiryTick: expiry}, nil
}

func encodeTransaction(buf *bytes.Buffer, t Transaction) {
	domain.EncodeBase(buf, t.Base)
	domain.WriteU32(buf, t.OfferID)
	domain.WriteU32(buf, t.BidID)
	domain.WriteI32(buf, int32(t.Price))
	domain.WriteI32(buf, int32(t.Volume))
	domain.WriteU64(buf, t.ResolutionTick)
}

func decodeTransaction(r *bytes.Reader) (Transaction, error) {
	base, err := domain.DecodeBase(r)
	if err != nil {
		return Transaction{}, err
	}
	offerID, err := domain.ReadU32(r)
	if err != nil {
		return Transaction{}, err
	}
	bidID, err := domain.ReadU32(r)
	if err != nil {
		return Transaction{}, err
	}
	price, err := domain.ReadI32(r)
	if err != nil {
		return Transaction{}, err
	}
	volume, err := domain.ReadI32(r)
	if err != nil {
		return Transaction{}, err
	}
	resolutionTick, err := domain.ReadU64(r)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Base:           base,
		OfferID:        offerID,
		BidID:          bidID,
		Price:          fx.Q16(price),
		Volume:         fx.Q16(volume),
		ResolutionTick: resolutionTick,
	}, nil
}

// Package budget implements the per-query cost accounting and refusal
// taxonomy shared by every domain: four policy cost tiers, a consume-or-
// refuse budget, and the uniform set of refusal reasons spec §4.3 defines.
package budget

// Tier names the four policy cost classes a query or resolve pass can be
// charged against.
type Tier int

const (
	TierFull Tier = iota
	TierMedium
	TierCoarse
	TierAnalytic
)

// Policy holds the four unsigned tier costs a domain charges per accessed
// element. A zero tier is substituted with 1 at lookup time (not at the
// call site) so callers that leave a tier unset still make forward
// progress against the budget; this substitution is preserved even when a
// caller explicitly sets a tier to 0, per spec §9(b).
type Policy struct {
	CostFull     uint32
	CostMedium   uint32
	CostCoarse   uint32
	CostAnalytic uint32
}

// DefaultPolicy returns a policy with every tier costing 1 unit.
func DefaultPolicy() Policy {
	return Policy{CostFull: 1, CostMedium: 1, CostCoarse: 1, CostAnalytic: 1}
}

// Cost returns the configured cost for tier, substituting 1 when the
// configured value is 0.
func (p Policy) Cost(tier Tier) uint32 {
	var raw uint32
	switch tier {
	case TierFull:
		raw = p.CostFull
	case TierMedium:
		raw = p.CostMedium
	case TierCoarse:
		raw = p.CostCoarse
	case TierAnalytic:
		raw = p.CostAnalytic
	}
	if raw == 0 {
		return 1
	}
	return raw
}

// Budget tracks units used against a caller-funded maximum.
type Budget struct {
	Used uint32
	Max  uint32
}

// NewBudget returns a budget pre-funded with max units.
func NewBudget(max uint32) Budget {
	return Budget{Max: max}
}

// Consume attempts to charge cost units. It returns true and updates Used
// iff Used+cost <= Max; otherwise it leaves Used unchanged and returns
// false, per spec §8's "after a refused query the used value is unchanged"
// invariant.
func (b *Budget) Consume(cost uint32) bool {
	if b.Used+cost > b.Max {
		return false
	}
	b.Used += cost
	return true
}

// ConsumeTier is a convenience wrapper that looks up the tier's cost from
// policy and consumes it.
func (b *Budget) ConsumeTier(p Policy, tier Tier) bool {
	return b.Consume(p.Cost(tier))
}

package booking

import (
	"travelagency/models"
	"travelagency/utils"
)

// Counts is the number of travelers per category.
type Counts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Babies   int `json:"babies"`
}

// Normalize enforces at least one adult and no negative counts.
func (c Counts) Normalize() Counts {
	if c.Adults < 1 {
		c.Adults = 1
	}
	if c.Children < 0 {
		c.Children = 0
	}
	if c.Babies < 0 {
		c.Babies = 0
	}
	return c
}

// Total is the number of travelers.
func (c Counts) Total() int {
	return c.Adults + c.Children + c.Babies
}

// Prices are the unit prices in effect. Nil tiers are derived from the adult price.
type Prices struct {
	Adult float64  `json:"adult"`
	Child *float64 `json:"child,omitempty"`
	Baby  *float64 `json:"baby,omitempty"`
}

// PricesFor reads a package's tiers, falling back to its base price for adults.
func PricesFor(p models.TravelPackage) Prices {
	adult := p.Price
	if p.PriceAdult != nil {
		adult = *p.PriceAdult
	}
	return Prices{Adult: adult, Child: p.PriceChild, Baby: p.PriceBaby}
}

// PricingPolicy holds the ratios used to derive missing child and baby tiers.
type PricingPolicy struct {
	ChildRatio float64 `json:"childRatio"`
	BabyRatio  float64 `json:"babyRatio"`
}

var DefaultPricingPolicy = PricingPolicy{ChildRatio: 0.7, BabyRatio: 0.3}

// UnitPrices resolves the three tiers.
func (pp PricingPolicy) UnitPrices(p Prices) (adult, child, baby float64) {
	adult = p.Adult
	child = adult * pp.ChildRatio
	if p.Child != nil {
		child = *p.Child
	}
	baby = adult * pp.BabyRatio
	if p.Baby != nil {
		baby = *p.Baby
	}
	return adult, child, baby
}

// Total computes round-half-up(adults*pA + children*pC + babies*pB), never negative.
// Counts are normalized first.
func (pp PricingPolicy) Total(c Counts, p Prices) int64 {
	c = c.Normalize()
	adult, child, baby := pp.UnitPrices(p)
	sum := float64(c.Adults)*adult + float64(c.Children)*child + float64(c.Babies)*baby
	total := utils.RoundHalfUp(sum)
	if total < 0 {
		return 0
	}
	return total
}

// CalculateTotal prices with the default 70%/30% policy.
func CalculateTotal(c Counts, p Prices) int64 {
	return DefaultPricingPolicy.Total(c, p)
}

// ApplyMarkup returns the price an agency shows its clients.
func ApplyMarkup(amount int64, pct *float64) int64 {
	if pct == nil || *pct <= 0 {
		return amount
	}
	return utils.RoundHalfUp(float64(amount) * (1 + *pct/100))
}

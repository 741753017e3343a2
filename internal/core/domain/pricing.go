package domain

import "github.com/shopspring/decimal"

// PriceList maps product ids to unit prices. Unknown ids fall back to a
// default price instead of failing the order.
type PriceList struct {
	prices   map[int64]decimal.Decimal
	fallback decimal.Decimal
}

func NewPriceList(prices map[int64]decimal.Decimal, fallback decimal.Decimal) PriceList {
	copied := make(map[int64]decimal.Decimal, len(prices))
	for id, p := range prices {
		copied[id] = p
	}
	return PriceList{prices: copied, fallback: fallback}
}

// DefaultPriceList is the seeded blanket price list.
func DefaultPriceList() PriceList {
	return NewPriceList(map[int64]decimal.Decimal{
		1: decimal.NewFromFloat(49.99),
		2: decimal.NewFromFloat(39.99),
		3: decimal.NewFromFloat(89.99),
	}, decimal.NewFromFloat(50.00))
}

func (p PriceList) Price(productID int64) decimal.Decimal {
	if price, ok := p.prices[productID]; ok {
		return price
	}
	return p.fallback
}

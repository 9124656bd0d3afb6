package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/money"
)

// AllocationEntry is the share of total value held in one asset class
type AllocationEntry struct {
	Type       domain.AssetType
	Value      decimal.Decimal
	Percentage decimal.Decimal
}

var hundredPercent = decimal.NewFromInt(100)

// AssetAllocation groups the current value of every holding by asset type.
// Logic:
//  1. Sum the current value per asset type, skipping holdings that cannot be valued
//  2. Sort entries by value (highest first), ties by asset type name
//  3. Compute each entry's percentage of the total, rounded to two places
//  4. Assign the rounding leftover to the largest entry
//
// Safety: percentages add up to exactly 100 whenever the total is positive.
// An empty slice is returned when there is nothing to allocate.
func AssetAllocation(portfolios ...*domain.Portfolio) []AllocationEntry {
	byType := make(map[domain.AssetType]decimal.Decimal)
	total := decimal.Zero

	for _, p := range portfolios {
		if p == nil {
			continue
		}
		for i := range p.Holdings {
			h := &p.Holdings[i]
			if h.Validate() != nil {
				continue
			}
			value := CurrentValue(h)
			byType[h.Asset.Type] = byType[h.Asset.Type].Add(value)
			total = total.Add(value)
		}
	}

	if !total.IsPositive() {
		return []AllocationEntry{}
	}

	entries := make([]AllocationEntry, 0, len(byType))
	for assetType, value := range byType {
		entries = append(entries, AllocationEntry{Type: assetType, Value: value})
	}

	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Value.Cmp(entries[j].Value); c != 0 {
			return c > 0
		}
		return entries[i].Type < entries[j].Type
	})

	assigned := decimal.Zero
	for i := range entries {
		entries[i].Percentage = money.Percent(entries[i].Value, total)
		assigned = assigned.Add(entries[i].Percentage)
	}

	// Remainder goes to the largest entry
	entries[0].Percentage = entries[0].Percentage.Add(hundredPercent.Sub(assigned))

	return entries
}

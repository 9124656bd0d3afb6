package portfolio

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

// SortKey selects the holding field SortHoldings orders by
type SortKey int

const (
	SortByAssetName SortKey = iota
	SortByAssetSymbol
	SortByAssetType
	SortByQuantity
	SortByPurchasePrice
	SortByCurrentPrice
	SortByCurrentValue
	SortByInitialAmount
	SortByPurchaseDate
)

// Wire names, matching the column identifiers used by clients
var sortKeyNames = map[SortKey]string{
	SortByAssetName:     "asset.name",
	SortByAssetSymbol:   "asset.symbol",
	SortByAssetType:     "asset.type",
	SortByQuantity:      "quantity",
	SortByPurchasePrice: "purchasePrice",
	SortByCurrentPrice:  "asset.currentPrice",
	SortByCurrentValue:  "currentValue",
	SortByInitialAmount: "initialAmount",
	SortByPurchaseDate:  "purchaseDate",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey maps a wire name such as "asset.name" to its SortKey (case-insensitive)
func ParseSortKey(s string) (SortKey, error) {
	for key, name := range sortKeyNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return key, nil
		}
	}
	return SortByAssetName, fmt.Errorf("invalid sort key %q", s)
}

// SortDirection is ascending or descending
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Toggle flips the direction, as clicking the same column header twice does
func (d SortDirection) Toggle() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseSortDirection accepts "ascending"/"asc" and "descending"/"desc"; empty means ascending
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascending", "asc":
		return Ascending, nil
	case "descending", "desc":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("invalid sort direction %q", s)
	}
}

// SortHoldings returns a new slice ordered by key in the given direction.
// Text fields use locale-aware collation, numbers and dates compare by value.
// Holdings without an asset sort before the others when ordering by an asset field.
// The sort is stable and the input slice is left untouched.
func SortHoldings(holdings []domain.Holding, key SortKey, dir SortDirection) []domain.Holding {
	sorted := make([]domain.Holding, len(holdings))
	copy(sorted, holdings)

	cmp := comparator(key)
	sort.SliceStable(sorted, func(i, j int) bool {
		c := cmp(&sorted[i], &sorted[j])
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})

	return sorted
}

// comparator builds the three-way comparison for key.
// A Collator keeps internal buffers, so each sort gets its own.
func comparator(key SortKey) func(a, b *domain.Holding) int {
	col := collate.New(language.AmericanEnglish)

	switch key {
	case SortByAssetName:
		return byAsset(func(a, b *domain.Asset) int { return col.CompareString(a.Name, b.Name) })
	case SortByAssetSymbol:
		return byAsset(func(a, b *domain.Asset) int { return col.CompareString(a.Symbol, b.Symbol) })
	case SortByAssetType:
		return byAsset(func(a, b *domain.Asset) int { return col.CompareString(string(a.Type), string(b.Type)) })
	case SortByCurrentPrice:
		return byAsset(func(a, b *domain.Asset) int { return a.CurrentPrice.Cmp(b.CurrentPrice) })
	case SortByQuantity:
		return func(a, b *domain.Holding) int { return a.Quantity.Cmp(b.Quantity) }
	case SortByPurchasePrice:
		return func(a, b *domain.Holding) int { return a.PurchasePrice.Cmp(b.PurchasePrice) }
	case SortByCurrentValue:
		return func(a, b *domain.Holding) int { return CurrentValue(a).Cmp(CurrentValue(b)) }
	case SortByInitialAmount:
		return func(a, b *domain.Holding) int { return a.InitialAmount.Cmp(b.InitialAmount) }
	case SortByPurchaseDate:
		return func(a, b *domain.Holding) int { return a.PurchaseDate.Compare(b.PurchaseDate) }
	default:
		return func(a, b *domain.Holding) int { return 0 }
	}
}

// byAsset orders holdings without an asset first, then compares the assets
func byAsset(cmp func(a, b *domain.Asset) int) func(a, b *domain.Holding) int {
	return func(a, b *domain.Holding) int {
		switch {
		case a.Asset == nil && b.Asset == nil:
			return 0
		case a.Asset == nil:
			return -1
		case b.Asset == nil:
			return 1
		}
		return cmp(a.Asset, b.Asset)
	}
}

// Package portfolio derives value, performance, allocation and transaction-history figures
// from portfolios fetched elsewhere. Every function is pure: inputs are only read, and a
// holding that cannot be valued contributes zero instead of failing the whole aggregate.
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/money"
)

// HoldingMetrics are the derived figures of a single holding
type HoldingMetrics struct {
	Holding              *domain.Holding
	CurrentValue         decimal.Decimal
	ProfitLoss           decimal.Decimal
	ProfitLossPercentage decimal.Decimal
}

// Summary aggregates one portfolio
type Summary struct {
	TotalValue            decimal.Decimal
	TotalInvested         decimal.Decimal
	ProfitLoss            decimal.Decimal
	PerformancePercentage decimal.Decimal
	HoldingCount          int
	MalformedCount        int // holdings valued at zero because they lack asset or quantity data
}

// CurrentValue returns quantity × asset.CurrentPrice, or zero for a malformed holding
func CurrentValue(h *domain.Holding) decimal.Decimal {
	if h == nil || h.Validate() != nil {
		return decimal.Zero
	}
	return h.Quantity.Mul(h.Asset.CurrentPrice)
}

// ProfitLoss returns CurrentValue − InitialAmount
func ProfitLoss(h *domain.Holding) decimal.Decimal {
	if h == nil {
		return decimal.Zero
	}
	return CurrentValue(h).Sub(h.InitialAmount)
}

// ProfitLossPercentage returns ProfitLoss / InitialAmount × 100, or zero when nothing was invested
func ProfitLossPercentage(h *domain.Holding) decimal.Decimal {
	if h == nil {
		return decimal.Zero
	}
	return money.Percent(ProfitLoss(h), h.InitialAmount)
}

// Metrics computes every derived figure of a holding at once
func Metrics(h *domain.Holding) HoldingMetrics {
	return HoldingMetrics{
		Holding:              h,
		CurrentValue:         CurrentValue(h),
		ProfitLoss:           ProfitLoss(h),
		ProfitLossPercentage: ProfitLossPercentage(h),
	}
}

// TotalValue sums the current value of every holding; zero for a nil or empty portfolio
func TotalValue(p *domain.Portfolio) decimal.Decimal {
	total := decimal.Zero
	if p == nil {
		return total
	}
	for i := range p.Holdings {
		total = total.Add(CurrentValue(&p.Holdings[i]))
	}
	return total
}

// TotalInvested sums the initial amount of every holding
func TotalInvested(p *domain.Portfolio) decimal.Decimal {
	total := decimal.Zero
	if p == nil {
		return total
	}
	for i := range p.Holdings {
		total = total.Add(p.Holdings[i].InitialAmount)
	}
	return total
}

// PerformancePercentage returns (TotalValue − TotalInvested) / TotalInvested × 100,
// or zero when nothing was invested
func PerformancePercentage(p *domain.Portfolio) decimal.Decimal {
	invested := TotalInvested(p)
	return money.Percent(TotalValue(p).Sub(invested), invested)
}

// Summarize aggregates a portfolio in one pass over its holdings
func Summarize(p *domain.Portfolio) Summary {
	s := Summary{
		TotalValue:    decimal.Zero,
		TotalInvested: decimal.Zero,
	}
	if p == nil {
		s.ProfitLoss = decimal.Zero
		s.PerformancePercentage = decimal.Zero
		return s
	}

	for i := range p.Holdings {
		h := &p.Holdings[i]
		if h.Validate() != nil {
			s.MalformedCount++
		}
		s.TotalValue = s.TotalValue.Add(CurrentValue(h))
		s.TotalInvested = s.TotalInvested.Add(h.InitialAmount)
	}

	s.HoldingCount = len(p.Holdings)
	s.ProfitLoss = s.TotalValue.Sub(s.TotalInvested)
	s.PerformancePercentage = money.Percent(s.ProfitLoss, s.TotalInvested)

	return s
}

// Combine adds several portfolio summaries into one grand total
func Combine(summaries ...Summary) Summary {
	total := Summary{
		TotalValue:    decimal.Zero,
		TotalInvested: decimal.Zero,
	}
	for _, s := range summaries {
		total.TotalValue = total.TotalValue.Add(s.TotalValue)
		total.TotalInvested = total.TotalInvested.Add(s.TotalInvested)
		total.HoldingCount += s.HoldingCount
		total.MalformedCount += s.MalformedCount
	}
	total.ProfitLoss = total.TotalValue.Sub(total.TotalInvested)
	total.PerformancePercentage = money.Percent(total.ProfitLoss, total.TotalInvested)
	return total
}

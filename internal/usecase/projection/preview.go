package projection

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/money"
)

// PreviewEstimate is the instant estimate shown while a plan is being edited
type PreviewEstimate struct {
	EstimatedFinalAmount decimal.Decimal
	TotalContributions   decimal.Decimal
	EstimatedEarnings    decimal.Decimal
}

// Preview runs the Project recurrence in float64 without validation or per-month rounding.
// The month keeps the same order as Project (contribution, then return, then tax) and the
// final balance is discounted by the compounded inflation, so the estimate stays close to the
// saved result. Out-of-range durations are treated as zero years.
func Preview(plan domain.InvestmentPlan) PreviewEstimate {
	if plan.InvestmentDurationYears < 0 || plan.InvestmentDurationYears > domain.MaxDurationYears {
		plan.InvestmentDurationYears = 0
	}

	contribution := plan.MonthlyContribution.InexactFloat64()
	monthlyReturn := plan.AnnualReturnRate.InexactFloat64() / 100 / 12
	monthlyInflation := plan.InflationRate.InexactFloat64() / 100 / 12
	taxFraction := plan.TaxRate.InexactFloat64() / 100

	balance := plan.InitialInvestment.InexactFloat64()
	for month := 0; month < plan.Months(); month++ {
		balance += contribution
		earnings := balance * monthlyReturn
		balance += earnings
		balance -= earnings * taxFraction
	}

	final := balance / math.Pow(1+monthlyInflation, float64(plan.Months()))
	if math.IsNaN(final) || math.IsInf(final, 0) {
		final = 0
	}

	estimate := PreviewEstimate{
		EstimatedFinalAmount: money.Round(decimal.NewFromFloat(final)),
		TotalContributions:   plan.TotalContributions(),
	}
	estimate.EstimatedEarnings = estimate.EstimatedFinalAmount.Sub(estimate.TotalContributions)

	return estimate
}

package projection

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/money"
)

// factorPlaces bounds the precision of the compounded inflation factor
const factorPlaces = 16

// multiplierPlaces is the precision of ProjectionSummary.ReturnMultiplier
const multiplierPlaces = 4

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// Projection bundles a plan with its yearly trajectory and headline figures
type Projection struct {
	Plan          domain.InvestmentPlan
	YearlyResults []domain.YearlyResult
	Summary       domain.ProjectionSummary
}

// Run validates the plan, projects it and summarizes the result
func Run(plan domain.InvestmentPlan) (*Projection, error) {
	results, err := Project(plan)
	if err != nil {
		return nil, err
	}

	return &Projection{
		Plan:          plan,
		YearlyResults: results,
		Summary:       Summarize(plan, results),
	}, nil
}

// Project simulates the plan month by month and reports one YearlyResult per year.
// Logic, for every month:
//  1. Add the monthly contribution to the balance
//  2. Earnings = balance × monthly return, rounded to cents, added to the balance
//  3. Taxes = earnings × tax rate, rounded to cents, subtracted from the balance
//  4. Compound the inflation factor by (1 + monthly inflation)
//
// Every 12th month the year's contributions, earnings and taxes are emitted together with the
// nominal balance and the balance discounted by the inflation factor.
// Nothing is clamped: a negative return can shrink the balance below zero.
// Invalid plans are rejected before any month is simulated.
func Project(plan domain.InvestmentPlan) ([]domain.YearlyResult, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	monthlyReturn := money.RateFraction(plan.AnnualReturnRate).Div(twelve)
	inflationStep := one.Add(money.RateFraction(plan.InflationRate).Div(twelve))
	taxFraction := money.RateFraction(plan.TaxRate)

	contribution := money.Round(plan.MonthlyContribution)
	yearlyContribution := contribution.Mul(twelve)

	balance := money.Round(plan.InitialInvestment)
	factor := one
	yearEarnings := decimal.Zero
	yearTaxes := decimal.Zero

	results := make([]domain.YearlyResult, 0, plan.InvestmentDurationYears)

	for month := 1; month <= plan.Months(); month++ {
		balance = balance.Add(contribution)

		earnings := money.Round(balance.Mul(monthlyReturn))
		balance = balance.Add(earnings)

		taxes := money.Round(earnings.Mul(taxFraction))
		balance = balance.Sub(taxes)

		factor = factor.Mul(inflationStep).Round(factorPlaces)

		yearEarnings = yearEarnings.Add(earnings)
		yearTaxes = yearTaxes.Add(taxes)

		if month%12 != 0 {
			continue
		}

		results = append(results, domain.YearlyResult{
			Year:                    month / 12,
			YearlyContribution:      yearlyContribution,
			YearlyEarnings:          yearEarnings,
			YearlyTaxes:             yearTaxes,
			BalanceWithInflation:    balance.DivRound(factor, money.CentPlaces),
			BalanceWithoutInflation: balance,
		})

		yearEarnings = decimal.Zero
		yearTaxes = decimal.Zero
	}

	return results, nil
}

// Summarize derives the headline figures of a projection.
// FinalAmount is the inflation-adjusted final balance; the nominal one is kept in
// FinalNominalAmount. ReturnMultiplier is zero when nothing was contributed.
func Summarize(plan domain.InvestmentPlan, results []domain.YearlyResult) domain.ProjectionSummary {
	summary := domain.ProjectionSummary{
		TotalContributions: plan.TotalContributions(),
	}

	if len(results) > 0 {
		last := results[len(results)-1]
		summary.FinalAmount = last.BalanceWithInflation
		summary.FinalNominalAmount = last.BalanceWithoutInflation
	}

	summary.TotalEarnings = summary.FinalAmount.Sub(summary.TotalContributions)
	summary.ReturnMultiplier = money.SafeDiv(summary.FinalAmount, summary.TotalContributions, multiplierPlaces)

	return summary
}

package domain

import (
	"github.com/shopspring/decimal"
)

// Accepted ranges for plan parameters (rates are percentages)
var (
	MinAnnualReturnRate = decimal.NewFromInt(-100)
	MaxAnnualReturnRate = decimal.NewFromInt(1000)
	MaxInflationRate    = decimal.NewFromInt(100)
	MaxTaxRate          = decimal.NewFromInt(100)
)

const (
	MinDurationYears = 1
	MaxDurationYears = 100
)

// InvestmentPlan holds the parameters of a hypothetical investment strategy.
// Rates are expressed in percent (8 means 8%).
type InvestmentPlan struct {
	InitialInvestment       decimal.Decimal
	MonthlyContribution     decimal.Decimal
	AnnualReturnRate        decimal.Decimal // may be negative
	InvestmentDurationYears int
	InflationRate           decimal.Decimal
	TaxRate                 decimal.Decimal // applied to each month's earnings
}

// Months returns the number of simulated months
func (p InvestmentPlan) Months() int {
	return p.InvestmentDurationYears * 12
}

// TotalContributions is the capital put in over the whole plan:
// initial investment plus twelve monthly contributions per year
func (p InvestmentPlan) TotalContributions() decimal.Decimal {
	perYear := p.MonthlyContribution.Mul(decimal.NewFromInt(12))
	return p.InitialInvestment.Add(perYear.Mul(decimal.NewFromInt(int64(p.InvestmentDurationYears))))
}

// Validate ensures every plan field lies inside its documented range.
// The first offending field is reported as a *PlanParameterError.
func (p InvestmentPlan) Validate() error {
	if p.InitialInvestment.IsNegative() {
		return &PlanParameterError{Field: "initial_investment", Reason: "must not be negative"}
	}

	if p.MonthlyContribution.IsNegative() {
		return &PlanParameterError{Field: "monthly_contribution", Reason: "must not be negative"}
	}

	if p.AnnualReturnRate.LessThan(MinAnnualReturnRate) || p.AnnualReturnRate.GreaterThan(MaxAnnualReturnRate) {
		return &PlanParameterError{Field: "annual_return_rate", Reason: "must be between -100 and 1000"}
	}

	if p.InvestmentDurationYears < MinDurationYears || p.InvestmentDurationYears > MaxDurationYears {
		return &PlanParameterError{Field: "investment_duration_years", Reason: "must be between 1 and 100"}
	}

	if p.InflationRate.IsNegative() || p.InflationRate.GreaterThan(MaxInflationRate) {
		return &PlanParameterError{Field: "inflation_rate", Reason: "must be between 0 and 100"}
	}

	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(MaxTaxRate) {
		return &PlanParameterError{Field: "tax_rate", Reason: "must be between 0 and 100"}
	}

	return nil
}

// YearlyResult is one year of a projection, emitted at every 12th month
type YearlyResult struct {
	Year                    int
	YearlyContribution      decimal.Decimal
	YearlyEarnings          decimal.Decimal
	YearlyTaxes             decimal.Decimal
	BalanceWithInflation    decimal.Decimal // nominal balance discounted to today's purchasing power
	BalanceWithoutInflation decimal.Decimal // nominal balance
}

// ProjectionSummary holds the headline figures derived from a full projection.
// FinalAmount is the inflation-adjusted final balance; FinalNominalAmount is kept alongside it.
type ProjectionSummary struct {
	FinalAmount        decimal.Decimal
	FinalNominalAmount decimal.Decimal
	TotalContributions decimal.Decimal
	TotalEarnings      decimal.Decimal
	ReturnMultiplier   decimal.Decimal
}

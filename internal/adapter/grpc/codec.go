package grpc

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/usecase/dashboard"
	"github.com/simaogato/investtrack-backend/internal/usecase/portfolio"
	"github.com/simaogato/investtrack-backend/internal/usecase/projection"
)

// Decimals travel as strings so no precision is lost in the float64 of a struct number.
// Numbers are still accepted on input for convenience.

func stringField(s *structpb.Struct, name string) string {
	v, ok := s.GetFields()[name]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(k.StringValue)
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func decimalField(s *structpb.Struct, name string) (decimal.Decimal, error) {
	raw := stringField(s, name)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return d, nil
}

func intField(s *structpb.Struct, name string) (int, error) {
	raw := stringField(s, name)
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s format: expected a whole number", name)
	}
	return int(f), nil
}

func uuidField(s *structpb.Struct, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(s, name))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return id, nil
}

// planFromStruct reads an InvestmentPlan from the "plan" field, or from the message itself
// when there is no such field
func planFromStruct(s *structpb.Struct) (domain.InvestmentPlan, error) {
	if nested := s.GetFields()["plan"].GetStructValue(); nested != nil {
		s = nested
	}

	var plan domain.InvestmentPlan
	var err error

	decimals := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"initial_investment", &plan.InitialInvestment},
		{"monthly_contribution", &plan.MonthlyContribution},
		{"annual_return_rate", &plan.AnnualReturnRate},
		{"inflation_rate", &plan.InflationRate},
		{"tax_rate", &plan.TaxRate},
	}
	for _, f := range decimals {
		if *f.dst, err = decimalField(s, f.name); err != nil {
			return plan, err
		}
	}

	if plan.InvestmentDurationYears, err = intField(s, "investment_duration_years"); err != nil {
		return plan, err
	}

	return plan, nil
}

func planToMap(p domain.InvestmentPlan) map[string]interface{} {
	return map[string]interface{}{
		"initial_investment":        p.InitialInvestment.String(),
		"monthly_contribution":      p.MonthlyContribution.String(),
		"annual_return_rate":        p.AnnualReturnRate.String(),
		"investment_duration_years": p.InvestmentDurationYears,
		"inflation_rate":            p.InflationRate.String(),
		"tax_rate":                  p.TaxRate.String(),
	}
}

func previewToMap(e projection.PreviewEstimate) map[string]interface{} {
	return map[string]interface{}{
		"estimated_final_amount": e.EstimatedFinalAmount.StringFixed(2),
		"total_contributions":    e.TotalContributions.StringFixed(2),
		"estimated_earnings":     e.EstimatedEarnings.StringFixed(2),
	}
}

func summaryToMap(s domain.ProjectionSummary) map[string]interface{} {
	return map[string]interface{}{
		"final_amount":         s.FinalAmount.StringFixed(2),
		"final_nominal_amount": s.FinalNominalAmount.StringFixed(2),
		"total_contributions":  s.TotalContributions.StringFixed(2),
		"total_earnings":       s.TotalEarnings.StringFixed(2),
		"return_multiplier":    s.ReturnMultiplier.String(),
	}
}

func yearlyResultsToList(results []domain.YearlyResult) []interface{} {
	list := make([]interface{}, 0, len(results))
	for _, r := range results {
		list = append(list, map[string]interface{}{
			"year":                      r.Year,
			"yearly_contribution":       r.YearlyContribution.StringFixed(2),
			"yearly_earnings":           r.YearlyEarnings.StringFixed(2),
			"yearly_taxes":              r.YearlyTaxes.StringFixed(2),
			"balance_with_inflation":    r.BalanceWithInflation.StringFixed(2),
			"balance_without_inflation": r.BalanceWithoutInflation.StringFixed(2),
		})
	}
	return list
}

func simulationToMap(sim *domain.Simulation, withResults bool) map[string]interface{} {
	m := map[string]interface{}{
		"id":          sim.ID.String(),
		"name":        sim.Name,
		"description": sim.Description,
		"plan":        planToMap(sim.Plan),
		"summary":     summaryToMap(sim.Summary),
		"created_at":  formatTime(sim.CreatedAt),
	}
	if withResults {
		m["yearly_results"] = yearlyResultsToList(sim.YearlyResults)
	}
	return m
}

func portfolioSummaryToMap(s portfolio.Summary) map[string]interface{} {
	return map[string]interface{}{
		"total_value":            s.TotalValue.StringFixed(2),
		"total_invested":         s.TotalInvested.StringFixed(2),
		"profit_loss":            s.ProfitLoss.StringFixed(2),
		"performance_percentage": s.PerformancePercentage.StringFixed(2),
		"holding_count":          s.HoldingCount,
		"malformed_count":        s.MalformedCount,
	}
}

func allocationToList(entries []portfolio.AllocationEntry) []interface{} {
	list := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		list = append(list, map[string]interface{}{
			"type":       string(e.Type),
			"label":      e.Type.DisplayName(),
			"value":      e.Value.StringFixed(2),
			"percentage": e.Percentage.StringFixed(2),
		})
	}
	return list
}

func transactionsToList(feed []portfolio.TransactionFeedItem) []interface{} {
	list := make([]interface{}, 0, len(feed))
	for _, item := range feed {
		list = append(list, map[string]interface{}{
			"id":               item.ID.String(),
			"type":             string(item.Type),
			"quantity":         item.Quantity.String(),
			"price":            item.Price.StringFixed(2),
			"amount":           item.Amount().StringFixed(2),
			"transaction_date": formatTime(item.TransactionDate),
			"portfolio_id":     item.PortfolioID.String(),
			"portfolio_name":   item.PortfolioName,
			"holding_id":       item.HoldingID.String(),
			"asset_name":       item.AssetName,
			"asset_symbol":     item.AssetSymbol,
			"asset_type":       string(item.AssetType),
		})
	}
	return list
}

func holdingToMap(m portfolio.HoldingMetrics) map[string]interface{} {
	h := m.Holding
	out := map[string]interface{}{
		"id":                     h.ID.String(),
		"quantity":               h.Quantity.String(),
		"purchase_price":         h.PurchasePrice.StringFixed(2),
		"initial_amount":         h.InitialAmount.StringFixed(2),
		"purchase_date":          formatTime(h.PurchaseDate),
		"current_value":          m.CurrentValue.StringFixed(2),
		"profit_loss":            m.ProfitLoss.StringFixed(2),
		"profit_loss_percentage": m.ProfitLossPercentage.StringFixed(2),
		"transaction_count":      len(h.Transactions),
	}
	if h.Asset != nil {
		out["asset"] = map[string]interface{}{
			"id":            h.Asset.ID.String(),
			"name":          h.Asset.Name,
			"symbol":        h.Asset.Symbol,
			"type":          string(h.Asset.Type),
			"current_price": h.Asset.CurrentPrice.StringFixed(2),
		}
	}
	return out
}

func portfolioOverviewsToList(overviews []dashboard.PortfolioOverview) []interface{} {
	out := make([]interface{}, 0, len(overviews))
	for _, p := range overviews {
		out = append(out, map[string]interface{}{
			"id":          p.Portfolio.ID.String(),
			"name":        p.Portfolio.Name,
			"description": p.Portfolio.Description,
			"summary":     portfolioSummaryToMap(p.Summary),
		})
	}
	return out
}

func overviewToMap(o *dashboard.Overview) map[string]interface{} {
	portfolios := portfolioOverviewsToList(o.Portfolios)

	sims := make([]interface{}, 0, len(o.LatestSimulations))
	for _, sim := range o.LatestSimulations {
		sims = append(sims, simulationToMap(sim, false))
	}

	return map[string]interface{}{
		"portfolios":          portfolios,
		"totals":              portfolioSummaryToMap(o.Totals),
		"allocation":          allocationToList(o.Allocation),
		"recent_transactions": transactionsToList(o.RecentTransactions),
		"latest_simulations":  sims,
	}
}

func portfolioDetailToMap(d *dashboard.PortfolioDetail) map[string]interface{} {
	holdings := make([]interface{}, 0, len(d.Holdings))
	for _, h := range d.Holdings {
		holdings = append(holdings, holdingToMap(h))
	}

	return map[string]interface{}{
		"id":          d.Portfolio.ID.String(),
		"name":        d.Portfolio.Name,
		"description": d.Portfolio.Description,
		"created_at":  formatTime(d.Portfolio.CreatedAt),
		"summary":     portfolioSummaryToMap(d.Summary),
		"holdings":    holdings,
		"allocation":  allocationToList(d.Allocation),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

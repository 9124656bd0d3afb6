package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/logging"
	"github.com/simaogato/investtrack-backend/internal/usecase/portfolio"
)

// LatestSimulationsLimit is how many saved simulations the overview shows
const LatestSimulationsLimit = 3

// PortfolioOverview pairs a portfolio with its aggregate figures
type PortfolioOverview struct {
	Portfolio *domain.Portfolio
	Summary   portfolio.Summary
}

// Overview is everything the dashboard screen shows
type Overview struct {
	Portfolios         []PortfolioOverview
	Totals             portfolio.Summary
	Allocation         []portfolio.AllocationEntry
	RecentTransactions []portfolio.TransactionFeedItem
	LatestSimulations  []*domain.Simulation
}

// PortfolioDetail is one portfolio with its holdings sorted for display
type PortfolioDetail struct {
	Portfolio  *domain.Portfolio
	Summary    portfolio.Summary
	Holdings   []portfolio.HoldingMetrics
	Allocation []portfolio.AllocationEntry
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	PortfolioRepo  domain.PortfolioRepository
	SimulationRepo domain.SimulationRepository
	Logger         *logging.Logger
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(
	portfolioRepo domain.PortfolioRepository,
	simulationRepo domain.SimulationRepository,
	logger *logging.Logger,
) *DashboardService {
	if logger == nil {
		logger = logging.NewSilentLogger()
	}
	return &DashboardService{
		PortfolioRepo:  portfolioRepo,
		SimulationRepo: simulationRepo,
		Logger:         logger.Component("dashboard"),
	}
}

// GetOverview aggregates every portfolio
// Logic:
//   - Per portfolio: value, invested, profit/loss, performance, holding count
//   - Totals: the per-portfolio summaries combined
//   - Allocation: asset classes across all portfolios
//   - Recent transactions: newest first, at most limit (non-positive means the default)
//   - Latest simulations: up to LatestSimulationsLimit, newest first
//
// A failure to list simulations is logged and leaves LatestSimulations empty.
func (s *DashboardService) GetOverview(ctx context.Context, limit int) (*Overview, error) {
	portfolios, err := s.PortfolioRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	overview := &Overview{
		Portfolios:        make([]PortfolioOverview, 0, len(portfolios)),
		LatestSimulations: make([]*domain.Simulation, 0, LatestSimulationsLimit),
	}

	summaries := make([]portfolio.Summary, 0, len(portfolios))
	for _, p := range portfolios {
		if p == nil {
			continue
		}
		summary := portfolio.Summarize(p)
		if summary.MalformedCount > 0 {
			s.Logger.Warn().
				Str("portfolio_id", p.ID.String()).
				Int("malformed", summary.MalformedCount).
				Msg("holdings without asset or quantity valued at zero")
		}
		overview.Portfolios = append(overview.Portfolios, PortfolioOverview{Portfolio: p, Summary: summary})
		summaries = append(summaries, summary)
	}

	overview.Totals = portfolio.Combine(summaries...)
	overview.Allocation = portfolio.AssetAllocation(portfolios...)
	overview.RecentTransactions = portfolio.RecentTransactions(portfolios, limit)

	if s.SimulationRepo != nil {
		sims, err := s.SimulationRepo.List(ctx)
		if err != nil {
			s.Logger.Warn().Err(err).Msg("failed to list simulations for dashboard")
		} else {
			for _, sim := range sims {
				if len(overview.LatestSimulations) == LatestSimulationsLimit {
					break
				}
				if sim != nil {
					overview.LatestSimulations = append(overview.LatestSimulations, sim)
				}
			}
		}
	}

	return overview, nil
}

// GetPortfolioDetail returns one portfolio with its holdings sorted by key and direction
func (s *DashboardService) GetPortfolioDetail(
	ctx context.Context,
	id uuid.UUID,
	key portfolio.SortKey,
	dir portfolio.SortDirection,
) (*PortfolioDetail, error) {
	p, err := s.PortfolioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio %s: %w", id, err)
	}

	sorted := portfolio.SortHoldings(p.Holdings, key, dir)
	holdings := make([]portfolio.HoldingMetrics, len(sorted))
	for i := range sorted {
		holdings[i] = portfolio.Metrics(&sorted[i])
	}

	return &PortfolioDetail{
		Portfolio:  p,
		Summary:    portfolio.Summarize(p),
		Holdings:   holdings,
		Allocation: portfolio.AssetAllocation(p),
	}, nil
}

// SearchPortfolios returns the portfolios whose name or description contains term (ignoring
// case) together with their summaries. An empty term returns every portfolio.
func (s *DashboardService) SearchPortfolios(ctx context.Context, term string) ([]PortfolioOverview, error) {
	portfolios, err := s.PortfolioRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	matches := portfolio.FilterByText(portfolios, term)
	result := make([]PortfolioOverview, 0, len(matches))
	for _, p := range matches {
		result = append(result, PortfolioOverview{Portfolio: p, Summary: portfolio.Summarize(p)})
	}
	return result, nil
}

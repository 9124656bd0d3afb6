package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/investtrack-backend/internal/adapter/chart"
	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/money"
	"github.com/simaogato/investtrack-backend/internal/usecase/dashboard"
	"github.com/simaogato/investtrack-backend/internal/usecase/portfolio"
	"github.com/simaogato/investtrack-backend/internal/usecase/simulation"
)

// Server implements the InvestTrackService gRPC server
type Server struct {
	SimulationService *simulation.SimulationService
	DashboardService  *dashboard.DashboardService

	// Currency labels chart axes
	Currency string
}

var _ InvestTrackServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	simulationService *simulation.SimulationService,
	dashboardService *dashboard.DashboardService,
	currency string,
) *Server {
	if currency == "" {
		currency = money.DefaultCurrency
	}
	return &Server{
		SimulationService: simulationService,
		DashboardService:  dashboardService,
		Currency:          currency,
	}
}

// PreviewPlan handles the PreviewPlan RPC.
// The estimate is computed even for out-of-range plans, as a form would while being edited.
func (s *Server) PreviewPlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	plan, err := planFromStruct(req)
	if err != nil {
		return nil, err
	}

	return toStruct(previewToMap(s.SimulationService.Preview(plan)))
}

// CreateSimulation handles the CreateSimulation RPC
func (s *Server) CreateSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	plan, err := planFromStruct(req)
	if err != nil {
		return nil, err
	}

	sim, err := s.SimulationService.Create(ctx, simulation.CreateSimulationInput{
		Name:        stringField(req, "name"),
		Description: stringField(req, "description"),
		Plan:        plan,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(simulationToMap(sim, true))
}

// GetSimulation handles the GetSimulation RPC
func (s *Server) GetSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}

	sim, err := s.SimulationService.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(simulationToMap(sim, true))
}

// ListSimulations handles the ListSimulations RPC; "search" filters by name or description
func (s *Server) ListSimulations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sims, err := s.SimulationService.List(ctx, stringField(req, "search"))
	if err != nil {
		return nil, mapError(err)
	}

	list := make([]interface{}, 0, len(sims))
	for _, sim := range sims {
		list = append(list, simulationToMap(sim, false))
	}

	return toStruct(map[string]interface{}{
		"simulations": list,
		"total_count": len(list),
	})
}

// DeleteSimulation handles the DeleteSimulation RPC
func (s *Server) DeleteSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}

	if err := s.SimulationService.Delete(ctx, id); err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"id":      id.String(),
		"deleted": true,
	})
}

// CloneSimulation handles the CloneSimulation RPC; an empty "name" derives one from the source
func (s *Server) CloneSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}

	sim, err := s.SimulationService.Clone(ctx, id, stringField(req, "name"))
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(simulationToMap(sim, true))
}

// RenderSimulationChart handles the RenderSimulationChart RPC.
// The PNG is returned base64-encoded in "png".
func (s *Server) RenderSimulationChart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}

	sim, err := s.SimulationService.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	currency := stringField(req, "currency")
	if currency == "" {
		currency = s.Currency
	}

	png, err := chart.RenderGrowthChart(sim.Plan.InitialInvestment, sim.YearlyResults, currency)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"id":           sim.ID.String(),
		"content_type": "image/png",
		"png":          png,
	})
}

// GetDashboard handles the GetDashboard RPC; "transactions_limit" defaults to 5
func (s *Server) GetDashboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit, err := intField(req, "transactions_limit")
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "transactions_limit must be positive")
	}

	overview, err := s.DashboardService.GetOverview(ctx, limit)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(overviewToMap(overview))
}

// GetPortfolio handles the GetPortfolio RPC.
// "sort_key" takes a column name such as "asset.name" and "sort_direction" asc or desc.
func (s *Server) GetPortfolio(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := uuidField(req, "id")
	if err != nil {
		return nil, err
	}

	key := portfolio.SortByAssetName
	if raw := stringField(req, "sort_key"); raw != "" {
		if key, err = portfolio.ParseSortKey(raw); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%v", err)
		}
	}

	dir, err := portfolio.ParseSortDirection(stringField(req, "sort_direction"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	detail, err := s.DashboardService.GetPortfolioDetail(ctx, id, key, dir)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(portfolioDetailToMap(detail))
}

// ListPortfolios handles the ListPortfolios RPC; "search" filters by name or description
func (s *Server) ListPortfolios(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	matches, err := s.DashboardService.SearchPortfolios(ctx, stringField(req, "search"))
	if err != nil {
		return nil, mapError(err)
	}

	list := portfolioOverviewsToList(matches)
	return toStruct(map[string]interface{}{
		"portfolios":  list,
		"total_count": len(list),
	})
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidPlanParameter),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrMalformedHolding):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, chart.ErrNoData):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	}

	// Fall back to the message for errors that carry no sentinel
	if strings.Contains(errorMsg, "must be positive") ||
		strings.Contains(errorMsg, "invalid") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}
	if strings.Contains(errorMsg, "not found") {
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	}

	return status.Errorf(codes.Internal, "%s", errorMsg)
}

package simulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/logging"
	"github.com/simaogato/investtrack-backend/internal/usecase/projection"
)

// CreateSimulationInput represents the input for saving a new simulation
type CreateSimulationInput struct {
	Name        string
	Description string
	Plan        domain.InvestmentPlan
}

// SimulationService runs investment plans and keeps the results
type SimulationService struct {
	SimulationRepo domain.SimulationRepository
	Logger         *logging.Logger

	now func() time.Time
}

// NewSimulationService creates a new SimulationService instance
func NewSimulationService(simulationRepo domain.SimulationRepository, logger *logging.Logger) *SimulationService {
	if logger == nil {
		logger = logging.NewSilentLogger()
	}
	return &SimulationService{
		SimulationRepo: simulationRepo,
		Logger:         logger.Component("simulation"),
		now:            time.Now,
	}
}

// Create validates the input, projects the plan and saves the simulation with its results.
// Nothing is persisted when validation or projection fails.
func (s *SimulationService) Create(ctx context.Context, input CreateSimulationInput) (*domain.Simulation, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)

	if err := domain.ValidateName(name, description); err != nil {
		return nil, err
	}

	result, err := projection.Run(input.Plan)
	if err != nil {
		return nil, err
	}

	sim := &domain.Simulation{
		ID:            uuid.New(),
		Name:          name,
		Description:   description,
		Plan:          input.Plan,
		YearlyResults: result.YearlyResults,
		Summary:       result.Summary,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.SimulationRepo.Create(ctx, sim); err != nil {
		return nil, fmt.Errorf("failed to save simulation: %w", err)
	}

	s.Logger.Info().
		Str("simulation_id", sim.ID.String()).
		Int("years", input.Plan.InvestmentDurationYears).
		Str("final_amount", sim.Summary.FinalAmount.StringFixed(2)).
		Msg("simulation created")

	return sim, nil
}

// Get retrieves a saved simulation with its yearly results
func (s *SimulationService) Get(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	sim, err := s.SimulationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation %s: %w", id, err)
	}
	return sim, nil
}

// List returns saved simulations, newest first, whose name or description contains search
// (case-insensitive). An empty search returns everything.
func (s *SimulationService) List(ctx context.Context, search string) ([]*domain.Simulation, error) {
	sims, err := s.SimulationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]*domain.Simulation, 0, len(sims))
	for _, sim := range sims {
		if sim == nil {
			continue
		}
		if term == "" ||
			strings.Contains(strings.ToLower(sim.Name), term) ||
			strings.Contains(strings.ToLower(sim.Description), term) {
			filtered = append(filtered, sim)
		}
	}
	return filtered, nil
}

// Delete removes a saved simulation and its yearly results
func (s *SimulationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.SimulationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete simulation %s: %w", id, err)
	}
	s.Logger.Info().Str("simulation_id", id.String()).Msg("simulation deleted")
	return nil
}

// Clone re-runs a saved simulation's plan and saves it under a new name.
// An empty name becomes "<original name> (copy)".
func (s *SimulationService) Clone(ctx context.Context, id uuid.UUID, name string) (*domain.Simulation, error) {
	source, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		name = source.Name + " (copy)"
	}

	return s.Create(ctx, CreateSimulationInput{
		Name:        name,
		Description: source.Description,
		Plan:        source.Plan,
	})
}

// Preview estimates the outcome of a plan without validating or saving it
func (s *SimulationService) Preview(plan domain.InvestmentPlan) projection.PreviewEstimate {
	return projection.Preview(plan)
}

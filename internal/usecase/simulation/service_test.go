package simulation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

// MockSimulationRepository is a mock implementation of SimulationRepository for testing
type MockSimulationRepository struct {
	mock.Mock
}

func (m *MockSimulationRepository) Create(ctx context.Context, sim *domain.Simulation) error {
	args := m.Called(ctx, sim)
	return args.Error(0)
}

func (m *MockSimulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) List(ctx context.Context) ([]*domain.Simulation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Simulation), args.Error(1)
}

func (m *MockSimulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func plan() domain.InvestmentPlan {
	return domain.InvestmentPlan{
		InitialInvestment:       decimal.NewFromInt(10000),
		MonthlyContribution:     decimal.NewFromInt(500),
		AnnualReturnRate:        decimal.NewFromInt(8),
		InvestmentDurationYears: 20,
		InflationRate:           decimal.NewFromInt(2),
		TaxRate:                 decimal.NewFromInt(15),
	}
}

func newService(repo *MockSimulationRepository) *SimulationService {
	s := NewSimulationService(repo, nil)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return s
}

func TestCreate_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Simulation")).Return(nil)

	sim, err := service.Create(ctx, CreateSimulationInput{
		Name:        "  Retirement  ",
		Description: "Max out contributions",
		Plan:        plan(),
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sim.ID)
	assert.Equal(t, "Retirement", sim.Name)
	assert.Len(t, sim.YearlyResults, 20)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), sim.CreatedAt)
	assert.True(t, sim.Summary.FinalAmount.Equal(sim.YearlyResults[19].BalanceWithInflation))
	assert.True(t, decimal.NewFromInt(130000).Equal(sim.Summary.TotalContributions))

	saved := repo.Calls[0].Arguments.Get(1).(*domain.Simulation)
	assert.Same(t, sim, saved)
	repo.AssertExpectations(t)
}

func TestCreate_InvalidNameIsNotSaved(t *testing.T) {
	repo := new(MockSimulationRepository)
	service := newService(repo)

	_, err := service.Create(context.Background(), CreateSimulationInput{Name: " R ", Plan: plan()})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "at least 2 characters")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_InvalidPlanIsNotSaved(t *testing.T) {
	repo := new(MockSimulationRepository)
	service := newService(repo)

	p := plan()
	p.InvestmentDurationYears = 101

	_, err := service.Create(context.Background(), CreateSimulationInput{Name: "Too long", Plan: p})

	assert.ErrorIs(t, err, domain.ErrInvalidPlanParameter)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	repo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	sim, err := service.Create(ctx, CreateSimulationInput{Name: "Retirement", Plan: plan()})

	assert.Nil(t, sim)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save simulation")
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(nil, domain.ErrNotFound)

	_, err := service.Get(ctx, id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), id.String())
}

func TestList_FiltersBySearchTerm(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	sims := []*domain.Simulation{
		{ID: uuid.New(), Name: "Retirement"},
		{ID: uuid.New(), Name: "House", Description: "Down payment for RETIREMENT home"},
		{ID: uuid.New(), Name: "College"},
	}
	repo.On("List", ctx).Return(sims, nil)

	all, err := service.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	matched, err := service.List(ctx, " retire")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Retirement", matched[0].Name)
	assert.Equal(t, "House", matched[1].Name)

	none, err := service.List(ctx, "boat")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestList_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	repo.On("List", ctx).Return(nil, errors.New("timeout"))

	_, err := service.List(ctx, "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list simulations")
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	id := uuid.New()
	missing := uuid.New()
	repo.On("Delete", ctx, id).Return(nil)
	repo.On("Delete", ctx, missing).Return(domain.ErrNotFound)

	assert.NoError(t, service.Delete(ctx, id))
	assert.ErrorIs(t, service.Delete(ctx, missing), domain.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestClone(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	source := &domain.Simulation{
		ID:          uuid.New(),
		Name:        "Retirement",
		Description: "Baseline",
		Plan:        plan(),
	}
	repo.On("GetByID", ctx, source.ID).Return(source, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Simulation")).Return(nil)

	named, err := service.Clone(ctx, source.ID, "Retirement aggressive")
	require.NoError(t, err)
	assert.NotEqual(t, source.ID, named.ID)
	assert.Equal(t, "Retirement aggressive", named.Name)
	assert.Equal(t, "Baseline", named.Description)
	assert.Len(t, named.YearlyResults, source.Plan.InvestmentDurationYears)

	unnamed, err := service.Clone(ctx, source.ID, "  ")
	require.NoError(t, err)
	assert.Equal(t, "Retirement (copy)", unnamed.Name)
}

func TestClone_LongNameIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSimulationRepository)
	service := newService(repo)

	source := &domain.Simulation{ID: uuid.New(), Name: strings.Repeat("n", 95), Plan: plan()}
	repo.On("GetByID", ctx, source.ID).Return(source, nil)

	_, err := service.Clone(ctx, source.ID, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPreview(t *testing.T) {
	service := newService(new(MockSimulationRepository))

	estimate := service.Preview(plan())

	assert.True(t, decimal.NewFromInt(130000).Equal(estimate.TotalContributions))
	assert.True(t, estimate.EstimatedFinalAmount.GreaterThan(estimate.TotalContributions))
}

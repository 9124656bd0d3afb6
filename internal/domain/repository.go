package domain

import (
	"context"

	"github.com/google/uuid"
)

// PortfolioRepository defines the read operations on portfolios.
// Portfolios are created and edited elsewhere; this service only reads them.
type PortfolioRepository interface {
	// List retrieves all portfolios with their holdings, assets and transactions
	List(ctx context.Context) ([]*Portfolio, error)

	// GetByID retrieves one portfolio with its holdings, assets and transactions
	GetByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)
}

// SimulationRepository defines the interface for simulation persistence operations
type SimulationRepository interface {
	// Create stores a simulation together with its yearly results
	Create(ctx context.Context, sim *Simulation) error

	// GetByID retrieves a simulation and its yearly results
	GetByID(ctx context.Context, id uuid.UUID) (*Simulation, error)

	// List retrieves all simulations, newest first.
	// Yearly results are not loaded by List.
	List(ctx context.Context) ([]*Simulation, error)

	// Delete removes a simulation and its yearly results
	Delete(ctx context.Context, id uuid.UUID) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

// simulationRepository implements domain.SimulationRepository
type simulationRepository struct {
	db *DB
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *DB) domain.SimulationRepository {
	return &simulationRepository{db: db}
}

const simulationColumns = `
	id, name, description,
	initial_investment, monthly_contribution, annual_return_rate,
	investment_duration_years, inflation_rate, tax_rate,
	final_amount, final_nominal_amount, total_contributions, total_earnings, return_multiplier,
	created_at
`

// Create stores a simulation and its yearly results in a database transaction
func (r *simulationRepository) Create(ctx context.Context, sim *domain.Simulation) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertSimulationQuery := `
		INSERT INTO simulations (` + simulationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = dbTx.ExecContext(ctx, insertSimulationQuery,
		sim.ID,
		sim.Name,
		sim.Description,
		sim.Plan.InitialInvestment.String(),
		sim.Plan.MonthlyContribution.String(),
		sim.Plan.AnnualReturnRate.String(),
		sim.Plan.InvestmentDurationYears,
		sim.Plan.InflationRate.String(),
		sim.Plan.TaxRate.String(),
		sim.Summary.FinalAmount.String(),
		sim.Summary.FinalNominalAmount.String(),
		sim.Summary.TotalContributions.String(),
		sim.Summary.TotalEarnings.String(),
		sim.Summary.ReturnMultiplier.String(),
		sim.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation: %w", err)
	}

	insertResultQuery := `
		INSERT INTO simulation_yearly_results (
			simulation_id, year, yearly_contribution, yearly_earnings, yearly_taxes,
			balance_with_inflation, balance_without_inflation
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, result := range sim.YearlyResults {
		_, err = dbTx.ExecContext(ctx, insertResultQuery,
			sim.ID,
			result.Year,
			result.YearlyContribution.String(),
			result.YearlyEarnings.String(),
			result.YearlyTaxes.String(),
			result.BalanceWithInflation.String(),
			result.BalanceWithoutInflation.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert yearly result %d: %w", result.Year, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a simulation and its yearly results ordered by year
func (r *simulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	query := `SELECT ` + simulationColumns + ` FROM simulations WHERE id = $1`

	sim, err := scanSimulation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("simulation %s not found: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	resultsQuery := `
		SELECT year, yearly_contribution, yearly_earnings, yearly_taxes,
		       balance_with_inflation, balance_without_inflation
		FROM simulation_yearly_results
		WHERE simulation_id = $1
		ORDER BY year
	`

	rows, err := r.db.QueryContext(ctx, resultsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list yearly results: %w", err)
	}
	defer rows.Close()

	sim.YearlyResults = make([]domain.YearlyResult, 0, sim.Plan.InvestmentDurationYears)
	for rows.Next() {
		var result domain.YearlyResult
		var contribution, earnings, taxes, withInflation, withoutInflation string

		if err := rows.Scan(&result.Year, &contribution, &earnings, &taxes, &withInflation, &withoutInflation); err != nil {
			return nil, fmt.Errorf("failed to scan yearly result: %w", err)
		}

		fields := []struct {
			raw    string
			column string
			dst    *decimal.Decimal
		}{
			{contribution, "yearly_contribution", &result.YearlyContribution},
			{earnings, "yearly_earnings", &result.YearlyEarnings},
			{taxes, "yearly_taxes", &result.YearlyTaxes},
			{withInflation, "balance_with_inflation", &result.BalanceWithInflation},
			{withoutInflation, "balance_without_inflation", &result.BalanceWithoutInflation},
		}
		for _, f := range fields {
			if *f.dst, err = parseDecimal(f.raw, f.column); err != nil {
				return nil, err
			}
		}

		sim.YearlyResults = append(sim.YearlyResults, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating yearly results: %w", err)
	}

	return sim, nil
}

// List retrieves all simulations, newest first, without their yearly results
func (r *simulationRepository) List(ctx context.Context) ([]*domain.Simulation, error) {
	query := `SELECT ` + simulationColumns + ` FROM simulations ORDER BY created_at DESC, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	defer rows.Close()

	sims := make([]*domain.Simulation, 0)
	for rows.Next() {
		sim, err := scanSimulation(rows)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulations: %w", err)
	}

	return sims, nil
}

// Delete removes a simulation; its yearly results go with it through ON DELETE CASCADE
func (r *simulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM simulations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("simulation %s not found: %w", id, domain.ErrNotFound)
	}

	return nil
}

// scanSimulation reads simulationColumns in order. sql.ErrNoRows is passed through as is.
func scanSimulation(row scanner) (*domain.Simulation, error) {
	var sim domain.Simulation
	var raw [10]string

	err := row.Scan(
		&sim.ID,
		&sim.Name,
		&sim.Description,
		&raw[0],
		&raw[1],
		&raw[2],
		&sim.Plan.InvestmentDurationYears,
		&raw[3],
		&raw[4],
		&raw[5],
		&raw[6],
		&raw[7],
		&raw[8],
		&raw[9],
		&sim.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan simulation: %w", err)
	}

	fields := []struct {
		column string
		dst    *decimal.Decimal
	}{
		{"initial_investment", &sim.Plan.InitialInvestment},
		{"monthly_contribution", &sim.Plan.MonthlyContribution},
		{"annual_return_rate", &sim.Plan.AnnualReturnRate},
		{"inflation_rate", &sim.Plan.InflationRate},
		{"tax_rate", &sim.Plan.TaxRate},
		{"final_amount", &sim.Summary.FinalAmount},
		{"final_nominal_amount", &sim.Summary.FinalNominalAmount},
		{"total_contributions", &sim.Summary.TotalContributions},
		{"total_earnings", &sim.Summary.TotalEarnings},
		{"return_multiplier", &sim.Summary.ReturnMultiplier},
	}
	for i, f := range fields {
		if *f.dst, err = parseDecimal(raw[i], f.column); err != nil {
			return nil, err
		}
	}

	return &sim, nil
}

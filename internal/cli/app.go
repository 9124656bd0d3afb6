// Package cli implements the investctl subcommands
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/simaogato/investtrack-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/investtrack-backend/internal/config"
	"github.com/simaogato/investtrack-backend/internal/domain"
	"github.com/simaogato/investtrack-backend/internal/logging"
)

// RepositoryOpener returns the repositories backing the read commands and a function releasing them
type RepositoryOpener func(ctx context.Context) (domain.PortfolioRepository, domain.SimulationRepository, func() error, error)

// App carries what every subcommand needs
type App struct {
	Config *config.Config
	Logger *logging.Logger
	Out    io.Writer

	// Format is "markdown" for raw output or "terminal" for styled output
	Format string

	OpenRepositories RepositoryOpener
}

// NewApp creates an App writing to stdout and reading portfolios from PostgreSQL
func NewApp(cfg *config.Config, logger *logging.Logger) *App {
	return &App{
		Config:           cfg,
		Logger:           logger,
		Out:              os.Stdout,
		Format:           "markdown",
		OpenRepositories: PostgresRepositories(cfg),
	}
}

// PostgresRepositories opens the database described by cfg
func PostgresRepositories(cfg *config.Config) RepositoryOpener {
	return func(ctx context.Context) (domain.PortfolioRepository, domain.SimulationRepository, func() error, error) {
		db, err := postgres.NewDB(cfg.Database.ConnString())
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewPortfolioRepository(db), postgres.NewSimulationRepository(db), db.Close, nil
	}
}

// Register the subcommands.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&projectCmd{app: app}, "simulation")
	c.Register(&previewCmd{app: app}, "simulation")
	c.Register(&chartCmd{app: app}, "simulation")
	c.Register(&dashboardCmd{app: app}, "portfolio")
}

func (a *App) currency() string {
	if a.Config == nil || a.Config.Display.Currency == "" {
		return "USD"
	}
	return a.Config.Display.Currency
}

// print writes a markdown document, styled for the terminal when asked to
func (a *App) print(markdown string) error {
	if strings.EqualFold(a.Format, "terminal") {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err != nil {
			return fmt.Errorf("failed to create terminal renderer: %w", err)
		}
		styled, err := r.Render(markdown)
		if err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}
		markdown = styled
	}
	_, err := io.WriteString(a.Out, markdown)
	return err
}

func (a *App) fail(err error) subcommands.ExitStatus {
	if a.Logger != nil {
		a.Logger.Error().Err(err).Msg("command failed")
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	return subcommands.ExitFailure
}

// planFlags are the investment plan parameters shared by project, preview and chart
type planFlags struct {
	initial   string
	monthly   string
	rate      string
	years     int
	inflation string
	tax       string
}

func (p *planFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.initial, "initial", "0", "Initial investment.")
	f.StringVar(&p.monthly, "monthly", "0", "Monthly contribution.")
	f.StringVar(&p.rate, "rate", "0", "Expected annual return, in percent.")
	f.IntVar(&p.years, "years", 10, "Investment duration in years (1-100).")
	f.StringVar(&p.inflation, "inflation", "0", "Expected annual inflation, in percent.")
	f.StringVar(&p.tax, "tax", "0", "Tax on earnings, in percent.")
}

func (p *planFlags) plan() (domain.InvestmentPlan, error) {
	plan := domain.InvestmentPlan{InvestmentDurationYears: p.years}

	values := []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"initial", p.initial, &plan.InitialInvestment},
		{"monthly", p.monthly, &plan.MonthlyContribution},
		{"rate", p.rate, &plan.AnnualReturnRate},
		{"inflation", p.inflation, &plan.InflationRate},
		{"tax", p.tax, &plan.TaxRate},
	}
	for _, v := range values {
		d, err := decimal.NewFromString(strings.TrimSpace(v.raw))
		if err != nil {
			return plan, fmt.Errorf("invalid -%s value %q: %w", v.flag, v.raw, err)
		}
		*v.dst = d
	}

	return plan, nil
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/simaogato/investtrack-backend/internal/adapter/chart"
	"github.com/simaogato/investtrack-backend/internal/usecase/dashboard"
	"github.com/simaogato/investtrack-backend/internal/usecase/projection"
)

type chartCmd struct {
	app *App
	planFlags
	kind   string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render a growth or allocation chart as PNG" }
func (*chartCmd) Usage() string {
	return `investctl chart [-kind growth|allocation] [-o <file>] [plan flags]

  growth:     projects the plan given by the plan flags and draws the nominal
              and inflation-adjusted balance per year.
  allocation: reads every portfolio from the database and draws the share of
              each asset class.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.planFlags.SetFlags(f)
	f.StringVar(&c.kind, "kind", "growth", "Chart to render: growth or allocation.")
	f.StringVar(&c.output, "o", "chart.png", "Output PNG file.")
}

func (c *chartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var png []byte
	var err error

	switch c.kind {
	case "growth":
		png, err = c.growth()
	case "allocation":
		png, err = c.allocation(ctx)
	default:
		err = fmt.Errorf("unknown chart kind %q", c.kind)
	}
	if err != nil {
		return c.app.fail(err)
	}

	if err := os.WriteFile(c.output, png, 0o644); err != nil {
		return c.app.fail(fmt.Errorf("failed to write %s: %w", c.output, err))
	}

	fmt.Fprintf(c.app.Out, "wrote %s (%d bytes)\n", c.output, len(png))
	return subcommands.ExitSuccess
}

func (c *chartCmd) growth() ([]byte, error) {
	plan, err := c.plan()
	if err != nil {
		return nil, err
	}
	results, err := projection.Project(plan)
	if err != nil {
		return nil, err
	}
	return chart.RenderGrowthChart(plan.InitialInvestment, results, c.app.currency())
}

func (c *chartCmd) allocation(ctx context.Context) ([]byte, error) {
	portfolios, simulations, closeFn, err := c.app.OpenRepositories(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	overview, err := dashboard.NewDashboardService(portfolios, simulations, c.app.Logger).GetOverview(ctx, 0)
	if err != nil {
		return nil, err
	}
	return chart.RenderAllocationChart(overview.Allocation)
}

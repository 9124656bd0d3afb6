package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/simaogato/investtrack-backend/internal/money"
	"github.com/simaogato/investtrack-backend/internal/usecase/projection"
)

type projectCmd struct {
	app *App
	planFlags
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project an investment plan year by year" }
func (*projectCmd) Usage() string {
	return `investctl project -initial <amount> -monthly <amount> -rate <percent> -years <n> [-inflation <percent>] [-tax <percent>]

  Simulates the plan month by month and prints one row per year with the
  contributions, earnings, taxes and the balance before and after inflation,
  followed by the headline figures.
`
}

func (c *projectCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	plan, err := c.plan()
	if err != nil {
		return c.app.fail(err)
	}

	result, err := projection.Run(plan)
	if err != nil {
		return c.app.fail(err)
	}

	if err := c.app.print(ProjectionMarkdown(result, c.app.currency())); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

// ProjectionMarkdown renders a projection as a markdown table plus its summary
func ProjectionMarkdown(p *projection.Projection, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Projection over %d years\n\n", p.Plan.InvestmentDurationYears)
	b.WriteString("| Year | Contribution | Earnings | Taxes | Balance | Inflation Adjusted |\n")
	b.WriteString("|---:|---:|---:|---:|---:|---:|\n")
	for _, r := range p.YearlyResults {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			r.Year,
			money.FormatCurrency(r.YearlyContribution, currency),
			money.FormatSignedCurrency(r.YearlyEarnings, currency),
			money.FormatCurrency(r.YearlyTaxes, currency),
			money.FormatCurrency(r.BalanceWithoutInflation, currency),
			money.FormatCurrency(r.BalanceWithInflation, currency),
		)
	}

	s := p.Summary
	b.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&b, "- Final amount (inflation adjusted): %s\n", money.FormatCurrency(s.FinalAmount, currency))
	fmt.Fprintf(&b, "- Final amount (nominal): %s\n", money.FormatCurrency(s.FinalNominalAmount, currency))
	fmt.Fprintf(&b, "- Total contributions: %s\n", money.FormatCurrency(s.TotalContributions, currency))
	fmt.Fprintf(&b, "- Total earnings: %s\n", money.FormatSignedCurrency(s.TotalEarnings, currency))
	fmt.Fprintf(&b, "- Return multiplier: %s\n", money.FormatMultiplier(s.ReturnMultiplier))

	return b.String()
}

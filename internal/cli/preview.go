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

type previewCmd struct {
	app *App
	planFlags
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "quick estimate of a plan's outcome" }
func (*previewCmd) Usage() string {
	return `investctl preview -initial <amount> -monthly <amount> -rate <percent> -years <n> [-inflation <percent>] [-tax <percent>]

  Prints the estimated final amount without validating the plan. Use
  "project" for the exact figures.
`
}

func (c *previewCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	plan, err := c.plan()
	if err != nil {
		return c.app.fail(err)
	}

	estimate := projection.Preview(plan)
	currency := c.app.currency()

	var b strings.Builder
	b.WriteString("# Estimate\n\n")
	fmt.Fprintf(&b, "- Estimated final amount: %s\n", money.FormatCurrency(estimate.EstimatedFinalAmount, currency))
	fmt.Fprintf(&b, "- Total contributions: %s\n", money.FormatCurrency(estimate.TotalContributions, currency))
	fmt.Fprintf(&b, "- Estimated earnings: %s\n", money.FormatSignedCurrency(estimate.EstimatedEarnings, currency))

	if err := c.app.print(b.String()); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

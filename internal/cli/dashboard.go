package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/simaogato/investtrack-backend/internal/money"
	"github.com/simaogato/investtrack-backend/internal/usecase/dashboard"
	"github.com/simaogato/investtrack-backend/internal/usecase/portfolio"
)

type dashboardCmd struct {
	app       *App
	limit     int
	portfolio string
	search    string
	sortKey   string
	sortDir   string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "summarize portfolios, allocation and recent activity" }
func (*dashboardCmd) Usage() string {
	return `investctl dashboard [-limit <n>] [-search <text>] [-portfolio <id> [-sort <key>] [-dir asc|desc]]

  Without -portfolio, prints the totals of every portfolio, the asset
  allocation, the most recent transactions and the latest simulations.
  With -search, lists only the portfolios whose name or description match.
  With -portfolio, prints that portfolio's holdings sorted by -sort.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", portfolio.DefaultRecentTransactionsLimit, "Number of recent transactions to show.")
	f.StringVar(&c.portfolio, "portfolio", "", "Show the holdings of this portfolio id.")
	f.StringVar(&c.search, "search", "", "List the portfolios whose name or description contain this text.")
	f.StringVar(&c.sortKey, "sort", "asset.name", "Holding sort key, e.g. asset.name, currentValue, purchaseDate.")
	f.StringVar(&c.sortDir, "dir", "asc", "Sort direction: asc or desc.")
}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	portfolios, simulations, closeFn, err := c.app.OpenRepositories(ctx)
	if err != nil {
		return c.app.fail(err)
	}
	defer closeFn()

	svc := dashboard.NewDashboardService(portfolios, simulations, c.app.Logger)

	var out string
	switch {
	case c.search != "" && c.portfolio == "":
		matches, err := svc.SearchPortfolios(ctx, c.search)
		if err != nil {
			return c.app.fail(err)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# Portfolios matching %q\n\n", c.search)
		writePortfolios(&b, matches, c.app.currency())
		out = b.String()
	case c.portfolio == "":
		overview, err := svc.GetOverview(ctx, c.limit)
		if err != nil {
			return c.app.fail(err)
		}
		out = OverviewMarkdown(overview, c.app.currency())
	default:
		id, err := uuid.Parse(c.portfolio)
		if err != nil {
			return c.app.fail(fmt.Errorf("invalid portfolio id %q: %w", c.portfolio, err))
		}
		key, err := portfolio.ParseSortKey(c.sortKey)
		if err != nil {
			return c.app.fail(err)
		}
		dir, err := portfolio.ParseSortDirection(c.sortDir)
		if err != nil {
			return c.app.fail(err)
		}
		detail, err := svc.GetPortfolioDetail(ctx, id, key, dir)
		if err != nil {
			return c.app.fail(err)
		}
		out = PortfolioMarkdown(detail, c.app.currency())
	}

	if err := c.app.print(out); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}

// OverviewMarkdown renders the dashboard overview
func OverviewMarkdown(o *dashboard.Overview, currency string) string {
	var b strings.Builder

	b.WriteString("# Dashboard\n\n")
	fmt.Fprintf(&b, "- Total value: %s\n", money.FormatCurrency(o.Totals.TotalValue, currency))
	fmt.Fprintf(&b, "- Total invested: %s\n", money.FormatCurrency(o.Totals.TotalInvested, currency))
	fmt.Fprintf(&b, "- Profit/loss: %s (%s)\n",
		money.FormatSignedCurrency(o.Totals.ProfitLoss, currency),
		money.FormatSignedPercent(o.Totals.PerformancePercentage))

	b.WriteString("\n## Portfolios\n\n")
	writePortfolios(&b, o.Portfolios, currency)

	writeAllocation(&b, o.Allocation, currency)

	b.WriteString("\n## Recent transactions\n\n")
	if len(o.RecentTransactions) == 0 {
		b.WriteString("No transactions.\n")
	} else {
		b.WriteString("| Date | Portfolio | Asset | Type | Quantity | Price |\n")
		b.WriteString("|---|---|---|---|---:|---:|\n")
		for _, t := range o.RecentTransactions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				t.TransactionDate.Format("2006-01-02"),
				cell(t.PortfolioName),
				cell(t.AssetName),
				t.Type,
				t.Quantity.String(),
				money.FormatCurrency(t.Price, currency))
		}
	}

	b.WriteString("\n## Latest simulations\n\n")
	if len(o.LatestSimulations) == 0 {
		b.WriteString("No simulations.\n")
	} else {
		for _, s := range o.LatestSimulations {
			fmt.Fprintf(&b, "- %s: %s after %d years (%s)\n",
				cell(s.Name),
				money.FormatCurrency(s.Summary.FinalAmount, currency),
				s.Plan.InvestmentDurationYears,
				money.FormatMultiplier(s.Summary.ReturnMultiplier))
		}
	}

	return b.String()
}

// PortfolioMarkdown renders one portfolio with its sorted holdings
func PortfolioMarkdown(d *dashboard.PortfolioDetail, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", cell(d.Portfolio.Name))
	if d.Portfolio.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Portfolio.Description)
	}
	fmt.Fprintf(&b, "- Value: %s\n", money.FormatCurrency(d.Summary.TotalValue, currency))
	fmt.Fprintf(&b, "- Invested: %s\n", money.FormatCurrency(d.Summary.TotalInvested, currency))
	fmt.Fprintf(&b, "- Performance: %s\n", money.FormatSignedPercent(d.Summary.PerformancePercentage))

	b.WriteString("\n## Holdings\n\n")
	if len(d.Holdings) == 0 {
		b.WriteString("No holdings.\n")
	} else {
		b.WriteString("| Asset | Symbol | Type | Quantity | Price | Value | Profit/Loss |\n")
		b.WriteString("|---|---|---|---:|---:|---:|---:|\n")
		for _, m := range d.Holdings {
			name, symbol, assetType, price := "Unknown", "", "", "-"
			if a := m.Holding.Asset; a != nil {
				name, symbol = a.Name, a.Symbol
				assetType = a.Type.DisplayName()
				price = money.FormatCurrency(a.CurrentPrice, currency)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s (%s) |\n",
				cell(name), cell(symbol), assetType,
				m.Holding.Quantity.String(),
				price,
				money.FormatCurrency(m.CurrentValue, currency),
				money.FormatSignedCurrency(m.ProfitLoss, currency),
				money.FormatSignedPercent(m.ProfitLossPercentage))
		}
	}

	writeAllocation(&b, d.Allocation, currency)
	return b.String()
}

func writePortfolios(b *strings.Builder, portfolios []dashboard.PortfolioOverview, currency string) {
	if len(portfolios) == 0 {
		b.WriteString("No portfolios.\n")
		return
	}
	b.WriteString("| Name | Value | Invested | Performance | Holdings |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, p := range portfolios {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %d |\n",
			cell(p.Portfolio.Name),
			money.FormatCurrency(p.Summary.TotalValue, currency),
			money.FormatCurrency(p.Summary.TotalInvested, currency),
			money.FormatSignedPercent(p.Summary.PerformancePercentage),
			p.Summary.HoldingCount)
	}
}

func writeAllocation(b *strings.Builder, entries []portfolio.AllocationEntry, currency string) {
	b.WriteString("\n## Allocation\n\n")
	if len(entries) == 0 {
		b.WriteString("Nothing to allocate.\n")
		return
	}
	b.WriteString("| Type | Value | Share |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %s | %s | %s |\n",
			e.Type.DisplayName(),
			money.FormatCurrency(e.Value, currency),
			money.FormatPercent(e.Percentage))
	}
}

// cell escapes pipes so user text cannot break a table row
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

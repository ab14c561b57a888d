package command

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/libro/internal/export"
	"github.com/MrJamesThe3rd/libro/internal/kpi"
	"github.com/MrJamesThe3rd/libro/internal/ledger"
)

func formatCLP(amount float64) string {
	return export.CLP(amount)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
}

type kpiCmd struct {
	dateRange
}

func (*kpiCmd) Name() string     { return "kpi" }
func (*kpiCmd) Synopsis() string { return "sales, purchases and top counterparties" }
func (*kpiCmd) Usage() string {
	return `libro kpi [-from <date>] [-to <date>]

  Prints the registry totals, the top counterparties by amount and the sales
  and purchases history.
`
}

func (c *kpiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usagef("%v", err)
	}

	s, err := open(ctx)
	if err != nil {
		return failf("%v", err)
	}
	defer s.Close()

	txs, err := s.services.Transactions.List(ctx, s.company.ID, c.filter())
	if err != nil {
		return failf("listing transactions: %v", err)
	}

	stats := kpi.Aggregate(txs)

	fmt.Printf("%s\n\n", s.company.Name)
	fmt.Printf("Ventas:     %s\n", formatCLP(stats.TotalSales))
	fmt.Printf("Compras:    %s\n", formatCLP(stats.TotalPurchases))
	fmt.Printf("Honorarios: %s\n", formatCLP(stats.TotalFees))
	fmt.Printf("Documents:  %d\n\n", stats.Count)

	w := newTable()
	fmt.Fprintln(w, "RUT\tRazón Social\tDocs\tMonto\t")

	for _, e := range stats.TopProviders {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t\n", e.RUT, e.Name, e.Count, formatCLP(e.Amount))
	}

	w.Flush()

	if len(stats.History) == 0 {
		return subcommands.ExitSuccess
	}

	fmt.Printf("\nHistory by %s\n", stats.Granularity)

	w = newTable()
	fmt.Fprintln(w, "Period\tVentas\tCompras\t")

	for _, p := range stats.History {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.Label, formatCLP(p.Sales), formatCLP(p.Purchases))
	}

	w.Flush()

	return subcommands.ExitSuccess
}

type pnlCmd struct {
	dateRange
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "monthly income statement from the registries" }
func (*pnlCmd) Usage() string {
	return `libro pnl [-from <date>] [-to <date>]

  Prints net sales, net purchases, fees, EBITDA and margin per month.
`
}

func (c *pnlCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usagef("%v", err)
	}

	s, err := open(ctx)
	if err != nil {
		return failf("%v", err)
	}
	defer s.Close()

	txs, err := s.services.Transactions.List(ctx, s.company.ID, c.filter())
	if err != nil {
		return failf("listing transactions: %v", err)
	}

	months := ledger.MonthlyPnL(txs)

	w := newTable()
	fmt.Fprintln(w, "Month\tVentas Neto\tCompras Neto\tHonorarios\tMargen Bruto\tEBITDA\tMargen\t")

	for _, r := range append(months, ledger.Totals(months)) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.1f%%\t\n",
			r.Month,
			formatCLP(r.NetSales),
			formatCLP(r.NetPurchases),
			formatCLP(r.Fees),
			formatCLP(r.GrossProfit),
			formatCLP(r.EBITDA),
			r.NetMargin,
		)
	}

	w.Flush()

	return subcommands.ExitSuccess
}

type balanceCmd struct {
	dateRange
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "8 column balance from the vouchers" }
func (*balanceCmd) Usage() string {
	return `libro balance [-from <date>] [-to <date>]

  Prints the balance of the chart of accounts over the vouchers of the period.
`
}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usagef("%v", err)
	}

	s, err := open(ctx)
	if err != nil {
		return failf("%v", err)
	}
	defer s.Close()

	balance, err := s.services.Ledger.Balance(ctx, s.company.ID, c.from, c.to)
	if err != nil {
		return failf("computing balance: %v", err)
	}

	w := newTable()
	fmt.Fprintln(w, "Cuenta\tNombre\tDebe\tHaber\tDeudor\tAcreedor\tActivo\tPasivo\tPérdida\tGanancia\t")

	totals := balance.Totals
	totals.Name = "Totales"

	for _, r := range append(balance.Rows, totals) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Code, r.Name,
			formatCLP(r.Debits), formatCLP(r.Credits),
			formatCLP(r.Debtor), formatCLP(r.Creditor),
			formatCLP(r.Activo), formatCLP(r.Pasivo),
			formatCLP(r.Perdida), formatCLP(r.Ganancia),
		)
	}

	w.Flush()

	fmt.Printf("\nResultado: %s\n", formatCLP(balance.Result))

	return subcommands.ExitSuccess
}

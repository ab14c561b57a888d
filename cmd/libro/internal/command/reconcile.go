package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/libro/internal/importer/bank"
)

type reconcileCmd struct {
	unmatched bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "match a bank statement against the bank account" }
func (*reconcileCmd) Usage() string {
	return `libro reconcile [-unmatched] <statement>

  Reads a bank statement export and pairs each line with a movement booked on
  the bank account on the same day.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.unmatched, "unmatched", false, "Only print lines without a matching movement.")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usagef("exactly one statement file is required")
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		return failf("%v", err)
	}
	defer in.Close()

	s, err := open(ctx)
	if err != nil {
		return failf("%v", err)
	}
	defer s.Close()

	lines, err := s.services.Importer.ImportBank(in)
	if errors.Is(err, bank.ErrUnknownFormat) {
		return failf("%s is not a known bank statement layout: %v", f.Arg(0), err)
	}

	if err != nil {
		return failf("reading statement: %v", err)
	}

	result, err := s.services.Reconcile.Reconcile(ctx, s.company.ID, lines)
	if err != nil {
		return failf("reconciling: %v", err)
	}

	w := newTable()
	fmt.Fprintln(w, "Fecha\tDescripción\tMonto\tAsiento\t")

	for _, l := range result.Lines {
		if c.unmatched && l.Matched {
			continue
		}

		booked := "-"
		if l.Movement != nil {
			booked = l.Movement.Glosa
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", l.Fecha, l.Descripcion, formatCLP(l.Monto), booked)
	}

	w.Flush()

	fmt.Printf("\n%d matched, %d unmatched. Bank %s, books %s.\n",
		result.Matched, result.Unmatched, formatCLP(result.BankTotal), formatCLP(result.BookTotal))

	return subcommands.ExitSuccess
}

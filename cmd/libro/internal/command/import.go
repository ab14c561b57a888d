package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/libro/internal/importer"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type importCmd struct {
	flow      string
	duplicate string
	lenient   bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import SII registry exports" }
func (*importCmd) Usage() string {
	return `libro import [-flow compra|venta|honorarios] [-duplicates skip|force] [-lenient] <file>...

  Imports compras, ventas and honorarios registries. The flow of each file is
  guessed from its name unless -flow is given. When rows are already stored,
  nothing is written unless -duplicates says what to do with them.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.flow, "flow", "", "Flow type of every file. Guessed from the file name when empty.")
	f.StringVar(&c.duplicate, "duplicates", "", "What to do with rows already stored: skip or force.")
	f.BoolVar(&c.lenient, "lenient", false, "Drop unreadable amounts silently instead of reporting them.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usagef("at least one file is required")
	}

	opts := importer.Options{Strict: !c.lenient}

	if c.flow != "" {
		flow, err := transaction.ParseFlowType(c.flow)
		if err != nil {
			return usagef("%v", err)
		}

		opts.Flow = flow
	}

	var decision transaction.Decision

	if c.duplicate != "" {
		d, err := transaction.ParseDecision(c.duplicate)
		if err != nil {
			return usagef("%v", err)
		}

		decision = d
	}

	files := make([]importer.File, 0, f.NArg())

	for _, path := range f.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return failf("reading %s: %v", path, err)
		}

		files = append(files, importer.File{Name: filepath.Base(path), Data: data})
	}

	s, err := open(ctx)
	if err != nil {
		return failf("%v", err)
	}
	defer s.Close()

	batch, err := s.services.Importer.ImportFiles(ctx, s.company.ID, files, opts)
	if err != nil {
		return failf("%v", err)
	}

	for _, fr := range batch.Files {
		fmt.Printf("%s: %s, %s, %d rows, %d skipped\n", fr.Name, fr.Flow, fr.Charset, fr.Imported, fr.Skipped)
	}

	for _, failure := range batch.Failures {
		fmt.Fprintf(os.Stderr, "%v\n", failure)
	}

	writeRowErrors(os.Stderr, batch.Errors)

	result, err := s.services.Importer.Store(ctx, s.company.ID, batch.Transactions)
	if err != nil {
		return failf("storing transactions: %v", err)
	}

	if len(result.Conflicts) == 0 {
		fmt.Printf("Imported %d transactions.\n", len(result.Imported))
		return subcommands.ExitSuccess
	}

	if decision == "" {
		fmt.Printf("%d new rows, %d already stored:\n", len(result.New), result.DuplicatesFound)

		for _, conflict := range result.Conflicts {
			in := conflict.Incoming
			fmt.Printf("  %s %s %s folio %s %s\n", in.Fecha, in.RUT, in.TipoDoc, in.Folio, formatCLP(in.MontoTotal))
		}

		return failf("nothing imported; rerun with -duplicates skip or -duplicates force")
	}

	imported, err := s.services.Importer.Resolve(ctx, s.company.ID, result, decision)
	if err != nil {
		return failf("storing transactions: %v", err)
	}

	fmt.Printf("Imported %d transactions (%d duplicates, %s).\n", len(imported), result.DuplicatesFound, decision)

	return subcommands.ExitSuccess
}

func writeRowErrors(w io.Writer, errs []transaction.ImportError) {
	for _, line := range transaction.SummarizeErrors(errs, transaction.ErrorSummaryLimit) {
		fmt.Fprintln(w, line)
	}
}

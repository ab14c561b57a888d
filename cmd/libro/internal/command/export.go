package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

type exportCmd struct {
	dateRange
	flow    string
	output  string
	archive bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export transactions in the SII column layout" }
func (*exportCmd) Usage() string {
	return `libro export [-from <date>] [-to <date>] [-flow <flow>] [-zip] [-o <file>]

  Writes a semicolon separated file with the SII registry columns. With -zip
  the output is an archive holding one file per flow and a summary.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.dateRange.SetFlags(f)
	f.StringVar(&c.flow, "flow", "", "Only export this flow type.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.BoolVar(&c.archive, "zip", false, "Write a zip archive instead of a single file.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		return usagef("%v", err)
	}

	filter := c.filter()

	if c.flow != "" {
		flow, err := transaction.ParseFlowType(c.flow)
		if err != nil {
			return usagef("%v", err)
		}

		filter.Type = &flow
	}

	if c.archive && c.output == "" {
		return usagef("-zip needs -o")
	}

	s, err := open(ctx)
	if err != nil {
		return failf("%v", err)
	}
	defer s.Close()

	var w io.Writer = os.Stdout

	if c.output != "" {
		out, err := os.Create(c.output)
		if err != nil {
			return failf("%v", err)
		}
		defer out.Close()

		w = out
	}

	if c.archive {
		if err := s.services.Export.Archive(ctx, s.company.ID, filter, w); err != nil {
			return failf("exporting: %v", err)
		}

		fmt.Fprintf(os.Stderr, "Wrote %s\n", c.output)

		return subcommands.ExitSuccess
	}

	n, err := s.services.Export.Export(ctx, s.company.ID, filter, w)
	if err != nil {
		return failf("exporting: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Exported %d transactions.\n", n)

	return subcommands.ExitSuccess
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"go-currency-ledger"
)

type ratesCmd struct {
	refresh bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "print the current exchange rate table" }
func (*ratesCmd) Usage() string {
	return `ledger rates [-refresh]

  Prints the rate of every known currency per base currency. The table is read from
  the cache and fetched from the rate source when it is older than RATES_TTL.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "fetch the table from the rate source even if fresh")
}

func (c *ratesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	var table ledger.RateTable
	if c.refresh {
		table, err = a.cache.Refresh(ctx)
	} else {
		table, err = a.cache.Table(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	state := "fresh"
	if table.Stale {
		state = "stale"
	}
	fmt.Printf("rates of %v (%v)\n", table.Timestamp.Format("2006-01-02 15:04:05 MST"), state)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, cur := range table.Currencies() {
		fmt.Fprintf(w, "%v\t%v\t\n", cur, table.Rates[cur])
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

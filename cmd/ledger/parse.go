package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"go-currency-ledger"
)

type parseCmd struct {
	currency string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "show how an amount expression is read" }
func (*parseCmd) Usage() string {
	return `ledger parse [-default <code>] <expr>

  Prints the amount and currency read from <expr>. Unknown codes fall back to
  the default currency and are reported in the log.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "default", string(ledger.EUR), "currency of expressions without a known code")
}

func (c *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "parse requires exactly one expression")
		return subcommands.ExitUsageError
	}
	a, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	amount, cur, err := a.bank.Parser.Interpret(ctx, f.Arg(0), ledger.Currency(c.currency))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%v %v\n", amount, cur)
	return subcommands.ExitSuccess
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"go-currency-ledger"
)

type convertCmd struct{}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert an amount expression into another currency" }
func (*convertCmd) Usage() string {
	return `ledger convert <expr> <to>

  Converts an expression such as "500 $" or "12,50 GBP" into the currency <to>.
  Expressions without a currency are in EUR.
`
}

func (*convertCmd) SetFlags(*flag.FlagSet) {}

func (*convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "convert requires an expression and a target currency")
		return subcommands.ExitUsageError
	}
	a, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	amount, from, err := a.bank.Parser.Interpret(ctx, f.Arg(0), ledger.EUR)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	to := ledger.Currency(strings.ToUpper(f.Arg(1)))
	converted, err := a.exchange.Convert(ctx, amount, from, to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%v = %v\n", strings.TrimSpace(ledger.FormatAmount(amount, from)), strings.TrimSpace(ledger.FormatAmount(converted, to)))
	return subcommands.ExitSuccess
}

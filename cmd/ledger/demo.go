package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"go-currency-ledger"
	"go-currency-ledger/account"
	"go-currency-ledger/statement"
)

type demoCmd struct {
	color bool
}

func (*demoCmd) Name() string     { return "demo" }
func (*demoCmd) Synopsis() string { return "book a sample scenario on four accounts and print the statements" }
func (*demoCmd) Usage() string {
	return `ledger demo [-color]

  Opens a basic, two multi-currency and a savings account, books opening
  balances, transfers between them in several currencies, settles foreign
  holdings, accrues interest and prints every statement. Finally the first
  account is serialized and cloned.
`
}

func (c *demoCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.color, "color", false, "print statements with ANSI colors")
}

func (c *demoCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	err = runDemo(ctx, a.bank, os.Stdout, statement.Printer{Color: c.color}, log.With(a.logger, "component", "demo"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// runDemo plays the scenario. Rejected bookings are logged and the scenario goes on.
func runDemo(ctx context.Context, bank *account.Bank, w io.Writer, p statement.Printer, logger log.Logger) error {
	basic := bank.NewBasic("Arasp der Krasse", "")
	multi := bank.NewMultiCurrency("Malte der Lustige", "")
	other := bank.NewMultiCurrency("Herr Grünke der Ehrenmann", "")
	savings := bank.NewSavings("Erik der coole Mann", "")

	report := func(op string, err error) {
		if err != nil {
			level.Warn(logger).Log("msg", "rejected", "op", op, "err", err)
		}
	}

	for _, acc := range []account.Account{basic, multi, other, savings} {
		report("book", acc.Book(ctx, 1000, "opening balance"))
	}

	report("transfer", basic.Transfer(ctx, multi, 100, "protection money"))
	report("transfer", multi.Transfer(ctx, other, "500 $", "all for the 15 points"))
	report("transfer", other.Transfer(ctx, basic, "1000 JPY", "kebab is just too expensive"))
	report("transfer", multi.Transfer(ctx, basic, "250 CAD", "canada is cold..."))

	report("convert", multi.ConvertHolding(ctx, decimal.NewFromInt(100), ledger.EUR, "USD", ""))

	report("settle", multi.SettleForeignHoldings(ctx))
	report("settle", other.SettleForeignHoldings(ctx))

	savings.AccrueInterest()

	if err := p.Write(w, basic, basic.FormatBalance()); err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, m := range []*account.MultiCurrency{multi, other} {
		balance, err := m.FormatBalance(ctx, "")
		if err != nil {
			return err
		}
		if err := p.Write(w, m, balance); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if err := p.Write(w, savings, savings.FormatBalance()); err != nil {
		return err
	}
	fmt.Fprintln(w)

	data, err := account.Marshal(basic)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))

	clone, err := bank.Clone(basic)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, basic)
	fmt.Fprintln(w, clone)
	return nil
}

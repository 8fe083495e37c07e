package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"go-currency-ledger"
	"go-currency-ledger/currency"
	"go-currency-ledger/exchange"
)

// MultiCurrency holds entries in any currency known to the exchange.
//
// It has no single balance: Balance either sums the entries of one currency or converts every
// entry to EUR at the current rates, in which case the same entries give a different aggregate
// whenever the rates change.
type MultiCurrency struct {
	journal
	parser   *currency.Parser
	exchange exchange.Service
}

// NewMultiCurrency opens a multi-currency account. An empty id is replaced by a generated one.
func (b *Bank) NewMultiCurrency(holder, id string) *MultiCurrency {
	a := &MultiCurrency{parser: b.Parser, exchange: b.Exchange}
	a.open(holder, id)
	return a
}

// AcceptsCurrency any currency.
func (a *MultiCurrency) AcceptsCurrency(ledger.Currency) bool { return true }

// Book appends expr in whatever currency it names, EUR by default.
func (a *MultiCurrency) Book(ctx context.Context, expr any, memo string) error {
	amount, cur, err := a.parser.Interpret(ctx, expr, ledger.EUR)
	if err != nil {
		return fmt.Errorf("book: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.appendLocked(ledger.NewEntry(amount, cur, memo))
	return nil
}

// Transfer moves expr to target.
//
// When target accepts the currency of expr both legs are posted in that currency. Otherwise the
// amount is converted to EUR and both legs are posted in EUR. EUR legs are rounded to cents.
// Either way the EUR aggregate balance must cover the transfer.
func (a *MultiCurrency) Transfer(ctx context.Context, target Account, expr any, memo string) error {
	if target == nil {
		return fmt.Errorf("transfer: no target account: %w", ledger.ErrInvalidType)
	}
	amount, cur, err := a.parser.Interpret(ctx, expr, ledger.EUR)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("transfer %v %v: %w", amount, cur, ledger.ErrNonPositiveAmount)
	}
	table, err := a.exchange.Table(ctx)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	inEuro, err := table.Convert(amount, cur, ledger.EUR)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if !target.AcceptsCurrency(cur) || cur == ledger.EUR {
		inEuro = ledger.RoundCents(inEuro)
		amount, cur = inEuro, ledger.EUR
	}

	to := target.base()
	unlock := lockPair(&a.journal, to)
	defer unlock()

	balance, err := a.aggregateLocked(table)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if balance.LessThan(inEuro) {
		return fmt.Errorf("transfer %v %v with balance %v EUR: %w", amount, cur, balance, ledger.ErrInsufficientFunds)
	}
	postTransferLocked(&a.journal, to, amount, cur, memo)
	return nil
}

// aggregateLocked converts every entry to EUR with table. Requires a.mu.
func (a *MultiCurrency) aggregateLocked(table ledger.RateTable) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range a.entries {
		v, err := table.Convert(e.Amount, e.Currency, ledger.EUR)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(v)
	}
	return sum, nil
}

// Balance sums the entries in currency without conversion. An empty currency converts every
// entry to EUR at the current rates.
func (a *MultiCurrency) Balance(ctx context.Context, cur ledger.Currency) (decimal.Decimal, error) {
	if cur != "" {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.sumLocked(cur), nil
	}

	table, err := a.exchange.Table(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	balance, err := a.aggregateLocked(table)
	if err != nil {
		return decimal.Zero, fmt.Errorf("balance: %w", err)
	}
	return balance, nil
}

// FormatBalance formats Balance with its currency, EUR for the aggregate.
func (a *MultiCurrency) FormatBalance(ctx context.Context, cur ledger.Currency) (string, error) {
	balance, err := a.Balance(ctx, cur)
	if err != nil {
		return "", err
	}
	if cur == "" {
		cur = ledger.EUR
	}
	return ledger.FormatAmount(balance, cur), nil
}

// ConvertHolding exchanges amount of from into to within the account: a debit in from and a
// credit of the converted amount, rounded to cents, in to.
func (a *MultiCurrency) ConvertHolding(ctx context.Context, amount decimal.Decimal, from, to ledger.Currency, memo string) error {
	converted, err := a.exchange.Convert(ctx, amount, from, to)
	if err != nil {
		return fmt.Errorf("convert holding: %w", err)
	}
	if memo == "" {
		memo = fmt.Sprintf("exchange from %v to %v", from, to)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.appendLocked(
		ledger.NewEntry(amount.Neg(), from, memo),
		ledger.NewEntry(ledger.RoundCents(converted), to, memo),
	)
	return nil
}

// SettleForeignHoldings converts every non-zero foreign balance into EUR, currencies in their
// natural order. Each balance is read right before it is settled.
func (a *MultiCurrency) SettleForeignHoldings(ctx context.Context) error {
	table, err := a.exchange.Table(ctx)
	if err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	for _, cur := range table.Currencies() {
		if cur == ledger.EUR {
			continue
		}
		balance, err := a.Balance(ctx, cur)
		if err != nil {
			return fmt.Errorf("settle %v: %w", cur, err)
		}
		if balance.IsZero() {
			continue
		}
		memo := "settlement of " + strings.TrimSpace(ledger.FormatAmount(balance, cur))
		if err := a.ConvertHolding(ctx, balance, cur, ledger.EUR, memo); err != nil {
			return fmt.Errorf("settle %v: %w", cur, err)
		}
	}
	return nil
}

// String uses the EUR aggregate at the current rates.
func (a *MultiCurrency) String() string {
	balance, err := a.FormatBalance(context.Background(), "")
	if err != nil {
		balance = "balance unavailable"
	}
	return fmt.Sprintf("%v / %v / %v", a.holder, a.id, balance)
}

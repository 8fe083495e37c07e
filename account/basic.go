package account

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"go-currency-ledger"
	"go-currency-ledger/currency"
)

// Basic is an EUR only account.
type Basic struct {
	journal
	parser *currency.Parser
}

// NewBasic opens an EUR account. An empty id is replaced by a generated one.
func (b *Bank) NewBasic(holder, id string) *Basic {
	a := &Basic{parser: b.Parser}
	a.open(holder, id)
	return a
}

// AcceptsCurrency only EUR.
func (a *Basic) AcceptsCurrency(c ledger.Currency) bool { return c == ledger.EUR }

// Book appends expr, which must be in EUR.
func (a *Basic) Book(ctx context.Context, expr any, memo string) error {
	amount, cur, err := a.parser.Interpret(ctx, expr, ledger.EUR)
	if err != nil {
		return fmt.Errorf("book: %w", err)
	}
	if cur != ledger.EUR {
		return fmt.Errorf("book %v %v: %w", amount, cur, ledger.ErrNonEuroBooking)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.appendLocked(ledger.NewEntry(amount, cur, memo))
	return nil
}

// Transfer moves a positive EUR amount, covered by the balance, to target.
func (a *Basic) Transfer(ctx context.Context, target Account, expr any, memo string) error {
	return transferEuro(ctx, a.parser, &a.journal, target, expr, memo)
}

// Balance sum of all entries.
func (a *Basic) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sumLocked("")
}

// FormatBalance the balance as a fixed width amount followed by EUR.
func (a *Basic) FormatBalance() string {
	return ledger.FormatAmount(a.Balance(), ledger.EUR)
}

func (a *Basic) String() string {
	return fmt.Sprintf("%v / %v / %v", a.holder, a.id, a.FormatBalance())
}

// transferEuro is the transfer of the single currency accounts.
func transferEuro(ctx context.Context, parser *currency.Parser, from *journal, target Account, expr any, memo string) error {
	if target == nil {
		return fmt.Errorf("transfer: no target account: %w", ledger.ErrInvalidType)
	}
	amount, cur, err := parser.Interpret(ctx, expr, ledger.EUR)
	if err != nil {
		return fmt.Errorf("transfer: %w", err)
	}
	if cur != ledger.EUR {
		return fmt.Errorf("transfer %v %v: %w", amount, cur, ledger.ErrNonEuroBooking)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("transfer %v: %w", amount, ledger.ErrNonPositiveAmount)
	}

	to := target.base()
	unlock := lockPair(from, to)
	defer unlock()

	if balance := from.sumLocked(""); balance.LessThan(amount) {
		return fmt.Errorf("transfer %v EUR with balance %v: %w", amount, balance, ledger.ErrInsufficientFunds)
	}
	postTransferLocked(from, to, amount, ledger.EUR, memo)
	return nil
}

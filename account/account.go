// Package account implements ledgers holding append-only entries, in a single currency
// (Basic, Savings) or in any currency known to the exchange (MultiCurrency).
package account

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	"go-currency-ledger"
	"go-currency-ledger/currency"
	"go-currency-ledger/exchange"
)

// Account is implemented by every account kind.
type Account interface {
	Holder() string
	ID() string

	// Book parses expr and appends one entry.
	Book(ctx context.Context, expr any, memo string) error

	// Transfer moves the amount of expr to target, posting one debit here and one credit there,
	// or nothing at all when a precondition fails.
	Transfer(ctx context.Context, target Account, expr any, memo string) error

	// AcceptsCurrency reports whether the account can hold entries in currency.
	AcceptsCurrency(currency ledger.Currency) bool

	// Entries yields the entries in insertion order.
	Entries() iter.Seq2[int, ledger.Entry]

	base() *journal
}

// sequence orders journals opened in this process, it breaks id ties when locking pairs.
var sequence atomic.Uint64

// journal the append-only entry list shared by all account kinds.
type journal struct {
	holder string
	id     string
	seq    uint64

	// mu guards entries
	mu      sync.Mutex
	entries []ledger.Entry
}

func (j *journal) open(holder, id string) {
	if id == "" {
		id = NewExternalID()
	}
	j.holder = holder
	j.id = id
	j.seq = sequence.Add(1)
}

func (j *journal) Holder() string { return j.holder }
func (j *journal) ID() string     { return j.id }

func (j *journal) base() *journal { return j }

// Len number of entries.
func (j *journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// Entries yields a snapshot of the entries taken when iteration starts.
// The sequence can be ranged over any number of times.
func (j *journal) Entries() iter.Seq2[int, ledger.Entry] {
	return func(yield func(int, ledger.Entry) bool) {
		j.mu.Lock()
		entries := append([]ledger.Entry(nil), j.entries...)
		j.mu.Unlock()

		for i, e := range entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// appendLocked requires j.mu.
func (j *journal) appendLocked(entries ...ledger.Entry) {
	j.entries = append(j.entries, entries...)
}

// sumLocked adds up the entries in currency, or every entry when currency is empty. Requires j.mu.
func (j *journal) sumLocked(currency ledger.Currency) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range j.entries {
		if currency == "" || e.Currency == currency {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// lockPair locks both journals in a global order so two opposite transfers cannot deadlock.
// The returned function unlocks them.
func lockPair(a, b *journal) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if b.id < a.id || (b.id == a.id && b.seq < a.seq) {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

// postTransferLocked appends the debit on from and the credit on to. Requires both locks.
func postTransferLocked(from, to *journal, amount decimal.Decimal, cur ledger.Currency, memo string) {
	from.appendLocked(ledger.NewEntry(amount.Neg(), cur, fmt.Sprintf("transfer to %v: %v", to.holder, memo)))
	to.appendLocked(ledger.NewEntry(amount, cur, fmt.Sprintf("transfer from %v: %v", from.holder, memo)))
}

// Bank holds what accounts need to read amounts and convert currencies.
type Bank struct {
	Parser   *currency.Parser
	Exchange exchange.Service
}

// NewBank returns a Bank converting with x. Currency fallbacks are reported to logger.
func NewBank(x exchange.Service, logger log.Logger) *Bank {
	return &Bank{
		Parser:   currency.NewParser(x, logger),
		Exchange: x,
	}
}

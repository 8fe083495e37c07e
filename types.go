package ledger

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Currency a currency code
type Currency string

// EUR is the currency every single-currency account books in.
const EUR Currency = "EUR"

// Rates maps currency codes to a rate expressed against the implicit base currency of the table.
type Rates map[Currency]decimal.Decimal

// Validate checks every rate is strictly positive.
func (r Rates) Validate() error {
	for currency, rate := range r {
		if !rate.IsPositive() {
			return fmt.Errorf("rate for %v must be positive, got %v", currency, rate)
		}
	}
	return nil
}

// RateTable a snapshot of rates captured at Timestamp.
// Tables are never mutated once built, a refresh replaces the whole table.
type RateTable struct {
	Timestamp time.Time
	Rates     Rates

	// Stale is set when the table outlived its freshness window and was served
	// because the rate source could not be reached.
	Stale bool
}

// Known reports whether currency is part of this snapshot.
func (t RateTable) Known(currency Currency) bool {
	_, ok := t.Rates[currency]
	return ok
}

// Currencies returns the known currencies in their natural (sorted) order.
func (t RateTable) Currencies() []Currency {
	currencies := make([]Currency, 0, len(t.Rates))
	for c := range t.Rates {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })
	return currencies
}

// Convert triangulates amount through the base currency of the table.
// The result is not rounded.
func (t RateTable) Convert(amount decimal.Decimal, from Currency, to Currency) (decimal.Decimal, error) {
	fromRate, ok := t.Rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnknownCurrency, from)
	}
	toRate, ok := t.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnknownCurrency, to)
	}
	return amount.Div(fromRate).Mul(toRate), nil
}

// MaxMemoLength the longest memo kept on an Entry, in characters.
const MaxMemoLength = 120

// Entry one posting on an account ledger.
type Entry struct {
	Amount   decimal.Decimal
	Currency Currency
	Memo     string
}

// NewEntry builds an Entry, truncating memo to MaxMemoLength characters.
func NewEntry(amount decimal.Decimal, currency Currency, memo string) Entry {
	if utf8.RuneCountInString(memo) > MaxMemoLength {
		memo = string([]rune(memo)[:MaxMemoLength])
	}
	return Entry{Amount: amount, Currency: currency, Memo: memo}
}

// RoundCents rounds amount to 2 decimal places, the precision of every converted posting.
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FormatAmount renders amount as a fixed width decimal followed by its currency.
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	return fmt.Sprintf("%12s %v", amount.StringFixed(2), currency)
}

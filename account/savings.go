package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

// DefaultInterestRate yearly rate of a new savings account, 3.25 %.
var DefaultInterestRate = decimal.RequireFromString("0.0325")

// Savings is an EUR account earning interest.
type Savings struct {
	Basic
	InterestRate decimal.Decimal
}

// NewSavings opens a savings account at DefaultInterestRate.
func (b *Bank) NewSavings(holder, id string) *Savings {
	a := &Savings{
		Basic:        Basic{parser: b.Parser},
		InterestRate: DefaultInterestRate,
	}
	a.open(holder, id)
	return a
}

// AccrueInterest appends balance × InterestRate in EUR and returns it.
// Nothing prevents accruing twice for the same period, the caller decides the cadence.
func (a *Savings) AccrueInterest() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	interest := a.sumLocked("").Mul(a.InterestRate)
	memo := fmt.Sprintf("interest (%v %%)", a.InterestRate.Shift(2).StringFixed(2))
	a.appendLocked(ledger.NewEntry(interest, ledger.EUR, memo))
	return interest
}

package exchange

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

// Service converts amounts between the currencies of the current rate table.
type Service interface {
	Convert(ctx context.Context, amount decimal.Decimal, from ledger.Currency, to ledger.Currency) (decimal.Decimal, error)
	Table(ctx context.Context) (ledger.RateTable, error)
}

// Provider supplies the current rate table, usually a *rates.Cache.
type Provider interface {
	Table(ctx context.Context) (ledger.RateTable, error)
}

type service struct {
	// rates provider of the current table. Every call reads it anew so a refresh is picked up.
	rates Provider
}

// NewService constructs a valid Service
func NewService(p Provider) Service {
	return &service{
		rates: p,
	}
}

// Convert computes a conversion from one currency to another through the base currency of the table.
// As a side-effect the cached rate table might be refreshed. The result is not rounded.
func (s *service) Convert(ctx context.Context, amount decimal.Decimal, from ledger.Currency, to ledger.Currency) (decimal.Decimal, error) {
	table, err := s.rates.Table(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert from [%v]: %w", from, err)
	}
	return table.Convert(amount, from, to)
}

// Table returns the current rate table, its keys are the known currencies.
func (s *service) Table(ctx context.Context) (ledger.RateTable, error) {
	return s.rates.Table(ctx)
}

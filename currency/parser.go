// Package currency interprets freeform amount expressions such as "500 $", "12,50 GBP" or 42.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

// symbols replaces currency symbols by their codes so both forms are read the same way.
var symbols = strings.NewReplacer(
	"€", "EUR",
	"£", "GBP",
	"$", "USD",
	"¥", "JPY",
	"₽", "RUB",
	"₿", "BTC",
	"₺", "TRY",
	"₹", "INR",
	"₩", "KRW",
	"₴", "UAH",
)

var (
	amountPattern   = regexp.MustCompile(`-?\d+([,.]\d{1,2})?`)
	currencyPattern = regexp.MustCompile(`[A-Za-z]+`)
)

// Lookup supplies the current rate table, its keys are the accepted currency codes.
// exchange.Service satisfies it.
type Lookup interface {
	Table(ctx context.Context) (ledger.RateTable, error)
}

// Parser turns amount expressions into an amount and a currency code.
type Parser struct {
	rates  Lookup
	logger log.Logger
}

// NewParser returns a Parser validating codes against rates and reporting fallbacks to logger.
func NewParser(rates Lookup, logger log.Logger) *Parser {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Parser{rates: rates, logger: logger}
}

// Interpret reads expr, a number or a string mixing an amount with a currency code or symbol.
//
// Numbers are amounts in defaultCurrency. In strings the first number and the first run of
// letters are taken independently of their order. A code that is not in the current rate table
// does not fail: it is reported and replaced by defaultCurrency. Conversions on the other hand
// reject unknown codes.
func (p *Parser) Interpret(ctx context.Context, expr any, defaultCurrency ledger.Currency) (decimal.Decimal, ledger.Currency, error) {
	switch v := expr.(type) {
	case decimal.Decimal:
		return v, defaultCurrency, nil
	case int:
		return decimal.NewFromInt(int64(v)), defaultCurrency, nil
	case int8:
		return decimal.NewFromInt(int64(v)), defaultCurrency, nil
	case int16:
		return decimal.NewFromInt(int64(v)), defaultCurrency, nil
	case int32:
		return decimal.NewFromInt32(v), defaultCurrency, nil
	case int64:
		return decimal.NewFromInt(v), defaultCurrency, nil
	case uint:
		return fromUint64(uint64(v)), defaultCurrency, nil
	case uint8:
		return decimal.NewFromInt(int64(v)), defaultCurrency, nil
	case uint16:
		return decimal.NewFromInt(int64(v)), defaultCurrency, nil
	case uint32:
		return decimal.NewFromInt(int64(v)), defaultCurrency, nil
	case uint64:
		return fromUint64(v), defaultCurrency, nil
	case float32:
		if !finite(float64(v)) {
			return decimal.Zero, "", fmt.Errorf("%w: %v", ledger.ErrNoAmountFound, v)
		}
		return decimal.NewFromFloat32(v), defaultCurrency, nil
	case float64:
		if !finite(v) {
			return decimal.Zero, "", fmt.Errorf("%w: %v", ledger.ErrNoAmountFound, v)
		}
		return decimal.NewFromFloat(v), defaultCurrency, nil
	case json.Number:
		amount, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, "", fmt.Errorf("%w: %v", ledger.ErrNoAmountFound, v)
		}
		return amount, defaultCurrency, nil
	case string:
		return p.interpretString(ctx, v, defaultCurrency)
	default:
		return decimal.Zero, "", fmt.Errorf("%w: %T", ledger.ErrInvalidType, expr)
	}
}

func fromUint64(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p *Parser) interpretString(ctx context.Context, expr string, defaultCurrency ledger.Currency) (decimal.Decimal, ledger.Currency, error) {
	s := symbols.Replace(expr)

	match := amountPattern.FindString(s)
	if match == "" {
		return decimal.Zero, "", fmt.Errorf("%w: %q", ledger.ErrNoAmountFound, expr)
	}
	amount, err := decimal.NewFromString(strings.Replace(match, ",", ".", 1))
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("%w: %q", ledger.ErrNoAmountFound, expr)
	}

	code := currencyPattern.FindString(s)
	if code == "" {
		return amount, defaultCurrency, nil
	}

	table, err := p.rates.Table(ctx)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("checking currency %v: %w", code, err)
	}
	if !table.Known(ledger.Currency(code)) {
		level.Warn(p.logger).Log("msg", "unknown currency, falling back", "currency", code, "fallback", defaultCurrency)
		return amount, defaultCurrency, nil
	}
	return amount, ledger.Currency(code), nil
}

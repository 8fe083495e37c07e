package exchange

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Convert(ctx context.Context, amount decimal.Decimal, from ledger.Currency, to ledger.Currency) (converted decimal.Decimal, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"amount", amount,
			"from", from,
			"to", to,
			"converted_amount", converted,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}

func (s *loggingService) Table(ctx context.Context) (table ledger.RateTable, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "table",
			"currencies", len(table.Rates),
			"stale", table.Stale,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Table(ctx)
}

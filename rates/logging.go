package rates

import (
	"context"
	"time"

	"github.com/go-kit/log"

	"go-currency-ledger"
)

// loggingService decorates a rates.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Rates(ctx context.Context) (rates ledger.Rates, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "rates",
			"currencies", len(rates),
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Rates(ctx)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"go-currency-ledger/account"
	"go-currency-ledger/config"
	"go-currency-ledger/exchange"
	"go-currency-ledger/rates"
)

// app is the wired service graph shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   log.Logger
	registry *prometheus.Registry
	cache    *rates.Cache
	exchange exchange.Service
	bank     *account.Bank
	closers  []func() error
}

func newLogger(lvl string) (log.Logger, error) {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	var allow level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		allow = level.AllowDebug()
	case "info", "":
		allow = level.AllowInfo()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		return nil, fmt.Errorf("invalid log level %q", lvl)
	}
	return level.NewFilter(logger, allow), nil
}

// setup reads the configuration and wires the rate source, its cache and the bank.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		level.Warn(logger).Log("msg", "API_KEY not set, only persisted rates are available")
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	source := rates.NewService(cfg.RatesURL, cfg.APIKey, cfg.Timeout)
	source = rates.NewLoggingService(log.With(logger, "component", "rates_rest"), source)
	source = rates.NewInstrumentingService(a.registry, source)

	var store rates.Store
	if cfg.UseRedis() {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		store = rates.NewRedisStore(client, cfg.RedisKey)
	} else {
		store = rates.NewFileStore(cfg.CachePath)
	}

	a.cache = rates.NewCache(cfg.TTL, store, source,
		rates.WithLogger(log.With(logger, "component", "rates_cache")),
		rates.WithMetrics(rates.NewCacheMetrics(a.registry)),
	)

	a.exchange = exchange.NewService(a.cache)
	a.exchange = exchange.NewLoggingService(log.With(logger, "component", "exchange"), a.exchange)

	a.bank = account.NewBank(a.exchange, log.With(logger, "component", "parser"))
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			level.Warn(a.logger).Log("msg", "closing", "err", err)
		}
	}
}

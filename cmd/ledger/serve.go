package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log/level"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-currency-ledger/http"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the rates API over HTTP" }
func (*serveCmd) Usage() string {
	return `ledger serve [-addr <host:port>]

  Serves POST /api/convert, GET /api/rates and /metrics. The address defaults
  to HTTP_ADDR.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides HTTP_ADDR")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	addr := c.addr
	if addr == "" {
		addr = a.cfg.HTTPAddr
	}

	metrics := promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
	server := &nhttp.Server{
		Addr:              addr,
		Handler:           http.NewServer(a.exchange, a.bank.Parser, metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		level.Info(a.logger).Log("msg", "listening", "addr", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, nhttp.ErrServerClosed) {
			level.Error(a.logger).Log("msg", "serving", "err", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil {
			level.Error(a.logger).Log("msg", "shutdown", "err", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

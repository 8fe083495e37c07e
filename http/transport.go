package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"go-currency-ledger"
	"go-currency-ledger/currency"
	"go-currency-ledger/exchange"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Exchange exchange.Service
	Parser   *currency.Parser
	router   chi.Router
}

// NewServer routes the rates API. A non-nil metrics handler is mounted on /metrics.
func NewServer(x exchange.Service, p *currency.Parser, metrics http.Handler) *Server {
	server := &Server{
		Exchange: x,
		Parser:   p,
		router:   chi.NewRouter(),
	}
	server.routes(metrics)
	return server
}

func (s *Server) routes(metrics http.Handler) {
	s.router.Use(middleware.Recoverer)
	s.router.Post("/api/convert", s.convert())
	s.router.Get("/api/rates", s.rates())
	if metrics != nil {
		s.router.Handle("/metrics", metrics)
	}
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

func writeError(rw http.ResponseWriter, status int, msg string) {
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP statuses
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrNoRatesAvailable):
		return http.StatusServiceUnavailable, "no rates available"
	case errors.Is(err, ledger.ErrUnknownCurrency):
		return http.StatusBadRequest, "unknown currency"
	case errors.Is(err, ledger.ErrNoAmountFound), errors.Is(err, ledger.ErrInvalidType):
		return http.StatusBadRequest, "invalid amount"
	default:
		return http.StatusInternalServerError, "failed conversion"
	}
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients.
	// Amount is an expression like "500 $" or a bare number in EUR.
	type request struct {
		Amount any             `json:"amount"`
		To     ledger.Currency `json:"to"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Amount    decimal.Decimal `json:"amount"`
		Currency  ledger.Currency `json:"currency"`
		Converted decimal.Decimal `json:"converted"`
		To        ledger.Currency `json:"to"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		rw.Header().Set("Content-Type", "application/json")

		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var req request
		if err := dec.Decode(&req); err != nil {
			writeError(rw, http.StatusBadRequest, "invalid json")
			return
		}
		req.To = ledger.Currency(strings.ToUpper(string(req.To)))
		if req.To == "" {
			writeError(rw, http.StatusBadRequest, "missing target currency")
			return
		}

		amount, from, err := s.Parser.Interpret(r.Context(), req.Amount, ledger.EUR)
		if err != nil {
			status, msg := statusFor(err)
			writeError(rw, status, msg)
			return
		}

		converted, err := s.Exchange.Convert(r.Context(), amount, from, req.To)
		if err != nil {
			status, msg := statusFor(err)
			writeError(rw, status, msg)
			return
		}

		err = json.NewEncoder(rw).Encode(&response{
			Amount:    amount,
			Currency:  from,
			Converted: ledger.RoundCents(converted),
			To:        req.To,
		})
		if err != nil {
			writeError(rw, http.StatusInternalServerError, "failed json encoding")
			return
		}
	}
}

// rates produces HTTP handler listing the current rate table
func (s *Server) rates() http.HandlerFunc {

	type response struct {
		Timestamp int64                           `json:"timestamp"`
		Stale     bool                            `json:"stale"`
		Rates     map[ledger.Currency]json.Number `json:"rates"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "application/json")

		table, err := s.Exchange.Table(r.Context())
		if err != nil {
			status, msg := statusFor(err)
			writeError(rw, status, msg)
			return
		}

		resp := response{
			Timestamp: table.Timestamp.Unix(),
			Stale:     table.Stale,
			Rates:     make(map[ledger.Currency]json.Number, len(table.Rates)),
		}
		for k, v := range table.Rates {
			resp.Rates[k] = json.Number(v.String())
		}
		if err := json.NewEncoder(rw).Encode(&resp); err != nil {
			writeError(rw, http.StatusInternalServerError, "failed json encoding")
		}
	}
}

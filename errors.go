package ledger

import "errors"

var (
	// ErrInvalidType a value of an unsupported kind was supplied where an amount is expected.
	ErrInvalidType = errors.New("invalid type")

	// ErrNoAmountFound an amount expression contains no number.
	ErrNoAmountFound = errors.New("no amount found")

	// ErrUnknownCurrency the currency is not part of the current rate table.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrNonEuroBooking a single-currency account was asked to book or transfer another currency.
	ErrNonEuroBooking = errors.New("only EUR can be booked on this account")

	// ErrNonPositiveAmount transfers must move a strictly positive amount.
	ErrNonPositiveAmount = errors.New("amount must be greater than 0")

	// ErrInsufficientFunds the source account cannot cover the transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoRatesAvailable neither the rate source nor a cached table could provide rates.
	ErrNoRatesAvailable = errors.New("no exchange rates available")
)

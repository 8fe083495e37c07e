package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-currency-ledger"
)

func TestScenario_BasicToMultiCurrency(t *testing.T) {
	ctx := context.Background()
	bank := testBank()
	a := bank.NewBasic("Arasp", "")
	b := bank.NewMultiCurrency("Malte", "")
	require.NoError(t, a.Book(ctx, 1000, "opening"))
	require.NoError(t, b.Book(ctx, 1000, "opening"))

	require.NoError(t, a.Transfer(ctx, b, 100, "protection money"))

	assert.True(t, d("900").Equal(a.Balance()))
	aggregate, err := b.Balance(ctx, "")
	require.NoError(t, err)
	assert.True(t, d("1100").Equal(aggregate), "got %v", aggregate)
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestMultiCurrency_Book(t *testing.T) {
	ctx := context.Background()
	b := testBank().NewMultiCurrency("Malte", "")

	require.NoError(t, b.Book(ctx, "500 $", "dollars"))
	require.NoError(t, b.Book(ctx, "1000 JPY", "yen"))
	require.NoError(t, b.Book(ctx, 20, "euros"))

	got := entries(b)
	assert.Equal(t, ledger.Currency("USD"), got[0].Currency)
	assert.Equal(t, ledger.Currency("JPY"), got[1].Currency)
	assert.Equal(t, ledger.EUR, got[2].Currency)

	usd, err := b.Balance(ctx, "USD")
	require.NoError(t, err)
	assert.True(t, d("500").Equal(usd))

	gbp, err := b.Balance(ctx, "GBP")
	require.NoError(t, err)
	assert.True(t, gbp.IsZero())
}

func TestMultiCurrency_TransferToMultiCurrencyKeepsCurrency(t *testing.T) {
	ctx := context.Background()
	bank := testBank()
	b := bank.NewMultiCurrency("Malte", "")
	c := bank.NewMultiCurrency("Grünke", "")
	require.NoError(t, b.Book(ctx, 1000, "opening"))

	require.NoError(t, b.Transfer(ctx, c, "500 $", "all for the 15 points"))

	assert.Equal(t, "transfer to Grünke: all for the 15 points", entries(b)[1].Memo)
	assert.True(t, d("-500").Equal(entries(b)[1].Amount))
	assert.Equal(t, ledger.Currency("USD"), entries(b)[1].Currency)
	assert.True(t, d("500").Equal(entries(c)[0].Amount))
	assert.Equal(t, ledger.Currency("USD"), entries(c)[0].Currency)
}

func TestMultiCurrency_TransferToBasicConvertsToEuro(t *testing.T) {
	tests := []struct {
		name string
		expr any
		want string
	}{
		{"pounds", "250 GBP", "312.50"},
		{"yen", "1000 JPY", "6.25"},
		{"dollars rounded", "10 USD", "9.09"},
		{"euros", "12.34", "12.34"},
		{"euro decimal rounded", d("12.345678"), "12.35"},
		{"euro float rounded", 0.125, "0.13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			bank := testBank()
			b := bank.NewMultiCurrency("Malte", "")
			a := bank.NewBasic("Arasp", "")
			require.NoError(t, b.Book(ctx, 1000, "opening"))

			require.NoError(t, b.Transfer(ctx, a, tt.expr, "cold"))

			debit, credit := entries(b)[1], entries(a)[0]
			assert.Equal(t, ledger.EUR, debit.Currency)
			assert.Equal(t, ledger.EUR, credit.Currency)
			assert.True(t, d(tt.want).Equal(credit.Amount), "got %v", credit.Amount)
			assert.True(t, debit.Amount.Add(credit.Amount).IsZero())
		})
	}
}

func TestMultiCurrency_TransferInsufficientFunds(t *testing.T) {
	tests := []struct {
		name   string
		target func(*testing.T) Account
	}{
		{"to multi-currency", func(t *testing.T) Account { return testBank().NewMultiCurrency("Grünke", "") }},
		{"to basic", func(t *testing.T) Account { return testBank().NewBasic("Arasp", "") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			b := testBank().NewMultiCurrency("Malte", "")
			require.NoError(t, b.Book(ctx, 10, "opening"))
			target := tt.target(t)

			err := b.Transfer(ctx, target, "20 USD", "too much")

			assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
			assert.Equal(t, 1, b.Len())
			assert.Equal(t, 0, len(entries(target)))
		})
	}
}

func TestMultiCurrency_TransferCoveredByForeignHoldings(t *testing.T) {
	ctx := context.Background()
	bank := testBank()
	b := bank.NewMultiCurrency("Malte", "")
	c := bank.NewMultiCurrency("Grünke", "")
	require.NoError(t, b.Book(ctx, "80 GBP", "pounds only"))

	require.NoError(t, b.Transfer(ctx, c, 100, "exactly covered"))

	euros, err := b.Balance(ctx, ledger.EUR)
	require.NoError(t, err)
	assert.True(t, d("-100").Equal(euros))
	aggregate, err := b.Balance(ctx, "")
	require.NoError(t, err)
	assert.True(t, aggregate.IsZero(), "got %v", aggregate)
}

func TestMultiCurrency_TransferNonPositive(t *testing.T) {
	ctx := context.Background()
	bank := testBank()
	b := bank.NewMultiCurrency("Malte", "")
	c := bank.NewMultiCurrency("Grünke", "")
	require.NoError(t, b.Book(ctx, 10, "opening"))

	err := b.Transfer(ctx, c, "-5 USD", "pull")

	assert.ErrorIs(t, err, ledger.ErrNonPositiveAmount)
	assert.Equal(t, 0, c.Len())
}

func TestMultiCurrency_AggregateFollowsRates(t *testing.T) {
	ctx := context.Background()
	bank, rates := newTestBank(ledger.Rates{"EUR": d("1"), "USD": d("1.1")})
	b := bank.NewMultiCurrency("Malte", "")
	require.NoError(t, b.Book(ctx, "110 USD", "dollars"))

	before, err := b.Balance(ctx, "")
	require.NoError(t, err)
	rates.table = ledger.RateTable{Rates: ledger.Rates{"EUR": d("1"), "USD": d("1.25")}}
	after, err := b.Balance(ctx, "")
	require.NoError(t, err)

	assert.True(t, d("100").Equal(before))
	assert.True(t, d("88").Equal(after))

	formatted, err := b.FormatBalance(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "       88.00 EUR", formatted)
}

func TestMultiCurrency_BalanceWithoutRates(t *testing.T) {
	ctx := context.Background()
	bank, rates := newTestBank(ledger.Rates{"EUR": d("1")})
	b := bank.NewMultiCurrency("Malte", "")
	require.NoError(t, b.Book(ctx, 5, "opening"))
	rates.err = ledger.ErrNoRatesAvailable

	_, err := b.Balance(ctx, "")
	assert.ErrorIs(t, err, ledger.ErrNoRatesAvailable)

	euros, err := b.Balance(ctx, ledger.EUR)
	require.NoError(t, err)
	assert.True(t, d("5").Equal(euros))
}

func TestMultiCurrency_ConvertHolding(t *testing.T) {
	ctx := context.Background()
	bank, _ := newTestBank(ledger.Rates{"EUR": d("1"), "USD": d("1.1")})
	b := bank.NewMultiCurrency("Malte", "")

	require.NoError(t, b.ConvertHolding(ctx, d("100"), "EUR", "USD", ""))

	got := entries(b)
	require.Len(t, got, 2)
	assert.True(t, d("-100").Equal(got[0].Amount))
	assert.Equal(t, ledger.EUR, got[0].Currency)
	assert.Equal(t, "110.00", got[1].Amount.StringFixed(2))
	assert.Equal(t, ledger.Currency("USD"), got[1].Currency)
	assert.Equal(t, "exchange from EUR to USD", got[0].Memo)
	assert.Equal(t, got[0].Memo, got[1].Memo)
}

func TestMultiCurrency_ConvertHoldingRounds(t *testing.T) {
	ctx := context.Background()
	b := testBank().NewMultiCurrency("Malte", "")

	require.NoError(t, b.ConvertHolding(ctx, d("10"), "USD", "GBP", "swap"))

	// 10 / 1.1 * 0.8 = 7.2727...
	assert.True(t, d("7.27").Equal(entries(b)[1].Amount))
	assert.Equal(t, "swap", entries(b)[1].Memo)
}

func TestMultiCurrency_ConvertHoldingUnknownCurrency(t *testing.T) {
	ctx := context.Background()
	b := testBank().NewMultiCurrency("Malte", "")

	assert.ErrorIs(t, b.ConvertHolding(ctx, d("1"), "CAD", "EUR", ""), ledger.ErrUnknownCurrency)
	assert.ErrorIs(t, b.ConvertHolding(ctx, d("1"), "EUR", "CAD", ""), ledger.ErrUnknownCurrency)
	assert.Equal(t, 0, b.Len())
}

func TestMultiCurrency_SettleForeignHoldings(t *testing.T) {
	ctx := context.Background()
	b := testBank().NewMultiCurrency("Malte", "")
	require.NoError(t, b.Book(ctx, 1000, "opening"))
	require.NoError(t, b.Book(ctx, "110 USD", "dollars"))
	require.NoError(t, b.Book(ctx, "80 GBP", "pounds"))

	require.NoError(t, b.SettleForeignHoldings(ctx))

	for _, cur := range []ledger.Currency{"USD", "GBP", "JPY"} {
		balance, err := b.Balance(ctx, cur)
		require.NoError(t, err)
		assert.True(t, balance.IsZero(), "%v balance %v", cur, balance)
	}
	euros, err := b.Balance(ctx, ledger.EUR)
	require.NoError(t, err)
	assert.True(t, d("1200").Equal(euros), "got %v", euros)

	got := entries(b)
	require.Len(t, got, 7)
	assert.Equal(t, "settlement of 80.00 GBP", got[3].Memo)
	assert.Equal(t, "settlement of 110.00 USD", got[5].Memo)
}

func TestMultiCurrency_SettleNothingToDo(t *testing.T) {
	ctx := context.Background()
	b := testBank().NewMultiCurrency("Malte", "")
	require.NoError(t, b.Book(ctx, 5, "opening"))

	require.NoError(t, b.SettleForeignHoldings(ctx))

	assert.Equal(t, 1, b.Len())
}

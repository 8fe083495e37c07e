package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-currency-ledger"
)

func TestSavings_AccrueInterest(t *testing.T) {
	ctx := context.Background()
	s := testBank().NewSavings("Erik", "")
	require.NoError(t, s.Book(ctx, 1000, "opening"))

	interest := s.AccrueInterest()

	assert.True(t, d("32.5").Equal(interest))
	assert.True(t, d("1032.5").Equal(s.Balance()))
	last := entries(s)[1]
	assert.Equal(t, ledger.EUR, last.Currency)
	assert.Equal(t, "interest (3.25 %)", last.Memo)
}

func TestSavings_AccrueTwiceCompounds(t *testing.T) {
	ctx := context.Background()
	s := testBank().NewSavings("Erik", "")
	s.InterestRate = d("0.1")
	require.NoError(t, s.Book(ctx, 100, "opening"))

	s.AccrueInterest()
	s.AccrueInterest()

	assert.True(t, d("121").Equal(s.Balance()))
	assert.Equal(t, "interest (10.00 %)", entries(s)[2].Memo)
}

func TestSavings_IsEuroOnly(t *testing.T) {
	ctx := context.Background()
	bank := testBank()
	s := bank.NewSavings("Erik", "")
	b := bank.NewMultiCurrency("Malte", "")
	require.NoError(t, b.Book(ctx, 1000, "opening"))

	assert.ErrorIs(t, s.Book(ctx, "5 GBP", "pounds"), ledger.ErrNonEuroBooking)
	assert.False(t, s.AcceptsCurrency("GBP"))

	require.NoError(t, b.Transfer(ctx, s, "8 GBP", "gift"))
	assert.True(t, d("10").Equal(s.Balance()))

	require.NoError(t, s.Transfer(ctx, b, 4, "back"))
	assert.True(t, d("6").Equal(s.Balance()))
}

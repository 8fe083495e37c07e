package statement

import (
	"bytes"
	"iter"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-currency-ledger"
)

type fixed struct {
	entries []ledger.Entry
}

func (f fixed) Holder() string { return "Arasp" }
func (f fixed) ID() string     { return "DE 0102 0304 0506 0708 0910" }
func (f fixed) Entries() iter.Seq2[int, ledger.Entry] {
	return func(yield func(int, ledger.Entry) bool) {
		for i, e := range f.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDisplay(t *testing.T) {
	tests := []struct {
		amount string
		code   ledger.Currency
		want   string
	}{
		{"1000", "EUR", "€1,000.00"},
		{"-12.5", "USD", "-$12.50"},
		{"1000", "JPY", "¥1,000"},
		{"3.14", "XYZ", "3.14 XYZ"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, Display(d(tt.amount), tt.code))
		})
	}
}

func TestPrinter_Write(t *testing.T) {
	l := fixed{entries: []ledger.Entry{
		{Amount: d("1000"), Currency: "EUR", Memo: "opening"},
		{Amount: d("-100"), Currency: "EUR", Memo: "transfer to Malte: a memo that is far too long for the column"},
	}}
	var buf bytes.Buffer

	require.NoError(t, Printer{MemoWidth: 20}.Write(&buf, l, ledger.FormatAmount(d("900"), ledger.EUR)))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Arasp / DE 0102 0304 0506 0708 0910")
	assert.Equal(t, "    1. -        €1,000.00 - opening             ", lines[1])
	assert.Equal(t, "    2. -         -€100.00 - transfer to Malte: a", lines[2])
	assert.Equal(t, "=          900.00 EUR", lines[3])
	assert.NotContains(t, buf.String(), "\033[")
}

func TestPrinter_Color(t *testing.T) {
	l := fixed{entries: []ledger.Entry{
		{Amount: d("5"), Currency: "EUR", Memo: "in"},
		{Amount: d("-5"), Currency: "EUR", Memo: "out"},
	}}
	var buf bytes.Buffer

	require.NoError(t, Printer{Color: true}.Write(&buf, l, "0"))

	lines := strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[1], ansiEven))
	assert.True(t, strings.HasPrefix(lines[2], ansiOdd))
	assert.NotContains(t, lines[1], ansiRed)
	assert.Contains(t, lines[2], ansiRed)
}

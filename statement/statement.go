// Package statement renders an account ledger for a terminal.
package statement

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

// Ledger is what a statement shows, every account kind satisfies it.
type Ledger interface {
	Holder() string
	ID() string
	Entries() iter.Seq2[int, ledger.Entry]
}

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiHeader = "\033[48;5;241m"
	ansiEven   = "\033[48;5;237m"
	ansiOdd    = "\033[48;5;236m"
)

// Printer writes statements. The zero value prints without colors and 40 character memos.
type Printer struct {
	// Color enables ANSI colors: shaded rows and red debits.
	Color bool
	// MemoWidth memos are padded or truncated to this many characters.
	MemoWidth int
}

// Write prints the header, one line per entry and the balance line.
func (p Printer) Write(w io.Writer, l Ledger, balance string) error {
	width := p.MemoWidth
	if width <= 0 {
		width = 40
	}

	header := fmt.Sprintf("%-6v - %16v - %v  %v / %v", "No.", "Amount", fit("Memo", width), l.Holder(), l.ID())
	if _, err := fmt.Fprintln(w, p.paint(ansiHeader, header)); err != nil {
		return err
	}

	for i, e := range l.Entries() {
		amount := fmt.Sprintf("%16v", Display(e.Amount, e.Currency))
		if p.Color && e.Amount.IsNegative() {
			amount = ansiRed + amount + ansiReset + shade(i)
		}
		line := fmt.Sprintf("%5d. - %v - %v", i+1, amount, fit(e.Memo, width))
		if _, err := fmt.Fprintln(w, p.paint(shade(i), line)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "=    %v\n", balance)
	return err
}

func (p Printer) paint(code, s string) string {
	if !p.Color {
		return s
	}
	return code + s + ansiReset
}

func shade(i int) string {
	if i%2 == 0 {
		return ansiEven
	}
	return ansiOdd
}

// fit pads or truncates s to width characters.
func fit(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

// Display formats amount the way its currency is usually written, "€1,000.00" or "¥1,000".
// Currencies go-money does not know fall back to "1000.00 XYZ".
func Display(amount decimal.Decimal, code ledger.Currency) string {
	cur := money.GetCurrency(string(code))
	if cur == nil {
		return fmt.Sprintf("%v %v", amount.StringFixed(2), code)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

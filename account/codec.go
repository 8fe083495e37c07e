package account

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

const (
	kindMulti   = "multi"
	kindSavings = "savings"
)

// document is the persisted form of an account.
type document struct {
	Holder       string       `json:"inhaber"`
	ID           string       `json:"iban"`
	Entries      []entryTuple `json:"buchungen"`
	Kind         string       `json:"kind,omitempty"`
	InterestRate json.Number  `json:"zinssatz,omitempty"`
}

// entryTuple encodes an entry as [amount, currency, memo].
type entryTuple ledger.Entry

func (e entryTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{json.Number(e.Amount.String()), e.Currency, e.Memo})
}

func (e *entryTuple) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("entry needs amount, currency and memo, got %d values", len(raw))
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(raw[0]); err != nil {
		return fmt.Errorf("entry amount: %w", err)
	}
	var cur ledger.Currency
	if err := json.Unmarshal(raw[1], &cur); err != nil {
		return fmt.Errorf("entry currency: %w", err)
	}
	var memo string
	if err := json.Unmarshal(raw[2], &memo); err != nil {
		return fmt.Errorf("entry memo: %w", err)
	}
	*e = entryTuple(ledger.Entry{Amount: amount, Currency: cur, Memo: memo})
	return nil
}

// Marshal encodes a as {"inhaber", "iban", "buchungen": [[amount, currency, memo], ...]}.
// Multi-currency and savings accounts add their kind, savings also their rate.
func Marshal(a Account) ([]byte, error) {
	doc := document{
		Holder:  a.Holder(),
		ID:      a.ID(),
		Entries: []entryTuple{},
	}
	for _, e := range a.Entries() {
		doc.Entries = append(doc.Entries, entryTuple(e))
	}
	switch v := a.(type) {
	case *MultiCurrency:
		doc.Kind = kindMulti
	case *Savings:
		doc.Kind = kindSavings
		doc.InterestRate = json.Number(v.InterestRate.String())
	}
	return json.MarshalIndent(doc, "", "    ")
}

// Unmarshal rebuilds an account from what Marshal produced, entries in the same order.
func (b *Bank) Unmarshal(data []byte) (Account, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding account: %w", err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("decoding account: missing iban")
	}

	entries := make([]ledger.Entry, len(doc.Entries))
	for i, e := range doc.Entries {
		entries[i] = ledger.NewEntry(e.Amount, e.Currency, e.Memo)
	}

	var a Account
	switch doc.Kind {
	case "":
		a = b.NewBasic(doc.Holder, doc.ID)
	case kindMulti:
		a = b.NewMultiCurrency(doc.Holder, doc.ID)
	case kindSavings:
		s := b.NewSavings(doc.Holder, doc.ID)
		if doc.InterestRate != "" {
			rate, err := decimal.NewFromString(doc.InterestRate.String())
			if err != nil {
				return nil, fmt.Errorf("decoding account: zinssatz: %w", err)
			}
			s.InterestRate = rate
		}
		a = s
	default:
		return nil, fmt.Errorf("decoding account: unknown kind %q", doc.Kind)
	}
	// not shared with anyone yet, no lock needed
	a.base().entries = entries
	return a, nil
}

// Clone copies a through its persisted form. The copy keeps the identifier and owns its entries.
func (b *Bank) Clone(a Account) (Account, error) {
	data, err := Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	return b.Unmarshal(data)
}

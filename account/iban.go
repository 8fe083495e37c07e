package account

import (
	"strings"

	"github.com/jaevor/go-nanoid"
)

// digits draws the 20 digits of an external id.
var digits = mustDigits()

func mustDigits() func() string {
	generate, err := nanoid.CustomASCII("0123456789", 20)
	if err != nil {
		panic(err)
	}
	return generate
}

// NewExternalID returns a German looking account identifier, "DE" followed by five groups of
// four digits. The check digits are random, it is not a valid IBAN.
func NewExternalID() string {
	d := digits()
	var b strings.Builder
	b.WriteString("DE")
	for i := 0; i < len(d); i += 4 {
		b.WriteByte(' ')
		b.WriteString(d[i : i+4])
	}
	return b.String()
}

// file: internals/helpers/money.go
package helper

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatPeso renders a decimal as the UI expects it: peso sign, thousands
// separators, exactly two decimals. Negative values keep the sign in front
// of the peso symbol ("-₱50.00").
func FormatPeso(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "₱" + b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPaymentDate matches the old client's expectation: a timestamp at
// exactly midnight means the entry was backfilled without time data.
func FormatPaymentDate(t time.Time) string {
	local := t.Local()
	if local.Hour() == 0 && local.Minute() == 0 && local.Second() == 0 {
		return local.Format("January 02, 2006") + " - No time data"
	}
	return local.Format("January 02, 2006 - 3:04 PM")
}

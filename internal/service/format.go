package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount in guaraníes: "." as thousands separator
// and a trailing "Gs" unit. Whole amounts drop their fractional part entirely;
// non-integral amounts keep their fractional digits exactly as supplied — no
// rounding, ever.
//
//	500000     → "500.000 Gs"
//	1200000    → "1.200.000 Gs"
//	150        → "150 Gs"
//	1000000.50 → "1.000.000.50 Gs"
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.String()

	var b strings.Builder
	if strings.HasPrefix(s, "-") {
		b.WriteByte('-')
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	if hasFrac && !amount.IsInteger() {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	b.WriteString(" Gs")
	return b.String()
}

package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Display layouts. Formatting is locale-fixed so exports are reproducible.
const (
	DisplayDateLayout     = "02/01/2006"
	DisplayDateTimeLayout = "02/01/2006 15:04"
	placeholder           = "-"
)

// FormatMoney renders an amount as $1,234.56
func FormatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + "$" + groupThousands(intPart) + "." + decPart
}

// FormatQuantity renders a quantity without trailing zeros and with thousands separators
func FormatQuantity(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	intPart, decPart, hasDec := strings.Cut(d.String(), ".")
	out := sign + groupThousands(intPart)
	if hasDec {
		out += "." + decPart
	}
	return out
}

// FormatCount renders an integer count with thousands separators
func FormatCount(n int64) string {
	return FormatQuantity(decimal.NewFromInt(n))
}

// FormatDate renders DD/MM/YYYY, or a dash for the zero time
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format(DisplayDateLayout)
}

// FormatDateTime renders DD/MM/YYYY HH:MM, or a dash for the zero time
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.Format(DisplayDateTimeLayout)
}

// FormatLabel title-cases a payload enum such as a payment method or status.
// A Caser holds state, so each call gets its own.
func FormatLabel(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return placeholder
	}
	return cases.Title(language.Spanish).String(s)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func groupThousands(digits string) string {
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
